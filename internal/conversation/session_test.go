//go:build !integration

package conversation_test

import (
	"errors"
	"io"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/alex-galey/coach-mcp/internal/conversation"
	"github.com/alex-galey/coach-mcp/internal/program"
	"github.com/alex-galey/coach-mcp/internal/toolcall"
)

func createTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func buildSnapshot() program.Program {
	p := program.New("Strength Block")
	p.Weeks = []program.Week{
		{
			ID:     "week-1",
			Number: 1,
			Sessions: []program.Session{
				{
					ID:    "sess-push",
					Title: "Push Day",
					Exercises: []program.Exercise{
						{
							ID:   "ex-bench",
							Name: "Bench Press",
							Sets: []program.Set{
								{ID: "set-1", Prescribed: program.SetMetrics{Reps: 5, Weight: 100, RIR: 2}},
							},
						},
					},
				},
			},
		},
	}
	return p
}

var _ = Describe("Session", func() {
	var session *conversation.Session

	newSession := func(maxPending int) *conversation.Session {
		registry := toolcall.NewRegistry()
		return conversation.NewSession(
			buildSnapshot(),
			toolcall.NewValidator(registry),
			toolcall.NewApplier(),
			createTestLogger(),
			maxPending,
		)
	}

	BeforeEach(func() {
		session = newSession(10)
	})

	Describe("Propose", func() {
		It("should hold a valid call as a pending proposal without touching the program", func() {
			proposal, err := session.Propose(toolcall.ToolCall{
				Name:   toolcall.ToolAddExercise,
				Params: map[string]any{"session_id": "sess-push", "name": "Incline Press"},
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(proposal.State).To(Equal(toolcall.ProposalPending))
			Expect(proposal.Validation.IsValid).To(BeTrue())
			Expect(proposal.HumanSummary).To(ContainSubstring("Incline Press"))
			Expect(proposal.BaseVersion).To(Equal(uint64(0)))

			snapshot := session.Snapshot()
			Expect(snapshot.Version).To(Equal(uint64(0)))
			Expect(snapshot.Weeks[0].Sessions[0].Exercises).To(HaveLen(1))
		})

		It("should refuse unknown tools without creating a proposal", func() {
			_, err := session.Propose(toolcall.ToolCall{
				Name:   toolcall.ToolName("drop_table"),
				Params: map[string]any{},
			})

			Expect(err).To(MatchError(toolcall.ErrUnknownTool))
			Expect(session.Proposals()).To(BeEmpty())
		})

		It("should refuse structurally invalid calls without creating a proposal", func() {
			_, err := session.Propose(toolcall.ToolCall{
				Name:   toolcall.ToolAddExercise,
				Params: map[string]any{"session_id": "sess-push"},
			})

			var validationErr *toolcall.ValidationFailedError
			Expect(errors.As(err, &validationErr)).To(BeTrue())
			Expect(session.Proposals()).To(BeEmpty())
		})

		It("should hold referentially invalid calls as proposals carrying the reasons", func() {
			proposal, err := session.Propose(toolcall.ToolCall{
				Name:   toolcall.ToolRemoveExercise,
				Params: map[string]any{"exercise_id": "ex-ghost"},
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(proposal.State).To(Equal(toolcall.ProposalPending))
			Expect(proposal.Validation.IsValid).To(BeFalse())
		})

		It("should enforce the pending proposal limit", func() {
			session = newSession(1)

			_, err := session.Propose(toolcall.ToolCall{
				Name:   toolcall.ToolAddExercise,
				Params: map[string]any{"session_id": "sess-push", "name": "Incline Press"},
			})
			Expect(err).ToNot(HaveOccurred())

			_, err = session.Propose(toolcall.ToolCall{
				Name:   toolcall.ToolAddExercise,
				Params: map[string]any{"session_id": "sess-push", "name": "Dips"},
			})
			Expect(err).To(MatchError(conversation.ErrTooManyPending))
		})
	})

	Describe("Confirm", func() {
		It("should apply the proposal and advance the version", func() {
			proposal, err := session.Propose(toolcall.ToolCall{
				Name:   toolcall.ToolAddExercise,
				Params: map[string]any{"session_id": "sess-push", "name": "Incline Press"},
			})
			Expect(err).ToNot(HaveOccurred())

			applied, err := session.Confirm(proposal.ID)

			Expect(err).ToNot(HaveOccurred())
			Expect(applied.State).To(Equal(toolcall.ProposalApplied))
			Expect(applied.AppliedVersion).To(Equal(uint64(1)))

			snapshot := session.Snapshot()
			Expect(snapshot.Version).To(Equal(uint64(1)))
			Expect(snapshot.Weeks[0].Sessions[0].Exercises).To(HaveLen(2))
		})

		It("should fail for an unknown proposal id", func() {
			_, err := session.Confirm("prop-ghost")
			Expect(err).To(MatchError(toolcall.ErrProposalNotFound))
		})

		It("should report a second confirmation as already applied", func() {
			proposal, _ := session.Propose(toolcall.ToolCall{
				Name:   toolcall.ToolAddExercise,
				Params: map[string]any{"session_id": "sess-push", "name": "Incline Press"},
			})
			_, err := session.Confirm(proposal.ID)
			Expect(err).ToNot(HaveOccurred())

			_, err = session.Confirm(proposal.ID)
			Expect(err).To(MatchError(toolcall.ErrAlreadyApplied))
			Expect(session.Snapshot().Version).To(Equal(uint64(1)))
		})

		It("should fail a proposal whose reasons never cleared", func() {
			proposal, _ := session.Propose(toolcall.ToolCall{
				Name:   toolcall.ToolRemoveExercise,
				Params: map[string]any{"exercise_id": "ex-ghost"},
			})

			_, err := session.Confirm(proposal.ID)

			var validationErr *toolcall.ValidationFailedError
			Expect(errors.As(err, &validationErr)).To(BeTrue())
			Expect(proposal.State).To(Equal(toolcall.ProposalFailed))
			Expect(proposal.FailureReason).ToNot(BeEmpty())
			Expect(session.Snapshot().Version).To(Equal(uint64(0)))
		})

		It("should fail a proposal validated against an older snapshot", func() {
			first, _ := session.Propose(toolcall.ToolCall{
				Name:   toolcall.ToolAddExercise,
				Params: map[string]any{"session_id": "sess-push", "name": "Incline Press"},
			})
			second, _ := session.Propose(toolcall.ToolCall{
				Name:   toolcall.ToolAddExercise,
				Params: map[string]any{"session_id": "sess-push", "name": "Dips"},
			})

			_, err := session.Confirm(first.ID)
			Expect(err).ToNot(HaveOccurred())

			_, err = session.Confirm(second.ID)
			Expect(err).To(MatchError(toolcall.ErrStaleSnapshot))
			Expect(second.State).To(Equal(toolcall.ProposalFailed))

			snapshot := session.Snapshot()
			Expect(snapshot.Version).To(Equal(uint64(1)))
			Expect(snapshot.Weeks[0].Sessions[0].Exercises).To(HaveLen(2))
		})
	})

	Describe("Reject", func() {
		It("should record the decision and leave the program untouched", func() {
			proposal, _ := session.Propose(toolcall.ToolCall{
				Name:   toolcall.ToolRemoveExercise,
				Params: map[string]any{"exercise_id": "ex-bench"},
			})

			rejected, err := session.Reject(proposal.ID)

			Expect(err).ToNot(HaveOccurred())
			Expect(rejected.State).To(Equal(toolcall.ProposalRejected))
			Expect(session.Snapshot().Version).To(Equal(uint64(0)))

			_, ok := session.Snapshot().FindExercise("ex-bench")
			Expect(ok).To(BeTrue())
		})

		It("should refuse to re-decide a rejected proposal", func() {
			proposal, _ := session.Propose(toolcall.ToolCall{
				Name:   toolcall.ToolRemoveExercise,
				Params: map[string]any{"exercise_id": "ex-bench"},
			})
			_, err := session.Reject(proposal.ID)
			Expect(err).ToNot(HaveOccurred())

			_, err = session.Reject(proposal.ID)
			Expect(err).To(MatchError(toolcall.ErrInvalidTransition))

			_, err = session.Confirm(proposal.ID)
			Expect(err).To(MatchError(toolcall.ErrInvalidTransition))
		})
	})

	Describe("Listing", func() {
		It("should list proposals in creation order", func() {
			first, _ := session.Propose(toolcall.ToolCall{
				Name:   toolcall.ToolAddExercise,
				Params: map[string]any{"session_id": "sess-push", "name": "Incline Press"},
			})
			second, _ := session.Propose(toolcall.ToolCall{
				Name:   toolcall.ToolAddExercise,
				Params: map[string]any{"session_id": "sess-push", "name": "Dips"},
			})

			views := session.Proposals()
			Expect(views).To(HaveLen(2))
			Expect(views[0].ID).To(Equal(first.ID))
			Expect(views[1].ID).To(Equal(second.ID))
		})

		It("should only include undecided proposals in Pending", func() {
			first, _ := session.Propose(toolcall.ToolCall{
				Name:   toolcall.ToolAddExercise,
				Params: map[string]any{"session_id": "sess-push", "name": "Incline Press"},
			})
			second, _ := session.Propose(toolcall.ToolCall{
				Name:   toolcall.ToolAddExercise,
				Params: map[string]any{"session_id": "sess-push", "name": "Dips"},
			})

			_, err := session.Reject(first.ID)
			Expect(err).ToNot(HaveOccurred())

			pending := session.Pending()
			Expect(pending).To(HaveLen(1))
			Expect(pending[0].ID).To(Equal(second.ID))
		})
	})

	Describe("EndTurn", func() {
		It("should abandon pending proposals and drop decided ones", func() {
			pending, _ := session.Propose(toolcall.ToolCall{
				Name:   toolcall.ToolAddExercise,
				Params: map[string]any{"session_id": "sess-push", "name": "Incline Press"},
			})
			decided, _ := session.Propose(toolcall.ToolCall{
				Name:   toolcall.ToolAddExercise,
				Params: map[string]any{"session_id": "sess-push", "name": "Dips"},
			})
			_, err := session.Reject(decided.ID)
			Expect(err).ToNot(HaveOccurred())

			abandoned := session.EndTurn()

			Expect(abandoned).To(Equal(1))
			Expect(pending.State).To(Equal(toolcall.ProposalRejected))
			Expect(session.Proposals()).To(BeEmpty())
		})

		It("should free capacity for the next turn", func() {
			session = newSession(1)
			_, err := session.Propose(toolcall.ToolCall{
				Name:   toolcall.ToolAddExercise,
				Params: map[string]any{"session_id": "sess-push", "name": "Incline Press"},
			})
			Expect(err).ToNot(HaveOccurred())

			session.EndTurn()

			_, err = session.Propose(toolcall.ToolCall{
				Name:   toolcall.ToolAddExercise,
				Params: map[string]any{"session_id": "sess-push", "name": "Dips"},
			})
			Expect(err).ToNot(HaveOccurred())
		})
	})
})
