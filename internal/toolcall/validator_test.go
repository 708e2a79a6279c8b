//go:build !integration

package toolcall_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/alex-galey/coach-mcp/internal/program"
	"github.com/alex-galey/coach-mcp/internal/toolcall"
)

// testProgram is the snapshot fixture shared by the validator and applier
// specs: one populated session, one empty session and one empty week.
func testProgram() program.Program {
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
								{ID: "set-2", Prescribed: program.SetMetrics{Reps: 5, Weight: 100, RIR: 1}},
							},
						},
						{
							ID:        "ex-curl",
							Name:      "Biceps Curl",
							Completed: true,
							Sets: []program.Set{
								{ID: "set-curl-1", Prescribed: program.SetMetrics{Reps: 12, Weight: 15, RIR: 2}, Completed: true},
							},
						},
					},
				},
				{
					ID:        "sess-pull",
					Title:     "Pull Day",
					Exercises: []program.Exercise{},
				},
			},
		},
		{
			ID:       "week-2",
			Number:   2,
			Sessions: []program.Session{},
		},
	}
	return p
}

func errorCodes(result *toolcall.ValidationResult) []string {
	codes := make([]string, 0, len(result.Errors))
	for _, e := range result.Errors {
		codes = append(codes, e.Code)
	}
	return codes
}

func warningCodes(result *toolcall.ValidationResult) []string {
	codes := make([]string, 0, len(result.Warnings))
	for _, w := range result.Warnings {
		codes = append(codes, w.Code)
	}
	return codes
}

var _ = Describe("Validator", func() {
	var validator *toolcall.Validator

	BeforeEach(func() {
		validator = toolcall.NewValidator(toolcall.NewRegistry())
	})

	Describe("ValidateStructural", func() {
		It("should report unknown tools as errors, not validation reasons", func() {
			_, _, err := validator.ValidateStructural(toolcall.ToolCall{
				Name:   toolcall.ToolName("drop_table"),
				Params: map[string]any{},
			})

			Expect(err).To(MatchError(toolcall.ErrUnknownTool))
		})

		DescribeTable("checking parameter shape against the schema",
			func(name toolcall.ToolName, args map[string]any, expectValid bool, expectedCode string) {
				params, result, err := validator.ValidateStructural(toolcall.ToolCall{Name: name, Params: args})

				Expect(err).ToNot(HaveOccurred())
				Expect(result.IsValid).To(Equal(expectValid))
				if expectValid {
					Expect(params).ToNot(BeNil())
					Expect(params.Tool()).To(Equal(name))
				} else {
					Expect(params).To(BeNil())
					Expect(errorCodes(result)).To(ContainElement(expectedCode))
				}
			},
			Entry("valid add_exercise",
				toolcall.ToolAddExercise,
				map[string]any{"session_id": "sess-push", "name": "Incline Press"},
				true, ""),
			Entry("valid modify_set with a single field",
				toolcall.ToolModifySet,
				map[string]any{"set_id": "set-1", "prescribed_weight": 102.5},
				true, ""),
			Entry("missing required field",
				toolcall.ToolAddExercise,
				map[string]any{"session_id": "sess-push"},
				false, "MISSING_FIELD"),
			Entry("unknown extra field",
				toolcall.ToolRemoveExercise,
				map[string]any{"exercise_id": "ex-bench", "cascade": true},
				false, "UNKNOWN_FIELD"),
			Entry("wrong type for a numeric field",
				toolcall.ToolAddSet,
				map[string]any{"exercise_id": "ex-bench", "reps": "five"},
				false, "INVALID_TYPE"),
			Entry("fractional value for an integer field",
				toolcall.ToolAddSet,
				map[string]any{"exercise_id": "ex-bench", "reps": 2.5},
				false, "INVALID_TYPE"),
			Entry("reps in reserve above the scale",
				toolcall.ToolAddSet,
				map[string]any{"exercise_id": "ex-bench", "reps": 5, "rir": 11},
				false, "OUT_OF_RANGE"),
			Entry("negative insertion position",
				toolcall.ToolAddExercise,
				map[string]any{"session_id": "sess-push", "name": "Dips", "position": -1},
				false, "OUT_OF_RANGE"),
			Entry("empty id",
				toolcall.ToolRemoveSession,
				map[string]any{"session_id": ""},
				false, "EMPTY_ID"),
			Entry("malformed date",
				toolcall.ToolAddSession,
				map[string]any{"week_id": "week-1", "title": "Leg Day", "date": "next tuesday"},
				false, "INVALID_DATE"),
			Entry("set prescription without reps",
				toolcall.ToolAddExercise,
				map[string]any{
					"session_id": "sess-push",
					"name":       "Incline Press",
					"sets":       []any{map[string]any{"weight": 60.0}},
				},
				false, "MISSING_FIELD"),
			Entry("set prescription with an unknown key",
				toolcall.ToolAddExercise,
				map[string]any{
					"session_id": "sess-push",
					"name":       "Incline Press",
					"sets":       []any{map[string]any{"reps": 8, "tempo": "3-1-1"}},
				},
				false, "UNKNOWN_FIELD"),
		)

		It("should warn about unusual but legal weights", func() {
			_, result, err := validator.ValidateStructural(toolcall.ToolCall{
				Name:   toolcall.ToolAddSet,
				Params: map[string]any{"exercise_id": "ex-bench", "reps": 1, "weight": 600.0},
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(result.IsValid).To(BeTrue())
			Expect(warningCodes(result)).To(ContainElement("HIGH_WEIGHT_WARNING"))
		})

		It("should warn when RIR zero prescribes training to failure", func() {
			_, result, err := validator.ValidateStructural(toolcall.ToolCall{
				Name:   toolcall.ToolAddSet,
				Params: map[string]any{"exercise_id": "ex-bench", "reps": 5, "rir": 0},
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(result.IsValid).To(BeTrue())
			Expect(warningCodes(result)).To(ContainElement("TRAINING_TO_FAILURE"))
		})
	})

	Describe("ValidateReferential", func() {
		var snapshot program.Program

		BeforeEach(func() {
			snapshot = testProgram()
		})

		It("should accept references that resolve", func() {
			result := validator.ValidateReferential(toolcall.AddExerciseParams{
				SessionID: "sess-push",
				Name:      "Incline Press",
			}, snapshot)

			Expect(result.IsValid).To(BeTrue())
			Expect(result.Errors).To(BeEmpty())
		})

		It("should reject a parent that does not exist", func() {
			result := validator.ValidateReferential(toolcall.AddExerciseParams{
				SessionID: "sess-ghost",
				Name:      "Incline Press",
			}, snapshot)

			Expect(result.IsValid).To(BeFalse())
			Expect(errorCodes(result)).To(ContainElement("PARENT_NOT_FOUND"))
		})

		It("should reject an entity that does not exist", func() {
			result := validator.ValidateReferential(toolcall.RemoveExerciseParams{
				ExerciseID: "ex-ghost",
			}, snapshot)

			Expect(result.IsValid).To(BeFalse())
			Expect(errorCodes(result)).To(ContainElement("NOT_FOUND"))
		})

		It("should reject a supplied parent that disagrees with the tree", func() {
			wrongParent := "sess-pull"
			result := validator.ValidateReferential(toolcall.RemoveExerciseParams{
				ExerciseID: "ex-bench",
				SessionID:  &wrongParent,
			}, snapshot)

			Expect(result.IsValid).To(BeFalse())
			Expect(errorCodes(result)).To(ContainElement("MISMATCHED_PARENT"))
		})

		It("should warn when removing a completed exercise", func() {
			result := validator.ValidateReferential(toolcall.RemoveExerciseParams{
				ExerciseID: "ex-curl",
			}, snapshot)

			Expect(result.IsValid).To(BeTrue())
			Expect(warningCodes(result)).To(ContainElement("REMOVING_COMPLETED"))
		})

		It("should warn when actuals are recorded on a set that stays incomplete", func() {
			reps := 5
			result := validator.ValidateReferential(toolcall.ModifySetParams{
				SetID:      "set-1",
				ActualReps: &reps,
			}, snapshot)

			Expect(result.IsValid).To(BeTrue())
			Expect(warningCodes(result)).To(ContainElement("ACTUAL_BEFORE_COMPLETION"))
		})

		It("should not warn when the same call also completes the set", func() {
			reps := 5
			completed := true
			result := validator.ValidateReferential(toolcall.ModifySetParams{
				SetID:      "set-1",
				ActualReps: &reps,
				Completed:  &completed,
			}, snapshot)

			Expect(result.IsValid).To(BeTrue())
			Expect(warningCodes(result)).ToNot(ContainElement("ACTUAL_BEFORE_COMPLETION"))
		})
	})

	Describe("Validate", func() {
		It("should run both layers and only report referential reasons for sound calls", func() {
			params, result, err := validator.Validate(toolcall.ToolCall{
				Name:   toolcall.ToolRemoveSet,
				Params: map[string]any{"set_id": "set-ghost"},
			}, testProgram())

			Expect(err).ToNot(HaveOccurred())
			Expect(params).ToNot(BeNil())
			Expect(result.IsValid).To(BeFalse())
			Expect(errorCodes(result)).To(ContainElement("NOT_FOUND"))
		})
	})
})
