package conversation

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alex-galey/coach-mcp/internal/program"
	"github.com/alex-galey/coach-mcp/internal/toolcall"
)

// ErrTooManyPending is returned when a conversation already holds its
// configured maximum of undecided proposals.
var ErrTooManyPending = errors.New("too many pending proposals")

// ProposalView is the shape exposed to the confirmation UI for one
// proposal.
type ProposalView struct {
	ID           string                     `json:"id"`
	ToolName     toolcall.ToolName          `json:"tool_name"`
	State        toolcall.ProposalState     `json:"state"`
	HumanSummary string                     `json:"human_summary"`
	Validation   *toolcall.ValidationResult `json:"validation"`
}

// Session owns one program snapshot and the proposals of one conversation.
// There is no shared mutable state across sessions; within a session all
// proposal work is synchronous, and apply attempts are serialized by the
// session mutex so two confirmations can never race on the same root.
type Session struct {
	validator  *toolcall.Validator
	applier    *toolcall.Applier
	logger     *slog.Logger
	maxPending int

	mu        sync.Mutex
	snapshot  program.Program
	proposals map[string]*toolcall.Proposal
	order     []string
}

// NewSession creates a conversation session around an initial snapshot.
func NewSession(snapshot program.Program, validator *toolcall.Validator, applier *toolcall.Applier, logger *slog.Logger, maxPending int) *Session {
	return &Session{
		validator:  validator,
		applier:    applier,
		logger:     logger,
		maxPending: maxPending,
		snapshot:   snapshot,
		proposals:  make(map[string]*toolcall.Proposal),
	}
}

// Snapshot returns the current program snapshot. The returned value is safe
// to hold across later applies because snapshots are immutable.
func (s *Session) Snapshot() program.Program {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// Propose validates a tool call and, if it is structurally sound, holds it
// as a pending proposal. Unknown tools and malformed parameters are
// reported back to the agent and never create a proposal; referential
// problems are recorded on the proposal so the user can see exactly why it
// cannot be applied.
func (s *Session) Propose(call toolcall.ToolCall) (*toolcall.Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	params, result, err := s.validator.ValidateStructural(call)
	if err != nil {
		s.logger.Warn("Rejected tool call for unknown tool", "tool", call.Name)
		return nil, err
	}
	if !result.IsValid {
		s.logger.Warn("Rejected structurally invalid tool call",
			"tool", call.Name,
			"reasons", len(result.Errors))
		return nil, &toolcall.ValidationFailedError{Result: result}
	}

	if s.pendingCountLocked() >= s.maxPending {
		return nil, fmt.Errorf("%w: limit is %d", ErrTooManyPending, s.maxPending)
	}

	result.Merge(s.validator.ValidateReferential(params, s.snapshot))

	summary := toolcall.BuildSummary(params, s.snapshot)
	proposal := toolcall.NewProposal(call, params, result, summary, s.snapshot.Version)
	s.proposals[proposal.ID] = proposal
	s.order = append(s.order, proposal.ID)

	s.logger.Info("Proposal created",
		"proposal_id", proposal.ID,
		"tool", call.Name,
		"valid", result.IsValid,
		"base_version", proposal.BaseVersion)

	return proposal, nil
}

// Confirm records the user's affirmative decision and attempts to apply the
// proposal. Full validation runs again against the current snapshot because
// the program may have changed since the proposal was created; any failure
// here transitions the proposal to failed with a recorded reason and is
// never retried automatically.
func (s *Session) Confirm(id string) (*toolcall.Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	proposal, ok := s.proposals[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", toolcall.ErrProposalNotFound, id)
	}

	now := time.Now()
	if err := proposal.TransitionTo(toolcall.ProposalConfirmed, now); err != nil {
		return proposal, err
	}

	if proposal.BaseVersion != s.snapshot.Version {
		err := fmt.Errorf("%w: validated against version %d, current is %d",
			toolcall.ErrStaleSnapshot, proposal.BaseVersion, s.snapshot.Version)
		s.failLocked(proposal, err.Error(), now)
		return proposal, err
	}

	result := s.validator.ValidateReferential(proposal.Params, s.snapshot)
	if !result.IsValid {
		err := &toolcall.ValidationFailedError{Result: result}
		s.failLocked(proposal, err.Error(), now)
		return proposal, err
	}

	next, err := s.applier.Apply(s.snapshot, proposal.Params)
	if err != nil {
		// Apply failures after a clean re-validation indicate drift between
		// validator and applier; the snapshot is left in its last known
		// good state and the failure is logged as a defect.
		s.logger.Error("Apply failed after successful validation",
			"proposal_id", proposal.ID,
			"tool", proposal.Call.Name,
			"error", err)
		s.failLocked(proposal, err.Error(), now)
		return proposal, err
	}

	s.snapshot = next.Bumped(now)
	if err := proposal.TransitionTo(toolcall.ProposalApplied, now); err != nil {
		return proposal, err
	}
	proposal.AppliedVersion = s.snapshot.Version

	s.logger.Info("Proposal applied",
		"proposal_id", proposal.ID,
		"tool", proposal.Call.Name,
		"version", s.snapshot.Version)

	return proposal, nil
}

// Reject records the user's negative decision; the snapshot is untouched.
func (s *Session) Reject(id string) (*toolcall.Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	proposal, ok := s.proposals[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", toolcall.ErrProposalNotFound, id)
	}

	if err := proposal.TransitionTo(toolcall.ProposalRejected, time.Now()); err != nil {
		return proposal, err
	}

	s.logger.Info("Proposal rejected", "proposal_id", proposal.ID, "tool", proposal.Call.Name)
	return proposal, nil
}

// Get returns the proposal with the given id.
func (s *Session) Get(id string) (*toolcall.Proposal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	proposal, ok := s.proposals[id]
	return proposal, ok
}

// Proposals lists all proposals of the conversation in creation order.
func (s *Session) Proposals() []ProposalView {
	s.mu.Lock()
	defer s.mu.Unlock()

	views := make([]ProposalView, 0, len(s.order))
	for _, id := range s.order {
		if proposal, ok := s.proposals[id]; ok {
			views = append(views, viewOf(proposal))
		}
	}
	return views
}

// Pending lists the proposals still awaiting a decision.
func (s *Session) Pending() []ProposalView {
	s.mu.Lock()
	defer s.mu.Unlock()

	views := make([]ProposalView, 0)
	for _, id := range s.order {
		if proposal, ok := s.proposals[id]; ok && proposal.State == toolcall.ProposalPending {
			views = append(views, viewOf(proposal))
		}
	}
	return views
}

// EndTurn advances the conversation turn: pending proposals are abandoned
// as rejected (no decision arrived) and terminal proposals are dropped so
// they become eligible for garbage collection. It returns the number of
// abandoned proposals.
func (s *Session) EndTurn() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	abandoned := 0
	for _, proposal := range s.proposals {
		if proposal.State == toolcall.ProposalPending {
			if err := proposal.TransitionTo(toolcall.ProposalRejected, now); err == nil {
				abandoned++
			}
		}
	}

	kept := make([]string, 0)
	for _, id := range s.order {
		proposal, ok := s.proposals[id]
		if !ok {
			continue
		}
		if proposal.State.IsTerminal() {
			delete(s.proposals, id)
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept

	if abandoned > 0 {
		s.logger.Info("Abandoned pending proposals at end of turn", "count", abandoned)
	}
	return abandoned
}

func (s *Session) failLocked(proposal *toolcall.Proposal, reason string, now time.Time) {
	proposal.FailureReason = reason
	if err := proposal.TransitionTo(toolcall.ProposalFailed, now); err != nil {
		s.logger.Error("Could not mark proposal as failed",
			"proposal_id", proposal.ID,
			"error", err)
	}
}

func (s *Session) pendingCountLocked() int {
	count := 0
	for _, proposal := range s.proposals {
		if proposal.State == toolcall.ProposalPending {
			count++
		}
	}
	return count
}

func viewOf(proposal *toolcall.Proposal) ProposalView {
	return ProposalView{
		ID:           proposal.ID,
		ToolName:     proposal.Call.Name,
		State:        proposal.State,
		HumanSummary: proposal.HumanSummary,
		Validation:   proposal.Validation,
	}
}
