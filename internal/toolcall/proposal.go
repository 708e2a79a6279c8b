package toolcall

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ProposalState is the lifecycle state of a proposal.
type ProposalState string

const (
	ProposalPending   ProposalState = "pending"
	ProposalConfirmed ProposalState = "confirmed"
	ProposalRejected  ProposalState = "rejected"
	ProposalApplied   ProposalState = "applied"
	ProposalFailed    ProposalState = "failed"
)

// IsTerminal reports whether no further transitions are allowed.
func (s ProposalState) IsTerminal() bool {
	switch s {
	case ProposalRejected, ProposalApplied, ProposalFailed:
		return true
	default:
		return false
	}
}

// canTransitionTo encodes the lifecycle: pending -> {confirmed, rejected},
// confirmed -> {applied, failed}.
func (s ProposalState) canTransitionTo(next ProposalState) bool {
	switch s {
	case ProposalPending:
		return next == ProposalConfirmed || next == ProposalRejected
	case ProposalConfirmed:
		return next == ProposalApplied || next == ProposalFailed
	default:
		return false
	}
}

// Proposal wraps one tool call as it moves from received to
// applied/rejected. A proposal only comes into existence once the call has
// passed structural validation; malformed calls are reported straight back
// to the agent instead.
type Proposal struct {
	ID           string
	Call         ToolCall
	Params       Params
	State        ProposalState
	Validation   *ValidationResult
	HumanSummary string

	// BaseVersion is the snapshot version the proposal was validated
	// against; compared at apply time for optimistic concurrency.
	BaseVersion uint64
	// AppliedVersion is the snapshot version the apply produced.
	AppliedVersion uint64

	FailureReason string
	CreatedAt     time.Time
	DecidedAt     *time.Time
}

// NewProposal creates a pending proposal for a structurally valid call.
func NewProposal(call ToolCall, params Params, validation *ValidationResult, summary string, baseVersion uint64) *Proposal {
	return &Proposal{
		ID:           uuid.NewString(),
		Call:         call,
		Params:       params,
		State:        ProposalPending,
		Validation:   validation,
		HumanSummary: summary,
		BaseVersion:  baseVersion,
		CreatedAt:    time.Now().UTC(),
	}
}

// TransitionTo moves the proposal through its lifecycle, rejecting illegal
// transitions with a typed error. Re-deciding an applied proposal is
// reported as AlreadyApplied so callers can tell the double-apply case
// apart from other illegal transitions.
func (p *Proposal) TransitionTo(next ProposalState, now time.Time) error {
	if !p.State.canTransitionTo(next) {
		if p.State == ProposalApplied {
			return fmt.Errorf("%w: proposal %s", ErrAlreadyApplied, p.ID)
		}
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, p.State, next)
	}

	p.State = next
	if next == ProposalConfirmed || next == ProposalRejected {
		decidedAt := now.UTC()
		p.DecidedAt = &decidedAt
	}
	return nil
}
