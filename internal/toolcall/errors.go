package toolcall

import (
	"errors"
	"fmt"
	"strings"
)

// Tool call and proposal lifecycle errors
var (
	ErrUnknownTool       = errors.New("unknown tool")
	ErrProposalNotFound  = errors.New("proposal not found")
	ErrAlreadyApplied    = errors.New("proposal already applied")
	ErrStaleSnapshot     = errors.New("program changed since the proposal was validated")
	ErrInvalidTransition = errors.New("invalid proposal state transition")
	ErrApplyFailed       = errors.New("mutation left the program in an invalid state")
)

// ValidationFailedError carries the structured reasons of a failed
// validation pass so the caller can show exactly what is unworkable.
type ValidationFailedError struct {
	Result *ValidationResult
}

func (e *ValidationFailedError) Error() string {
	reasons := make([]string, 0, len(e.Result.Errors))
	for _, ve := range e.Result.Errors {
		reasons = append(reasons, fmt.Sprintf("%s: %s", ve.Field, ve.Message))
	}
	return "validation failed: " + strings.Join(reasons, "; ")
}
