package toolcall

import (
	"fmt"
	"time"

	"github.com/alex-galey/coach-mcp/internal/program"
)

// ValidationResult is the outcome of validating a tool call. Expected
// domain conditions (missing field, unknown id) are reported as structured
// reasons, never as faults.
type ValidationResult struct {
	IsValid  bool
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// ValidationError is one reason the call cannot be applied.
type ValidationError struct {
	Field   string
	Message string
	Code    string
}

// ValidationWarning is advisory and does not block application.
type ValidationWarning struct {
	Field   string
	Message string
	Code    string
}

func newValidationResult() *ValidationResult {
	return &ValidationResult{
		IsValid:  true,
		Errors:   make([]ValidationError, 0),
		Warnings: make([]ValidationWarning, 0),
	}
}

func (r *ValidationResult) addError(field, message, code string) {
	r.IsValid = false
	r.Errors = append(r.Errors, ValidationError{Field: field, Message: message, Code: code})
}

func (r *ValidationResult) addWarning(field, message, code string) {
	r.Warnings = append(r.Warnings, ValidationWarning{Field: field, Message: message, Code: code})
}

// Merge folds another result's reasons into this one.
func (r *ValidationResult) Merge(other *ValidationResult) {
	if !other.IsValid {
		r.IsValid = false
	}
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// Validator checks tool calls structurally against the schema registry and
// referentially against a program snapshot. The two layers are independent
// so either can be exercised alone.
type Validator struct {
	registry *Registry
}

// NewValidator creates a validator backed by the given registry.
func NewValidator(registry *Registry) *Validator {
	return &Validator{registry: registry}
}

// Validate runs both validation layers. The returned params are only usable
// when the result is valid.
func (v *Validator) Validate(call ToolCall, snapshot program.Program) (Params, *ValidationResult, error) {
	params, result, err := v.ValidateStructural(call)
	if err != nil {
		return nil, nil, err
	}
	if !result.IsValid {
		return nil, result, nil
	}
	result.Merge(v.ValidateReferential(params, snapshot))
	return params, result, nil
}

// ValidateStructural checks the call's parameter shape against the schema
// registry entry. Unknown tools are reported as an error, a distinct channel
// from validation reasons: they never create a proposal.
func (v *Validator) ValidateStructural(call ToolCall) (Params, *ValidationResult, error) {
	schema, err := v.registry.Get(call.Name)
	if err != nil {
		return nil, nil, err
	}

	result := newValidationResult()

	known := make(map[string]FieldSpec, len(schema.Fields))
	for _, field := range schema.Fields {
		known[field.Name] = field
	}

	// Unknown extra fields are rejected, not ignored, so drift between the
	// agent's output and the schema cannot pass silently.
	for name := range call.Params {
		if _, ok := known[name]; !ok {
			result.addError(name, fmt.Sprintf("field %q is not part of the %s schema", name, call.Name), "UNKNOWN_FIELD")
		}
	}

	for _, field := range schema.Fields {
		raw, present := call.Params[field.Name]
		if !present {
			if field.Required {
				result.addError(field.Name, fmt.Sprintf("required field %q is missing", field.Name), "MISSING_FIELD")
			}
			continue
		}
		v.checkField(field, raw, result)
	}

	if !result.IsValid {
		return nil, result, nil
	}
	return decodeParams(call.Name, call.Params), result, nil
}

func (v *Validator) checkField(field FieldSpec, raw any, result *ValidationResult) {
	switch field.Kind {
	case FieldID:
		s, ok := raw.(string)
		if !ok {
			result.addError(field.Name, "must be a string id", "INVALID_TYPE")
			return
		}
		if s == "" {
			result.addError(field.Name, "id must not be empty", "EMPTY_ID")
		}
	case FieldString:
		if _, ok := raw.(string); !ok {
			result.addError(field.Name, "must be a string", "INVALID_TYPE")
		}
	case FieldBool:
		if _, ok := raw.(bool); !ok {
			result.addError(field.Name, "must be a boolean", "INVALID_TYPE")
		}
	case FieldInt, FieldIndex:
		n, ok := numericValue(raw)
		if !ok || n != float64(int64(n)) {
			result.addError(field.Name, "must be an integer", "INVALID_TYPE")
			return
		}
		if field.Kind == FieldIndex && n < 0 {
			result.addError(field.Name, "position must not be negative", "OUT_OF_RANGE")
			return
		}
		v.checkRange(field, n, result)
	case FieldFloat:
		n, ok := numericValue(raw)
		if !ok {
			result.addError(field.Name, "must be a number", "INVALID_TYPE")
			return
		}
		v.checkRange(field, n, result)
	case FieldDate:
		s, ok := raw.(string)
		if !ok {
			result.addError(field.Name, "must be an RFC 3339 date string", "INVALID_TYPE")
			return
		}
		if _, err := time.Parse(time.RFC3339, s); err != nil {
			result.addError(field.Name, fmt.Sprintf("invalid date %q", s), "INVALID_DATE")
		}
	case FieldSetList:
		v.checkSetList(field, raw, result)
	}
}

func (v *Validator) checkRange(field FieldSpec, n float64, result *ValidationResult) {
	if field.Min != nil && n < *field.Min {
		result.addError(field.Name, fmt.Sprintf("must be at least %v", *field.Min), "OUT_OF_RANGE")
		return
	}
	if field.Max != nil && n > *field.Max {
		result.addError(field.Name, fmt.Sprintf("must be at most %v", *field.Max), "OUT_OF_RANGE")
		return
	}
	v.addFieldWarnings(field.Name, n, result)
}

// addFieldWarnings flags values that are legal but suspicious enough to
// show the user alongside the proposal.
func (v *Validator) addFieldWarnings(fieldName string, n float64, result *ValidationResult) {
	switch fieldName {
	case "weight", "prescribed_weight", "actual_weight":
		if n > 500 {
			result.addWarning(fieldName, "weight above 500 kg is unusual", "HIGH_WEIGHT_WARNING")
		}
	case "rir", "prescribed_rir":
		if n == 0 {
			result.addWarning(fieldName, "RIR 0 prescribes training to failure", "TRAINING_TO_FAILURE")
		}
	}
}

func (v *Validator) checkSetList(field FieldSpec, raw any, result *ValidationResult) {
	items, ok := raw.([]any)
	if !ok {
		result.addError(field.Name, "must be a list of set prescriptions", "INVALID_TYPE")
		return
	}

	for i, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			result.addError(fmt.Sprintf("%s[%d]", field.Name, i), "must be an object", "INVALID_TYPE")
			continue
		}
		for key := range entry {
			switch key {
			case "reps", "weight", "rir", "notes":
			default:
				result.addError(fmt.Sprintf("%s[%d].%s", field.Name, i, key), "unknown set prescription field", "UNKNOWN_FIELD")
			}
		}
		prefix := fmt.Sprintf("%s[%d]", field.Name, i)
		if reps, ok := entry["reps"]; ok {
			v.checkField(FieldSpec{Name: prefix + ".reps", Kind: FieldInt, Min: f(1)}, reps, result)
		} else {
			result.addError(prefix+".reps", "required field \"reps\" is missing", "MISSING_FIELD")
		}
		if w, ok := entry["weight"]; ok {
			v.checkField(FieldSpec{Name: prefix + ".weight", Kind: FieldFloat, Min: f(0)}, w, result)
		}
		if r, ok := entry["rir"]; ok {
			v.checkField(FieldSpec{Name: prefix + ".rir", Kind: FieldInt, Min: f(0), Max: f(10)}, r, result)
		}
		if n, ok := entry["notes"]; ok {
			v.checkField(FieldSpec{Name: prefix + ".notes", Kind: FieldString}, n, result)
		}
	}
}

// ValidateReferential checks every id reference against the live snapshot,
// including cross-field consistency between child and supplied parent ids.
func (v *Validator) ValidateReferential(params Params, snapshot program.Program) *ValidationResult {
	result := newValidationResult()

	switch p := params.(type) {
	case AddExerciseParams:
		if _, ok := snapshot.FindSession(p.SessionID); !ok {
			result.addError("session_id", fmt.Sprintf("session %q does not exist", p.SessionID), "PARENT_NOT_FOUND")
		}
	case RemoveExerciseParams:
		ref, ok := snapshot.FindExercise(p.ExerciseID)
		if !ok {
			result.addError("exercise_id", fmt.Sprintf("exercise %q does not exist", p.ExerciseID), "NOT_FOUND")
			return result
		}
		v.checkExerciseParent(ref, p.SessionID, result)
		if ref.Exercise.Completed {
			result.addWarning("exercise_id", "removing an exercise that is already completed", "REMOVING_COMPLETED")
		}
	case ModifyExerciseParams:
		ref, ok := snapshot.FindExercise(p.ExerciseID)
		if !ok {
			result.addError("exercise_id", fmt.Sprintf("exercise %q does not exist", p.ExerciseID), "NOT_FOUND")
			return result
		}
		v.checkExerciseParent(ref, p.SessionID, result)
	case AddSessionParams:
		if _, ok := snapshot.FindWeek(p.WeekID); !ok {
			result.addError("week_id", fmt.Sprintf("week %q does not exist", p.WeekID), "PARENT_NOT_FOUND")
		}
	case RemoveSessionParams:
		ref, ok := snapshot.FindSession(p.SessionID)
		if !ok {
			result.addError("session_id", fmt.Sprintf("session %q does not exist", p.SessionID), "NOT_FOUND")
			return result
		}
		if p.WeekID != nil && ref.Week.ID != *p.WeekID {
			result.addError("week_id", fmt.Sprintf("session %q belongs to week %q, not %q", p.SessionID, ref.Week.ID, *p.WeekID), "MISMATCHED_PARENT")
		}
		if ref.Session.Completed {
			result.addWarning("session_id", "removing a session that is already completed", "REMOVING_COMPLETED")
		}
	case ModifySessionParams:
		if _, ok := snapshot.FindSession(p.SessionID); !ok {
			result.addError("session_id", fmt.Sprintf("session %q does not exist", p.SessionID), "NOT_FOUND")
		}
	case AddSetParams:
		if _, ok := snapshot.FindExercise(p.ExerciseID); !ok {
			result.addError("exercise_id", fmt.Sprintf("exercise %q does not exist", p.ExerciseID), "PARENT_NOT_FOUND")
		}
	case RemoveSetParams:
		ref, ok := snapshot.FindSet(p.SetID)
		if !ok {
			result.addError("set_id", fmt.Sprintf("set %q does not exist", p.SetID), "NOT_FOUND")
			return result
		}
		v.checkSetParent(ref, p.ExerciseID, result)
	case ModifySetParams:
		ref, ok := snapshot.FindSet(p.SetID)
		if !ok {
			result.addError("set_id", fmt.Sprintf("set %q does not exist", p.SetID), "NOT_FOUND")
			return result
		}
		v.checkSetParent(ref, p.ExerciseID, result)
		if p.hasActualFields() && !p.willBeCompleted(ref.Set) {
			result.addWarning("completed", "actual values are only meaningful once the set is completed", "ACTUAL_BEFORE_COMPLETION")
		}
	}

	return result
}

func (v *Validator) checkExerciseParent(ref program.ExerciseRef, sessionID *string, result *ValidationResult) {
	if sessionID != nil && ref.Session.ID != *sessionID {
		result.addError("session_id",
			fmt.Sprintf("exercise %q belongs to session %q, not %q", ref.Exercise.ID, ref.Session.ID, *sessionID),
			"MISMATCHED_PARENT")
	}
}

func (v *Validator) checkSetParent(ref program.SetRef, exerciseID *string, result *ValidationResult) {
	if exerciseID != nil && ref.Exercise.ID != *exerciseID {
		result.addError("exercise_id",
			fmt.Sprintf("set %q belongs to exercise %q, not %q", ref.Set.ID, ref.Exercise.ID, *exerciseID),
			"MISMATCHED_PARENT")
	}
}

func (p ModifySetParams) hasActualFields() bool {
	return p.ActualReps != nil || p.ActualWeight != nil || p.ActualRIR != nil || p.ActualNotes != nil
}

func (p ModifySetParams) willBeCompleted(current program.Set) bool {
	if p.Completed != nil {
		return *p.Completed
	}
	return current.Completed
}

func numericValue(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
