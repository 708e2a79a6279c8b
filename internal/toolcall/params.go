package toolcall

import "time"

// Params is the closed tagged-variant over the tool enumeration: each tool
// carries its own parameter record type, and the validator and applier are
// exhaustive matches over it.
type Params interface {
	Tool() ToolName
}

// SetPrescription is an initial set carried by an add_exercise call.
type SetPrescription struct {
	Reps   int
	Weight float64
	RIR    int
	Notes  string
}

type AddExerciseParams struct {
	SessionID string
	Name      string
	Position  *int
	Sets      []SetPrescription
}

type RemoveExerciseParams struct {
	ExerciseID string
	SessionID  *string
}

type ModifyExerciseParams struct {
	ExerciseID string
	SessionID  *string
	Name       *string
	Completed  *bool
}

type AddSessionParams struct {
	WeekID   string
	Title    string
	Day      *string
	Date     *time.Time
	Position *int
}

type RemoveSessionParams struct {
	SessionID string
	WeekID    *string
}

type ModifySessionParams struct {
	SessionID             string
	Title                 *string
	Day                   *string
	Date                  *time.Time
	Completed             *bool
	CardioDurationMinutes *int
	CardioType            *string
	CardioNotes           *string
}

type AddSetParams struct {
	ExerciseID string
	Reps       int
	Weight     *float64
	RIR        *int
	Notes      *string
	Position   *int
}

type RemoveSetParams struct {
	SetID      string
	ExerciseID *string
}

type ModifySetParams struct {
	SetID            string
	ExerciseID       *string
	PrescribedReps   *int
	PrescribedWeight *float64
	PrescribedRIR    *int
	PrescribedNotes  *string
	ActualReps       *int
	ActualWeight     *float64
	ActualRIR        *int
	ActualNotes      *string
	Completed        *bool
}

func (AddExerciseParams) Tool() ToolName    { return ToolAddExercise }
func (RemoveExerciseParams) Tool() ToolName { return ToolRemoveExercise }
func (ModifyExerciseParams) Tool() ToolName { return ToolModifyExercise }
func (AddSessionParams) Tool() ToolName     { return ToolAddSession }
func (RemoveSessionParams) Tool() ToolName  { return ToolRemoveSession }
func (ModifySessionParams) Tool() ToolName  { return ToolModifySession }
func (AddSetParams) Tool() ToolName         { return ToolAddSet }
func (RemoveSetParams) Tool() ToolName      { return ToolRemoveSet }
func (ModifySetParams) Tool() ToolName      { return ToolModifySet }

// decodeParams turns a structurally validated argument map into the typed
// parameter record for the tool. It must only be called after structural
// validation has passed.
func decodeParams(name ToolName, args map[string]any) Params {
	switch name {
	case ToolAddExercise:
		return AddExerciseParams{
			SessionID: mustString(args, "session_id"),
			Name:      mustString(args, "name"),
			Position:  optInt(args, "position"),
			Sets:      decodeSetList(args, "sets"),
		}
	case ToolRemoveExercise:
		return RemoveExerciseParams{
			ExerciseID: mustString(args, "exercise_id"),
			SessionID:  optString(args, "session_id"),
		}
	case ToolModifyExercise:
		return ModifyExerciseParams{
			ExerciseID: mustString(args, "exercise_id"),
			SessionID:  optString(args, "session_id"),
			Name:       optString(args, "name"),
			Completed:  optBool(args, "completed"),
		}
	case ToolAddSession:
		return AddSessionParams{
			WeekID:   mustString(args, "week_id"),
			Title:    mustString(args, "title"),
			Day:      optString(args, "day"),
			Date:     optDate(args, "date"),
			Position: optInt(args, "position"),
		}
	case ToolRemoveSession:
		return RemoveSessionParams{
			SessionID: mustString(args, "session_id"),
			WeekID:    optString(args, "week_id"),
		}
	case ToolModifySession:
		return ModifySessionParams{
			SessionID:             mustString(args, "session_id"),
			Title:                 optString(args, "title"),
			Day:                   optString(args, "day"),
			Date:                  optDate(args, "date"),
			Completed:             optBool(args, "completed"),
			CardioDurationMinutes: optInt(args, "cardio_duration_minutes"),
			CardioType:            optString(args, "cardio_type"),
			CardioNotes:           optString(args, "cardio_notes"),
		}
	case ToolAddSet:
		return AddSetParams{
			ExerciseID: mustString(args, "exercise_id"),
			Reps:       mustInt(args, "reps"),
			Weight:     optFloat(args, "weight"),
			RIR:        optInt(args, "rir"),
			Notes:      optString(args, "notes"),
			Position:   optInt(args, "position"),
		}
	case ToolRemoveSet:
		return RemoveSetParams{
			SetID:      mustString(args, "set_id"),
			ExerciseID: optString(args, "exercise_id"),
		}
	case ToolModifySet:
		return ModifySetParams{
			SetID:            mustString(args, "set_id"),
			ExerciseID:       optString(args, "exercise_id"),
			PrescribedReps:   optInt(args, "prescribed_reps"),
			PrescribedWeight: optFloat(args, "prescribed_weight"),
			PrescribedRIR:    optInt(args, "prescribed_rir"),
			PrescribedNotes:  optString(args, "prescribed_notes"),
			ActualReps:       optInt(args, "actual_reps"),
			ActualWeight:     optFloat(args, "actual_weight"),
			ActualRIR:        optInt(args, "actual_rir"),
			ActualNotes:      optString(args, "actual_notes"),
			Completed:        optBool(args, "completed"),
		}
	default:
		return nil
	}
}

func mustString(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}

func optString(args map[string]any, key string) *string {
	raw, ok := args[key]
	if !ok {
		return nil
	}
	v, _ := raw.(string)
	return &v
}

func mustInt(args map[string]any, key string) int {
	return int(asNumber(args[key]))
}

func optInt(args map[string]any, key string) *int {
	raw, ok := args[key]
	if !ok {
		return nil
	}
	v := int(asNumber(raw))
	return &v
}

func optFloat(args map[string]any, key string) *float64 {
	raw, ok := args[key]
	if !ok {
		return nil
	}
	v := asNumber(raw)
	return &v
}

func optBool(args map[string]any, key string) *bool {
	raw, ok := args[key]
	if !ok {
		return nil
	}
	v, _ := raw.(bool)
	return &v
}

func optDate(args map[string]any, key string) *time.Time {
	raw, ok := args[key]
	if !ok {
		return nil
	}
	s, _ := raw.(string)
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}

func decodeSetList(args map[string]any, key string) []SetPrescription {
	raw, ok := args[key]
	if !ok {
		return nil
	}
	items, _ := raw.([]any)
	sets := make([]SetPrescription, 0, len(items))
	for _, item := range items {
		entry, _ := item.(map[string]any)
		sets = append(sets, SetPrescription{
			Reps:   int(asNumber(entry["reps"])),
			Weight: asNumber(entry["weight"]),
			RIR:    int(asNumber(entry["rir"])),
			Notes:  mustString(entry, "notes"),
		})
	}
	return sets
}

// asNumber accepts the numeric representations produced by JSON decoding
// and by in-process callers.
func asNumber(raw any) float64 {
	switch v := raw.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}
