package toolcall

import (
	"fmt"

	"github.com/alex-galey/coach-mcp/internal/program"
)

// Applier holds the pure transformation for every tool: validated params
// plus the current snapshot in, a structurally new snapshot out. Existence
// of every referenced entity is re-checked here because time may have
// passed since the validator ran.
type Applier struct{}

// NewApplier creates a mutation applier.
func NewApplier() *Applier {
	return &Applier{}
}

// Apply dispatches to the applier for the params' tool. The input snapshot
// is never mutated; on any error it is returned unchanged.
func (a *Applier) Apply(snapshot program.Program, params Params) (program.Program, error) {
	next, err := a.apply(snapshot, params)
	if err != nil {
		return snapshot, err
	}
	if err := next.CheckInvariants(); err != nil {
		return snapshot, fmt.Errorf("%w: %v", ErrApplyFailed, err)
	}
	return next, nil
}

func (a *Applier) apply(snapshot program.Program, params Params) (program.Program, error) {
	switch p := params.(type) {
	case AddExerciseParams:
		return a.addExercise(snapshot, p)
	case RemoveExerciseParams:
		return a.removeExercise(snapshot, p)
	case ModifyExerciseParams:
		return a.modifyExercise(snapshot, p)
	case AddSessionParams:
		return a.addSession(snapshot, p)
	case RemoveSessionParams:
		return a.removeSession(snapshot, p)
	case ModifySessionParams:
		return a.modifySession(snapshot, p)
	case AddSetParams:
		return a.addSet(snapshot, p)
	case RemoveSetParams:
		return a.removeSet(snapshot, p)
	case ModifySetParams:
		return a.modifySet(snapshot, p)
	default:
		return snapshot, fmt.Errorf("%w: %T has no applier", ErrUnknownTool, params)
	}
}

func (a *Applier) addExercise(snapshot program.Program, p AddExerciseParams) (program.Program, error) {
	ref, ok := snapshot.FindSession(p.SessionID)
	if !ok {
		return snapshot, fmt.Errorf("add exercise: %w: %q", program.ErrSessionNotFound, p.SessionID)
	}

	exercise := program.Exercise{
		ID:   program.NewEntityID(),
		Name: p.Name,
		Sets: make([]program.Set, 0, len(p.Sets)),
	}
	for _, prescription := range p.Sets {
		exercise.Sets = append(exercise.Sets, program.Set{
			ID: program.NewEntityID(),
			Prescribed: program.SetMetrics{
				Reps:   prescription.Reps,
				Weight: prescription.Weight,
				RIR:    prescription.RIR,
				Notes:  prescription.Notes,
			},
		})
	}

	session := ref.Session.InsertExercise(insertPosition(p.Position, len(ref.Session.Exercises)), exercise)
	return snapshot.ReplaceSession(ref, session), nil
}

func (a *Applier) removeExercise(snapshot program.Program, p RemoveExerciseParams) (program.Program, error) {
	ref, ok := snapshot.FindExercise(p.ExerciseID)
	if !ok {
		return snapshot, fmt.Errorf("remove exercise: %w: %q", program.ErrExerciseNotFound, p.ExerciseID)
	}
	session := ref.Session.RemoveExercise(ref.ExerciseIndex)
	return snapshot.ReplaceSession(sessionRefOf(ref), session), nil
}

func (a *Applier) modifyExercise(snapshot program.Program, p ModifyExerciseParams) (program.Program, error) {
	ref, ok := snapshot.FindExercise(p.ExerciseID)
	if !ok {
		return snapshot, fmt.Errorf("modify exercise: %w: %q", program.ErrExerciseNotFound, p.ExerciseID)
	}

	exercise := ref.Exercise
	if p.Name != nil {
		exercise.Name = *p.Name
	}
	if p.Completed != nil {
		exercise.Completed = *p.Completed
	}
	return snapshot.ReplaceExercise(ref, exercise), nil
}

func (a *Applier) addSession(snapshot program.Program, p AddSessionParams) (program.Program, error) {
	ref, ok := snapshot.FindWeek(p.WeekID)
	if !ok {
		return snapshot, fmt.Errorf("add session: %w: %q", program.ErrWeekNotFound, p.WeekID)
	}

	session := program.Session{
		ID:        program.NewEntityID(),
		Title:     p.Title,
		Exercises: []program.Exercise{},
	}
	if p.Day != nil {
		session.Day = *p.Day
	}
	if p.Date != nil {
		session.Date = *p.Date
	}

	week := ref.Week.InsertSession(insertPosition(p.Position, len(ref.Week.Sessions)), session)
	return snapshot.ReplaceWeek(ref.WeekIndex, week), nil
}

func (a *Applier) removeSession(snapshot program.Program, p RemoveSessionParams) (program.Program, error) {
	ref, ok := snapshot.FindSession(p.SessionID)
	if !ok {
		return snapshot, fmt.Errorf("remove session: %w: %q", program.ErrSessionNotFound, p.SessionID)
	}
	week := ref.Week.RemoveSession(ref.SessionIndex)
	return snapshot.ReplaceWeek(ref.WeekIndex, week), nil
}

func (a *Applier) modifySession(snapshot program.Program, p ModifySessionParams) (program.Program, error) {
	ref, ok := snapshot.FindSession(p.SessionID)
	if !ok {
		return snapshot, fmt.Errorf("modify session: %w: %q", program.ErrSessionNotFound, p.SessionID)
	}

	session := ref.Session
	if p.Title != nil {
		session.Title = *p.Title
	}
	if p.Day != nil {
		session.Day = *p.Day
	}
	if p.Date != nil {
		session.Date = *p.Date
	}
	if p.Completed != nil {
		session.Completed = *p.Completed
	}
	if p.CardioDurationMinutes != nil || p.CardioType != nil || p.CardioNotes != nil {
		cardio := program.CardioBlock{}
		if session.Cardio != nil {
			cardio = *session.Cardio
		}
		if p.CardioDurationMinutes != nil {
			cardio.DurationMinutes = *p.CardioDurationMinutes
		}
		if p.CardioType != nil {
			cardio.Type = *p.CardioType
		}
		if p.CardioNotes != nil {
			cardio.Notes = *p.CardioNotes
		}
		session.Cardio = &cardio
	}
	return snapshot.ReplaceSession(ref, session), nil
}

func (a *Applier) addSet(snapshot program.Program, p AddSetParams) (program.Program, error) {
	ref, ok := snapshot.FindExercise(p.ExerciseID)
	if !ok {
		return snapshot, fmt.Errorf("add set: %w: %q", program.ErrExerciseNotFound, p.ExerciseID)
	}

	set := program.Set{
		ID:         program.NewEntityID(),
		Prescribed: program.SetMetrics{Reps: p.Reps},
	}
	if p.Weight != nil {
		set.Prescribed.Weight = *p.Weight
	}
	if p.RIR != nil {
		set.Prescribed.RIR = *p.RIR
	}
	if p.Notes != nil {
		set.Prescribed.Notes = *p.Notes
	}

	exercise := ref.Exercise.InsertSet(insertPosition(p.Position, len(ref.Exercise.Sets)), set)
	return snapshot.ReplaceExercise(ref, exercise), nil
}

func (a *Applier) removeSet(snapshot program.Program, p RemoveSetParams) (program.Program, error) {
	ref, ok := snapshot.FindSet(p.SetID)
	if !ok {
		return snapshot, fmt.Errorf("remove set: %w: %q", program.ErrSetNotFound, p.SetID)
	}
	exercise := ref.Exercise.RemoveSet(ref.SetIndex)
	return snapshot.ReplaceExercise(exerciseRefOf(ref), exercise), nil
}

func (a *Applier) modifySet(snapshot program.Program, p ModifySetParams) (program.Program, error) {
	ref, ok := snapshot.FindSet(p.SetID)
	if !ok {
		return snapshot, fmt.Errorf("modify set: %w: %q", program.ErrSetNotFound, p.SetID)
	}

	set := ref.Set
	if p.PrescribedReps != nil {
		set.Prescribed.Reps = *p.PrescribedReps
	}
	if p.PrescribedWeight != nil {
		set.Prescribed.Weight = *p.PrescribedWeight
	}
	if p.PrescribedRIR != nil {
		set.Prescribed.RIR = *p.PrescribedRIR
	}
	if p.PrescribedNotes != nil {
		set.Prescribed.Notes = *p.PrescribedNotes
	}
	if p.hasActualFields() {
		actual := program.SetMetrics{}
		if set.Actual != nil {
			actual = *set.Actual
		}
		if p.ActualReps != nil {
			actual.Reps = *p.ActualReps
		}
		if p.ActualWeight != nil {
			actual.Weight = *p.ActualWeight
		}
		if p.ActualRIR != nil {
			actual.RIR = *p.ActualRIR
		}
		if p.ActualNotes != nil {
			actual.Notes = *p.ActualNotes
		}
		set.Actual = &actual
	}
	if p.Completed != nil {
		set.Completed = *p.Completed
	}
	return snapshot.ReplaceSet(ref, set), nil
}

// insertPosition resolves an optional explicit index: append when omitted.
func insertPosition(position *int, length int) int {
	if position == nil {
		return length
	}
	return *position
}

func sessionRefOf(ref program.ExerciseRef) program.SessionRef {
	return program.SessionRef{
		Week: ref.Week, WeekIndex: ref.WeekIndex,
		Session: ref.Session, SessionIndex: ref.SessionIndex,
	}
}

func exerciseRefOf(ref program.SetRef) program.ExerciseRef {
	return program.ExerciseRef{
		Week: ref.Week, WeekIndex: ref.WeekIndex,
		Session: ref.Session, SessionIndex: ref.SessionIndex,
		Exercise: ref.Exercise, ExerciseIndex: ref.ExerciseIndex,
	}
}
