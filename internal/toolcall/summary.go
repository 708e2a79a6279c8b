package toolcall

import (
	"fmt"

	"github.com/alex-galey/coach-mcp/internal/program"
)

// BuildSummary renders a proposal as one human-readable sentence for the
// confirmation UI, using entity names from the snapshot where they resolve.
func BuildSummary(params Params, snapshot program.Program) string {
	switch p := params.(type) {
	case AddExerciseParams:
		target := p.SessionID
		if ref, ok := snapshot.FindSession(p.SessionID); ok {
			target = ref.Session.Title
		}
		return fmt.Sprintf("Add exercise %q with %d set(s) to session %q", p.Name, len(p.Sets), target)
	case RemoveExerciseParams:
		if ref, ok := snapshot.FindExercise(p.ExerciseID); ok {
			return fmt.Sprintf("Remove exercise %q from session %q", ref.Exercise.Name, ref.Session.Title)
		}
		return fmt.Sprintf("Remove exercise %q", p.ExerciseID)
	case ModifyExerciseParams:
		name := p.ExerciseID
		if ref, ok := snapshot.FindExercise(p.ExerciseID); ok {
			name = ref.Exercise.Name
		}
		return fmt.Sprintf("Modify exercise %q", name)
	case AddSessionParams:
		target := p.WeekID
		if ref, ok := snapshot.FindWeek(p.WeekID); ok {
			target = fmt.Sprintf("week %d", ref.Week.Number)
		}
		return fmt.Sprintf("Add session %q to %s", p.Title, target)
	case RemoveSessionParams:
		if ref, ok := snapshot.FindSession(p.SessionID); ok {
			return fmt.Sprintf("Remove session %q from week %d", ref.Session.Title, ref.Week.Number)
		}
		return fmt.Sprintf("Remove session %q", p.SessionID)
	case ModifySessionParams:
		title := p.SessionID
		if ref, ok := snapshot.FindSession(p.SessionID); ok {
			title = ref.Session.Title
		}
		return fmt.Sprintf("Modify session %q", title)
	case AddSetParams:
		target := p.ExerciseID
		if ref, ok := snapshot.FindExercise(p.ExerciseID); ok {
			target = ref.Exercise.Name
		}
		return fmt.Sprintf("Add a %d-rep set to exercise %q", p.Reps, target)
	case RemoveSetParams:
		if ref, ok := snapshot.FindSet(p.SetID); ok {
			return fmt.Sprintf("Remove set %d of exercise %q", ref.SetIndex+1, ref.Exercise.Name)
		}
		return fmt.Sprintf("Remove set %q", p.SetID)
	case ModifySetParams:
		if ref, ok := snapshot.FindSet(p.SetID); ok {
			return fmt.Sprintf("Modify set %d of exercise %q", ref.SetIndex+1, ref.Exercise.Name)
		}
		return fmt.Sprintf("Modify set %q", p.SetID)
	default:
		return fmt.Sprintf("Apply %s", params.Tool())
	}
}
