package program

// Copy-on-write helpers. Each helper copies only the slice it touches and
// returns a new value; siblings keep sharing their backing arrays with the
// previous snapshot.

// ReplaceWeek returns the program with the week at index wi swapped out.
func (p Program) ReplaceWeek(wi int, w Week) Program {
	weeks := make([]Week, len(p.Weeks))
	copy(weeks, p.Weeks)
	weeks[wi] = w
	p.Weeks = weeks
	return p
}

// ReplaceSession rebuilds the path program -> week -> session.
func (p Program) ReplaceSession(ref SessionRef, s Session) Program {
	return p.ReplaceWeek(ref.WeekIndex, ref.Week.ReplaceSession(ref.SessionIndex, s))
}

// ReplaceExercise rebuilds the path program -> week -> session -> exercise.
func (p Program) ReplaceExercise(ref ExerciseRef, e Exercise) Program {
	session := ref.Session.ReplaceExercise(ref.ExerciseIndex, e)
	return p.ReplaceWeek(ref.WeekIndex, ref.Week.ReplaceSession(ref.SessionIndex, session))
}

// ReplaceSet rebuilds the path down to a single set.
func (p Program) ReplaceSet(ref SetRef, t Set) Program {
	exercise := ref.Exercise.ReplaceSet(ref.SetIndex, t)
	session := ref.Session.ReplaceExercise(ref.ExerciseIndex, exercise)
	return p.ReplaceWeek(ref.WeekIndex, ref.Week.ReplaceSession(ref.SessionIndex, session))
}

// ReplaceSession returns the week with the session at index si swapped out.
func (w Week) ReplaceSession(si int, s Session) Week {
	sessions := make([]Session, len(w.Sessions))
	copy(sessions, w.Sessions)
	sessions[si] = s
	w.Sessions = sessions
	return w
}

// InsertSession inserts at the given position; an index past the end appends.
func (w Week) InsertSession(si int, s Session) Week {
	w.Sessions = insertAt(w.Sessions, si, s)
	return w
}

// RemoveSession removes the session at index si.
func (w Week) RemoveSession(si int) Week {
	w.Sessions = removeAt(w.Sessions, si)
	return w
}

// ReplaceExercise returns the session with the exercise at index ei swapped out.
func (s Session) ReplaceExercise(ei int, e Exercise) Session {
	exercises := make([]Exercise, len(s.Exercises))
	copy(exercises, s.Exercises)
	exercises[ei] = e
	s.Exercises = exercises
	return s
}

// InsertExercise inserts at the given position; an index past the end appends.
func (s Session) InsertExercise(ei int, e Exercise) Session {
	s.Exercises = insertAt(s.Exercises, ei, e)
	return s
}

// RemoveExercise removes the exercise at index ei.
func (s Session) RemoveExercise(ei int) Session {
	s.Exercises = removeAt(s.Exercises, ei)
	return s
}

// ReplaceSet returns the exercise with the set at index ti swapped out.
func (e Exercise) ReplaceSet(ti int, t Set) Exercise {
	sets := make([]Set, len(e.Sets))
	copy(sets, e.Sets)
	sets[ti] = t
	e.Sets = sets
	return e
}

// InsertSet inserts at the given position; an index past the end appends.
func (e Exercise) InsertSet(ti int, t Set) Exercise {
	e.Sets = insertAt(e.Sets, ti, t)
	return e
}

// RemoveSet removes the set at index ti.
func (e Exercise) RemoveSet(ti int) Exercise {
	e.Sets = removeAt(e.Sets, ti)
	return e
}

func insertAt[T any](items []T, i int, item T) []T {
	if i < 0 || i > len(items) {
		i = len(items)
	}
	out := make([]T, 0, len(items)+1)
	out = append(out, items[:i]...)
	out = append(out, item)
	out = append(out, items[i:]...)
	return out
}

func removeAt[T any](items []T, i int) []T {
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:i]...)
	out = append(out, items[i+1:]...)
	return out
}
