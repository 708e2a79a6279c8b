package program

// WeekRef locates a week inside a program snapshot.
type WeekRef struct {
	Week      Week
	WeekIndex int
}

// SessionRef locates a session together with its parent week. Mutation
// appliers need the full parent chain to rebuild the tree from the changed
// node up to the root.
type SessionRef struct {
	Week         Week
	WeekIndex    int
	Session      Session
	SessionIndex int
}

// ExerciseRef locates an exercise together with its parent chain.
type ExerciseRef struct {
	Week          Week
	WeekIndex     int
	Session       Session
	SessionIndex  int
	Exercise      Exercise
	ExerciseIndex int
}

// SetRef locates a set together with its parent chain.
type SetRef struct {
	Week          Week
	WeekIndex     int
	Session       Session
	SessionIndex  int
	Exercise      Exercise
	ExerciseIndex int
	Set           Set
	SetIndex      int
}

// FindWeek resolves a week by id alone.
func (p Program) FindWeek(id string) (WeekRef, bool) {
	for wi, w := range p.Weeks {
		if w.ID == id {
			return WeekRef{Week: w, WeekIndex: wi}, true
		}
	}
	return WeekRef{}, false
}

// FindSession resolves a session by id alone; the caller does not need to
// know which week owns it.
func (p Program) FindSession(id string) (SessionRef, bool) {
	for wi, w := range p.Weeks {
		for si, s := range w.Sessions {
			if s.ID == id {
				return SessionRef{
					Week: w, WeekIndex: wi,
					Session: s, SessionIndex: si,
				}, true
			}
		}
	}
	return SessionRef{}, false
}

// FindExercise resolves an exercise by id alone.
func (p Program) FindExercise(id string) (ExerciseRef, bool) {
	for wi, w := range p.Weeks {
		for si, s := range w.Sessions {
			for ei, e := range s.Exercises {
				if e.ID == id {
					return ExerciseRef{
						Week: w, WeekIndex: wi,
						Session: s, SessionIndex: si,
						Exercise: e, ExerciseIndex: ei,
					}, true
				}
			}
		}
	}
	return ExerciseRef{}, false
}

// FindSet resolves a set by id alone.
func (p Program) FindSet(id string) (SetRef, bool) {
	for wi, w := range p.Weeks {
		for si, s := range w.Sessions {
			for ei, e := range s.Exercises {
				for ti, t := range e.Sets {
					if t.ID == id {
						return SetRef{
							Week: w, WeekIndex: wi,
							Session: s, SessionIndex: si,
							Exercise: e, ExerciseIndex: ei,
							Set: t, SetIndex: ti,
						}, true
					}
				}
			}
		}
	}
	return SetRef{}, false
}
