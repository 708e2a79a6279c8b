package program

import "fmt"

// CheckInvariants verifies the structural rules of a snapshot: ids are
// unique across the whole tree, week numbers are unique and increasing, and
// week date ranges are ordered. Appliers treat a passing check as a
// postcondition; the program store runs it on every loaded file.
func (p Program) CheckInvariants() error {
	seen := make(map[string]string)

	record := func(id, kind string) error {
		if id == "" {
			return fmt.Errorf("%s has an empty id", kind)
		}
		if prev, ok := seen[id]; ok {
			return fmt.Errorf("%w: %q used by %s and %s", ErrDuplicateID, id, prev, kind)
		}
		seen[id] = kind
		return nil
	}

	if err := record(p.ID, "program"); err != nil {
		return err
	}

	lastNumber := 0
	for _, w := range p.Weeks {
		if err := record(w.ID, "week"); err != nil {
			return err
		}
		if w.Number <= lastNumber {
			return fmt.Errorf("%w: week %q has number %d after %d", ErrInvalidWeekOrder, w.ID, w.Number, lastNumber)
		}
		lastNumber = w.Number

		if w.EndDate.Before(w.StartDate) {
			return fmt.Errorf("%w: week %q", ErrInvalidWeekDates, w.ID)
		}

		for _, s := range w.Sessions {
			if err := record(s.ID, "session"); err != nil {
				return err
			}
			for _, e := range s.Exercises {
				if err := record(e.ID, "exercise"); err != nil {
					return err
				}
				for _, t := range e.Sets {
					if err := record(t.ID, "set"); err != nil {
						return err
					}
				}
			}
		}
	}

	return nil
}
