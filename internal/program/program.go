package program

import (
	"time"

	"github.com/google/uuid"
)

// Program is the root aggregate of a training program. It is treated as an
// immutable snapshot value: mutations rebuild the path from the changed node
// to the root and share every untouched subtree, so a closed-over snapshot
// stays valid regardless of later applies.
type Program struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Version   uint64    `json:"version" yaml:"version"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
	Weeks     []Week    `json:"weeks" yaml:"weeks"`
}

// Week groups the sessions of one calendar week of the program.
type Week struct {
	ID        string    `json:"id" yaml:"id"`
	Number    int       `json:"number" yaml:"number"`
	Phase     string    `json:"phase" yaml:"phase"`
	StartDate time.Time `json:"start_date" yaml:"start_date"`
	EndDate   time.Time `json:"end_date" yaml:"end_date"`
	Sessions  []Session `json:"sessions" yaml:"sessions"`
}

// Session is a single workout. Session ids are unique across the whole
// program because tool calls reference them without naming the parent week.
type Session struct {
	ID        string       `json:"id" yaml:"id"`
	Title     string       `json:"title" yaml:"title"`
	Day       string       `json:"day" yaml:"day"`
	Date      time.Time    `json:"date" yaml:"date"`
	Completed bool         `json:"completed" yaml:"completed"`
	Cardio    *CardioBlock `json:"cardio,omitempty" yaml:"cardio,omitempty"`
	Exercises []Exercise   `json:"exercises" yaml:"exercises"`
}

// CardioBlock is an optional cardio prescription attached to a session.
type CardioBlock struct {
	DurationMinutes int    `json:"duration_minutes" yaml:"duration_minutes"`
	Type            string `json:"type" yaml:"type"`
	Notes           string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Exercise order within a session is meaningful (sequencing during the
// workout) and preserved by every mutation that does not explicitly reorder.
type Exercise struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Completed bool   `json:"completed" yaml:"completed"`
	Sets      []Set  `json:"sets" yaml:"sets"`
}

// Set carries the prescribed work and, once performed, the actual work.
type Set struct {
	ID         string      `json:"id" yaml:"id"`
	Prescribed SetMetrics  `json:"prescribed" yaml:"prescribed"`
	Actual     *SetMetrics `json:"actual,omitempty" yaml:"actual,omitempty"`
	Completed  bool        `json:"completed" yaml:"completed"`
}

// SetMetrics describes one set: repetitions, load and reps-in-reserve.
type SetMetrics struct {
	Reps   int     `json:"reps" yaml:"reps"`
	Weight float64 `json:"weight" yaml:"weight"`
	RIR    int     `json:"rir" yaml:"rir"`
	Notes  string  `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// New creates an empty program with a fresh identity and version zero.
func New(name string) Program {
	now := time.Now().UTC()
	return Program{
		ID:        uuid.NewString(),
		Name:      name,
		Version:   0,
		CreatedAt: now,
		UpdatedAt: now,
		Weeks:     []Week{},
	}
}

// NewEntityID generates an id for entities created by mutations.
func NewEntityID() string {
	return uuid.NewString()
}

// Bumped returns the snapshot with its version marker advanced and the
// update timestamp refreshed. Callers use the version for optimistic
// concurrency checks instead of deep-comparing trees.
func (p Program) Bumped(now time.Time) Program {
	p.Version++
	p.UpdatedAt = now.UTC()
	return p
}
