package program

import "errors"

// Program domain specific errors
var (
	ErrWeekNotFound     = errors.New("week not found")
	ErrSessionNotFound  = errors.New("session not found")
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrSetNotFound      = errors.New("set not found")
	ErrDuplicateID      = errors.New("duplicate entity id")
	ErrInvalidWeekOrder = errors.New("week numbers must be unique and increasing")
	ErrInvalidWeekDates = errors.New("week start date must not be after end date")
)
