package service

import "errors"

var (
	ErrActivityNotFound = errors.New("activity not found")
	ErrForbidden        = errors.New("not allowed to take attendance for this activity")
	ErrAlreadySaved     = errors.New("attendance already saved for this activity")
	ErrInvalidInput     = errors.New("invalid attendance payload")
)

// LockedError carries the window evaluation that rejected a mutation.
type LockedError struct {
	Evaluation Evaluation
}

func (e *LockedError) Error() string {
	if e.Evaluation.Reason != "" {
		return e.Evaluation.Reason
	}
	return "attendance is locked"
}
