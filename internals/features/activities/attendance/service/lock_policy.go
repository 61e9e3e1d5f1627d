package service

import (
	"time"

	"congregation_backend/internals/helpers/dbtime"
)

type LockState string

const (
	StateNotYetOpen LockState = "NOT_YET_OPEN"
	StateOpen       LockState = "OPEN"
	StateLocked     LockState = "LOCKED"
)

const (
	ReasonDatePassed = "activity date has passed"
	ReasonIncomplete = "activity schedule incomplete"
)

// Schedule is the part of an activity the lock window depends on.
type Schedule struct {
	Date dbtime.Date
	Time *dbtime.Tod
}

type Evaluation struct {
	State   LockState  `json:"state"`
	Reason  string     `json:"reason,omitempty"`
	OpensAt *time.Time `json:"opensAt,omitempty"`
	LocksAt *time.Time `json:"locksAt,omitempty"`
}

func (e Evaluation) Open() bool { return e.State == StateOpen }

// Evaluate places now inside the attendance window of s. The window opens at
// the scheduled time (or the start of the day when there is none) and locks
// at the local midnight that follows the activity date. All boundaries are
// built from calendar components in loc.
func Evaluate(s Schedule, now time.Time, loc *time.Location) Evaluation {
	if loc == nil {
		loc = time.Local
	}
	if s.Date.IsZero() {
		return Evaluation{State: StateLocked, Reason: ReasonIncomplete}
	}

	opensAt := s.Date.In(loc)
	if s.Time != nil {
		opensAt = s.Date.At(*s.Time, loc)
	}
	locksAt := s.Date.AddDays(1).In(loc)

	ev := Evaluation{OpensAt: &opensAt, LocksAt: &locksAt}
	switch {
	case s.Time != nil && now.Before(opensAt):
		ev.State = StateNotYetOpen
		ev.Reason = "attendance opens at " + opensAt.Format("2006-01-02 15:04")
	case !now.Before(locksAt):
		ev.State = StateLocked
		ev.Reason = ReasonDatePassed
	default:
		ev.State = StateOpen
	}
	return ev
}
