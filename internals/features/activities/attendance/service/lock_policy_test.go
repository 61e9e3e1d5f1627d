package service

import (
	"testing"
	"time"

	"congregation_backend/internals/helpers/dbtime"
)

func schedule(t *testing.T, date, tod string) Schedule {
	t.Helper()
	s := Schedule{}
	if date != "" {
		d, err := dbtime.ParseDate(date, nil)
		if err != nil {
			t.Fatalf("parse date: %v", err)
		}
		s.Date = d
	}
	if tod != "" {
		tt, err := dbtime.ParseTod(tod)
		if err != nil {
			t.Fatalf("parse tod: %v", err)
		}
		s.Time = &tt
	}
	return s
}

func TestEvaluateSundayServiceWindow(t *testing.T) {
	loc := time.FixedZone("WIB", 7*60*60)
	s := schedule(t, "2025-03-10", "09:00")

	tests := []struct {
		name string
		now  time.Time
		want LockState
	}{
		{"evening before", time.Date(2025, 3, 9, 23, 0, 0, 0, loc), StateNotYetOpen},
		{"one minute early", time.Date(2025, 3, 10, 8, 59, 0, 0, loc), StateNotYetOpen},
		{"at start", time.Date(2025, 3, 10, 9, 0, 0, 0, loc), StateOpen},
		{"during service", time.Date(2025, 3, 10, 9, 30, 0, 0, loc), StateOpen},
		{"last second of day", time.Date(2025, 3, 10, 23, 59, 59, 0, loc), StateOpen},
		{"midnight after", time.Date(2025, 3, 11, 0, 0, 0, 0, loc), StateLocked},
		{"week later", time.Date(2025, 3, 17, 12, 0, 0, 0, loc), StateLocked},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(s, tt.now, loc)
			if got.State != tt.want {
				t.Fatalf("state = %s, want %s (reason %q)", got.State, tt.want, got.Reason)
			}
		})
	}
}

func TestEvaluateReasons(t *testing.T) {
	loc := time.UTC
	s := schedule(t, "2025-03-10", "09:00")

	early := Evaluate(s, time.Date(2025, 3, 9, 23, 0, 0, 0, loc), loc)
	if early.Reason != "attendance opens at 2025-03-10 09:00" {
		t.Fatalf("not-yet-open reason = %q", early.Reason)
	}
	late := Evaluate(s, time.Date(2025, 3, 11, 0, 0, 0, 0, loc), loc)
	if late.Reason != ReasonDatePassed {
		t.Fatalf("locked reason = %q, want %q", late.Reason, ReasonDatePassed)
	}
	if late.LocksAt == nil || !late.LocksAt.Equal(time.Date(2025, 3, 11, 0, 0, 0, 0, loc)) {
		t.Fatalf("locksAt = %v", late.LocksAt)
	}
	open := Evaluate(s, time.Date(2025, 3, 10, 10, 0, 0, 0, loc), loc)
	if open.Reason != "" || !open.Open() {
		t.Fatalf("open evaluation = %+v", open)
	}
}

func TestEvaluateWithoutTimeIsOpenAllDay(t *testing.T) {
	loc := time.UTC
	s := schedule(t, "2025-03-10", "")

	if got := Evaluate(s, time.Date(2025, 3, 9, 23, 0, 0, 0, loc), loc); got.State != StateOpen {
		t.Fatalf("day before without time = %s, want OPEN", got.State)
	}
	if got := Evaluate(s, time.Date(2025, 3, 10, 0, 0, 0, 0, loc), loc); got.State != StateOpen {
		t.Fatalf("start of day = %s, want OPEN", got.State)
	}
	if got := Evaluate(s, time.Date(2025, 3, 11, 0, 0, 0, 0, loc), loc); got.State != StateLocked {
		t.Fatalf("midnight after = %s, want LOCKED", got.State)
	}
}

func TestEvaluateMissingDateIsLocked(t *testing.T) {
	got := Evaluate(Schedule{}, time.Now(), time.UTC)
	if got.State != StateLocked || got.Reason != ReasonIncomplete {
		t.Fatalf("evaluation = %+v, want LOCKED/%q", got, ReasonIncomplete)
	}
}

func TestEvaluateUsesCivilZone(t *testing.T) {
	// 2025-03-10 20:00 UTC is already 2025-03-11 03:00 in UTC+7.
	now := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)
	s := schedule(t, "2025-03-10", "09:00")

	if got := Evaluate(s, now, time.UTC); got.State != StateOpen {
		t.Fatalf("UTC state = %s, want OPEN", got.State)
	}
	if got := Evaluate(s, now, time.FixedZone("WIB", 7*60*60)); got.State != StateLocked {
		t.Fatalf("UTC+7 state = %s, want LOCKED", got.State)
	}
}

func TestEvaluateNeverReopens(t *testing.T) {
	loc := time.UTC
	s := schedule(t, "2025-03-10", "18:30")
	start := time.Date(2025, 3, 9, 0, 0, 0, 0, loc)

	rank := map[LockState]int{StateNotYetOpen: 0, StateOpen: 1, StateLocked: 2}
	prev := -1
	for i := 0; i < 72*4; i++ {
		now := start.Add(time.Duration(i) * 15 * time.Minute)
		r := rank[Evaluate(s, now, loc).State]
		if r < prev {
			t.Fatalf("state went backwards at %s", now)
		}
		prev = r
	}
	if prev != rank[StateLocked] {
		t.Fatalf("window never locked")
	}
}
