package dbtime

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)
	tests := []struct {
		in   string
		loc  *time.Location
		want Date
	}{
		{"2025-03-10", nil, NewDate(2025, time.March, 10)},
		{" 2025-03-10 ", jakarta, NewDate(2025, time.March, 10)},
		// legacy row: local midnight written in UTC
		{"2025-03-09T17:00:00Z", jakarta, NewDate(2025, time.March, 10)},
		{"2025-03-09T17:00:00Z", time.UTC, NewDate(2025, time.March, 9)},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.in, tt.loc)
		if err != nil {
			t.Fatalf("ParseDate(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseDate(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
	for _, bad := range []string{"", "10/03/2025", "2025-13-01"} {
		if _, err := ParseDate(bad, nil); err == nil {
			t.Fatalf("ParseDate(%q) accepted", bad)
		}
	}
}

func TestDateCalendarArithmetic(t *testing.T) {
	if got := NewDate(2024, time.February, 28).AddDays(1); got != NewDate(2024, time.February, 29) {
		t.Fatalf("leap day = %s", got)
	}
	if got := NewDate(2025, time.December, 31).AddDays(1); got != NewDate(2026, time.January, 1) {
		t.Fatalf("year rollover = %s", got)
	}
	// 2025-03-12 is a Wednesday
	if got := NewDate(2025, time.March, 12).WeekStart(); got != NewDate(2025, time.March, 9) {
		t.Fatalf("week start = %s", got)
	}
	if !NewDate(2025, time.March, 9).Before(NewDate(2025, time.March, 10)) {
		t.Fatal("Before is wrong")
	}
}

func TestDateAnchorsInZone(t *testing.T) {
	loc := time.FixedZone("WIB", 7*60*60)
	d := NewDate(2025, time.March, 10)

	if got := d.In(loc); got.Hour() != 0 || got.Day() != 10 || got.Location() != loc {
		t.Fatalf("In = %s", got)
	}
	at := d.At(NewTod(9, 0), loc)
	if want := time.Date(2025, time.March, 10, 2, 0, 0, 0, time.UTC); !at.Equal(want) {
		t.Fatalf("At = %s, want %s", at.UTC(), want)
	}
}

func TestDateJSONAndScan(t *testing.T) {
	d := NewDate(2025, time.March, 10)
	raw, err := json.Marshal(d)
	if err != nil || string(raw) != `"2025-03-10"` {
		t.Fatalf("marshal = %s, %v", raw, err)
	}
	var back Date
	if err := json.Unmarshal([]byte(`"2025-03-10"`), &back); err != nil || back != d {
		t.Fatalf("unmarshal = %s, %v", back, err)
	}

	var scanned Date
	if err := scanned.Scan(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)); err != nil || scanned != d {
		t.Fatalf("scan time = %s, %v", scanned, err)
	}
	if err := scanned.Scan([]byte("2025-03-10T00:00:00Z")); err != nil || scanned != d {
		t.Fatalf("scan bytes = %s, %v", scanned, err)
	}
}

func TestTod(t *testing.T) {
	tod, err := ParseTod("18:30")
	if err != nil {
		t.Fatalf("ParseTod: %v", err)
	}
	if tod.String() != "18:30" {
		t.Fatalf("String = %q", tod.String())
	}
	var scanned Tod
	if err := scanned.Scan("18:30:00.000000"); err != nil || scanned.String() != "18:30" {
		t.Fatalf("scan = %s, %v", scanned, err)
	}
	if _, err := ParseTod("6pm"); err == nil {
		t.Fatal("ParseTod accepted 6pm")
	}
}
