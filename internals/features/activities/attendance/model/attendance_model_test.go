package model

import "testing"

func TestParseStatusIsStrict(t *testing.T) {
	for _, in := range []string{"PRESENT", "present", " Excused ", "absent"} {
		if _, err := ParseStatus(in); err != nil {
			t.Fatalf("ParseStatus(%q) error = %v", in, err)
		}
	}
	for _, in := range []string{"", "late", "P", "yes"} {
		if _, err := ParseStatus(in); err == nil {
			t.Fatalf("ParseStatus(%q) accepted", in)
		}
	}
}

func TestDecodeStatusNormalizesLegacyValues(t *testing.T) {
	tests := map[string]AttendanceStatus{
		"PRESENT": StatusPresent,
		"Present": StatusPresent,
		"p":       StatusPresent,
		"excused": StatusExcused,
		"E":       StatusExcused,
		"ABSENT":  StatusAbsent,
		"late":    StatusAbsent,
		"":        StatusAbsent,
	}
	for in, want := range tests {
		if got := DecodeStatus(in); got != want {
			t.Fatalf("DecodeStatus(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestStatusScan(t *testing.T) {
	var s AttendanceStatus
	if err := s.Scan([]byte("present")); err != nil || s != StatusPresent {
		t.Fatalf("Scan([]byte) = %s, %v", s, err)
	}
	if err := s.Scan("Excused"); err != nil || s != StatusExcused {
		t.Fatalf("Scan(string) = %s, %v", s, err)
	}
}
