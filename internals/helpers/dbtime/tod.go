package dbtime

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Tod is a civil time of day (no date, no zone). It is stored in a Postgres
// TIME column and travels in JSON as "HH:MM".
type Tod struct{ time.Time }

func NewTod(hour, minute int) Tod {
	return Tod{Time: time.Date(0, 1, 1, hour, minute, 0, 0, time.UTC)}
}

// ParseTod accepts "HH:MM" or "HH:MM:SS".
func ParseTod(s string) (Tod, error) {
	var t Tod
	return t, t.parse(s)
}

func (t *Tod) parse(s string) error {
	s = strings.TrimSpace(s)
	if len(s) == 5 {
		s += ":00"
	}
	tt, err := time.Parse("15:04:05", s)
	if err != nil {
		return fmt.Errorf("tod: %q is not HH:MM", s)
	}
	t.Time = tt
	return nil
}

func (t Tod) String() string { return t.Format("15:04") }

// Scan accepts time.Time or "HH:MM[:SS]" (optionally with fractional seconds).
func (t *Tod) Scan(v any) error {
	switch x := v.(type) {
	case time.Time:
		*t = NewTod(x.Hour(), x.Minute())
		return nil
	case []byte:
		return t.parse(trimFraction(string(x)))
	case string:
		return t.parse(trimFraction(x))
	case nil:
		t.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("tod: unsupported Scan type %T", v)
	}
}

func trimFraction(s string) string {
	if i := strings.IndexByte(s, '.'); i > 0 {
		return s[:i]
	}
	return s
}

func (t Tod) Value() (driver.Value, error) {
	return t.Format("15:04:05"), nil
}

func (t Tod) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Tod) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return t.parse(s)
}
