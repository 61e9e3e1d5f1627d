// file: internals/helpers/dbtime/time_helper.go
package dbtime

import (
	"log"
	"strings"
	"time"
)

// LoadLocation resolves the congregation's civil timezone.
// "" and "Local" mean the server zone; unknown names fall back to it with a warning.
func LoadLocation(name string) *time.Location {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("[WARN] unknown timezone %q, using server zone: %v", name, err)
		return time.Local
	}
	return loc
}

// Clock returns "now". Handlers read it once per request.
type Clock func() time.Time

func SystemClock() time.Time { return time.Now() }

// Fixed is a Clock pinned to t.
func Fixed(t time.Time) Clock {
	return func() time.Time { return t }
}

// Today is the civil date of now in loc.
func Today(now time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = time.Local
	}
	return DateOf(now.In(loc))
}
