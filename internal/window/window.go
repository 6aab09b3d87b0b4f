// Package window resolves the reporting time window for a run.
//
// The upstream API filters commits by UTC timestamps, but "yesterday" is a
// calendar concept in the report timezone. Resolution therefore goes through
// time.LoadLocation and calendar arithmetic in that zone, never through a
// fixed UTC offset, so daylight-saving transitions come out correct.
package window

import (
	"fmt"
	"time"
)

// Window is the immutable reporting window for a single run. Start and End
// carry the report location; use UTCStart/UTCEnd for API query bounds.
type Window struct {
	Start    time.Time
	End      time.Time
	Extended bool
}

// UTCStart returns the lower bound as an absolute UTC timestamp.
func (w Window) UTCStart() time.Time { return w.Start.UTC() }

// UTCEnd returns the upper bound as an absolute UTC timestamp.
func (w Window) UTCEnd() time.Time { return w.End.UTC() }

// Label renders the window for the notification fact table, e.g.
// "2026-08-28" or "2026-08-28 ~ 2026-08-30" for an extended window.
func (w Window) Label() string {
	start := w.Start.Format("2006-01-02")
	end := w.End.Format("2006-01-02")
	if start == end {
		return start
	}
	return start + " ~ " + end
}

// Resolve computes the reporting window for the run date in loc.
//
// On a Monday the window widens to cover the weekend plus the preceding
// Friday, so activity landing over the rest period is reported on the first
// working day after it. On every other day the window is exactly the
// previous calendar day, 00:00:00 through 23:59:59 local.
func Resolve(now time.Time, loc *time.Location) Window {
	local := now.In(loc)
	y, m, d := local.Date()

	startOffset := 1
	extended := false
	if local.Weekday() == time.Monday {
		startOffset = 3 // back to Friday
		extended = true
	}

	// time.Date normalizes out-of-range days, so month boundaries and DST
	// transitions are handled by the location's calendar.
	start := time.Date(y, m, d-startOffset, 0, 0, 0, 0, loc)
	end := time.Date(y, m, d-1, 23, 59, 59, 0, loc)

	return Window{Start: start, End: end, Extended: extended}
}

// LoadZone resolves the named IANA timezone. An unresolvable zone is a fatal
// condition for the run; there is no partial-window fallback.
func LoadZone(tzName string) (*time.Location, error) {
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("failed to load report timezone %q: %w", tzName, err)
	}
	return loc, nil
}
