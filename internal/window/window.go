// Package window computes the rolling time range sent to the usage endpoints.
package window

import (
	"net/url"
	"strings"
	"time"
)

// DateTimeLayout is the timestamp format expected by the monitor API.
const DateTimeLayout = "2006-01-02 15:04:05"

// Clock returns the current time.
type Clock func() time.Time

// Window is a usage query range: from yesterday at the current hour to the
// end of the current hour today.
type Window struct {
	Start time.Time
	End   time.Time
}

// Now computes the window for the time reported by clock. A nil clock means
// the wall clock.
func Now(clock Clock) Window {
	if clock == nil {
		clock = time.Now
	}
	return Compute(clock())
}

// Compute returns the window ending in the hour of now. time.Date normalizes
// day 0 and negative days, which handles month and year rollovers.
func Compute(now time.Time) Window {
	y, m, d := now.Date()
	h := now.Hour()
	loc := now.Location()

	return Window{
		Start: time.Date(y, m, d-1, h, 0, 0, 0, loc),
		End:   time.Date(y, m, d, h, 59, 59, int(999*time.Millisecond), loc),
	}
}

// StartTime returns Start in the API layout.
func (w Window) StartTime() string {
	return FormatDateTime(w.Start)
}

// EndTime returns End in the API layout.
func (w Window) EndTime() string {
	return FormatDateTime(w.End)
}

// QueryString returns "?startTime=...&endTime=..." with both values
// percent-encoded the way encodeURIComponent does it (space as %20).
func (w Window) QueryString() string {
	return "?startTime=" + encodeComponent(w.StartTime()) +
		"&endTime=" + encodeComponent(w.EndTime())
}

// FormatDateTime formats t as yyyy-MM-dd HH:mm:ss in t's own location.
func FormatDateTime(t time.Time) string {
	return t.Format(DateTimeLayout)
}

func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
