// Package interval turns civil reservation times into half-open instant
// ranges and answers overlap and clipping questions about them.
package interval

import (
	"time"

	"stopshot/pkg/model"
)

// Interval is the half-open range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Compute anchors date+start in loc and adds d. Spans that cross midnight
// end on the following calendar day.
func Compute(date model.Date, start model.TimeOfDay, d time.Duration, loc *time.Location) Interval {
	s := start.On(date, loc)
	return Interval{Start: s, End: s.Add(d)}
}

// Of returns the stored interval of r.
func Of(r *model.Reservation) Interval {
	return Interval{Start: r.StartAt, End: r.EndAt}
}

func (iv Interval) Duration() time.Duration {
	if !iv.End.After(iv.Start) {
		return 0
	}
	return iv.End.Sub(iv.Start)
}

// Overlaps reports whether a and b share any instant. Intervals that only
// touch at an endpoint do not overlap.
func Overlaps(a, b Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// ClipToWindow is the length of iv that falls inside [windowStart, windowEnd).
func ClipToWindow(iv Interval, windowStart, windowEnd time.Time) time.Duration {
	start := iv.Start
	if windowStart.After(start) {
		start = windowStart
	}
	end := iv.End
	if windowEnd.Before(end) {
		end = windowEnd
	}
	if !end.After(start) {
		return 0
	}
	return end.Sub(start)
}

// BusinessDay is the operating window that opens at start on date. When end
// is not after start the window closes on the next day.
func BusinessDay(date model.Date, start, end model.TimeOfDay, loc *time.Location) Interval {
	closeDate := date
	if end.Minutes() <= start.Minutes() {
		closeDate = date.AddDays(1)
	}
	return Interval{Start: start.On(date, loc), End: end.On(closeDate, loc)}
}
