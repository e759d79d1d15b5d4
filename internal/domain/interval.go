package domain

import "time"

// Interval is a closed time range [Start, End].
type Interval struct {
	Start time.Time
	End   time.Time
}

func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && !t.After(i.End)
}

// Overlaps reports whether i starts or ends inside other, or fully covers it.
// Touching endpoints count as an overlap.
func (i Interval) Overlaps(other Interval) bool {
	if other.Contains(i.Start) || other.Contains(i.End) {
		return true
	}
	return !i.Start.After(other.Start) && !i.End.Before(other.End)
}
