package domain

// TimeWindow is a contiguous bookable span of a day in minutes since midnight.
// Invariant: Start < End. Derived from schedule records, never persisted.
type TimeWindow struct {
	Start int
	End   int
}

// Fits returns true if a slot of the given duration starting at start
// lies entirely inside the window
func (w TimeWindow) Fits(start, durationMinutes int) bool {
	return start >= w.Start && start+durationMinutes <= w.End
}

// OccupiedInterval is the span consumed by an existing non-canceled
// appointment, in minutes since midnight
type OccupiedInterval struct {
	AppointmentID int64
	Start         int
	End           int
}

// Overlaps reports whether [start, end) truly intersects the interval.
// Touching endpoints do not count: back-to-back appointments are allowed.
func (o OccupiedInterval) Overlaps(start, end int) bool {
	return start < o.End && o.Start < end
}
