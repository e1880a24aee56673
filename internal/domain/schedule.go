package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-BarberService/pkg/types"
)

// ExceptionType represents the kind of a per-date schedule override
type ExceptionType string

const (
	// ExceptionDayOff blocks the whole day regardless of the weekly pattern
	ExceptionDayOff ExceptionType = "DAY_OFF"
	// ExceptionCustom replaces the weekly pattern with its own intervals
	ExceptionCustom ExceptionType = "CUSTOM"
)

// TimeRange is a working interval within a day, "HH:MM" bounds
type TimeRange struct {
	Start types.TimeString `json:"start"`
	End   types.TimeString `json:"end"`
}

// Validate checks the bounds parse and start precedes end
func (r TimeRange) Validate() error {
	if err := r.Start.Validate(); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	if err := r.End.Validate(); err != nil {
		return fmt.Errorf("end: %w", err)
	}
	if !r.Start.IsBefore(r.End) {
		return fmt.Errorf("start %s must be before end %s", r.Start, r.End)
	}
	return nil
}

// WeeklyAvailability is the recurring default schedule of a barber for one
// weekday (0 = Sunday .. 6 = Saturday). At most one record per (barber, weekday).
// An absent or inactive record means no default availability that weekday.
type WeeklyAvailability struct {
	ID        int64
	BarberID  int64
	Weekday   int
	IsActive  bool
	Intervals []TimeRange
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasWindows returns true if the record actually opens any time
func (w *WeeklyAvailability) HasWindows() bool {
	return w.IsActive && len(w.Intervals) > 0
}

// DailyException is a per-date override of the weekly pattern. It fully
// replaces the weekly record for its date: DAY_OFF yields zero windows,
// CUSTOM yields exactly its own intervals, never merged with the weekly ones.
type DailyException struct {
	ID        int64
	BarberID  int64
	Date      time.Time
	Type      ExceptionType
	Intervals []TimeRange
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsDayOff returns true if the exception blocks the whole day
func (e *DailyException) IsDayOff() bool {
	return e.Type == ExceptionDayOff
}
