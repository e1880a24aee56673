package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppointmentOccupiesTime(t *testing.T) {
	testCases := []struct {
		status   AppointmentStatus
		occupies bool
	}{
		{StatusPending, true},
		{StatusDone, true},
		{StatusCanceledByClient, false},
		{StatusCanceledByBarber, false},
	}

	for _, tc := range testCases {
		t.Run(string(tc.status), func(t *testing.T) {
			appt := &Appointment{Status: tc.status}
			assert.Equal(t, tc.occupies, appt.OccupiesTime())
		})
	}
}

func TestAppointmentTransitions(t *testing.T) {
	pending := &Appointment{Status: StatusPending}
	assert.True(t, pending.CanBeCanceled())
	assert.True(t, pending.CanBeRescheduled())
	assert.True(t, pending.CanBeCompleted())

	done := &Appointment{Status: StatusDone}
	assert.False(t, done.CanBeCanceled())
	assert.False(t, done.CanBeRescheduled())
	assert.False(t, done.CanBeCompleted())

	canceled := &Appointment{Status: StatusCanceledByClient}
	assert.False(t, canceled.CanBeCanceled())
	assert.False(t, canceled.CanBeRescheduled())
	assert.False(t, canceled.CanBeCompleted())
}

func TestTimeRangeValidate(t *testing.T) {
	valid := TimeRange{Start: "09:00", End: "18:00"}
	assert.NoError(t, valid.Validate())

	inverted := TimeRange{Start: "18:00", End: "09:00"}
	assert.Error(t, inverted.Validate())

	zeroWidth := TimeRange{Start: "09:00", End: "09:00"}
	assert.Error(t, zeroWidth.Validate())

	malformed := TimeRange{Start: "9:00", End: "18:00"}
	assert.Error(t, malformed.Validate())
}

func TestWeeklyAvailabilityHasWindows(t *testing.T) {
	active := &WeeklyAvailability{
		IsActive:  true,
		Intervals: []TimeRange{{Start: "09:00", End: "18:00"}},
	}
	assert.True(t, active.HasWindows())

	inactive := &WeeklyAvailability{
		IsActive:  false,
		Intervals: []TimeRange{{Start: "09:00", End: "18:00"}},
	}
	assert.False(t, inactive.HasWindows())

	empty := &WeeklyAvailability{IsActive: true}
	assert.False(t, empty.HasWindows())
}
