package domain

import (
	"time"

	"github.com/m04kA/SMC-BarberService/pkg/types"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending          AppointmentStatus = "pending"
	StatusDone             AppointmentStatus = "done"
	StatusCanceledByClient AppointmentStatus = "canceled_by_client"
	StatusCanceledByBarber AppointmentStatus = "canceled_by_barber"
)

// Appointment represents a client booking with a barber
type Appointment struct {
	ID              int64
	BarberID        int64
	ClientID        int64
	ServiceID       int64
	Date            time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Status          AppointmentStatus

	// Denormalized data for history: service renames or price changes
	// must not rewrite past appointments
	ServiceName  string
	ServicePrice float64
	Notes        *string

	CancellationReason *string
	CanceledAt         *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsCanceled returns true if the appointment has been canceled
func (a *Appointment) IsCanceled() bool {
	return a.Status == StatusCanceledByClient || a.Status == StatusCanceledByBarber
}

// OccupiesTime returns true if the appointment blocks its time interval.
// Pending and done appointments both occupy time; only canceled ones free it.
func (a *Appointment) OccupiesTime() bool {
	return !a.IsCanceled()
}

// CanBeCanceled returns true if the appointment can still be canceled
func (a *Appointment) CanBeCanceled() bool {
	return a.Status == StatusPending
}

// CanBeRescheduled returns true if the appointment can be moved to another slot
func (a *Appointment) CanBeRescheduled() bool {
	return a.Status == StatusPending
}

// CanBeCompleted returns true if the appointment can be marked as done
func (a *Appointment) CanBeCompleted() bool {
	return a.Status == StatusPending
}

// BarberAppointmentsFilter filters appointments of a barber
type BarberAppointmentsFilter struct {
	BarberID        int64              // Required
	Date            *time.Time         // Single day (optional)
	StartDate       *time.Time         // Period start (optional)
	EndDate         *time.Time         // Period end (optional)
	Status          *AppointmentStatus // Filter by status (optional)
	IncludeCanceled bool               // Include canceled appointments
}
