package domain

// Default configuration values
const (
	DefaultServiceDurationMinutes  = 30
	DefaultSlotStepMinutes         = 30
	DefaultAdvanceBookingDays      = 0 // 0 = unlimited
	DefaultMinBookingNoticeMinutes = 0
)

// Business validation constants
const (
	MinSlotStepMinutes          = 5
	MaxSlotStepMinutes          = 240
	MinServiceDurationMinutes   = 5
	MaxServiceDurationMinutes   = 480 // 8 hours
	MinAdvanceBookingDays       = 0
	MaxAdvanceBookingDays       = 365 // 1 year
	MinBookingNoticeMinutes     = 0
	MaxBookingNoticeMinutes     = 10080 // 1 week
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
)

// Weekday bounds (0 = Sunday .. 6 = Saturday, time.Weekday order)
const (
	MinWeekday = 0
	MaxWeekday = 6
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// CanceledStatuses список статусов отменённых записей
// Используется для фильтрации при подсчёте занятых интервалов
var CanceledStatuses = []AppointmentStatus{
	StatusCanceledByClient,
	StatusCanceledByBarber,
}

// ActiveStatuses список статусов записей, занимающих время
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusDone,
}
