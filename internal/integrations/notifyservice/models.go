package notifyservice

// Event тип события уведомления
type Event string

const (
	EventAppointmentCreated     Event = "appointment_created"
	EventAppointmentRescheduled Event = "appointment_rescheduled"
	EventAppointmentCanceled    Event = "appointment_canceled"
)

// Notification модель уведомления о событии записи
type Notification struct {
	Event         Event  `json:"event"`
	AppointmentID int64  `json:"appointment_id"`
	BarberID      int64  `json:"barber_id"`
	ClientID      int64  `json:"client_id"`
	ServiceName   string `json:"service_name"`
	Date          string `json:"date"`       // YYYY-MM-DD
	StartTime     string `json:"start_time"` // HH:MM
}

// ErrorResponse модель ошибки от NotifyService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
