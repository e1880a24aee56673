package reschedule_appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("reschedule_appointment: appointment not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав на перенос
	ErrAccessDenied = errors.New("reschedule_appointment: access denied")

	// ErrCannotReschedule возвращается, когда запись нельзя перенести
	ErrCannotReschedule = errors.New("reschedule_appointment: appointment cannot be rescheduled")

	// ErrBarberUnavailable возвращается, когда барбер не работает в выбранное время
	ErrBarberUnavailable = errors.New("reschedule_appointment: barber is unavailable at this time")

	// ErrSlotNotAvailable возвращается, когда выбранный слот уже занят
	ErrSlotNotAvailable = errors.New("reschedule_appointment: slot is not available")

	// ErrInvalidDate возвращается при некорректной дате записи
	ErrInvalidDate = errors.New("reschedule_appointment: invalid appointment date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = errors.New("reschedule_appointment: date is too far in the future")

	// ErrTooLateToBook возвращается, когда перенос нарушает minBookingNoticeMinutes
	ErrTooLateToBook = errors.New("reschedule_appointment: too late to book this slot")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_appointment: internal error")
)
