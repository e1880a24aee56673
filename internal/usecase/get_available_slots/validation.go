package get_available_slots

import (
	"fmt"
	"time"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BarberID <= 0 {
		return fmt.Errorf("%w: barberID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StepMinutes != nil && *req.StepMinutes <= 0 {
		return fmt.Errorf("%w: stepMinutes must be positive", ErrInvalidInput)
	}

	return nil
}

// validateAdvanceLimit проверяет, что дата не превышает ограничение advanceBookingDays
// advanceBookingDays = 0 означает отсутствие ограничений
func validateAdvanceLimit(requestDate time.Time, now time.Time, advanceBookingDays int) error {
	if advanceBookingDays == 0 {
		return nil
	}

	maxDate := startOfDay(now).AddDate(0, 0, advanceBookingDays)

	if startOfDay(requestDate).After(maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, advanceBookingDays)
	}

	return nil
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	return startOfDay(date).Before(startOfDay(now))
}

// startOfDay обнуляет время, оставляя только дату
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
