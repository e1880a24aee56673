package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BarberService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-BarberService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-BarberService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ClientID <= 0 {
		return fmt.Errorf("%w: clientID must be positive", ErrInvalidInput)
	}

	if req.BarberID <= 0 {
		return fmt.Errorf("%w: barberID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateDate проверяет, что дата подходит для записи
func validateDate(date time.Time, now time.Time, advanceBookingDays int) error {
	if isDateInPast(date, now) {
		return ErrInvalidDate
	}

	// advanceBookingDays = 0 означает отсутствие ограничений
	if advanceBookingDays == 0 {
		return nil
	}

	maxDate := startOfDay(now).AddDate(0, 0, advanceBookingDays)

	if startOfDay(date).After(maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, advanceBookingDays)
	}

	return nil
}

// validateBookingTime проверяет, что запись не нарушает minBookingNoticeMinutes
func validateBookingTime(
	date time.Time,
	startTime types.TimeString,
	now time.Time,
	minBookingNoticeMinutes int,
) error {
	// Если дата записи не сегодня, проверка не нужна
	if !isSameDay(date, now) {
		return nil
	}

	currentTime := types.NewTimeString(now)
	minAllowedTime, err := currentTime.AddMinutes(minBookingNoticeMinutes)
	if err != nil {
		return fmt.Errorf("%w: failed to calculate min allowed time: %v", ErrInternal, err)
	}

	if startTime.IsBefore(minAllowedTime) {
		return fmt.Errorf("%w: must book at least %d minutes in advance", ErrTooLateToBook, minBookingNoticeMinutes)
	}

	return nil
}

// resolveWindows определяет открытые окна барбера на дату в минутах с начала суток.
// Исключение на дату приоритетнее недельного шаблона: DAY_OFF блокирует день,
// CUSTOM полностью заменяет недельные интервалы своими.
func (uc *UseCase) resolveWindows(ctx context.Context, barberID int64, date time.Time) ([]domain.TimeWindow, error) {
	exception, err := uc.scheduleRepo.GetExceptionByBarberAndDate(ctx, barberID, date)
	if err != nil && !errors.Is(err, scheduleRepo.ErrExceptionNotFound) {
		return nil, fmt.Errorf("%w: failed to get daily exception: %v", ErrInternal, err)
	}

	if exception != nil {
		if exception.IsDayOff() {
			return []domain.TimeWindow{}, nil
		}
		return toTimeWindows(exception.Intervals)
	}

	weekly, err := uc.scheduleRepo.GetWeeklyByBarberAndWeekday(ctx, barberID, int(date.Weekday()))
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrWeeklyNotFound) {
			return []domain.TimeWindow{}, nil
		}
		return nil, fmt.Errorf("%w: failed to get weekly availability: %v", ErrInternal, err)
	}

	if !weekly.HasWindows() {
		return []domain.TimeWindow{}, nil
	}

	return toTimeWindows(weekly.Intervals)
}

// toTimeWindows конвертирует интервалы "HH:MM" в окна в минутах с начала суток
func toTimeWindows(intervals []domain.TimeRange) ([]domain.TimeWindow, error) {
	windows := make([]domain.TimeWindow, 0, len(intervals))

	for _, interval := range intervals {
		start, err := interval.Start.Minutes()
		if err != nil {
			return nil, fmt.Errorf("%w: invalid interval start: %v", ErrInternal, err)
		}
		end, err := interval.End.Minutes()
		if err != nil {
			return nil, fmt.Errorf("%w: invalid interval end: %v", ErrInternal, err)
		}
		if start >= end {
			continue
		}
		windows = append(windows, domain.TimeWindow{Start: start, End: end})
	}

	return windows, nil
}

// fitsAnyWindow проверяет, что слот целиком помещается хотя бы в одно окно
func fitsAnyWindow(windows []domain.TimeWindow, start, durationMinutes int) bool {
	for _, window := range windows {
		if window.Fits(start, durationMinutes) {
			return true
		}
	}
	return false
}

// hasConflict проверяет пересечение слота с занятыми интервалами.
// Касание границ не считается конфликтом - записи впритык разрешены.
func hasConflict(occupied []domain.OccupiedInterval, start, end int) bool {
	for _, interval := range occupied {
		if interval.Overlaps(start, end) {
			return true
		}
	}
	return false
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
