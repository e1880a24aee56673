package get_available_slots

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BarberService/internal/domain"
)

// loadOccupiedIntervals вычисляет занятые интервалы барбера на дату.
// Время занимают записи в статусах pending и done; отменённые - нет.
// Запись excludeAppointmentID пропускается при построении интервалов:
// при переносе запись не должна конфликтовать сама с собой.
func (uc *UseCase) loadOccupiedIntervals(
	ctx context.Context,
	barberID int64,
	date time.Time,
	excludeAppointmentID *int64,
) ([]domain.OccupiedInterval, error) {
	filter := domain.BarberAppointmentsFilter{
		BarberID:        barberID,
		Date:            &date,
		IncludeCanceled: false,
	}

	appointments, err := uc.apptRepo.GetByBarberWithFilter(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	intervals := make([]domain.OccupiedInterval, 0, len(appointments))

	for _, appt := range appointments {
		if !appt.OccupiesTime() {
			continue
		}
		if excludeAppointmentID != nil && appt.ID == *excludeAppointmentID {
			continue
		}

		start, err := appt.StartTime.Minutes()
		if err != nil {
			uc.logger.Warn("loadOccupiedIntervals: appointment id=%d has invalid start time %q, skipping",
				appt.ID, appt.StartTime)
			continue
		}

		// Длительность резолвится через каталог по описанию услуги,
		// а не из денормализованного поля - поведение единообразно
		// с legacy-записями, у которых длительность не сохранялась
		duration := uc.durationResolver.ResolveDuration(ctx, &appt.ServiceID, appt.ServiceName)

		intervals = append(intervals, domain.OccupiedInterval{
			AppointmentID: appt.ID,
			Start:         start,
			End:           start + duration,
		})
	}

	return intervals, nil
}

// generateCandidates генерирует кандидатов начала слота в минутах с начала суток.
// Каждое окно обходится независимо с фиксированным шагом: кандидат эмитится,
// пока полная длительность услуги помещается в окно. Кандидаты из разных окон
// конкатенируются в порядке окон и глобально не дедуплицируются.
func generateCandidates(windows []domain.TimeWindow, serviceDurationMinutes, stepMinutes int) []int {
	candidates := make([]int, 0)

	for _, window := range windows {
		for cursor := window.Start; cursor+serviceDurationMinutes <= window.End; cursor += stepMinutes {
			candidates = append(candidates, cursor)
		}
	}

	return candidates
}

// filterConflicts отбирает кандидатов, не конфликтующих с занятыми интервалами.
//
// Пересечение проверяется как открытый интервал: касание границ не считается
// конфликтом, записи впритык разрешены.
//
// Примеры:
// - Кандидат 11:30-12:00, запись 11:20-11:40 → ЕСТЬ пересечение (11:30-11:40)
// - Кандидат 11:30-12:00, запись 11:00-11:30 → НЕТ пересечения (граничат)
// - Кандидат 11:30-12:00, запись 12:00-12:30 → НЕТ пересечения (граничат)
//
// Для сегодняшней даты дополнительно отсекаются кандидаты, начинающиеся
// не строго позже текущего времени, и кандидаты ближе minNoticeMinutes.
// Порядок вывода повторяет порядок кандидатов.
func filterConflicts(
	candidates []int,
	serviceDurationMinutes int,
	occupied []domain.OccupiedInterval,
	date time.Time,
	now time.Time,
	minNoticeMinutes int,
) []int {
	isToday := isSameDay(date, now)
	nowMinutes := now.Hour()*60 + now.Minute()

	accepted := make([]int, 0, len(candidates))

	for _, candidate := range candidates {
		if isToday {
			// Начало слота должно быть строго позже текущего времени
			if candidate <= nowMinutes {
				continue
			}
			if candidate < nowMinutes+minNoticeMinutes {
				continue
			}
		}

		candidateEnd := candidate + serviceDurationMinutes

		conflict := false
		for _, interval := range occupied {
			if interval.Overlaps(candidate, candidateEnd) {
				conflict = true
				break
			}
		}

		if !conflict {
			accepted = append(accepted, candidate)
		}
	}

	return accepted
}
