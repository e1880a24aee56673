package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-BarberService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-BarberService/internal/infra/storage/schedule"
)

// resolveWindows определяет открытые окна барбера на дату.
// Приоритет: исключение на дату полностью заменяет недельный шаблон.
// - DAY_OFF: пустой список, недельный шаблон не читается
// - CUSTOM: только интервалы исключения, отсортированные по началу
// - Без исключения: интервалы недельного шаблона, если день активен
// Отсутствие доступности - не ошибка, а пустой результат.
func (uc *UseCase) resolveWindows(ctx context.Context, barberID int64, date time.Time) ([]domain.TimeWindow, error) {
	exception, err := uc.scheduleRepo.GetExceptionByBarberAndDate(ctx, barberID, date)
	if err != nil && !errors.Is(err, scheduleRepo.ErrExceptionNotFound) {
		return nil, fmt.Errorf("%w: failed to get daily exception: %v", ErrInternal, err)
	}

	if exception != nil {
		if exception.IsDayOff() {
			return []domain.TimeWindow{}, nil
		}
		// CUSTOM: недельный шаблон не консультируется
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
// и сортирует по возрастанию начала. Пересекающиеся окна не объединяются -
// каждое обрабатывается генератором слотов независимо.
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
			// Некорректный интервал в хранилище - пропускаем, не роняя расчёт
			continue
		}
		windows = append(windows, domain.TimeWindow{Start: start, End: end})
	}

	sort.Slice(windows, func(i, j int) bool {
		return windows[i].Start < windows[j].Start
	})

	return windows, nil
}
