package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BarberService/internal/domain"
	configRepo "github.com/m04kA/SMC-BarberService/internal/infra/storage/schedconfig"
	"github.com/m04kA/SMC-BarberService/pkg/ptr"
	"github.com/m04kA/SMC-BarberService/pkg/types"
)

// UseCase use case для получения доступных слотов записи к барберу
//
// Расчёт выполняется в четыре этапа поверх снимка данных:
// 1. Резолв открытых окон дня (исключение приоритетнее недельного шаблона)
// 2. Загрузка занятых интервалов из активных записей
// 3. Генерация кандидатов обходом окон с фиксированным шагом
// 4. Фильтрация кандидатов по конфликтам и текущему времени
// Внутри движка время - минуты с начала суток, "HH:MM" только на границах.
type UseCase struct {
	apptRepo         AppointmentRepository
	scheduleRepo     ScheduleRepository
	configRepo       ConfigRepository
	durationResolver DurationResolver
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	apptRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	configRepo ConfigRepository,
	durationResolver DurationResolver,
	logger Logger,
) *UseCase {
	return &UseCase{
		apptRepo:         apptRepo,
		scheduleRepo:     scheduleRepo,
		configRepo:       configRepo,
		durationResolver: durationResolver,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case получения доступных слотов
//
// Пустой список - нормальный результат: нет доступности, день полностью
// занят или дата в прошлом. Ошибки возвращаются только для некорректного
// запроса и отказов хранилища.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: user=%d, barber=%d, service=%d, date=%s",
		req.UserID, req.BarberID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем конфигурацию генерации слотов с учетом иерархии
	config, err := uc.configRepo.GetConfigWithHierarchy(ctx, req.BarberID)
	if err != nil && !errors.Is(err, configRepo.ErrConfigNotFound) {
		uc.logger.Error("GetAvailableSlots: failed to get config: %v", err)
		return nil, fmt.Errorf("%w: failed to get config: %v", ErrInternal, err)
	}

	// Если конфигурация не найдена, используем дефолтные значения
	if config == nil {
		config = &domain.SchedulingConfig{
			SlotStepMinutes:         domain.DefaultSlotStepMinutes,
			AdvanceBookingDays:      domain.DefaultAdvanceBookingDays,
			MinBookingNoticeMinutes: domain.DefaultMinBookingNoticeMinutes,
		}
		uc.logger.Info("GetAvailableSlots: using default config for barber=%d", req.BarberID)
	} else {
		uc.logger.Info("GetAvailableSlots: using config id=%d", config.ID)
	}

	stepMinutes := config.SlotStepMinutes
	if req.StepMinutes != nil {
		stepMinutes = *req.StepMinutes
	}

	// 4. Длительность запрашиваемой услуги
	// Отсутствие маппинга - не ошибка: резолвер применяет дефолт
	serviceDuration := uc.durationResolver.ResolveDuration(ctx, ptr.Ptr(req.ServiceID), "")

	// 5. Дата в прошлом - пустой результат, не ошибка
	if isDateInPast(req.Date, now) {
		uc.logger.Info("GetAvailableSlots: date %s is in the past", req.Date.Format(domain.DateFormat))
		return uc.emptyResponse(req, serviceDuration, stepMinutes), nil
	}

	// 6. Проверяем ограничение горизонта бронирования
	if err := validateAdvanceLimit(req.Date, now, config.AdvanceBookingDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 7. Резолвим открытые окна на дату
	windows, err := uc.resolveWindows(ctx, req.BarberID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to resolve windows: %v", err)
		return nil, err
	}

	if len(windows) == 0 {
		uc.logger.Info("GetAvailableSlots: no open windows for barber=%d on %s",
			req.BarberID, req.Date.Format(domain.DateFormat))
		return uc.emptyResponse(req, serviceDuration, stepMinutes), nil
	}

	// 8. Загружаем занятые интервалы
	occupied, err := uc.loadOccupiedIntervals(ctx, req.BarberID, req.Date, req.ExcludeAppointmentID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to load occupied intervals: %v", err)
		return nil, err
	}

	// 9. Генерируем кандидатов и фильтруем конфликты
	candidates := generateCandidates(windows, serviceDuration, stepMinutes)
	accepted := filterConflicts(candidates, serviceDuration, occupied, req.Date, now, config.MinBookingNoticeMinutes)

	// 10. Конвертируем минуты обратно в "HH:MM" на границе представления
	slots := make([]types.TimeString, 0, len(accepted))
	for _, minutes := range accepted {
		slot, err := types.FromMinutes(minutes)
		if err != nil {
			uc.logger.Warn("GetAvailableSlots: candidate %d minutes out of range, skipping", minutes)
			continue
		}
		slots = append(slots, slot)
	}

	uc.logger.Info("GetAvailableSlots: %d slots for barber=%d, service=%d, date=%s",
		len(slots), req.BarberID, req.ServiceID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:                   req.Date,
		BarberID:               req.BarberID,
		ServiceID:              req.ServiceID,
		ServiceDurationMinutes: serviceDuration,
		StepMinutes:            stepMinutes,
		Slots:                  slots,
	}, nil
}

func (uc *UseCase) emptyResponse(req *Request, serviceDuration, stepMinutes int) *Response {
	return &Response{
		Date:                   req.Date,
		BarberID:               req.BarberID,
		ServiceID:              req.ServiceID,
		ServiceDurationMinutes: serviceDuration,
		StepMinutes:            stepMinutes,
		Slots:                  []types.TimeString{},
	}
}
