package reschedule_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BarberService/internal/domain"
	apptRepo "github.com/m04kA/SMC-BarberService/internal/infra/storage/appointment"
	configRepo "github.com/m04kA/SMC-BarberService/internal/infra/storage/schedconfig"
	"github.com/m04kA/SMC-BarberService/internal/integrations/notifyservice"
)

// UseCase use case для переноса записи на другое время
type UseCase struct {
	apptRepo         AppointmentRepository
	scheduleRepo     ScheduleRepository
	configRepo       ConfigRepository
	durationResolver DurationResolver
	notifyClient     NotifyClient
	txManager        TransactionManager
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
// notifyClient может быть nil, если интеграция с уведомлениями выключена
func NewUseCase(
	apptRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	configRepo ConfigRepository,
	durationResolver DurationResolver,
	notifyClient NotifyClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		apptRepo:         apptRepo,
		scheduleRepo:     scheduleRepo,
		configRepo:       configRepo,
		durationResolver: durationResolver,
		notifyClient:     notifyClient,
		txManager:        txManager,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case переноса записи
// Проверка доступности нового слота идёт по тем же правилам, что и создание,
// с одним отличием: собственный интервал переносимой записи исключается
// из занятых, чтобы запись не конфликтовала сама с собой
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleAppointment: appointment=%d, user=%d, date=%s, time=%s",
		req.AppointmentID, req.UserID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем запись и проверяем права доступа
	appt, err := uc.apptRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("RescheduleAppointment: appointment id=%d not found", req.AppointmentID)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("RescheduleAppointment: failed to get appointment id=%d: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}

	// Перенести запись может её клиент или её барбер
	if appt.ClientID != req.UserID && appt.BarberID != req.UserID {
		uc.logger.Warn("RescheduleAppointment: access denied for user=%d to appointment id=%d",
			req.UserID, req.AppointmentID)
		return nil, ErrAccessDenied
	}

	if !appt.CanBeRescheduled() {
		uc.logger.Warn("RescheduleAppointment: appointment id=%d cannot be rescheduled, status=%s",
			req.AppointmentID, appt.Status)
		return nil, ErrCannotReschedule
	}

	startMinutes, err := req.StartTime.Minutes()
	if err != nil {
		return nil, fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}

	// Длительность переносимой записи не меняется
	duration := appt.DurationMinutes

	// 4. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Получаем конфигурацию слотов с учетом иерархии
		config, err := uc.configRepo.GetConfigWithHierarchy(txCtx, appt.BarberID)
		if err != nil && !errors.Is(err, configRepo.ErrConfigNotFound) {
			uc.logger.Error("RescheduleAppointment: failed to get config: %v", err)
			return fmt.Errorf("%w: failed to get config: %v", ErrInternal, err)
		}

		if config == nil {
			config = &domain.SchedulingConfig{
				SlotStepMinutes:         domain.DefaultSlotStepMinutes,
				AdvanceBookingDays:      domain.DefaultAdvanceBookingDays,
				MinBookingNoticeMinutes: domain.DefaultMinBookingNoticeMinutes,
			}
			uc.logger.Info("RescheduleAppointment: using default config for barber=%d", appt.BarberID)
		}

		// 4.2. Валидация новой даты
		if err := validateDate(req.Date, now, config.AdvanceBookingDays); err != nil {
			uc.logger.Warn("RescheduleAppointment: date validation failed: %v", err)
			return err
		}

		// 4.3. Валидация нового времени (minBookingNoticeMinutes)
		if err := validateBookingTime(req.Date, req.StartTime, now, config.MinBookingNoticeMinutes); err != nil {
			uc.logger.Warn("RescheduleAppointment: booking time validation failed: %v", err)
			return err
		}

		// 4.4. Проверяем, что новый слот попадает в открытое окно барбера
		windows, err := uc.resolveWindows(txCtx, appt.BarberID, req.Date)
		if err != nil {
			uc.logger.Error("RescheduleAppointment: failed to resolve windows: %v", err)
			return err
		}

		if !fitsAnyWindow(windows, startMinutes, duration) {
			uc.logger.Warn("RescheduleAppointment: barber=%d unavailable at %s %s",
				appt.BarberID, req.Date.Format(domain.DateFormat), req.StartTime)
			return ErrBarberUnavailable
		}

		// 4.5. Получаем записи нового дня с блокировкой (FOR UPDATE внутри транзакции)
		filter := domain.BarberAppointmentsFilter{
			BarberID:        appt.BarberID,
			Date:            &req.Date,
			IncludeCanceled: false,
		}

		appointments, err := uc.apptRepo.GetByBarberWithFilter(txCtx, filter)
		if err != nil {
			uc.logger.Error("RescheduleAppointment: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		// 4.6. Строим занятые интервалы, исключая переносимую запись
		occupied := uc.buildOccupiedIntervals(txCtx, appointments, appt.ID)

		if hasConflict(occupied, startMinutes, startMinutes+duration) {
			uc.logger.Warn("RescheduleAppointment: slot %s is not available for barber=%d",
				req.StartTime, appt.BarberID)
			return ErrSlotNotAvailable
		}

		// 4.7. Обновляем дату и время записи
		if err := uc.apptRepo.UpdateSchedule(txCtx, appt.ID, req.Date, req.StartTime); err != nil {
			if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			uc.logger.Error("RescheduleAppointment: failed to update schedule: %v", err)
			return fmt.Errorf("%w: failed to update schedule: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("RescheduleAppointment: successfully rescheduled appointment id=%d to %s %s",
		appt.ID, req.Date.Format(domain.DateFormat), req.StartTime)

	appt.Date = req.Date
	appt.StartTime = req.StartTime

	// 5. Уведомление отправляется после коммита
	uc.notifyRescheduled(ctx, appt)

	return &Response{
		ID:              appt.ID,
		ClientID:        appt.ClientID,
		BarberID:        appt.BarberID,
		ServiceID:       appt.ServiceID,
		Date:            appt.Date,
		StartTime:       appt.StartTime,
		DurationMinutes: appt.DurationMinutes,
		Status:          string(appt.Status),
		ServiceName:     appt.ServiceName,
		ServicePrice:    appt.ServicePrice,
		Notes:           appt.Notes,
		CreatedAt:       appt.CreatedAt,
		UpdatedAt:       appt.UpdatedAt,
	}, nil
}

// buildOccupiedIntervals строит занятые интервалы активных записей дня,
// пропуская переносимую запись - она не должна конфликтовать сама с собой
func (uc *UseCase) buildOccupiedIntervals(
	ctx context.Context,
	appointments []*domain.Appointment,
	excludeAppointmentID int64,
) []domain.OccupiedInterval {
	occupied := make([]domain.OccupiedInterval, 0, len(appointments))

	for _, appt := range appointments {
		if !appt.OccupiesTime() {
			continue
		}
		if appt.ID == excludeAppointmentID {
			continue
		}

		start, err := appt.StartTime.Minutes()
		if err != nil {
			uc.logger.Warn("RescheduleAppointment: appointment id=%d has invalid start time %q, skipping",
				appt.ID, appt.StartTime)
			continue
		}

		duration := uc.durationResolver.ResolveDuration(ctx, &appt.ServiceID, appt.ServiceName)

		occupied = append(occupied, domain.OccupiedInterval{
			AppointmentID: appt.ID,
			Start:         start,
			End:           start + duration,
		})
	}

	return occupied
}

// notifyRescheduled отправляет уведомление о переносе записи
func (uc *UseCase) notifyRescheduled(ctx context.Context, appt *domain.Appointment) {
	if uc.notifyClient == nil {
		return
	}

	notification := notifyservice.Notification{
		Event:         notifyservice.EventAppointmentRescheduled,
		AppointmentID: appt.ID,
		BarberID:      appt.BarberID,
		ClientID:      appt.ClientID,
		ServiceName:   appt.ServiceName,
		Date:          appt.Date.Format(domain.DateFormat),
		StartTime:     appt.StartTime.String(),
	}

	if err := uc.notifyClient.SendWithGracefulDegradation(ctx, notification); err != nil {
		uc.logger.Warn("RescheduleAppointment: notification degraded for appointment id=%d: %v", appt.ID, err)
	}
}
