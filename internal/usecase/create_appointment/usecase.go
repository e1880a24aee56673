package create_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BarberService/internal/domain"
	configRepo "github.com/m04kA/SMC-BarberService/internal/infra/storage/schedconfig"
	serviceRepo "github.com/m04kA/SMC-BarberService/internal/infra/storage/servicecatalog"
	"github.com/m04kA/SMC-BarberService/internal/integrations/notifyservice"
)

// UseCase use case для создания записи к барберу
type UseCase struct {
	apptRepo         AppointmentRepository
	scheduleRepo     ScheduleRepository
	configRepo       ConfigRepository
	serviceRepo      ServiceRepository
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
	serviceRepo ServiceRepository,
	durationResolver DurationResolver,
	notifyClient NotifyClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		apptRepo:         apptRepo,
		scheduleRepo:     scheduleRepo,
		configRepo:       configRepo,
		serviceRepo:      serviceRepo,
		durationResolver: durationResolver,
		notifyClient:     notifyClient,
		txManager:        txManager,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case создания записи
// Использует сериализуемую транзакцию для предотвращения двойного бронирования:
// чтение записей дня выполняется с блокировкой FOR UPDATE, затем повторно
// проверяется отсутствие пересечений перед вставкой
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: client=%d, barber=%d, service=%d, date=%s, time=%s",
		req.ClientID, req.BarberID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем услугу из каталога
	// Для новых записей услуга обязана существовать - leniency с дефолтной
	// длительностью применяется только к чтению legacy-записей
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if !service.IsActive {
		uc.logger.Warn("CreateAppointment: service id=%d is not active", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	startMinutes, err := req.StartTime.Minutes()
	if err != nil {
		return nil, fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}

	var result *domain.Appointment

	// 4. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Получаем конфигурацию слотов с учетом иерархии
		config, err := uc.configRepo.GetConfigWithHierarchy(txCtx, req.BarberID)
		if err != nil && !errors.Is(err, configRepo.ErrConfigNotFound) {
			uc.logger.Error("CreateAppointment: failed to get config: %v", err)
			return fmt.Errorf("%w: failed to get config: %v", ErrInternal, err)
		}

		if config == nil {
			config = &domain.SchedulingConfig{
				SlotStepMinutes:         domain.DefaultSlotStepMinutes,
				AdvanceBookingDays:      domain.DefaultAdvanceBookingDays,
				MinBookingNoticeMinutes: domain.DefaultMinBookingNoticeMinutes,
			}
			uc.logger.Info("CreateAppointment: using default config for barber=%d", req.BarberID)
		}

		// 4.2. Валидация даты с учетом конфигурации
		if err := validateDate(req.Date, now, config.AdvanceBookingDays); err != nil {
			uc.logger.Warn("CreateAppointment: date validation failed: %v", err)
			return err
		}

		// 4.3. Валидация времени записи (minBookingNoticeMinutes)
		if err := validateBookingTime(req.Date, req.StartTime, now, config.MinBookingNoticeMinutes); err != nil {
			uc.logger.Warn("CreateAppointment: booking time validation failed: %v", err)
			return err
		}

		// 4.4. Проверяем, что слот попадает в открытое окно барбера
		windows, err := uc.resolveWindows(txCtx, req.BarberID, req.Date)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to resolve windows: %v", err)
			return err
		}

		if !fitsAnyWindow(windows, startMinutes, service.DurationMinutes) {
			uc.logger.Warn("CreateAppointment: barber=%d unavailable at %s %s",
				req.BarberID, req.Date.Format(domain.DateFormat), req.StartTime)
			return ErrBarberUnavailable
		}

		// 4.5. Получаем записи дня с блокировкой (FOR UPDATE внутри транзакции)
		filter := domain.BarberAppointmentsFilter{
			BarberID:        req.BarberID,
			Date:            &req.Date,
			IncludeCanceled: false,
		}

		appointments, err := uc.apptRepo.GetByBarberWithFilter(txCtx, filter)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		// 4.6. Повторно проверяем отсутствие пересечений по свежему снимку
		occupied := uc.buildOccupiedIntervals(txCtx, appointments)

		if hasConflict(occupied, startMinutes, startMinutes+service.DurationMinutes) {
			uc.logger.Warn("CreateAppointment: slot %s is not available for barber=%d", req.StartTime, req.BarberID)
			return ErrSlotNotAvailable
		}

		// 4.7. Создаем запись с денормализацией данных услуги
		appt := &domain.Appointment{
			BarberID:        req.BarberID,
			ClientID:        req.ClientID,
			ServiceID:       req.ServiceID,
			Date:            req.Date,
			StartTime:       req.StartTime,
			DurationMinutes: service.DurationMinutes,
			Status:          domain.StatusPending,
			ServiceName:     service.Name,
			ServicePrice:    service.Price,
			Notes:           req.Notes,
		}

		created, err := uc.apptRepo.Create(txCtx, appt)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", result.ID)

	// 5. Уведомление отправляется после коммита - его отказ не откатывает запись
	uc.notifyCreated(ctx, result)

	return &Response{
		ID:              result.ID,
		ClientID:        result.ClientID,
		BarberID:        result.BarberID,
		ServiceID:       result.ServiceID,
		Date:            result.Date,
		StartTime:       result.StartTime,
		DurationMinutes: result.DurationMinutes,
		Status:          string(result.Status),
		ServiceName:     result.ServiceName,
		ServicePrice:    result.ServicePrice,
		Notes:           result.Notes,
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.UpdatedAt,
	}, nil
}

// buildOccupiedIntervals строит занятые интервалы из активных записей дня.
// Длительность резолвится через каталог по описанию услуги - единообразно
// с расчётом доступных слотов.
func (uc *UseCase) buildOccupiedIntervals(ctx context.Context, appointments []*domain.Appointment) []domain.OccupiedInterval {
	occupied := make([]domain.OccupiedInterval, 0, len(appointments))

	for _, appt := range appointments {
		if !appt.OccupiesTime() {
			continue
		}

		start, err := appt.StartTime.Minutes()
		if err != nil {
			uc.logger.Warn("CreateAppointment: appointment id=%d has invalid start time %q, skipping",
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

// notifyCreated отправляет уведомление о созданной записи
func (uc *UseCase) notifyCreated(ctx context.Context, appt *domain.Appointment) {
	if uc.notifyClient == nil {
		return
	}

	notification := notifyservice.Notification{
		Event:         notifyservice.EventAppointmentCreated,
		AppointmentID: appt.ID,
		BarberID:      appt.BarberID,
		ClientID:      appt.ClientID,
		ServiceName:   appt.ServiceName,
		Date:          appt.Date.Format(domain.DateFormat),
		StartTime:     appt.StartTime.String(),
	}

	if err := uc.notifyClient.SendWithGracefulDegradation(ctx, notification); err != nil {
		uc.logger.Warn("CreateAppointment: notification degraded for appointment id=%d: %v", appt.ID, err)
	}
}
