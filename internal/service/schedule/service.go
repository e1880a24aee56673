package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BarberService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-BarberService/internal/infra/storage/schedule"
	configRepo "github.com/m04kA/SMC-BarberService/internal/infra/storage/schedconfig"
	"github.com/m04kA/SMC-BarberService/internal/service/schedule/models"
)

// exceptionsLookAheadDays горизонт выборки исключений для отображения расписания
const exceptionsLookAheadDays = 60

// Service сервис управления расписаниями барберов
type Service struct {
	scheduleRepo ScheduleRepository
	configRepo   ConfigRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(
	scheduleRepo ScheduleRepository,
	configRepo ConfigRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		configRepo:   configRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// GetBarberSchedule получает полное расписание барбера: недельный шаблон
// и исключения на ближайший период начиная с from
func (s *Service) GetBarberSchedule(ctx context.Context, barberID int64, from time.Time) (*models.BarberScheduleResponse, error) {
	s.logger.Info("GetBarberSchedule: fetching schedule for barber=%d", barberID)

	weekly, err := s.scheduleRepo.GetWeeklyByBarber(ctx, barberID)
	if err != nil {
		s.logger.Error("GetBarberSchedule: repository error for barber=%d: %v", barberID, err)
		return nil, fmt.Errorf("%w: GetBarberSchedule - repository error: %v", ErrInternal, err)
	}

	to := from.AddDate(0, 0, exceptionsLookAheadDays)
	exceptions, err := s.scheduleRepo.GetExceptionsByBarberAndPeriod(ctx, barberID, from, to)
	if err != nil {
		s.logger.Error("GetBarberSchedule: exceptions repository error for barber=%d: %v", barberID, err)
		return nil, fmt.Errorf("%w: GetBarberSchedule - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetBarberSchedule: fetched %d weekly days and %d exceptions for barber=%d",
		len(weekly), len(exceptions), barberID)

	return &models.BarberScheduleResponse{
		BarberID:   barberID,
		Weekly:     models.FromDomainWeekly(weekly),
		Exceptions: models.FromDomainExceptions(exceptions),
	}, nil
}

// UpdateWeeklySchedule заменяет недельное расписание барбера
// Все дни из запроса применяются в одной транзакции
func (s *Service) UpdateWeeklySchedule(ctx context.Context, req *models.UpdateWeeklyScheduleRequest) (*models.BarberScheduleResponse, error) {
	s.logger.Info("UpdateWeeklySchedule: updating %d days for barber=%d", len(req.Days), req.BarberID)

	if len(req.Days) == 0 {
		return nil, fmt.Errorf("%w: days list is empty", ErrInvalidInput)
	}

	// Валидируем все дни до начала транзакции
	updates := make([]*domain.WeeklyAvailability, 0, len(req.Days))
	seen := make(map[int]bool)

	for _, day := range req.Days {
		if day.Weekday < domain.MinWeekday || day.Weekday > domain.MaxWeekday {
			s.logger.Warn("UpdateWeeklySchedule: invalid weekday=%d for barber=%d", day.Weekday, req.BarberID)
			return nil, fmt.Errorf("%w: weekday %d", ErrInvalidWeekday, day.Weekday)
		}
		if seen[day.Weekday] {
			return nil, fmt.Errorf("%w: duplicate weekday %d", ErrInvalidInput, day.Weekday)
		}
		seen[day.Weekday] = true

		intervals, err := models.ToDomainTimeRanges(day.Intervals)
		if err != nil {
			s.logger.Warn("UpdateWeeklySchedule: invalid interval for barber=%d weekday=%d: %v", req.BarberID, day.Weekday, err)
			return nil, fmt.Errorf("%w: weekday %d: %v", ErrInvalidTimeRange, day.Weekday, err)
		}

		updates = append(updates, &domain.WeeklyAvailability{
			BarberID:  req.BarberID,
			Weekday:   day.Weekday,
			IsActive:  day.IsActive,
			Intervals: intervals,
		})
	}

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		for _, weekly := range updates {
			if _, err := s.scheduleRepo.UpsertWeekly(ctx, weekly); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("UpdateWeeklySchedule: transaction error for barber=%d: %v", req.BarberID, err)
		return nil, fmt.Errorf("%w: UpdateWeeklySchedule - transaction error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateWeeklySchedule: successfully updated %d days for barber=%d", len(updates), req.BarberID)
	return s.GetBarberSchedule(ctx, req.BarberID, time.Now())
}

// SetException устанавливает исключение барбера на дату
// DAY_OFF полностью блокирует день, CUSTOM заменяет недельные интервалы своими
func (s *Service) SetException(ctx context.Context, req *models.SetExceptionRequest) (*models.ExceptionResponse, error) {
	s.logger.Info("SetException: setting %s exception for barber=%d date=%s", req.Type, req.BarberID, req.Date)

	date, err := models.ParseDate(req.Date)
	if err != nil {
		s.logger.Warn("SetException: invalid date=%s for barber=%d", req.Date, req.BarberID)
		return nil, fmt.Errorf("%w: invalid date format, expected YYYY-MM-DD", ErrInvalidInput)
	}

	excType := domain.ExceptionType(req.Type)

	var intervals []domain.TimeRange
	switch excType {
	case domain.ExceptionDayOff:
		// Выходной не может иметь интервалов
		if len(req.Intervals) > 0 {
			return nil, fmt.Errorf("%w: DAY_OFF exception must not have intervals", ErrInvalidInput)
		}
		intervals = []domain.TimeRange{}
	case domain.ExceptionCustom:
		if len(req.Intervals) == 0 {
			return nil, fmt.Errorf("%w: CUSTOM exception requires at least one interval", ErrInvalidInput)
		}
		intervals, err = models.ToDomainTimeRanges(req.Intervals)
		if err != nil {
			s.logger.Warn("SetException: invalid interval for barber=%d date=%s: %v", req.BarberID, req.Date, err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidTimeRange, err)
		}
	default:
		s.logger.Warn("SetException: invalid type=%s for barber=%d", req.Type, req.BarberID)
		return nil, fmt.Errorf("%w: %s", ErrInvalidExceptionType, req.Type)
	}

	exception := &domain.DailyException{
		BarberID:  req.BarberID,
		Date:      date,
		Type:      excType,
		Intervals: intervals,
	}

	saved, err := s.scheduleRepo.UpsertException(ctx, exception)
	if err != nil {
		s.logger.Error("SetException: repository error for barber=%d date=%s: %v", req.BarberID, req.Date, err)
		return nil, fmt.Errorf("%w: SetException - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("SetException: successfully set %s exception for barber=%d date=%s", req.Type, req.BarberID, req.Date)

	resp := models.FromDomainExceptions([]*domain.DailyException{saved})
	return &resp[0], nil
}

// DeleteException удаляет исключение барбера на дату
// После удаления на эту дату снова действует недельное расписание
func (s *Service) DeleteException(ctx context.Context, barberID int64, dateStr string) error {
	s.logger.Info("DeleteException: deleting exception for barber=%d date=%s", barberID, dateStr)

	date, err := models.ParseDate(dateStr)
	if err != nil {
		s.logger.Warn("DeleteException: invalid date=%s for barber=%d", dateStr, barberID)
		return fmt.Errorf("%w: invalid date format, expected YYYY-MM-DD", ErrInvalidInput)
	}

	if err := s.scheduleRepo.DeleteException(ctx, barberID, date); err != nil {
		if errors.Is(err, scheduleRepo.ErrExceptionNotFound) {
			s.logger.Warn("DeleteException: exception not found for barber=%d date=%s", barberID, dateStr)
			return ErrExceptionNotFound
		}
		s.logger.Error("DeleteException: repository error for barber=%d date=%s: %v", barberID, dateStr, err)
		return fmt.Errorf("%w: DeleteException - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteException: successfully deleted exception for barber=%d date=%s", barberID, dateStr)
	return nil
}

// GetConfig получает действующую конфигурацию генерации слотов для барбера
// с учётом иерархии: персональная конфигурация приоритетнее общей
func (s *Service) GetConfig(ctx context.Context, barberID int64) (*models.ConfigResponse, error) {
	s.logger.Info("GetConfig: fetching config for barber=%d", barberID)

	cfg, err := s.configRepo.GetConfigWithHierarchy(ctx, barberID)
	if err != nil {
		if errors.Is(err, configRepo.ErrConfigNotFound) {
			// Конфигурация не задана ни на одном уровне - возвращаем дефолты
			s.logger.Info("GetConfig: no config found for barber=%d, using defaults", barberID)
			return &models.ConfigResponse{
				SlotStepMinutes:         domain.DefaultSlotStepMinutes,
				AdvanceBookingDays:      domain.DefaultAdvanceBookingDays,
				MinBookingNoticeMinutes: domain.DefaultMinBookingNoticeMinutes,
			}, nil
		}
		s.logger.Error("GetConfig: repository error for barber=%d: %v", barberID, err)
		return nil, fmt.Errorf("%w: GetConfig - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainConfig(cfg), nil
}

// UpdateConfig создает или заменяет конфигурацию генерации слотов
// BarberID == nil обновляет общую конфигурацию барбершопа
func (s *Service) UpdateConfig(ctx context.Context, req *models.UpdateConfigRequest) (*models.ConfigResponse, error) {
	if req.BarberID != nil {
		s.logger.Info("UpdateConfig: updating config for barber=%d", *req.BarberID)
	} else {
		s.logger.Info("UpdateConfig: updating shop-wide config")
	}

	if err := validateConfig(req); err != nil {
		s.logger.Warn("UpdateConfig: validation error: %v", err)
		return nil, err
	}

	cfg := &domain.SchedulingConfig{
		BarberID:                req.BarberID,
		SlotStepMinutes:         req.SlotStepMinutes,
		AdvanceBookingDays:      req.AdvanceBookingDays,
		MinBookingNoticeMinutes: req.MinBookingNoticeMinutes,
	}

	saved, err := s.configRepo.Upsert(ctx, cfg)
	if err != nil {
		s.logger.Error("UpdateConfig: repository error: %v", err)
		return nil, fmt.Errorf("%w: UpdateConfig - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateConfig: successfully updated config id=%d", saved.ID)
	return models.FromDomainConfig(saved), nil
}

// validateConfig проверяет бизнес-ограничения конфигурации
func validateConfig(req *models.UpdateConfigRequest) error {
	if req.SlotStepMinutes < domain.MinSlotStepMinutes || req.SlotStepMinutes > domain.MaxSlotStepMinutes {
		return fmt.Errorf("%w: slotStepMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotStepMinutes, domain.MaxSlotStepMinutes)
	}
	if req.AdvanceBookingDays < domain.MinAdvanceBookingDays || req.AdvanceBookingDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: advanceBookingDays must be between %d and %d",
			ErrInvalidInput, domain.MinAdvanceBookingDays, domain.MaxAdvanceBookingDays)
	}
	if req.MinBookingNoticeMinutes < domain.MinBookingNoticeMinutes || req.MinBookingNoticeMinutes > domain.MaxBookingNoticeMinutes {
		return fmt.Errorf("%w: minBookingNoticeMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinBookingNoticeMinutes, domain.MaxBookingNoticeMinutes)
	}
	return nil
}
