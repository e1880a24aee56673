package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-BarberService/internal/domain"
	"github.com/m04kA/SMC-BarberService/pkg/types"
)

var (
	// ErrInvalidTimeRange возвращается при некорректном временном интервале
	ErrInvalidTimeRange = errors.New("invalid time range")
)

// Request модели

// TimeRangeDTO интервал рабочего времени "HH:MM"
type TimeRangeDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// WeeklyDayRequest расписание на один день недели
type WeeklyDayRequest struct {
	Weekday   int            `json:"weekday"` // 0 = воскресенье .. 6 = суббота
	IsActive  bool           `json:"isActive"`
	Intervals []TimeRangeDTO `json:"intervals"`
}

// UpdateWeeklyScheduleRequest запрос на замену недельного расписания барбера
type UpdateWeeklyScheduleRequest struct {
	BarberID int64              `json:"-"`
	Days     []WeeklyDayRequest `json:"days"`
}

// SetExceptionRequest запрос на установку исключения на дату
type SetExceptionRequest struct {
	BarberID  int64          `json:"-"`
	Date      string         `json:"date"` // YYYY-MM-DD
	Type      string         `json:"type"` // DAY_OFF | CUSTOM
	Intervals []TimeRangeDTO `json:"intervals,omitempty"`
}

// UpdateConfigRequest запрос на обновление конфигурации генерации слотов
type UpdateConfigRequest struct {
	BarberID                *int64 `json:"-"` // nil = конфигурация барбершопа
	SlotStepMinutes         int    `json:"slotStepMinutes"`
	AdvanceBookingDays      int    `json:"advanceBookingDays"`
	MinBookingNoticeMinutes int    `json:"minBookingNoticeMinutes"`
}

// Response модели

// WeeklyDayResponse расписание на один день недели
type WeeklyDayResponse struct {
	Weekday   int            `json:"weekday"`
	IsActive  bool           `json:"isActive"`
	Intervals []TimeRangeDTO `json:"intervals"`
}

// ExceptionResponse исключение на дату
type ExceptionResponse struct {
	Date      string         `json:"date"`
	Type      string         `json:"type"`
	Intervals []TimeRangeDTO `json:"intervals"`
}

// BarberScheduleResponse полное расписание барбера: недельный шаблон и исключения
type BarberScheduleResponse struct {
	BarberID   int64               `json:"barberId"`
	Weekly     []WeeklyDayResponse `json:"weekly"`
	Exceptions []ExceptionResponse `json:"exceptions"`
}

// ConfigResponse конфигурация генерации слотов
type ConfigResponse struct {
	BarberID                *int64 `json:"barberId,omitempty"` // null = конфигурация барбершопа
	SlotStepMinutes         int    `json:"slotStepMinutes"`
	AdvanceBookingDays      int    `json:"advanceBookingDays"`
	MinBookingNoticeMinutes int    `json:"minBookingNoticeMinutes"`
}

// Методы конвертации

// ToDomainTimeRanges конвертирует DTO интервалы в доменные с валидацией
func ToDomainTimeRanges(dtos []TimeRangeDTO) ([]domain.TimeRange, error) {
	ranges := make([]domain.TimeRange, 0, len(dtos))

	for _, dto := range dtos {
		tr := domain.TimeRange{
			Start: types.TimeString(dto.Start),
			End:   types.TimeString(dto.End),
		}
		if err := tr.Validate(); err != nil {
			return nil, err
		}
		ranges = append(ranges, tr)
	}

	return ranges, nil
}

// FromDomainTimeRanges конвертирует доменные интервалы в DTO
func FromDomainTimeRanges(ranges []domain.TimeRange) []TimeRangeDTO {
	dtos := make([]TimeRangeDTO, len(ranges))
	for i, tr := range ranges {
		dtos[i] = TimeRangeDTO{
			Start: tr.Start.String(),
			End:   tr.End.String(),
		}
	}
	return dtos
}

// FromDomainWeekly конвертирует недельное расписание в DTO
func FromDomainWeekly(weekly []*domain.WeeklyAvailability) []WeeklyDayResponse {
	result := make([]WeeklyDayResponse, len(weekly))
	for i, day := range weekly {
		result[i] = WeeklyDayResponse{
			Weekday:   day.Weekday,
			IsActive:  day.IsActive,
			Intervals: FromDomainTimeRanges(day.Intervals),
		}
	}
	return result
}

// FromDomainExceptions конвертирует исключения в DTO
func FromDomainExceptions(exceptions []*domain.DailyException) []ExceptionResponse {
	result := make([]ExceptionResponse, len(exceptions))
	for i, exc := range exceptions {
		result[i] = ExceptionResponse{
			Date:      exc.Date.Format(domain.DateFormat),
			Type:      string(exc.Type),
			Intervals: FromDomainTimeRanges(exc.Intervals),
		}
	}
	return result
}

// FromDomainConfig конвертирует конфигурацию в DTO
func FromDomainConfig(cfg *domain.SchedulingConfig) *ConfigResponse {
	if cfg == nil {
		return nil
	}

	return &ConfigResponse{
		BarberID:                cfg.BarberID,
		SlotStepMinutes:         cfg.SlotStepMinutes,
		AdvanceBookingDays:      cfg.AdvanceBookingDays,
		MinBookingNoticeMinutes: cfg.MinBookingNoticeMinutes,
	}
}

// ParseDate парсит дату из формата YYYY-MM-DD
func ParseDate(value string) (time.Time, error) {
	return time.Parse(domain.DateFormat, value)
}
