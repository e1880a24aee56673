package schedule

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BarberService/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписаний и исключений
type ScheduleRepository interface {
	GetWeeklyByBarber(ctx context.Context, barberID int64) ([]*domain.WeeklyAvailability, error)
	UpsertWeekly(ctx context.Context, weekly *domain.WeeklyAvailability) (*domain.WeeklyAvailability, error)
	GetExceptionByBarberAndDate(ctx context.Context, barberID int64, date time.Time) (*domain.DailyException, error)
	GetExceptionsByBarberAndPeriod(ctx context.Context, barberID int64, from, to time.Time) ([]*domain.DailyException, error)
	UpsertException(ctx context.Context, exception *domain.DailyException) (*domain.DailyException, error)
	DeleteException(ctx context.Context, barberID int64, date time.Time) error
}

// ConfigRepository интерфейс репозитория конфигурации слотов
type ConfigRepository interface {
	GetConfigWithHierarchy(ctx context.Context, barberID int64) (*domain.SchedulingConfig, error)
	GetByBarber(ctx context.Context, barberID *int64) (*domain.SchedulingConfig, error)
	Upsert(ctx context.Context, cfg *domain.SchedulingConfig) (*domain.SchedulingConfig, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
