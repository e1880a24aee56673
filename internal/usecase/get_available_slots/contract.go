package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BarberService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// GetByBarberWithFilter получает записи барбера на конкретную дату
	GetByBarberWithFilter(ctx context.Context, filter domain.BarberAppointmentsFilter) ([]*domain.Appointment, error)
}

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	GetExceptionByBarberAndDate(ctx context.Context, barberID int64, date time.Time) (*domain.DailyException, error)
	GetWeeklyByBarberAndWeekday(ctx context.Context, barberID int64, weekday int) (*domain.WeeklyAvailability, error)
}

// ConfigRepository интерфейс репозитория конфигурации слотов
type ConfigRepository interface {
	// GetConfigWithHierarchy получает конфигурацию с учетом иерархии приоритетов
	GetConfigWithHierarchy(ctx context.Context, barberID int64) (*domain.SchedulingConfig, error)
}

// DurationResolver определяет длительность услуги в минутах
// Резолвит по ID через каталог, по префиксу описания для legacy-записей,
// иначе применяет значение по умолчанию. Никогда не возвращает ошибку.
type DurationResolver interface {
	ResolveDuration(ctx context.Context, serviceID *int64, description string) int
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
