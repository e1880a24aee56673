package reschedule_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BarberService/internal/domain"
	"github.com/m04kA/SMC-BarberService/internal/integrations/notifyservice"
	"github.com/m04kA/SMC-BarberService/pkg/types"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByBarberWithFilter(ctx context.Context, filter domain.BarberAppointmentsFilter) ([]*domain.Appointment, error)
	UpdateSchedule(ctx context.Context, id int64, date time.Time, startTime types.TimeString) error
}

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	GetExceptionByBarberAndDate(ctx context.Context, barberID int64, date time.Time) (*domain.DailyException, error)
	GetWeeklyByBarberAndWeekday(ctx context.Context, barberID int64, weekday int) (*domain.WeeklyAvailability, error)
}

// ConfigRepository интерфейс репозитория конфигурации слотов
type ConfigRepository interface {
	GetConfigWithHierarchy(ctx context.Context, barberID int64) (*domain.SchedulingConfig, error)
}

// DurationResolver определяет длительность услуги записи
type DurationResolver interface {
	ResolveDuration(ctx context.Context, serviceID *int64, description string) int
}

// NotifyClient интерфейс клиента для NotifyService
type NotifyClient interface {
	SendWithGracefulDegradation(ctx context.Context, notification notifyservice.Notification) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
