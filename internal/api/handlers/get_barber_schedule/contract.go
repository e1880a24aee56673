package get_barber_schedule

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BarberService/internal/service/schedule/models"
)

type ScheduleService interface {
	GetBarberSchedule(ctx context.Context, barberID int64, from time.Time) (*models.BarberScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
