package update_weekly_schedule

import (
	"context"

	"github.com/m04kA/SMC-BarberService/internal/service/schedule/models"
)

type ScheduleService interface {
	UpdateWeeklySchedule(ctx context.Context, req *models.UpdateWeeklyScheduleRequest) (*models.BarberScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
