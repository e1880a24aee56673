package delete_day_exception

import "context"

type ScheduleService interface {
	DeleteException(ctx context.Context, barberID int64, dateStr string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
