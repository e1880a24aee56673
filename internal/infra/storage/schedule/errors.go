package schedule

import "errors"

var (
	// ErrWeeklyNotFound возвращается, когда недельное расписание не найдено
	ErrWeeklyNotFound = errors.New("schedule.repository: weekly availability not found")

	// ErrExceptionNotFound возвращается, когда исключение на дату не найдено
	ErrExceptionNotFound = errors.New("schedule.repository: daily exception not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("schedule.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("schedule.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("schedule.repository: failed to scan row")

	// ErrEncodeIntervals возвращается при ошибке сериализации интервалов в JSONB
	ErrEncodeIntervals = errors.New("schedule.repository: failed to encode intervals")
)
