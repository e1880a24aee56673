package schedule

import "errors"

var (
	// ErrExceptionNotFound возвращается, когда исключение на дату не найдено
	ErrExceptionNotFound = errors.New("daily exception not found")

	// ErrConfigNotFound возвращается, когда конфигурация не найдена
	ErrConfigNotFound = errors.New("scheduling config not found")

	// ErrInvalidWeekday возвращается при дне недели вне диапазона 0..6
	ErrInvalidWeekday = errors.New("invalid weekday")

	// ErrInvalidTimeRange возвращается при некорректном временном интервале
	ErrInvalidTimeRange = errors.New("invalid time range")

	// ErrInvalidExceptionType возвращается при неизвестном типе исключения
	ErrInvalidExceptionType = errors.New("invalid exception type")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("schedule service: internal error")
)
