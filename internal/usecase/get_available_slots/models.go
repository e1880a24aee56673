package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-BarberService/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	UserID    int64     // ID пользователя (для логирования, не влияет на результат)
	BarberID  int64     // ID барбера
	ServiceID int64     // ID услуги
	Date      time.Time // Дата для получения слотов (без времени)

	// ExcludeAppointmentID исключает запись из занятых интервалов.
	// Используется при переносе: запись не должна конфликтовать сама с собой.
	ExcludeAppointmentID *int64

	// StepMinutes переопределяет шаг генерации слотов из конфигурации
	StepMinutes *int
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date                   time.Time          // Дата, на которую запрашивались слоты
	BarberID               int64              // ID барбера
	ServiceID              int64              // ID услуги
	ServiceDurationMinutes int                // Длительность услуги, использованная в расчёте
	StepMinutes            int                // Шаг генерации слотов
	Slots                  []types.TimeString // Доступные времена начала ("HH:MM")
}
