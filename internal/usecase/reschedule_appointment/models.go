package reschedule_appointment

import (
	"time"

	"github.com/m04kA/SMC-BarberService/pkg/types"
)

// Request модель запроса на перенос записи
type Request struct {
	AppointmentID int64            // ID переносимой записи
	UserID        int64            // ID пользователя, выполняющего перенос
	Date          time.Time        // Новая дата (без времени)
	StartTime     types.TimeString // Новое время начала (например, "10:00")
}

// Response модель ответа с перенесённой записью
type Response struct {
	ID              int64            // ID записи
	ClientID        int64            // ID клиента
	BarberID        int64            // ID барбера
	ServiceID       int64            // ID услуги
	Date            time.Time        // Новая дата записи
	StartTime       types.TimeString // Новое время начала
	DurationMinutes int              // Длительность в минутах
	Status          string           // Статус записи

	ServiceName  string  // Название услуги
	ServicePrice float64 // Цена услуги
	Notes        *string // Заметки

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
