package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-BarberService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// CancelAppointmentRequest запрос на отмену записи
type CancelAppointmentRequest struct {
	UserID             int64  `json:"-"`
	CancellationReason string `json:"cancellationReason"`
}

// CompleteAppointmentRequest запрос на завершение записи
type CompleteAppointmentRequest struct {
	UserID int64 `json:"-"`
}

// GetClientAppointmentsRequest запрос на получение истории записей клиента
type GetClientAppointmentsRequest struct {
	ClientID int64
	Status   *string
}

// GetBarberAppointmentsRequest запрос на получение записей барбера
type GetBarberAppointmentsRequest struct {
	BarberID        int64
	UserID          int64
	Date            *time.Time
	StartDate       *time.Time
	EndDate         *time.Time
	Status          *string
	IncludeCanceled bool
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetBarberAppointmentsRequest) ToDomainFilter() (domain.BarberAppointmentsFilter, error) {
	filter := domain.BarberAppointmentsFilter{
		BarberID:        r.BarberID,
		Date:            r.Date,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeCanceled: r.IncludeCanceled,
	}

	if r.Status != nil {
		status, err := ToDomainAppointmentStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID              int64  `json:"id"`
	BarberID        int64  `json:"barberId"`
	ClientID        int64  `json:"clientId"`
	ServiceID       int64  `json:"serviceId"`
	Date            string `json:"date"`      // "2025-10-15"
	StartTime       string `json:"startTime"` // "10:00"
	DurationMinutes int    `json:"durationMinutes"`
	Status          string `json:"status"`

	// Денормализованные данные
	ServiceName  string  `json:"serviceName"`
	ServicePrice float64 `json:"servicePrice"`
	Notes        *string `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CanceledAt         *string `json:"canceledAt,omitempty"` // ISO 8601

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:                 a.ID,
		BarberID:           a.BarberID,
		ClientID:           a.ClientID,
		ServiceID:          a.ServiceID,
		Date:               a.Date.Format(domain.DateFormat),
		StartTime:          a.StartTime.String(),
		DurationMinutes:    a.DurationMinutes,
		Status:             string(a.Status),
		ServiceName:        a.ServiceName,
		ServicePrice:       a.ServicePrice,
		Notes:              a.Notes,
		CancellationReason: a.CancellationReason,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}

	if a.CanceledAt != nil {
		canceledStr := a.CanceledAt.Format(time.RFC3339)
		resp.CanceledAt = &canceledStr
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	if appointments == nil {
		return &AppointmentListResponse{
			Appointments: []AppointmentResponse{},
		}
	}

	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, len(appointments)),
	}

	for i, appt := range appointments {
		if apptResp := FromDomainAppointment(appt); apptResp != nil {
			resp.Appointments[i] = *apptResp
		}
	}

	return resp
}

// ToDomainAppointmentStatus конвертирует строку в domain.AppointmentStatus с валидацией
func ToDomainAppointmentStatus(status string) (domain.AppointmentStatus, error) {
	s := domain.AppointmentStatus(status)

	validStatuses := []domain.AppointmentStatus{
		domain.StatusPending,
		domain.StatusDone,
		domain.StatusCanceledByClient,
		domain.StatusCanceledByBarber,
	}

	for _, valid := range validStatuses {
		if s == valid {
			return s, nil
		}
	}

	return "", ErrInvalidStatus
}
