package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BarberService/internal/domain"
	apptRepo "github.com/m04kA/SMC-BarberService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-BarberService/internal/integrations/notifyservice"
	"github.com/m04kA/SMC-BarberService/internal/service/appointments/models"
)

// Service сервис для работы с записями к барберам
type Service struct {
	apptRepo     AppointmentRepository
	notifyClient NotifyClient
	logger       Logger
}

// NewService создает новый экземпляр сервиса записей
// notifyClient может быть nil, если интеграция с уведомлениями выключена
func NewService(
	apptRepo AppointmentRepository,
	notifyClient NotifyClient,
	logger Logger,
) *Service {
	return &Service{
		apptRepo:     apptRepo,
		notifyClient: notifyClient,
		logger:       logger,
	}
}

// GetByID получает запись по ID
// Доступ разрешён клиенту записи и барберу, к которому она сделана
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for user=%d", id, userID)

	appt, err := s.apptRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if appt.ClientID != userID && appt.BarberID != userID {
		s.logger.Warn("GetByID: access denied for user=%d to appointment id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched appointment id=%d", id)
	return models.FromDomainAppointment(appt), nil
}

// GetClientAppointments получает историю записей клиента
// Опционально фильтрует по статусу
func (s *Service) GetClientAppointments(ctx context.Context, req *models.GetClientAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetClientAppointments: fetching appointments for client=%d, status=%v", req.ClientID, req.Status)

	var domainStatus *domain.AppointmentStatus
	if req.Status != nil {
		status, err := models.ToDomainAppointmentStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetClientAppointments: invalid status=%s for client=%d", *req.Status, req.ClientID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	appointments, err := s.apptRepo.GetByClientID(ctx, req.ClientID, domainStatus)
	if err != nil {
		s.logger.Error("GetClientAppointments: repository error for client=%d: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: GetClientAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetClientAppointments: successfully fetched %d appointments for client=%d", len(appointments), req.ClientID)
	return models.FromDomainAppointmentList(appointments), nil
}

// GetBarberAppointments получает записи барбера с гибкой фильтрацией
// Доступно только самому барберу - это его рабочий журнал
//
// Примеры использования:
// - Журнал на день: указать Date
// - Записи за период: StartDate и EndDate
// - Только ожидающие: указать Status = "pending"
// - Включая отменённые: IncludeCanceled = true
func (s *Service) GetBarberAppointments(ctx context.Context, req *models.GetBarberAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetBarberAppointments: fetching appointments for barber=%d, user=%d", req.BarberID, req.UserID)

	// Журнал записей доступен только самому барберу
	if req.BarberID != req.UserID {
		s.logger.Warn("GetBarberAppointments: access denied for user=%d to barber=%d appointments", req.UserID, req.BarberID)
		return nil, ErrAccessDenied
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetBarberAppointments: invalid filter for barber=%d: %v", req.BarberID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	appointments, err := s.apptRepo.GetByBarberWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetBarberAppointments: repository error for barber=%d: %v", req.BarberID, err)
		return nil, fmt.Errorf("%w: GetBarberAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetBarberAppointments: successfully fetched %d appointments for barber=%d", len(appointments), req.BarberID)
	return models.FromDomainAppointmentList(appointments), nil
}

// Cancel отменяет запись
// Клиент может отменить только свою запись (canceled_by_client)
// Барбер может отменить запись к себе (canceled_by_barber)
func (s *Service) Cancel(ctx context.Context, appointmentID int64, req *models.CancelAppointmentRequest) error {
	s.logger.Info("Cancel: canceling appointment id=%d by user=%d", appointmentID, req.UserID)

	appt, err := s.apptRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%d not found", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if !appt.CanBeCanceled() {
		s.logger.Warn("Cancel: appointment id=%d cannot be canceled, status=%s", appointmentID, appt.Status)
		return ErrCannotCancel
	}

	// Статус отмены зависит от того, кто отменяет
	var cancelStatus domain.AppointmentStatus
	switch req.UserID {
	case appt.ClientID:
		cancelStatus = domain.StatusCanceledByClient
	case appt.BarberID:
		cancelStatus = domain.StatusCanceledByBarber
	default:
		s.logger.Warn("Cancel: access denied for user=%d to cancel appointment id=%d", req.UserID, appointmentID)
		return ErrAccessDenied
	}

	if err := s.apptRepo.Cancel(ctx, appointmentID, cancelStatus, req.CancellationReason); err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%d not found during cancellation", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.notifyCanceled(ctx, appt)

	s.logger.Info("Cancel: successfully canceled appointment id=%d with status=%s", appointmentID, cancelStatus)
	return nil
}

// Complete отмечает запись выполненной
// Доступно только барберу записи
func (s *Service) Complete(ctx context.Context, appointmentID int64, req *models.CompleteAppointmentRequest) error {
	s.logger.Info("Complete: completing appointment id=%d by user=%d", appointmentID, req.UserID)

	appt, err := s.apptRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Complete: appointment id=%d not found", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Complete: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: Complete - repository error: %v", ErrInternal, err)
	}

	if appt.BarberID != req.UserID {
		s.logger.Warn("Complete: access denied for user=%d to complete appointment id=%d", req.UserID, appointmentID)
		return ErrAccessDenied
	}

	if !appt.CanBeCompleted() {
		s.logger.Warn("Complete: appointment id=%d cannot be completed, status=%s", appointmentID, appt.Status)
		return ErrCannotComplete
	}

	if err := s.apptRepo.UpdateStatus(ctx, appointmentID, domain.StatusDone); err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Complete: appointment id=%d not found during update", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Complete: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: Complete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Complete: successfully completed appointment id=%d", appointmentID)
	return nil
}

// notifyCanceled отправляет уведомление об отмене записи
// Ошибка уведомления не влияет на результат операции
func (s *Service) notifyCanceled(ctx context.Context, appt *domain.Appointment) {
	if s.notifyClient == nil {
		return
	}

	notification := notifyservice.Notification{
		Event:         notifyservice.EventAppointmentCanceled,
		AppointmentID: appt.ID,
		BarberID:      appt.BarberID,
		ClientID:      appt.ClientID,
		ServiceName:   appt.ServiceName,
		Date:          appt.Date.Format(domain.DateFormat),
		StartTime:     appt.StartTime.String(),
	}

	if err := s.notifyClient.SendWithGracefulDegradation(ctx, notification); err != nil {
		// Уведомление не критично - запись уже отменена
		s.logger.Warn("notifyCanceled: notification degraded for appointment id=%d: %v", appt.ID, err)
	}
}
