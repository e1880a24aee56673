package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BarberService/internal/api/handlers"
	"github.com/m04kA/SMC-BarberService/internal/api/middleware"
	createAppointment "github.com/m04kA/SMC-BarberService/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody = "corpo da requisição inválido"
	msgInvalidDateOrTime  = "data ou horário inválido, esperado YYYY-MM-DD e HH:MM"
	msgServiceNotFound    = "serviço não encontrado"
	msgBarberUnavailable  = "barbeiro indisponível neste horário"
	msgSlotNotAvailable   = "horário selecionado não está disponível"
	msgInvalidDate        = "data da marcação inválida"
	msgDateTooFar         = "data muito distante no futuro"
	msgTooLateToBook      = "muito tarde para marcar este horário"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clientID := middleware.GetUserID(r.Context())

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(clientID)
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createAppointment.ErrSlotNotAvailable):
			h.logger.Warn("POST /appointments - Slot not available: client_id=%d, barber_id=%d", clientID, req.BarberID)
			handlers.RespondError(w, http.StatusConflict, msgSlotNotAvailable)

		case errors.Is(err, createAppointment.ErrServiceNotFound):
			h.logger.Warn("POST /appointments - Service not found: client_id=%d, service_id=%d", clientID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createAppointment.ErrBarberUnavailable):
			h.logger.Warn("POST /appointments - Barber unavailable: client_id=%d, barber_id=%d", clientID, req.BarberID)
			handlers.RespondBadRequest(w, msgBarberUnavailable)

		case errors.Is(err, createAppointment.ErrInvalidDate):
			h.logger.Warn("POST /appointments - Invalid date: client_id=%d, barber_id=%d", clientID, req.BarberID)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, createAppointment.ErrDateTooFarInFuture):
			h.logger.Warn("POST /appointments - Date too far in future: client_id=%d, barber_id=%d", clientID, req.BarberID)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createAppointment.ErrTooLateToBook):
			h.logger.Warn("POST /appointments - Too late to book: client_id=%d, barber_id=%d", clientID, req.BarberID)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: client_id=%d, barber_id=%d, error=%v",
				clientID, req.BarberID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%d, client_id=%d, barber_id=%d",
		result.ID, clientID, req.BarberID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
