package set_day_exception

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BarberService/internal/api/handlers"
	"github.com/m04kA/SMC-BarberService/internal/api/middleware"
	"github.com/m04kA/SMC-BarberService/internal/service/schedule"
	"github.com/m04kA/SMC-BarberService/internal/service/schedule/models"
)

const (
	msgInvalidBarberID        = "ID do barbeiro inválido"
	msgInvalidRequestBody     = "corpo da requisição inválido"
	msgAccessDenied           = "acesso negado"
	msgInvalidExceptionType   = "tipo de exceção inválido, esperado DAY_OFF ou CUSTOM"
	msgInvalidTimeRange       = "intervalo de horário inválido, esperado HH:MM com início antes do fim"
	msgInvalidExceptionParams = "parâmetros da exceção inválidos"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/barbers/{barberId}/schedule/exceptions
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	vars := mux.Vars(r)
	barberID, err := strconv.ParseInt(vars["barberId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /barbers/{id}/schedule/exceptions - Invalid barber ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBarberID)
		return
	}

	// Исключения может менять только сам барбер
	if barberID != userID {
		h.logger.Warn("PUT /barbers/{id}/schedule/exceptions - Access denied: barber_id=%d, user_id=%d", barberID, userID)
		handlers.RespondForbidden(w, msgAccessDenied)
		return
	}

	var req models.SetExceptionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /barbers/{id}/schedule/exceptions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.BarberID = barberID

	result, err := h.service.SetException(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidExceptionType):
			h.logger.Warn("PUT /barbers/{id}/schedule/exceptions - Invalid type: barber_id=%d, type=%s", barberID, req.Type)
			handlers.RespondBadRequest(w, msgInvalidExceptionType)

		case errors.Is(err, schedule.ErrInvalidTimeRange):
			h.logger.Warn("PUT /barbers/{id}/schedule/exceptions - Invalid time range: barber_id=%d, error=%v", barberID, err)
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("PUT /barbers/{id}/schedule/exceptions - Invalid input: barber_id=%d, error=%v", barberID, err)
			handlers.RespondBadRequest(w, msgInvalidExceptionParams)

		default:
			h.logger.Error("PUT /barbers/{id}/schedule/exceptions - Failed to set exception: barber_id=%d, error=%v", barberID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /barbers/{id}/schedule/exceptions - Exception set successfully: barber_id=%d, date=%s, type=%s",
		barberID, req.Date, req.Type)
	handlers.RespondJSON(w, http.StatusOK, result)
}
