package update_scheduling_config

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
	msgInvalidBarberID    = "ID do barbeiro inválido"
	msgInvalidRequestBody = "corpo da requisição inválido"
	msgAccessDenied       = "acesso negado"
	msgInvalidConfig      = "parâmetros de configuração fora dos limites permitidos"
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

// Handle PUT /api/v1/barbers/{barberId}/config
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	vars := mux.Vars(r)
	barberID, err := strconv.ParseInt(vars["barberId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /barbers/{id}/config - Invalid barber ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBarberID)
		return
	}

	// Персональную конфигурацию может менять только сам барбер
	if barberID != userID {
		h.logger.Warn("PUT /barbers/{id}/config - Access denied: barber_id=%d, user_id=%d", barberID, userID)
		handlers.RespondForbidden(w, msgAccessDenied)
		return
	}

	var req models.UpdateConfigRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /barbers/{id}/config - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.BarberID = &barberID

	result, err := h.service.UpdateConfig(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("PUT /barbers/{id}/config - Invalid config: barber_id=%d, error=%v", barberID, err)
			handlers.RespondBadRequest(w, msgInvalidConfig)

		default:
			h.logger.Error("PUT /barbers/{id}/config - Failed to update config: barber_id=%d, error=%v", barberID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /barbers/{id}/config - Config updated successfully: barber_id=%d", barberID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
