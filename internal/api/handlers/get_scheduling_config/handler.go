package get_scheduling_config

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BarberService/internal/api/handlers"
)

const (
	msgInvalidBarberID = "ID do barbeiro inválido"
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

// Handle GET /api/v1/barbers/{barberId}/config
// Возвращает действующую конфигурацию с учётом иерархии:
// персональная конфигурация барбера приоритетнее общей конфигурации барбершопа
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	barberID, err := strconv.ParseInt(vars["barberId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /barbers/{id}/config - Invalid barber ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBarberID)
		return
	}

	result, err := h.service.GetConfig(r.Context(), barberID)
	if err != nil {
		h.logger.Error("GET /barbers/{id}/config - Failed to get config: barber_id=%d, error=%v", barberID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /barbers/{id}/config - Config retrieved successfully: barber_id=%d", barberID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
