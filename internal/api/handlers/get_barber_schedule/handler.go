package get_barber_schedule

import (
	"net/http"
	"strconv"
	"time"

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

// Handle GET /api/v1/barbers/{barberId}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	barberID, err := strconv.ParseInt(vars["barberId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /barbers/{id}/schedule - Invalid barber ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBarberID)
		return
	}

	result, err := h.service.GetBarberSchedule(r.Context(), barberID, time.Now())
	if err != nil {
		h.logger.Error("GET /barbers/{id}/schedule - Failed to get schedule: barber_id=%d, error=%v", barberID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /barbers/{id}/schedule - Schedule retrieved successfully: barber_id=%d", barberID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
