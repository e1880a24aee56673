package update_weekly_schedule

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
	msgInvalidWeekday     = "dia da semana inválido, esperado 0..6"
	msgInvalidTimeRange   = "intervalo de horário inválido, esperado HH:MM com início antes do fim"
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

// Handle PUT /api/v1/barbers/{barberId}/schedule/weekly
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	vars := mux.Vars(r)
	barberID, err := strconv.ParseInt(vars["barberId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /barbers/{id}/schedule/weekly - Invalid barber ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBarberID)
		return
	}

	// Расписание может менять только сам барбер
	if barberID != userID {
		h.logger.Warn("PUT /barbers/{id}/schedule/weekly - Access denied: barber_id=%d, user_id=%d", barberID, userID)
		handlers.RespondForbidden(w, msgAccessDenied)
		return
	}

	var req models.UpdateWeeklyScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /barbers/{id}/schedule/weekly - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.BarberID = barberID

	result, err := h.service.UpdateWeeklySchedule(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidWeekday):
			h.logger.Warn("PUT /barbers/{id}/schedule/weekly - Invalid weekday: barber_id=%d, error=%v", barberID, err)
			handlers.RespondBadRequest(w, msgInvalidWeekday)

		case errors.Is(err, schedule.ErrInvalidTimeRange):
			h.logger.Warn("PUT /barbers/{id}/schedule/weekly - Invalid time range: barber_id=%d, error=%v", barberID, err)
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("PUT /barbers/{id}/schedule/weekly - Invalid input: barber_id=%d, error=%v", barberID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("PUT /barbers/{id}/schedule/weekly - Failed to update schedule: barber_id=%d, error=%v", barberID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /barbers/{id}/schedule/weekly - Schedule updated successfully: barber_id=%d, days=%d",
		barberID, len(req.Days))
	handlers.RespondJSON(w, http.StatusOK, result)
}
