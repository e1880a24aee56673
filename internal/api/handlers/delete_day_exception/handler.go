package delete_day_exception

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BarberService/internal/api/handlers"
	"github.com/m04kA/SMC-BarberService/internal/api/middleware"
	"github.com/m04kA/SMC-BarberService/internal/service/schedule"
)

const (
	msgInvalidBarberID   = "ID do barbeiro inválido"
	msgInvalidDate       = "data inválida, esperado YYYY-MM-DD"
	msgAccessDenied      = "acesso negado"
	msgExceptionNotFound = "exceção não encontrada"
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

// Handle DELETE /api/v1/barbers/{barberId}/schedule/exceptions/{date}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	vars := mux.Vars(r)
	barberID, err := strconv.ParseInt(vars["barberId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /barbers/{id}/schedule/exceptions/{date} - Invalid barber ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBarberID)
		return
	}

	// Исключения может удалять только сам барбер
	if barberID != userID {
		h.logger.Warn("DELETE /barbers/{id}/schedule/exceptions/{date} - Access denied: barber_id=%d, user_id=%d",
			barberID, userID)
		handlers.RespondForbidden(w, msgAccessDenied)
		return
	}

	date := vars["date"]

	if err := h.service.DeleteException(r.Context(), barberID, date); err != nil {
		switch {
		case errors.Is(err, schedule.ErrExceptionNotFound):
			h.logger.Warn("DELETE /barbers/{id}/schedule/exceptions/{date} - Exception not found: barber_id=%d, date=%s",
				barberID, date)
			handlers.RespondNotFound(w, msgExceptionNotFound)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("DELETE /barbers/{id}/schedule/exceptions/{date} - Invalid date: barber_id=%d, date=%s",
				barberID, date)
			handlers.RespondBadRequest(w, msgInvalidDate)

		default:
			h.logger.Error("DELETE /barbers/{id}/schedule/exceptions/{date} - Failed to delete exception: barber_id=%d, date=%s, error=%v",
				barberID, date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /barbers/{id}/schedule/exceptions/{date} - Exception deleted successfully: barber_id=%d, date=%s",
		barberID, date)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
