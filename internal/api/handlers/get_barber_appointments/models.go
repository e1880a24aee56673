package get_barber_appointments

import (
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/SMC-BarberService/internal/domain"
	"github.com/m04kA/SMC-BarberService/internal/service/appointments/models"
)

// ToServiceRequest собирает запрос сервиса из query-параметров
// Поддерживаемые параметры: date, startDate, endDate, status, includeCanceled
func ToServiceRequest(barberID, userID int64, query url.Values) (*models.GetBarberAppointmentsRequest, error) {
	req := &models.GetBarberAppointmentsRequest{
		BarberID: barberID,
		UserID:   userID,
	}

	if dateStr := query.Get("date"); dateStr != "" {
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			return nil, err
		}
		req.Date = &date
	}

	if startStr := query.Get("startDate"); startStr != "" {
		startDate, err := time.Parse(domain.DateFormat, startStr)
		if err != nil {
			return nil, err
		}
		req.StartDate = &startDate
	}

	if endStr := query.Get("endDate"); endStr != "" {
		endDate, err := time.Parse(domain.DateFormat, endStr)
		if err != nil {
			return nil, err
		}
		req.EndDate = &endDate
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	if includeStr := query.Get("includeCanceled"); includeStr != "" {
		include, err := strconv.ParseBool(includeStr)
		if err != nil {
			return nil, err
		}
		req.IncludeCanceled = include
	}

	return req, nil
}
