package get_available_slots

import (
	"strconv"
	"time"

	"github.com/m04kA/SMC-BarberService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-BarberService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date            string   `json:"date"`
	BarberID        int64    `json:"barberId"`
	ServiceID       int64    `json:"serviceId"`
	DurationMinutes int      `json:"durationMinutes"`
	StepMinutes     int      `json:"stepMinutes"`
	Slots           []string `json:"slots"` // Времена начала "HH:MM"
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]string, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = slot.String()
	}

	return &AvailableSlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		BarberID:        resp.BarberID,
		ServiceID:       resp.ServiceID,
		DurationMinutes: resp.ServiceDurationMinutes,
		StepMinutes:     resp.StepMinutes,
		Slots:           slots,
	}
}

// ToUseCaseRequest создает запрос use case из параметров запроса
func ToUseCaseRequest(barberID, serviceID int64, dateStr, excludeStr, stepStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	req := &getAvailableSlots.Request{
		BarberID:  barberID,
		ServiceID: serviceID,
		Date:      date,
	}

	if excludeStr != "" {
		excludeID, err := strconv.ParseInt(excludeStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.ExcludeAppointmentID = &excludeID
	}

	if stepStr != "" {
		step, err := strconv.Atoi(stepStr)
		if err != nil {
			return nil, err
		}
		req.StepMinutes = &step
	}

	return req, nil
}
