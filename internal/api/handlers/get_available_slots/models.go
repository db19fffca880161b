package get_available_slots

import (
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-BookingWidget/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-BookingWidget/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date            string          `json:"data"`
	ProfessionalID  string          `json:"profissional_id"`
	DurationMinutes int             `json:"duracao_total"`
	Degraded        bool            `json:"degradado"`
	Slots           []AvailableSlot `json:"horarios"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StartTime string `json:"hora"`
	Available int    `json:"vagas"`
	Total     int    `json:"total"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			StartTime: slot.StartTime.String(),
			Available: slot.Available,
			Total:     slot.Total,
		}
	}

	return &AvailableSlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		ProfessionalID:  resp.ProfessionalID,
		DurationMinutes: resp.DurationMinutes,
		Degraded:        resp.Degraded,
		Slots:           slots,
	}
}

// ToUseCaseRequest создает запрос use case из параметров пути и query
func ToUseCaseRequest(slug, dateStr, durationStr, professionalID string) (*getAvailableSlots.Request, error) {
	date, err := time.ParseInLocation(domain.DateFormat, dateStr, domain.BusinessLocation)
	if err != nil {
		return nil, err
	}

	duration, err := strconv.Atoi(strings.TrimSpace(durationStr))
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		Slug:            slug,
		ProfessionalID:  strings.ToLower(strings.TrimSpace(professionalID)),
		Date:            date,
		DurationMinutes: duration,
	}, nil
}
