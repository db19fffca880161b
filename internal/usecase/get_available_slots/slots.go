package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-BookingWidget/internal/domain"
	"github.com/m04kA/SMC-BookingWidget/pkg/types"
)

// generateCandidates генерирует времена начала на день с шагом интервала.
// Слот попадает в сетку, если запись длительностью durationMinutes заканчивается не позже закрытия.
// Для сегодняшней даты отбрасываются слоты раньше now + минимальная антецеденция.
// now должен быть в часовом поясе заведения.
func generateCandidates(
	params domain.OperatingParameters,
	durationMinutes int,
	requestDate time.Time,
	now time.Time,
) []types.TimeString {
	// Прошедшие даты не предлагаем
	if isDateInPast(requestDate, now) {
		return []types.TimeString{}
	}

	opening := params.OpeningTime.Minutes()
	closing := params.ClosingTime.Minutes()
	interval := params.IntervalMinutes
	if interval <= 0 {
		interval = domain.DefaultIntervalMinutes
	}

	// Без перехода через полночь
	if closing <= opening {
		return []types.TimeString{}
	}

	minAllowed := 0
	if isSameDay(requestDate, now) {
		minAllowed = now.Hour()*60 + now.Minute() + params.LeadTimeMinutes()
	}

	candidates := make([]types.TimeString, 0)
	for start := opening; start < closing; start += interval {
		if start+durationMinutes > closing {
			break
		}
		if start < minAllowed {
			continue
		}

		slot, err := types.NewTimeStringFromMinutes(start)
		if err != nil {
			break
		}
		candidates = append(candidates, slot)
	}

	return candidates
}

// isFree проверяет, что интервал [slot, slot+duration) не пересекается с блокирующими записями.
// Граница (конец записи равен началу слота или наоборот) пересечением не считается.
func isFree(slot types.TimeString, durationMinutes int, appointments []*domain.Appointment) bool {
	slotEnd, err := slot.AddMinutes(durationMinutes)
	if err != nil {
		return false
	}

	for _, appt := range appointments {
		if appt.Overlaps(slot, slotEnd) {
			return false
		}
	}

	return true
}

// singleSlots оставляет свободные слоты одного профессионала
func singleSlots(candidates []types.TimeString, durationMinutes int, appointments []*domain.Appointment) []domain.AvailableSlot {
	result := make([]domain.AvailableSlot, 0, len(candidates))
	for _, slot := range candidates {
		if isFree(slot, durationMinutes, appointments) {
			result = append(result, domain.AvailableSlot{StartTime: slot, Available: 1, Total: 1})
		}
	}
	return result
}

// pooledSlots считает свободных профессионалов для каждого слота.
// Слот предлагается, если свободен хотя бы один профессионал.
func pooledSlots(
	candidates []types.TimeString,
	durationMinutes int,
	professionals []*domain.Professional,
	appointments []*domain.Appointment,
) []domain.AvailableSlot {
	byProfessional := make(map[string][]*domain.Appointment, len(professionals))
	for _, appt := range appointments {
		byProfessional[appt.ProfessionalID] = append(byProfessional[appt.ProfessionalID], appt)
	}

	total := len(professionals)
	result := make([]domain.AvailableSlot, 0, len(candidates))

	for _, slot := range candidates {
		free := 0
		for _, p := range professionals {
			if isFree(slot, durationMinutes, byProfessional[p.ID]) {
				free++
			}
		}

		if free > 0 {
			result = append(result, domain.AvailableSlot{StartTime: slot, Available: free, Total: total})
		}
	}

	return result
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return dateOnly.Before(nowOnly)
}
