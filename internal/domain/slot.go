package domain

import "github.com/m04kA/SMC-BookingWidget/pkg/types"

// AvailableSlot время начала, которое можно предложить клиенту
type AvailableSlot struct {
	StartTime types.TimeString
	Available int // свободных профессионалов
	Total     int // профессионалов в расчете
}
