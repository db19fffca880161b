package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-BookingWidget/internal/domain"
)

// AnyProfessional значение profissional_id для расчета по всем профессионалам
const AnyProfessional = "any"

// Режимы расчета
const (
	ModeSingle = "single"
	ModePooled = "pooled"
)

// Политики отказа загрузки профессионалов
const (
	LookupFailureEmpty = "empty"
	LookupFailureError = "error"
)

// Request модель запроса на получение доступного времени
type Request struct {
	Slug            string    // ссылка заведения
	ProfessionalID  string    // ID профессионала, пусто или "any" - любой профессионал
	Date            time.Time // дата (без времени)
	DurationMinutes int       // суммарная длительность выбранных услуг
}

// IsPooled возвращает true, если профессионал не выбран
func (r *Request) IsPooled() bool {
	return r.ProfessionalID == "" || r.ProfessionalID == AnyProfessional
}

// Response модель ответа со списком доступного времени
type Response struct {
	Date            time.Time
	ProfessionalID  string // "any" в режиме по всем профессионалам
	DurationMinutes int
	Degraded        bool // true - данные о занятости недоступны, список пуст
	Slots           []domain.AvailableSlot
}
