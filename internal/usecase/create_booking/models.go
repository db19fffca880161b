package create_booking

import (
	"github.com/m04kA/SMC-BookingWidget/pkg/types"
)

// Request модель запроса на создание записи.
// Дата и время приходят строками: формат проверяется после обязательных полей.
type Request struct {
	Slug           string
	Date           string // YYYY-MM-DD
	Time           string // HH:MM
	ProfessionalID string
	ServiceIDs     []string
	PackageIDs     []string
	Name           string
	Phone          string
	Notes          string
	Honeypot       string // скрытое поле формы, у людей всегда пустое
	ClientAddress  string // адрес клиента для rate limit
}

// Response модель ответа с созданной записью
type Response struct {
	AppointmentID   string
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	TotalPrice      float64
	Status          string
	CustomerLinked  bool // запись привязана к карточке клиента
}
