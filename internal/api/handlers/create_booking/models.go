package create_booking

import (
	"time"

	"github.com/m04kA/SMC-BookingWidget/internal/domain"
	createBooking "github.com/m04kA/SMC-BookingWidget/internal/usecase/create_booking"
)

const msgBookingCreated = "Agendamento criado com sucesso!"

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	Slug           string   `json:"slug"`
	Date           string   `json:"data"` // "2026-03-10"
	Time           string   `json:"hora"` // "10:00"
	ProfessionalID string   `json:"profissional_id"`
	ServiceIDs     []string `json:"servicos_ids,omitempty"`
	PackageIDs     []string `json:"pacotes_ids,omitempty"`
	Name           string   `json:"nome"`
	Phone          string   `json:"telefone"`
	Notes          string   `json:"observacao,omitempty"`
	Honeypot       string   `json:"honeypot,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	Success         bool    `json:"success"`
	AppointmentID   string  `json:"agendamento_id"`
	Message         string  `json:"message"`
	StartTime       string  `json:"horario_inicio"`
	EndTime         string  `json:"horario_fim"`
	DurationMinutes int     `json:"duracao_total"`
	TotalPrice      float64 `json:"valor_total"`
	CustomerLinked  bool    `json:"cliente_vinculado"`
}

// ConflictResponse ответ 409 с занятым интервалом
type ConflictResponse struct {
	Error    string         `json:"error"`
	Conflict *ConflictRange `json:"conflito,omitempty"`
}

// ConflictRange интервал существующей записи
type ConflictRange struct {
	Start string `json:"inicio"`  // RFC3339, UTC-3
	End   string `json:"termino"` // HH:MM
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(clientAddress string) *createBooking.Request {
	return &createBooking.Request{
		Slug:           r.Slug,
		Date:           r.Date,
		Time:           r.Time,
		ProfessionalID: r.ProfessionalID,
		ServiceIDs:     r.ServiceIDs,
		PackageIDs:     r.PackageIDs,
		Name:           r.Name,
		Phone:          r.Phone,
		Notes:          r.Notes,
		Honeypot:       r.Honeypot,
		ClientAddress:  clientAddress,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		Success:         true,
		AppointmentID:   resp.AppointmentID,
		Message:         msgBookingCreated,
		StartTime:       resp.StartTime.String(),
		EndTime:         resp.EndTime.String(),
		DurationMinutes: resp.DurationMinutes,
		TotalPrice:      resp.TotalPrice,
		CustomerLinked:  resp.CustomerLinked,
	}
}

// FromConflictError конвертирует конфликт use case в HTTP response
func FromConflictError(message string, conflict *createBooking.ConflictError) *ConflictResponse {
	resp := &ConflictResponse{Error: message}
	if conflict != nil {
		resp.Conflict = &ConflictRange{
			Start: conflict.Start.In(domain.BusinessLocation).Format(time.RFC3339),
			End:   conflict.End.String(),
		}
	}
	return resp
}
