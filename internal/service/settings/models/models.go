package models

import (
	"github.com/m04kA/SMC-BookingWidget/internal/domain"
)

// BusinessResponse публичные данные заведения для страницы записи
type BusinessResponse struct {
	ID      string  `json:"id"`
	Name    string  `json:"nome"`
	Slug    string  `json:"slug"`
	Phone   *string `json:"telefone,omitempty"`
	LogoURL *string `json:"logo_url,omitempty"`
}

// BookingSettingsResponse настройки онлайн-записи, которые загружает виджет
type BookingSettingsResponse struct {
	Business            BusinessResponse `json:"estabelecimento"`
	Enabled             bool             `json:"agendamento_ativo"`
	WelcomeMessage      *string          `json:"mensagem_boas_vindas,omitempty"`
	ConfirmationMessage *string          `json:"mensagem_pos_agendamento,omitempty"`
	OpeningTime         string           `json:"horario_inicio"`
	ClosingTime         string           `json:"horario_fim"`
	IntervalMinutes     int              `json:"intervalo_agendamentos"`
	LeadTimeHours       int              `json:"antecedencia_horas"`
}

// FromDomain собирает ответ из domain моделей. cfg может быть nil - запись выключена.
func FromDomain(b *domain.Business, cfg *domain.BookingConfig, params domain.OperatingParameters) *BookingSettingsResponse {
	resp := &BookingSettingsResponse{
		Business: BusinessResponse{
			ID:      b.ID,
			Name:    b.Name,
			Slug:    b.Slug,
			Phone:   b.Phone,
			LogoURL: b.LogoURL,
		},
		OpeningTime:     params.OpeningTime.String(),
		ClosingTime:     params.ClosingTime.String(),
		IntervalMinutes: params.IntervalMinutes,
		LeadTimeHours:   params.LeadTimeHours,
	}

	if cfg != nil {
		resp.Enabled = cfg.Enabled
		resp.WelcomeMessage = cfg.WelcomeMessage
		resp.ConfirmationMessage = cfg.ConfirmationMessage
	}

	return resp
}
