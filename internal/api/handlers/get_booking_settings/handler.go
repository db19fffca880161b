package get_booking_settings

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BookingWidget/internal/api/handlers"
	"github.com/m04kA/SMC-BookingWidget/internal/service/settings"
)

const (
	msgBusinessNotFound = "Estabelecimento não encontrado"
	msgBusinessInactive = "Estabelecimento inativo"
	msgSettingsFailed   = "Erro ao buscar configurações"
)

type Handler struct {
	service SettingsService
	logger  Logger
}

func NewHandler(service SettingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/businesses/{slug}/booking-settings
// Публичный endpoint - без авторизации.
// Выключенная онлайн-запись не ошибка: виджет показывает сообщение по agendamento_ativo=false.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	result, err := h.service.GetBookingSettings(r.Context(), slug)
	if err != nil {
		switch {
		case errors.Is(err, settings.ErrBusinessNotFound):
			h.logger.Warn("GET /businesses/{slug}/booking-settings - Business not found: slug=%s", slug)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, settings.ErrBusinessInactive):
			h.logger.Warn("GET /businesses/{slug}/booking-settings - Business inactive: slug=%s", slug)
			handlers.RespondForbidden(w, msgBusinessInactive)

		default:
			h.logger.Error("GET /businesses/{slug}/booking-settings - Failed to get settings: slug=%s, error=%v", slug, err)
			handlers.RespondServerError(w, msgSettingsFailed, handlers.DetailsInternalError)
		}
		return
	}

	h.logger.Info("GET /businesses/{slug}/booking-settings - Settings retrieved: slug=%s, enabled=%t", slug, result.Enabled)
	handlers.RespondJSON(w, http.StatusOK, result)
}
