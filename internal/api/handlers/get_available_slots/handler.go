package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BookingWidget/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-BookingWidget/internal/usecase/get_available_slots"
)

const (
	msgMissingDate      = "Data é obrigatória"
	msgMissingDuration  = "Duração é obrigatória"
	msgInvalidParams    = "Parâmetros inválidos"
	msgBusinessNotFound = "Estabelecimento não encontrado"
	msgBusinessInactive = "Estabelecimento inativo"
	msgBookingDisabled  = "Agendamento online desativado"
	msgSlotsUnavailable = "Erro ao buscar horários disponíveis"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/businesses/{slug}/available-slots
// Query params: data (required, YYYY-MM-DD), duracao (required, минуты), profissional_id (uuid или "any", по умолчанию "any")
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	query := r.URL.Query()

	dateStr := query.Get("data")
	if dateStr == "" {
		h.logger.Warn("GET /businesses/{slug}/available-slots - Missing date: slug=%s", slug)
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	durationStr := query.Get("duracao")
	if durationStr == "" {
		h.logger.Warn("GET /businesses/{slug}/available-slots - Missing duration: slug=%s", slug)
		handlers.RespondBadRequest(w, msgMissingDuration)
		return
	}

	useCaseReq, err := ToUseCaseRequest(slug, dateStr, durationStr, query.Get("profissional_id"))
	if err != nil {
		h.logger.Warn("GET /businesses/{slug}/available-slots - Invalid params: slug=%s, error=%v", slug, err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidParams)

		case errors.Is(err, getAvailableSlots.ErrBusinessNotFound):
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, getAvailableSlots.ErrBusinessInactive):
			handlers.RespondForbidden(w, msgBusinessInactive)

		case errors.Is(err, getAvailableSlots.ErrBookingDisabled):
			handlers.RespondForbidden(w, msgBookingDisabled)

		default:
			h.logger.Error("GET /businesses/{slug}/available-slots - Failed to get slots: slug=%s, error=%v", slug, err)
			handlers.RespondServerError(w, msgSlotsUnavailable, handlers.DetailsInternalError)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /businesses/{slug}/available-slots - Slots retrieved: slug=%s, date=%s, slots_count=%d, degraded=%t",
		slug, dateStr, len(result.Slots), result.Degraded)
	handlers.RespondJSON(w, http.StatusOK, response)
}
