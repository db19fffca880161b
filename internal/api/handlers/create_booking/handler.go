package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BookingWidget/internal/api/handlers"
	"github.com/m04kA/SMC-BookingWidget/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-BookingWidget/internal/usecase/create_booking"
)

const (
	msgInvalidRequest    = "Requisição inválida"
	msgTooManyRequests   = "Muitas requisições. Aguarde um momento e tente novamente."
	msgInvalidPhone      = "Telefone inválido. Use um número brasileiro válido."
	msgMissingFields     = "Campos obrigatórios faltando"
	msgNoItemsSelected   = "Selecione pelo menos um serviço ou pacote"
	msgInvalidInput      = "Dados do agendamento inválidos"
	msgInvalidTimeSlot   = "O atendimento ultrapassa o fim do dia"
	msgBusinessNotFound  = "Estabelecimento não encontrado"
	msgBusinessInactive  = "Estabelecimento inativo"
	msgBookingDisabled   = "Agendamento online desativado"
	msgServicesLookup    = "Erro ao buscar serviços"
	msgPackagesLookup    = "Erro ao buscar pacotes"
	msgSlotNotAvailable  = "Horário já está ocupado ou sobrepõe outro agendamento"
	msgCreateBookingFail = "Erro ao criar agendamento"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
// Публичный endpoint формы записи - без авторизации
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequest)
		return
	}

	useCaseReq := req.ToUseCaseRequest(middleware.ClientIPFromContext(r.Context()))

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var conflict *createBooking.ConflictError
		switch {
		case errors.Is(err, createBooking.ErrInvalidRequest):
			handlers.RespondBadRequest(w, msgInvalidRequest)

		case errors.Is(err, createBooking.ErrRateLimited):
			handlers.RespondTooManyRequests(w, msgTooManyRequests)

		case errors.Is(err, createBooking.ErrInvalidPhone):
			handlers.RespondBadRequest(w, msgInvalidPhone)

		case errors.Is(err, createBooking.ErrMissingFields):
			handlers.RespondBadRequest(w, msgMissingFields)

		case errors.Is(err, createBooking.ErrNoItemsSelected):
			handlers.RespondBadRequest(w, msgNoItemsSelected)

		case errors.Is(err, createBooking.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createBooking.ErrInvalidTimeSlot):
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, createBooking.ErrBusinessNotFound):
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, createBooking.ErrBusinessInactive):
			handlers.RespondForbidden(w, msgBusinessInactive)

		case errors.Is(err, createBooking.ErrBookingDisabled):
			handlers.RespondForbidden(w, msgBookingDisabled)

		case errors.Is(err, createBooking.ErrPackagesLookup):
			h.logger.Error("POST /bookings - Packages lookup failed: slug=%s, error=%v", req.Slug, err)
			handlers.RespondServerError(w, msgPackagesLookup, handlers.DetailsCatalogError)

		case errors.Is(err, createBooking.ErrCatalogLookup):
			h.logger.Error("POST /bookings - Services lookup failed: slug=%s, error=%v", req.Slug, err)
			handlers.RespondServerError(w, msgServicesLookup, handlers.DetailsCatalogError)

		case errors.As(err, &conflict):
			handlers.RespondJSON(w, http.StatusConflict, FromConflictError(msgSlotNotAvailable, conflict))

		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			handlers.RespondJSON(w, http.StatusConflict, FromConflictError(msgSlotNotAvailable, nil))

		default:
			h.logger.Error("POST /bookings - Failed to create booking: slug=%s, professional=%s, error=%v",
				req.Slug, req.ProfessionalID, err)
			handlers.RespondServerError(w, msgCreateBookingFail, handlers.DetailsInternalError)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings - Booking created successfully: appointment_id=%s, slug=%s", result.AppointmentID, req.Slug)
	handlers.RespondJSON(w, http.StatusOK, response)
}
