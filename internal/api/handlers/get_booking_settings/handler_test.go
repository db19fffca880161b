package get_booking_settings

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingWidget/internal/service/settings"
	"github.com/m04kA/SMC-BookingWidget/internal/service/settings/models"
	"github.com/m04kA/SMC-BookingWidget/pkg/logger"
	"github.com/m04kA/SMC-BookingWidget/pkg/ptr"
)

type fakeService struct {
	resp *models.BookingSettingsResponse
	err  error
	slug string
}

func (f *fakeService) GetBookingSettings(_ context.Context, slug string) (*models.BookingSettingsResponse, error) {
	f.slug = slug
	return f.resp, f.err
}

func serve(svc *fakeService, slug string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/businesses/{slug}/booking-settings", NewHandler(svc, logger.Nop()).Handle).Methods(http.MethodGet)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/businesses/"+slug+"/booking-settings", nil))
	return w
}

func TestHandle_Success(t *testing.T) {
	svc := &fakeService{resp: &models.BookingSettingsResponse{
		Business:        models.BusinessResponse{ID: "6f1c1c2e-8f4a-4a57-9f5c-3f0b8f0f5a11", Name: "Barbearia do Zé", Slug: "barbearia"},
		Enabled:         true,
		WelcomeMessage:  ptr.Ptr("Bem-vindo!"),
		OpeningTime:     "08:00",
		ClosingTime:     "18:00",
		IntervalMinutes: 30,
		LeadTimeHours:   2,
	}}

	w := serve(svc, "barbearia")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "barbearia", svc.slug)
	assert.JSONEq(t, `{
		"estabelecimento": {"id": "6f1c1c2e-8f4a-4a57-9f5c-3f0b8f0f5a11", "nome": "Barbearia do Zé", "slug": "barbearia"},
		"agendamento_ativo": true,
		"mensagem_boas_vindas": "Bem-vindo!",
		"horario_inicio": "08:00",
		"horario_fim": "18:00",
		"intervalo_agendamentos": 30,
		"antecedencia_horas": 2
	}`, w.Body.String())
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"not found", settings.ErrBusinessNotFound, http.StatusNotFound, `{"error":"Estabelecimento não encontrado"}`},
		{"inactive", settings.ErrBusinessInactive, http.StatusForbidden, `{"error":"Estabelecimento inativo"}`},
		{"internal", fmt.Errorf("%w: timeout", settings.ErrInternal), http.StatusInternalServerError,
			`{"error":"Erro ao buscar configurações","details":"internal_error"}`},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError,
			`{"error":"Erro ao buscar configurações","details":"internal_error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(&fakeService{err: tt.err}, "barbearia")
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}
