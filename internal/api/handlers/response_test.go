package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name string `json:"nome"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"nome":"Ana"}`, false},
		{"empty", ``, true},
		{"malformed", `{"nome":`, true},
		{"trailing data", `{"nome":"Ana"}{"nome":"Bia"}`, true},
		{"too large", `{"nome":"` + strings.Repeat("a", maxBodyBytes) + `"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var v sample
			err := DecodeJSON(r, &v)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Ana", v.Name)
		})
	}
}

func TestRespondServerError(t *testing.T) {
	w := httptest.NewRecorder()
	RespondServerError(w, "Erro ao criar agendamento", DetailsInternalError)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Erro ao criar agendamento", body.Error)
	assert.Equal(t, DetailsInternalError, body.Details)
}

func TestRespondError_OmitsDetails(t *testing.T) {
	w := httptest.NewRecorder()
	RespondNotFound(w, "Estabelecimento não encontrado")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Estabelecimento não encontrado"}`, w.Body.String())
}
