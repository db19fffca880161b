package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientIP(t *testing.T) {
	trusted, err := ParseTrustedProxies([]string{"10.0.0.0/8", "127.0.0.1"})
	require.NoError(t, err)

	tests := []struct {
		name       string
		forwarded  string
		remoteAddr string
		want       string
	}{
		{"forwarded via trusted proxy", "198.51.100.4", "10.0.0.2:5555", "198.51.100.4"},
		{"chain of trusted proxies", "198.51.100.4, 10.0.0.1", "10.0.0.2:5555", "198.51.100.4"},
		{"spoofed left entry ignored", "1.2.3.4, 198.51.100.4", "10.0.0.2:5555", "198.51.100.4"},
		{"forwarded from untrusted peer ignored", "198.51.100.9", "203.0.113.7:41234", "203.0.113.7"},
		{"loopback proxy", "198.51.100.9", "127.0.0.1:8080", "198.51.100.9"},
		{"remote addr", "", "203.0.113.7:41234", "203.0.113.7"},
		{"remote addr without port", "", "203.0.113.7", "203.0.113.7"},
		{"trusted proxy without header", "", "10.0.0.2:5555", "10.0.0.2"},
		{"blank entries skipped", "198.51.100.4, , ", "10.0.0.2:5555", "198.51.100.4"},
		{"garbage entry stops the walk", "198.51.100.4, unknown", "10.0.0.2:5555", "10.0.0.2"},
		{"all hops trusted", "10.0.0.5, 10.0.0.1", "10.0.0.2:5555", "10.0.0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			handler := ClientIP(trusted)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = ClientIPFromContext(r.Context())
			}))

			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			handler.ServeHTTP(httptest.NewRecorder(), r)

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClientIP_NoTrustedProxies(t *testing.T) {
	var keys []string
	handler := ClientIP(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		keys = append(keys, ClientIPFromContext(r.Context()))
	}))

	// ротация заголовка не меняет ключ ограничителя
	for _, forwarded := range []string{"1.1.1.1", "2.2.2.2", "3.3.3.3"} {
		r := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", nil)
		r.RemoteAddr = "203.0.113.7:41234"
		r.Header.Set("X-Forwarded-For", forwarded)
		handler.ServeHTTP(httptest.NewRecorder(), r)
	}

	assert.Equal(t, []string{"203.0.113.7", "203.0.113.7", "203.0.113.7"}, keys)
}

func TestParseTrustedProxies(t *testing.T) {
	trusted, err := ParseTrustedProxies([]string{" 192.168.1.7/16 ", "::1"})
	require.NoError(t, err)
	require.Len(t, trusted, 2)
	assert.Equal(t, "192.168.0.0/16", trusted[0].String())
	assert.Equal(t, "::1/128", trusted[1].String())

	_, err = ParseTrustedProxies([]string{"10.0.0.0/33"})
	assert.Error(t, err)

	_, err = ParseTrustedProxies([]string{"proxy.local"})
	assert.Error(t, err)
}

func TestClientIPFromContext_Missing(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, ClientIPFromContext(r.Context()))
}

type observation struct {
	method string
	route  string
	status int
}

type fakeHTTPMetrics struct {
	mu           sync.Mutex
	observations []observation
}

func (f *fakeHTTPMetrics) ObserveHTTPRequest(method, route string, status int, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.observations = append(f.observations, observation{method, route, status})
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	m := &fakeHTTPMetrics{}
	router := mux.NewRouter()
	router.Use(MetricsMiddleware(m))
	router.HandleFunc("/api/v1/businesses/{slug}/available-slots", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	for _, path := range []string{"/api/v1/businesses/barbearia/available-slots", "/health"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	require.Len(t, m.observations, 2)
	assert.Equal(t, observation{http.MethodGet, "/api/v1/businesses/{slug}/available-slots", http.StatusNotFound}, m.observations[0])
	assert.Equal(t, observation{http.MethodGet, "/health", http.StatusOK}, m.observations[1])
}
