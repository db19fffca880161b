package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"

	"github.com/gorilla/mux"
)

type clientIPKey struct{}

// TrustedProxies адреса и подсети прокси, которым разрешено передавать X-Forwarded-For
type TrustedProxies []netip.Prefix

// ParseTrustedProxies разбирает список вида "10.0.0.0/8", "127.0.0.1"
func ParseTrustedProxies(values []string) (TrustedProxies, error) {
	result := make(TrustedProxies, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if strings.Contains(v, "/") {
			prefix, err := netip.ParsePrefix(v)
			if err != nil {
				return nil, fmt.Errorf("invalid trusted proxy %q: %w", v, err)
			}
			result = append(result, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(v)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", v, err)
		}
		result = append(result, netip.PrefixFrom(addr.Unmap(), addr.Unmap().BitLen()))
	}
	return result, nil
}

func (t TrustedProxies) contains(addr netip.Addr) bool {
	addr = addr.Unmap()
	for _, p := range t {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// ClientIP сохраняет адрес клиента в контексте запроса.
// X-Forwarded-For учитывается, только если соединение пришло от доверенного прокси:
// цепочка читается справа налево до первого недоверенного адреса.
// Без доверенных прокси адрес клиента - хост из RemoteAddr.
func ClientIP(trusted TrustedProxies) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), clientIPKey{}, clientAddress(r, trusted))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClientIPFromContext возвращает адрес клиента, сохраненный ClientIP
func ClientIPFromContext(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}

func clientAddress(r *http.Request, trusted TrustedProxies) string {
	remote := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		remote = host
	}

	addr, err := netip.ParseAddr(remote)
	if err != nil || !trusted.contains(addr) {
		return remote
	}

	client := remote
	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		hopAddr, err := netip.ParseAddr(hop)
		if err != nil {
			break
		}
		client = hopAddr.String()
		if !trusted.contains(hopAddr) {
			break
		}
	}

	return client
}
