package middleware

import (
	"context"
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func originSeenBy(handler func(http.Handler) http.Handler, req *http.Request) string {
	var origin string
	h := handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin = OriginFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	h.ServeHTTP(httptest.NewRecorder(), req)
	return origin
}

func TestOriginMiddleware_PlainHTTP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://localhost:8080/api/v1", nil)
	assert.Equal(t, "http://localhost:8080", originSeenBy(OriginMiddleware(), req))
}

func TestOriginMiddleware_TLS(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "https://snapshots.example.com/api/v1", nil)
	req.TLS = &tls.ConnectionState{}
	assert.Equal(t, "https://snapshots.example.com", originSeenBy(OriginMiddleware(), req))
}

func TestOriginMiddleware_ForwardedProto(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://snapshots.example.com/api/v1", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	assert.Equal(t, "https://snapshots.example.com", originSeenBy(OriginMiddleware(), req))
}

func TestOriginFromContext_Empty(t *testing.T) {
	assert.Equal(t, "", OriginFromContext(context.Background()))
}
