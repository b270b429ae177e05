package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestIdentify(t *testing.T) {
	var gotIP, gotID string
	h := Identify(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIP = GetClientIP(r.Context())
		gotID = GetRequestID(r.Context())
	}))

	t.Run("new id and forwarded ip", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, "10.0.0.1", gotIP)
		_, err := uuid.Parse(gotID)
		assert.NoError(t, err)
		assert.Equal(t, gotID, rec.Header().Get(RequestIDHeader))
	})

	t.Run("incoming id kept", func(t *testing.T) {
		id := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, id)
		req.RemoteAddr = "192.168.1.9:5555"
		h.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, id, gotID)
		assert.Equal(t, "192.168.1.9", gotIP)
	})

	t.Run("malformed id replaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "<script>")
		h.ServeHTTP(httptest.NewRecorder(), req)
		assert.NotEqual(t, "<script>", gotID)
	})
}

func TestGettersWithoutMiddleware(t *testing.T) {
	assert.Equal(t, "unknown", GetClientIP(context.Background()))
	assert.Empty(t, GetRequestID(context.Background()))
}
