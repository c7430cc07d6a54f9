package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
}

func TestWithCORS_AllowedOrigin(t *testing.T) {
	h := withCORS([]string{"https://facts-finder.netlify.app"})(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/factsfinders", nil)
	req.Header.Set("Origin", "https://facts-finder.netlify.app")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "https://facts-finder.netlify.app", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET,POST,OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Disposition", rec.Header().Get("Access-Control-Expose-Headers"))
}

func TestWithCORS_UnknownOrigin(t *testing.T) {
	h := withCORS([]string{"https://facts-finder.netlify.app"})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/factsfinders/excel", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestWithCORS_Preflight(t *testing.T) {
	h := withCORS([]string{"*"})(okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/api/factsfinders", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestOriginAllowed(t *testing.T) {
	assert.True(t, originAllowed("https://any.example", map[string]struct{}{}))
	allowed := map[string]struct{}{"https://a.example": {}}
	assert.True(t, originAllowed("https://a.example", allowed))
	assert.False(t, originAllowed("https://b.example", allowed))
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := requestLogger(zap.New(core).Sugar())(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/factsfinders/excel", nil))

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/api/factsfinders/excel", fields["path"])
	assert.EqualValues(t, http.StatusTeapot, fields["status"])
}

func TestRoutes_MountsAPI(t *testing.T) {
	srv := &Server{
		logger:         zap.NewNop().Sugar(),
		location:       time.UTC,
		allowedOrigins: []string{"*"},
	}
	router := srv.routes()

	// malformed JSON is rejected before any service is touched
	req := httptest.NewRequest(http.MethodPost, "/api/factsfinders", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["message"], "Invalid request body")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLoadLocation_Fallback(t *testing.T) {
	loc := loadLocation("Nowhere/Invalid", zap.NewNop().Sugar())
	_, offset := time.Date(2024, 1, 1, 0, 0, 0, 0, loc).Zone()
	assert.Equal(t, 5*3600+1800, offset)
}
