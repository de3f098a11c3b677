package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"caption-service/config"

	"github.com/stretchr/testify/assert"
)

func testCORSConfig(origins ...string) config.CORSConfig {
	return config.CORSConfig{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         600,
	}
}

func preflight(c *CORS, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodOptions, "/savesettings", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")
	rec := httptest.NewRecorder()
	c.Preflight(req.Context(), rec, req)
	return rec
}

func TestCORS_PreflightAllowedOrigin(t *testing.T) {
	c := NewCORS(testCORSConfig("http://localhost:3000"))
	rec := preflight(c, "http://localhost:3000")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type, Authorization", rec.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "600", rec.Header().Get("Access-Control-Max-Age"))
	assert.Equal(t, "Origin", rec.Header().Get("Vary"))
}

func TestCORS_PreflightUnknownOrigin(t *testing.T) {
	c := NewCORS(testCORSConfig("http://localhost:3000"))
	rec := preflight(c, "https://evil.example")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Methods"))
}

func TestCORS_Wildcard(t *testing.T) {
	c := NewCORS(testCORSConfig("*"))
	rec := preflight(c, "https://anywhere.example")
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	cfg := testCORSConfig("*")
	cfg.AllowCredentials = true
	rec = preflight(NewCORS(cfg), "https://anywhere.example")
	assert.Equal(t, "https://anywhere.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_WrapKeepsHandlerResponse(t *testing.T) {
	c := NewCORS(testCORSConfig("http://localhost:3000"))
	called := false
	h := c.Wrap(func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		called = true
		writeError(w, http.StatusUnauthorized, "Token missing or invalid")
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h(req.Context(), rec, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_NoOriginNoHeaders(t *testing.T) {
	c := NewCORS(testCORSConfig("*"))
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c.Wrap(Health)(req.Context(), rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
