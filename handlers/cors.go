package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"caption-service/config"

	"github.com/umakantv/go-utils/httpserver"
)

// CORS adds cross-origin headers for the browser frontend.
type CORS struct {
	cfg       config.CORSConfig
	anyOrigin bool
	origins   map[string]struct{}
}

func NewCORS(cfg config.CORSConfig) *CORS {
	c := &CORS{cfg: cfg, origins: make(map[string]struct{}, len(cfg.AllowedOrigins))}
	for _, origin := range cfg.AllowedOrigins {
		if origin == "*" {
			c.anyOrigin = true
			continue
		}
		c.origins[origin] = struct{}{}
	}
	return c
}

// Wrap sets the CORS headers before running next.
func (c *CORS) Wrap(next httpserver.HandlerFunc) httpserver.HandlerFunc {
	return httpserver.HandlerFunc(func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		c.setHeaders(w, r)
		next(ctx, w, r)
	})
}

// Preflight answers OPTIONS requests.
func (c *CORS) Preflight(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if c.setHeaders(w, r) {
		w.Header().Set("Access-Control-Allow-Methods", strings.Join(c.cfg.AllowedMethods, ", "))
		w.Header().Set("Access-Control-Allow-Headers", strings.Join(c.cfg.AllowedHeaders, ", "))
		if c.cfg.MaxAge > 0 {
			w.Header().Set("Access-Control-Max-Age", strconv.Itoa(c.cfg.MaxAge))
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// setHeaders reports whether the request origin is allowed.
func (c *CORS) setHeaders(w http.ResponseWriter, r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return false
	}

	_, listed := c.origins[origin]
	switch {
	case listed || (c.anyOrigin && c.cfg.AllowCredentials):
		// Credentials cannot be combined with a wildcard origin.
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Add("Vary", "Origin")
	case c.anyOrigin:
		w.Header().Set("Access-Control-Allow-Origin", "*")
	default:
		return false
	}

	if c.cfg.AllowCredentials {
		w.Header().Set("Access-Control-Allow-Credentials", "true")
	}
	if len(c.cfg.ExposedHeaders) > 0 {
		w.Header().Set("Access-Control-Expose-Headers", strings.Join(c.cfg.ExposedHeaders, ", "))
	}
	return true
}
