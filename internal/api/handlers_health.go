// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/moviehub/internal/logging"
	"github.com/tomtom215/moviehub/internal/response"
)

// readyTimeout bounds the store ping of the readiness probe.
const readyTimeout = 2 * time.Second

// HealthStatus is the liveness payload.
type HealthStatus struct {
	Status      string    `json:"status"`
	Uptime      float64   `json:"uptime"`
	Timestamp   time.Time `json:"timestamp"`
	Environment string    `json:"environment"`
}

// ReadinessStatus is the readiness payload.
type ReadinessStatus struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
	Store   bool   `json:"storeConnected"`
}

// Health handles the liveness probe. It never touches dependencies.
//
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} response.Envelope{data=HealthStatus}
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	env := h.cfg.Server.Environment
	if env == "" {
		env = "development"
	}
	response.OK(w, "OK", HealthStatus{
		Status:      "OK",
		Uptime:      time.Since(h.startTime).Seconds(),
		Timestamp:   h.now().UTC(),
		Environment: env,
	})
}

// HealthReady reports whether the store is reachable.
//
// @Summary Readiness probe
// @Tags Health
// @Produce json
// @Success 200 {object} response.Envelope{data=ReadinessStatus} "Service is ready"
// @Failure 503 {object} response.Envelope{data=ReadinessStatus} "Service is not ready"
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	st := ReadinessStatus{Status: "ready", Backend: h.store.Backend(), Store: true}
	if err := h.store.Ping(ctx); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Str("backend", st.Backend).Msg("readiness check failed")
		st.Status = "not_ready"
		st.Store = false
		response.JSON(w, http.StatusServiceUnavailable, &response.Envelope{
			Success: false,
			Message: "Service is not ready",
			Data:    st,
		})
		return
	}
	response.OK(w, "Service is ready", st)
}

// APIHealth is the health route under the API base path.
//
// @Summary API health
// @Tags Health
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /api/health [get]
func (h *Handler) APIHealth(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, &response.Envelope{
		Success: true,
		Message: "MovieHub API is running",
		Data:    map[string]time.Time{"timestamp": h.now().UTC()},
	})
}

// Index describes the API at the root path.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	base := h.cfg.Server.BasePath
	response.OK(w, "MovieHub API is running", map[string]any{
		"version":   "1.0.0",
		"timestamp": h.now().UTC(),
		"endpoints": map[string]string{
			"auth":     base + "/auth",
			"movies":   base + "/movies",
			"comments": base + "/comments",
			"admin":    base + "/admin",
			"docs":     "/swagger/index.html",
		},
	})
}

// NotFound is the fallback for unmatched routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	response.Fail(w, http.StatusNotFound, "Not found - "+r.URL.Path)
}

// MethodNotAllowed is the fallback for known paths with the wrong method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	response.Fail(w, http.StatusMethodNotAllowed, "Method not allowed")
}
