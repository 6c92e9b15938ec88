// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/tomtom215/moviehub/internal/logging"
	"github.com/tomtom215/moviehub/internal/models"
	"github.com/tomtom215/moviehub/internal/response"
)

const msgNoToken = "Access denied. No token provided."

// Middleware authenticates requests with bearer tokens.
type Middleware struct {
	svc *Service
}

// NewMiddleware creates the authentication middleware.
func NewMiddleware(svc *Service) *Middleware {
	return &Middleware{svc: svc}
}

// RequireAuth rejects requests without a valid token for an existing user
// and attaches the caller's Subject to the request context.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			response.Fail(w, http.StatusUnauthorized, msgNoToken)
			return
		}

		u, err := m.svc.Verify(r.Context(), token)
		if err != nil {
			if errors.Is(err, models.ErrUnauthorized) {
				response.FromError(w, r, err)
				return
			}
			logging.Ctx(r.Context()).Error().Err(err).Msg("authentication lookup failed")
			response.Fail(w, http.StatusInternalServerError, "Server error during authentication.")
			return
		}

		ctx := ContextWithSubject(r.Context(), SubjectFromUser(u))
		ctx = logging.ContextWithUserID(ctx, u.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// extractToken reads the bearer token from the Authorization header.
func extractToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if h == "" {
		return ""
	}
	scheme, token, ok := strings.Cut(h, " ")
	if ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	if ok {
		return ""
	}
	// A bare token without a scheme is accepted.
	return h
}
