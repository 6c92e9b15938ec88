// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

package authz

import (
	"net/http"

	"github.com/tomtom215/moviehub/internal/auth"
	"github.com/tomtom215/moviehub/internal/logging"
	"github.com/tomtom215/moviehub/internal/models"
	"github.com/tomtom215/moviehub/internal/response"
)

// Middleware gates route groups by role.
type Middleware struct {
	enforcer *Enforcer
}

// NewMiddleware creates a new authorization middleware.
func NewMiddleware(enforcer *Enforcer) *Middleware {
	return &Middleware{enforcer: enforcer}
}

// Require allows the request when the caller's role may perform the
// method's action on object. It runs after auth.RequireAuth; without a
// subject the caller is treated as anonymous.
func (m *Middleware) Require(object string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleAnonymous
			subject, ok := auth.SubjectFromContext(r.Context())
			if ok {
				role = string(subject.Role)
			}
			action := methodToAction(r.Method)

			allowed, err := m.enforcer.Enforce(role, object, action)
			if err != nil {
				logging.Ctx(r.Context()).Error().Err(err).Msg("authorization error")
				response.FromError(w, r, err)
				return
			}
			if !allowed {
				if !ok {
					response.Fail(w, http.StatusUnauthorized, "Authentication required.")
					return
				}
				response.FromError(w, r, models.Forbidden(deniedMessage(object)))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func deniedMessage(object string) string {
	if object == ObjectAdmin {
		return "Access denied. Admin privileges required."
	}
	return "Access denied."
}

// CanModify reports whether subject may change a record owned by ownerID:
// admins may change anything, users only their own records.
func CanModify(subject *auth.Subject, ownerID string) bool {
	if subject == nil {
		return false
	}
	return subject.IsAdmin() || (ownerID != "" && subject.UserID == ownerID)
}
