// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

package auth

import (
	"context"

	"github.com/tomtom215/moviehub/internal/models"
)

// Subject is the authenticated caller of a request. It is built from the
// stored user, not from token claims.
type Subject struct {
	UserID string      `json:"id"`
	Email  string      `json:"email"`
	Name   string      `json:"name"`
	Role   models.Role `json:"role"`
}

// SubjectFromUser builds the request subject for u.
func SubjectFromUser(u *models.User) *Subject {
	return &Subject{UserID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

// IsAdmin reports whether the subject holds the admin role.
func (s *Subject) IsAdmin() bool {
	return s != nil && s.Role == models.RoleAdmin
}

type contextKey string

const subjectContextKey contextKey = "subject"

// ContextWithSubject attaches s to ctx.
func ContextWithSubject(ctx context.Context, s *Subject) context.Context {
	return context.WithValue(ctx, subjectContextKey, s)
}

// SubjectFromContext returns the subject set by RequireAuth.
func SubjectFromContext(ctx context.Context) (*Subject, bool) {
	s, ok := ctx.Value(subjectContextKey).(*Subject)
	return s, ok && s != nil
}
