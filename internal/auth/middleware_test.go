// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/moviehub/internal/response"
)

func httptestRequest(authorization string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
	if authorization != "" {
		r.Header.Set("Authorization", authorization)
	}
	return r
}

func TestRequireAuth(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterInput{Name: "Frank", Email: "frank@example.com", Password: "secret1"})
	if err != nil {
		t.Fatal(err)
	}
	gone, err := svc.Register(ctx, RegisterInput{Name: "Ghost", Email: "ghost@example.com", Password: "secret1"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := st.DeleteUser(ctx, gone.User.ID); err != nil {
		t.Fatal(err)
	}

	var seen *Subject
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = SubjectFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	h := NewMiddleware(svc).RequireAuth(next)

	tests := []struct {
		name        string
		header      string
		wantStatus  int
		wantMessage string
	}{
		{"no token", "", http.StatusUnauthorized, "Access denied. No token provided."},
		{"bad token", "Bearer nope", http.StatusUnauthorized, "Invalid token."},
		{"deleted user", "Bearer " + gone.Token, http.StatusUnauthorized, "Invalid token. User not found."},
		{"valid", "Bearer " + res.Token, http.StatusNoContent, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptestRequest(tt.header))

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantMessage == "" {
				if seen == nil || seen.UserID != res.User.ID || seen.Name != "Frank" {
					t.Errorf("subject = %+v", seen)
				}
				return
			}
			var env response.Envelope
			if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if env.Success || env.Message != tt.wantMessage {
				t.Errorf("envelope = %+v", env)
			}
			if seen != nil {
				t.Error("next handler ran")
			}
		})
	}
}

func TestSubjectFromContextMissing(t *testing.T) {
	if _, ok := SubjectFromContext(context.Background()); ok {
		t.Error("found subject in empty context")
	}
	var s *Subject
	if s.IsAdmin() {
		t.Error("nil subject is admin")
	}
}
