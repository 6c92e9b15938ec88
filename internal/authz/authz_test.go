// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

package authz

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/moviehub/internal/auth"
	"github.com/tomtom215/moviehub/internal/config"
	"github.com/tomtom215/moviehub/internal/models"
	"github.com/tomtom215/moviehub/internal/response"
)

func setupEnforcer(t *testing.T) *Enforcer {
	t.Helper()
	e, err := NewEnforcer(config.CasbinConfig{})
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}
	return e
}

func TestEmbeddedPolicy(t *testing.T) {
	e := setupEnforcer(t)

	tests := []struct {
		role, object, action string
		want                 bool
	}{
		{RoleAnonymous, ObjectMovies, ActionRead, true},
		{RoleAnonymous, ObjectMovies, ActionWrite, false},
		{RoleAnonymous, ObjectComments, ActionRead, true},
		{RoleAnonymous, ObjectVotes, ActionWrite, false},
		{RoleAnonymous, ObjectAdmin, ActionRead, false},
		{"user", ObjectMovies, ActionRead, true},
		{"user", ObjectMovies, ActionWrite, true},
		{"user", ObjectVotes, ActionWrite, true},
		{"user", ObjectProfile, ActionRead, true},
		{"user", ObjectAdmin, ActionRead, false},
		{"user", ObjectAdmin, ActionDelete, false},
		{"admin", ObjectAdmin, ActionRead, true},
		{"admin", ObjectAdmin, ActionWrite, true},
		{"admin", ObjectAdmin, ActionDelete, true},
		{"admin", ObjectComments, ActionDelete, true},
		{"stranger", ObjectMovies, ActionRead, false},
	}
	for _, tt := range tests {
		t.Run(tt.role+"/"+tt.object+"/"+tt.action, func(t *testing.T) {
			got, err := e.Enforce(tt.role, tt.object, tt.action)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Enforce() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPolicyFileOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.csv")
	if err := os.WriteFile(path, []byte("p, user, admin, read\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	e, err := NewEnforcer(config.CasbinConfig{PolicyPath: path})
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}
	if ok, _ := e.Enforce("user", ObjectAdmin, ActionRead); !ok {
		t.Error("override policy not applied")
	}
	if ok, _ := e.Enforce("user", ObjectMovies, ActionWrite); ok {
		t.Error("embedded policy leaked into override")
	}
}

func TestMalformedEmbeddedPolicy(t *testing.T) {
	e := setupEnforcer(t)
	if err := loadEmbeddedPolicy(e.enforcer, "p, only, two"); err == nil {
		t.Error("expected error for short policy line")
	}
}

func TestRequire(t *testing.T) {
	mw := NewMiddleware(setupEnforcer(t))
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	user := &auth.Subject{UserID: "u1", Role: models.RoleUser}
	admin := &auth.Subject{UserID: "a1", Role: models.RoleAdmin}

	tests := []struct {
		name       string
		object     string
		method     string
		subject    *auth.Subject
		wantStatus int
		wantMsg    string
	}{
		{"admin reads admin", ObjectAdmin, http.MethodGet, admin, http.StatusNoContent, ""},
		{"user reads admin", ObjectAdmin, http.MethodGet, user, http.StatusForbidden, "Access denied. Admin privileges required."},
		{"anonymous admin", ObjectAdmin, http.MethodGet, nil, http.StatusUnauthorized, "Authentication required."},
		{"user votes", ObjectVotes, http.MethodPost, user, http.StatusNoContent, ""},
		{"anonymous lists movies", ObjectMovies, http.MethodGet, nil, http.StatusNoContent, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(tt.method, "/", nil)
			if tt.subject != nil {
				r = r.WithContext(auth.ContextWithSubject(r.Context(), tt.subject))
			}
			w := httptest.NewRecorder()
			mw.Require(tt.object)(ok).ServeHTTP(w, r)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantMsg == "" {
				return
			}
			var env response.Envelope
			if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
				t.Fatal(err)
			}
			if env.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", env.Message, tt.wantMsg)
			}
		})
	}
}

func TestCanModify(t *testing.T) {
	tests := []struct {
		name    string
		subject *auth.Subject
		owner   string
		want    bool
	}{
		{"owner", &auth.Subject{UserID: "u1", Role: models.RoleUser}, "u1", true},
		{"other user", &auth.Subject{UserID: "u2", Role: models.RoleUser}, "u1", false},
		{"admin", &auth.Subject{UserID: "a1", Role: models.RoleAdmin}, "u1", true},
		{"nil subject", nil, "u1", false},
		{"orphaned record", &auth.Subject{UserID: "", Role: models.RoleUser}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanModify(tt.subject, tt.owner); got != tt.want {
				t.Errorf("CanModify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMethodToAction(t *testing.T) {
	tests := map[string]string{
		http.MethodGet:     ActionRead,
		http.MethodHead:    ActionRead,
		http.MethodPost:    ActionWrite,
		http.MethodPut:     ActionWrite,
		http.MethodPatch:   ActionWrite,
		http.MethodDelete:  ActionDelete,
		http.MethodOptions: ActionRead,
	}
	for method, want := range tests {
		if got := methodToAction(method); got != want {
			t.Errorf("methodToAction(%s) = %s, want %s", method, got, want)
		}
	}
}
