// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

package response

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/moviehub/internal/models"
	"github.com/tomtom215/moviehub/internal/validation"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestOKOmitsEmptyFields(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec, "done", nil)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
	body := decode(t, rec)
	if body["success"] != true || body["message"] != "done" {
		t.Errorf("body = %v", body)
	}
	for _, key := range []string{"data", "pagination", "errors"} {
		if _, ok := body[key]; ok {
			t.Errorf("%s should be omitted", key)
		}
	}
}

func TestCreated(t *testing.T) {
	rec := httptest.NewRecorder()
	Created(rec, "Movie created successfully", map[string]string{"_id": "m1"})

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d", rec.Code)
	}
	body := decode(t, rec)
	data, _ := body["data"].(map[string]any)
	if data["_id"] != "m1" {
		t.Errorf("data = %v", body["data"])
	}
}

func TestPaginated(t *testing.T) {
	rec := httptest.NewRecorder()
	p := models.NewPagination(models.PageRequest{Page: 2, Limit: 10}, 21)
	Paginated[string](rec, "Movies retrieved successfully", nil, p)

	body := decode(t, rec)
	if data, ok := body["data"].([]any); !ok || len(data) != 0 {
		t.Errorf("empty page should be [], got %v", body["data"])
	}
	pag, _ := body["pagination"].(map[string]any)
	want := map[string]float64{"page": 2, "limit": 10, "total": 21, "pages": 3}
	for k, v := range want {
		if pag[k] != v {
			t.Errorf("pagination.%s = %v, want %v", k, pag[k], v)
		}
	}
}

func TestFromError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"not found", models.NotFound("Movie not found"), 404, "Movie not found"},
		{"wrapped not found", fmt.Errorf("load: %w", models.NotFound("Comment not found")), 404, "Comment not found"},
		{"forbidden", models.Forbidden("Not authorized to update this movie"), 403, "Not authorized to update this movie"},
		{"unauthorized", models.Unauthorized("Invalid email or password"), 401, "Invalid email or password"},
		{"conflict is 400", models.Conflict("User with this email already exists"), 400, "User with this email already exists"},
		{"bad request", models.BadRequest("Cannot delete your own account"), 400, "Cannot delete your own account"},
		{"rate limited", &models.DomainError{Kind: models.ErrRateLimited, Message: "Too many login attempts"}, 429, "Too many login attempts"},
		{"bare sentinel", models.ErrNotFound, 404, "Not Found"},
		{"internal", errors.New("disk on fire"), 500, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/movies", nil)
			FromError(rec, req, tt.err)

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			body := decode(t, rec)
			if body["success"] != false || body["message"] != tt.message {
				t.Errorf("body = %v", body)
			}
			if strings.Contains(rec.Body.String(), "disk on fire") {
				t.Error("internal error detail leaked to client")
			}
		})
	}
}

func TestFromErrorValidation(t *testing.T) {
	verr := validation.NewError("title", "Title must be between 1 and 200 characters")
	verr.Add("genre", "Please provide a valid genre")

	rec := httptest.NewRecorder()
	FromError(rec, httptest.NewRequest(http.MethodPost, "/api/movies", nil), fmt.Errorf("create: %w", verr))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
	body := decode(t, rec)
	if body["message"] != "Validation failed" {
		t.Errorf("message = %v", body["message"])
	}
	errs, _ := body["errors"].([]any)
	if len(errs) != 2 {
		t.Fatalf("errors = %v", body["errors"])
	}
	first, _ := errs[0].(map[string]any)
	if first["field"] != "title" || first["message"] != "Title must be between 1 and 200 characters" {
		t.Errorf("first error = %v", first)
	}
}

func TestSanitizeLogValue(t *testing.T) {
	if got := sanitizeLogValue("a\nb\x7f"); got != `a\x0ab\x7f` {
		t.Errorf("sanitizeLogValue = %q", got)
	}
}
