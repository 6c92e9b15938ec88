// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

package api

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/moviehub/internal/admin"
	"github.com/tomtom215/moviehub/internal/auth"
	"github.com/tomtom215/moviehub/internal/catalog"
	"github.com/tomtom215/moviehub/internal/config"
	"github.com/tomtom215/moviehub/internal/discussion"
	"github.com/tomtom215/moviehub/internal/media"
	"github.com/tomtom215/moviehub/internal/models"
	"github.com/tomtom215/moviehub/internal/response"
	"github.com/tomtom215/moviehub/internal/store"
)

const msgInvalidBody = "Invalid request body"

// Services are the domain services the handlers delegate to.
type Services struct {
	Auth       *auth.Service
	Catalog    *catalog.Service
	Discussion *discussion.Service
	Admin      *admin.Service
	Store      store.Store
}

// Handler holds the HTTP handlers.
type Handler struct {
	cfg        *config.Config
	auth       *auth.Service
	catalog    *catalog.Service
	discussion *discussion.Service
	admin      *admin.Service
	store      store.Store
	limits     media.Limits
	startTime  time.Time
	now        func() time.Time
}

// NewHandler creates the handler set.
func NewHandler(cfg *config.Config, svc Services) *Handler {
	return &Handler{
		cfg:        cfg,
		auth:       svc.Auth,
		catalog:    svc.Catalog,
		discussion: svc.Discussion,
		admin:      svc.Admin,
		store:      svc.Store,
		limits:     media.LimitsFrom(cfg.Uploads),
		startTime:  time.Now(),
		now:        time.Now,
	}
}

// decodeJSON reads a JSON body into v. An empty body leaves v unchanged
// so validation reports the missing fields.
func decodeJSON(r *http.Request, v any) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return models.BadRequest("Request body too large")
		}
		return models.BadRequest(msgInvalidBody)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return models.BadRequest(msgInvalidBody)
	}
	return nil
}

// getIntParam extracts an integer query parameter with a default value
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return defaultValue
	}
	return intValue
}

// subject returns the authenticated caller, or nil.
func subject(r *http.Request) *auth.Subject {
	s, _ := auth.SubjectFromContext(r.Context())
	return s
}

// flexInt accepts a JSON number or a numeric string, since form-style
// clients send every field as a string. Anything unparseable becomes 0,
// which the range validation then reports.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexInt(n)
	return nil
}

func urlParam(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

// writeError is the single error exit for handlers.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	response.FromError(w, r, err)
}
