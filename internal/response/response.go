// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

// Package response writes the JSON envelope shared by every endpoint:
//
//	{"success": bool, "message": string, "data": ..., "pagination": {...}, "errors": [...]}
//
// data and pagination are omitted when empty; errors appears only on
// validation failures.
package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/moviehub/internal/logging"
	"github.com/tomtom215/moviehub/internal/models"
	"github.com/tomtom215/moviehub/internal/validation"
)

// Envelope is the uniform response body.
type Envelope struct {
	Success    bool                    `json:"success"`
	Message    string                  `json:"message"`
	Data       any                     `json:"data,omitempty"`
	Pagination *models.Pagination      `json:"pagination,omitempty"`
	Errors     []validation.FieldError `json:"errors,omitempty"`
}

const (
	msgValidationFailed = "Validation failed"
	msgInternal         = "Internal server error"
)

// JSON writes env with status.
func JSON(w http.ResponseWriter, status int, env *Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"message":"Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Debug().Err(err).Msg("Failed to write JSON response")
	}
}

// OK writes a 200 success envelope. data may be nil.
func OK(w http.ResponseWriter, message string, data any) {
	JSON(w, http.StatusOK, &Envelope{Success: true, Message: message, Data: data})
}

// Created writes a 201 success envelope.
func Created(w http.ResponseWriter, message string, data any) {
	JSON(w, http.StatusCreated, &Envelope{Success: true, Message: message, Data: data})
}

// Paginated writes a 200 envelope carrying one page of items.
func Paginated[T any](w http.ResponseWriter, message string, items []T, p *models.Pagination) {
	if items == nil {
		items = []T{}
	}
	JSON(w, http.StatusOK, &Envelope{Success: true, Message: message, Data: items, Pagination: p})
}

// Fail writes an error envelope.
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, &Envelope{Success: false, Message: message})
}

// Status maps an error to its HTTP status.
func Status(err error) int {
	var verr *validation.RequestValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrBadRequest), errors.Is(err, models.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// FromError writes the envelope for err. Domain errors carry their own
// client message; anything unexpected is logged and reported generically.
func FromError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.RequestValidationError
	if errors.As(err, &verr) {
		JSON(w, http.StatusBadRequest, &Envelope{
			Success: false,
			Message: msgValidationFailed,
			Errors:  verr.Errors(),
		})
		return
	}

	status := Status(err)
	if status == http.StatusInternalServerError {
		logging.Ctx(r.Context()).Error().
			Str("method", r.Method).
			Str("path", sanitizeLogValue(r.URL.Path)).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("Request failed")
		Fail(w, status, msgInternal)
		return
	}

	msg, ok := models.ClientMessage(err)
	if !ok {
		msg = http.StatusText(status)
	}
	Fail(w, status, msg)
}

// sanitizeLogValue escapes control characters so a client-supplied value
// cannot forge log lines.
func sanitizeLogValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&b, "\\x%02x", r)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
