// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

package models

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by stores, services and the HTTP layer.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("bad request")
	ErrRateLimited  = errors.New("rate limited")
)

// DomainError pairs a sentinel kind with the message shown to API clients.
// errors.Is(err, ErrNotFound) works through it.
type DomainError struct {
	Kind    error
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Is(target error) bool { return target == e.Kind }

func (e *DomainError) Unwrap() error { return e.Err }

// NotFound builds an ErrNotFound with a client-facing message.
func NotFound(msg string) error { return &DomainError{Kind: ErrNotFound, Message: msg} }

// Forbidden builds an ErrForbidden with a client-facing message.
func Forbidden(msg string) error { return &DomainError{Kind: ErrForbidden, Message: msg} }

// Conflict builds an ErrConflict with a client-facing message.
func Conflict(msg string) error { return &DomainError{Kind: ErrConflict, Message: msg} }

// Unauthorized builds an ErrUnauthorized with a client-facing message.
func Unauthorized(msg string) error { return &DomainError{Kind: ErrUnauthorized, Message: msg} }

// RateLimited builds an ErrRateLimited with a client-facing message.
func RateLimited(msg string) error { return &DomainError{Kind: ErrRateLimited, Message: msg} }

// BadRequest builds an ErrBadRequest with a client-facing message.
func BadRequest(msg string) error { return &DomainError{Kind: ErrBadRequest, Message: msg} }

// ClientMessage returns the message carried by a DomainError in err's chain.
func ClientMessage(err error) (string, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Message, true
	}
	return "", false
}
