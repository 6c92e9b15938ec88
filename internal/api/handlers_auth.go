// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

package api

import (
	"net/http"

	"github.com/tomtom215/moviehub/internal/auth"
	"github.com/tomtom215/moviehub/internal/response"
)

// Register creates an account.
//
// @Summary Register a new user
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body auth.RegisterInput true "Account details"
// @Success 201 {object} response.Envelope{data=auth.AuthResult} "User registered successfully"
// @Failure 400 {object} response.Envelope "Validation failed or email taken"
// @Router /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in auth.RegisterInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.auth.Register(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Created(w, "User registered successfully", res)
}

// Login exchanges credentials for a token.
//
// @Summary Log in
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body auth.LoginInput true "Credentials"
// @Success 200 {object} response.Envelope{data=auth.AuthResult} "Login successful"
// @Failure 400 {object} response.Envelope "Validation failed"
// @Failure 401 {object} response.Envelope "Invalid email or password"
// @Failure 429 {object} response.Envelope "Too many login attempts"
// @Router /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in auth.LoginInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.auth.Login(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, "Login successful", res)
}

// Profile returns the caller's account.
//
// @Summary Current user's profile
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=models.Profile} "Profile retrieved successfully"
// @Failure 401 {object} response.Envelope
// @Router /auth/profile [get]
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	p, err := h.auth.Profile(r.Context(), subject(r).UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, "Profile retrieved successfully", p)
}
