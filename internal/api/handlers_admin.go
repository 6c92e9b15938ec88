// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

package api

import (
	"net/http"

	"github.com/tomtom215/moviehub/internal/admin"
	"github.com/tomtom215/moviehub/internal/response"
)

// AdminStats returns dashboard figures.
//
// @Summary Dashboard statistics
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=models.Stats} "Admin stats retrieved successfully"
// @Failure 403 {object} response.Envelope "Access denied. Admin privileges required."
// @Router /admin/stats [get]
func (h *Handler) AdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.Stats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, "Admin stats retrieved successfully", stats)
}

// AdminListUsers returns a page of accounts.
//
// @Summary List users
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} response.Envelope{data=[]models.User,pagination=models.Pagination} "Users retrieved successfully"
// @Router /admin/users [get]
func (h *Handler) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	users, page, err := h.admin.ListUsers(r.Context(), getIntParam(r, "page", 1), getIntParam(r, "limit", 0))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Paginated(w, "Users retrieved successfully", users, page)
}

// AdminGetUser returns one account.
//
// @Summary Get a user
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} response.Envelope{data=models.User} "User retrieved successfully"
// @Failure 404 {object} response.Envelope "User not found"
// @Router /admin/users/{id} [get]
func (h *Handler) AdminGetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.admin.GetUser(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, "User retrieved successfully", u)
}

// AdminUpdateRole changes a user's role.
//
// @Summary Change a user's role
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param body body admin.RoleInput true "New role"
// @Success 200 {object} response.Envelope{data=models.User} "User role updated successfully"
// @Failure 400 {object} response.Envelope "Invalid role"
// @Failure 404 {object} response.Envelope "User not found"
// @Router /admin/users/{id} [put]
// @Router /admin/users/{id}/role [put]
func (h *Handler) AdminUpdateRole(w http.ResponseWriter, r *http.Request) {
	var in admin.RoleInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	u, err := h.admin.UpdateRole(r.Context(), subject(r), urlParam(r, "id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, "User role updated successfully", u)
}

// AdminDeleteUser removes an account and everything it owns.
//
// @Summary Delete a user
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} response.Envelope{data=models.CascadeReport} "User deleted successfully"
// @Failure 400 {object} response.Envelope "Cannot delete your own account"
// @Failure 404 {object} response.Envelope "User not found"
// @Router /admin/users/{id} [delete]
func (h *Handler) AdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	report, err := h.admin.DeleteUser(r.Context(), subject(r), urlParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, "User deleted successfully", report)
}

// AdminRecountVotes rebuilds a movie's tallies from the vote ledger.
//
// @Summary Recount a movie's votes
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Movie ID"
// @Success 200 {object} response.Envelope{data=models.MovieView} "Votes recounted successfully"
// @Failure 404 {object} response.Envelope "Movie not found"
// @Router /admin/movies/{id}/recount [post]
func (h *Handler) AdminRecountVotes(w http.ResponseWriter, r *http.Request) {
	m, err := h.catalog.RecountVotes(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, "Votes recounted successfully", m)
}
