// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

package api

import (
	"net/http"

	"github.com/tomtom215/moviehub/internal/discussion"
	"github.com/tomtom215/moviehub/internal/response"
)

// ListComments returns a page of a movie's comments.
//
// @Summary List a movie's comments
// @Tags Comments
// @Produce json
// @Param movieId path string true "Movie ID"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} response.Envelope{data=[]models.CommentView,pagination=models.Pagination} "Comments retrieved successfully"
// @Failure 404 {object} response.Envelope "Movie not found"
// @Router /comments/movies/{movieId} [get]
func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, page, err := h.discussion.List(r.Context(), urlParam(r, "movieId"), getIntParam(r, "page", 1), getIntParam(r, "limit", 0))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Paginated(w, "Comments retrieved successfully", comments, page)
}

// CreateComment adds a comment to a movie.
//
// @Summary Comment on a movie
// @Tags Comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param movieId path string true "Movie ID"
// @Param body body discussion.CommentInput true "Comment"
// @Success 201 {object} response.Envelope{data=models.CommentView} "Comment created successfully"
// @Failure 400 {object} response.Envelope "Validation failed"
// @Failure 404 {object} response.Envelope "Movie not found"
// @Router /comments/movies/{movieId} [post]
func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	var in discussion.CommentInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.discussion.Create(r.Context(), subject(r), urlParam(r, "movieId"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Created(w, "Comment created successfully", c)
}

// GetComment returns one comment.
//
// @Summary Get a comment
// @Tags Comments
// @Produce json
// @Param id path string true "Comment ID"
// @Success 200 {object} response.Envelope{data=models.CommentView} "Comment retrieved successfully"
// @Failure 404 {object} response.Envelope "Comment not found"
// @Router /comments/{id} [get]
func (h *Handler) GetComment(w http.ResponseWriter, r *http.Request) {
	c, err := h.discussion.Get(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, "Comment retrieved successfully", c)
}

// UpdateComment edits a comment.
//
// @Summary Edit a comment
// @Tags Comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Comment ID"
// @Param body body discussion.CommentInput true "Comment"
// @Success 200 {object} response.Envelope{data=models.CommentView} "Comment updated successfully"
// @Failure 403 {object} response.Envelope "Not authorized to update this comment"
// @Failure 404 {object} response.Envelope "Comment not found"
// @Router /comments/{id} [put]
func (h *Handler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	var in discussion.CommentInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.discussion.Update(r.Context(), subject(r), urlParam(r, "id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, "Comment updated successfully", c)
}

// DeleteComment removes a comment.
//
// @Summary Delete a comment
// @Tags Comments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Comment ID"
// @Success 200 {object} response.Envelope "Comment deleted successfully"
// @Failure 403 {object} response.Envelope "Not authorized to delete this comment"
// @Failure 404 {object} response.Envelope "Comment not found"
// @Router /comments/{id} [delete]
func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	if err := h.discussion.Delete(r.Context(), subject(r), urlParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, "Comment deleted successfully", nil)
}
