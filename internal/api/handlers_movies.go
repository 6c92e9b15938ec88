// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

package api

import (
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/tomtom215/moviehub/internal/catalog"
	"github.com/tomtom215/moviehub/internal/media"
	"github.com/tomtom215/moviehub/internal/models"
	"github.com/tomtom215/moviehub/internal/response"
)

// multipartMemory is how much of a multipart body is kept in memory
// before spilling to temp files.
const multipartMemory = 8 << 20

// movieBody is the JSON form of catalog.MovieInput with a lenient year.
type movieBody struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Genre       string  `json:"genre"`
	ReleaseYear flexInt `json:"releaseYear"`
	Director    string  `json:"director"`
}

func (b movieBody) input() catalog.MovieInput {
	return catalog.MovieInput{
		Title:       b.Title,
		Description: b.Description,
		Genre:       b.Genre,
		ReleaseYear: int(b.ReleaseYear),
		Director:    b.Director,
	}
}

// readMovie parses a movie from multipart/form-data (with an optional
// "image" file) or from JSON.
func (h *Handler) readMovie(r *http.Request) (catalog.MovieInput, *media.Upload, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch ct {
	case "multipart/form-data", "application/x-www-form-urlencoded":
		return h.readMovieForm(r, ct == "multipart/form-data")
	default:
		var body movieBody
		if err := decodeJSON(r, &body); err != nil {
			return catalog.MovieInput{}, nil, err
		}
		return body.input(), nil, nil
	}
}

func (h *Handler) readMovieForm(r *http.Request, multipart bool) (catalog.MovieInput, *media.Upload, error) {
	var err error
	if multipart {
		err = r.ParseMultipartForm(multipartMemory)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return catalog.MovieInput{}, nil, models.BadRequest("Request body too large")
		}
		return catalog.MovieInput{}, nil, models.BadRequest(msgInvalidBody)
	}

	year, _ := strconv.Atoi(strings.TrimSpace(r.FormValue("releaseYear")))
	in := catalog.MovieInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Genre:       r.FormValue("genre"),
		ReleaseYear: year,
		Director:    r.FormValue("director"),
	}
	if !multipart {
		return in, nil, nil
	}

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return in, nil, nil
	}
	if err != nil {
		return in, nil, models.BadRequest(msgInvalidBody)
	}
	defer file.Close()

	upload, err := media.NewUpload(header.Filename, file, h.limits)
	if err != nil {
		return in, nil, err
	}
	return in, upload, nil
}

// ListMovies returns a page of the catalog.
//
// @Summary List movies
// @Tags Movies
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param genre query string false "Genre filter"
// @Param sortBy query string false "Sort field" Enums(score, createdAt, title, releaseYear) default(score)
// @Param sortOrder query string false "Sort direction" Enums(asc, desc) default(desc)
// @Success 200 {object} response.Envelope{data=[]models.MovieView,pagination=models.Pagination} "Movies retrieved successfully"
// @Failure 400 {object} response.Envelope "Validation failed"
// @Router /movies [get]
func (h *Handler) ListMovies(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	movies, page, err := h.catalog.ListMovies(r.Context(), catalog.ListParams{
		Genre:     q.Get("genre"),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
		Page:      getIntParam(r, "page", 1),
		Limit:     getIntParam(r, "limit", 0),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Paginated(w, "Movies retrieved successfully", movies, page)
}

// GetMovie returns one movie.
//
// @Summary Get a movie
// @Tags Movies
// @Produce json
// @Param id path string true "Movie ID"
// @Success 200 {object} response.Envelope{data=models.MovieView} "Movie retrieved successfully"
// @Failure 404 {object} response.Envelope "Movie not found"
// @Router /movies/{id} [get]
func (h *Handler) GetMovie(w http.ResponseWriter, r *http.Request) {
	m, err := h.catalog.GetMovie(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, "Movie retrieved successfully", m)
}

// CreateMovie adds a movie.
//
// @Summary Create a movie
// @Tags Movies
// @Accept multipart/form-data,json
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param description formData string true "Description"
// @Param genre formData string true "Genre"
// @Param releaseYear formData int true "Release year"
// @Param director formData string true "Director"
// @Param image formData file false "Poster image"
// @Success 201 {object} response.Envelope{data=models.MovieView} "Movie created successfully"
// @Failure 400 {object} response.Envelope "Validation failed"
// @Failure 401 {object} response.Envelope
// @Router /movies [post]
func (h *Handler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	in, upload, err := h.readMovie(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	m, err := h.catalog.CreateMovie(r.Context(), subject(r), in, upload)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Created(w, "Movie created successfully", m)
}

// UpdateMovie replaces a movie's fields.
//
// @Summary Update a movie
// @Description Owner or admin only. The image is replaced only when a new one is uploaded.
// @Tags Movies
// @Accept multipart/form-data,json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Movie ID"
// @Success 200 {object} response.Envelope{data=models.MovieView} "Movie updated successfully"
// @Failure 400 {object} response.Envelope "Validation failed"
// @Failure 403 {object} response.Envelope "Not authorized to update this movie"
// @Failure 404 {object} response.Envelope "Movie not found"
// @Router /movies/{id} [put]
func (h *Handler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	in, upload, err := h.readMovie(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	m, err := h.catalog.UpdateMovie(r.Context(), subject(r), urlParam(r, "id"), in, upload)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, "Movie updated successfully", m)
}

// DeleteMovie removes a movie with its votes and comments.
//
// @Summary Delete a movie
// @Tags Movies
// @Produce json
// @Security BearerAuth
// @Param id path string true "Movie ID"
// @Success 200 {object} response.Envelope "Movie deleted successfully"
// @Failure 403 {object} response.Envelope "Not authorized to delete this movie"
// @Failure 404 {object} response.Envelope "Movie not found"
// @Router /movies/{id} [delete]
func (h *Handler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	if _, err := h.catalog.DeleteMovie(r.Context(), subject(r), urlParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, "Movie deleted successfully", nil)
}

// voteBody is the body of a vote request.
type voteBody struct {
	VoteType string `json:"voteType"`
}

// Vote toggles the caller's vote.
//
// @Summary Vote on a movie
// @Description Voting the same way twice removes the vote; voting the other way switches it.
// @Tags Votes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Movie ID"
// @Param body body voteBody true "up or down"
// @Success 200 {object} response.Envelope{data=models.VoteResult}
// @Failure 400 {object} response.Envelope "Validation failed"
// @Failure 404 {object} response.Envelope "Movie not found"
// @Router /movies/{id}/vote [post]
func (h *Handler) Vote(w http.ResponseWriter, r *http.Request) {
	var body voteBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.catalog.Vote(r.Context(), subject(r), urlParam(r, "id"), body.VoteType)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, res.Outcome.Message(), res)
}

// UserVote returns the caller's current vote.
//
// @Summary Get the caller's vote
// @Tags Votes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Movie ID"
// @Success 200 {object} response.Envelope{data=models.UserVote} "User vote retrieved successfully"
// @Failure 404 {object} response.Envelope "Movie not found"
// @Router /movies/{id}/vote [get]
func (h *Handler) UserVote(w http.ResponseWriter, r *http.Request) {
	v, err := h.catalog.UserVote(r.Context(), subject(r), urlParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, "User vote retrieved successfully", v)
}
