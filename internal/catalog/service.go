// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

package catalog

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/moviehub/internal/auth"
	"github.com/tomtom215/moviehub/internal/authz"
	"github.com/tomtom215/moviehub/internal/config"
	"github.com/tomtom215/moviehub/internal/events"
	"github.com/tomtom215/moviehub/internal/logging"
	"github.com/tomtom215/moviehub/internal/media"
	"github.com/tomtom215/moviehub/internal/metrics"
	"github.com/tomtom215/moviehub/internal/models"
	"github.com/tomtom215/moviehub/internal/store"
	"github.com/tomtom215/moviehub/internal/validation"
)

const (
	msgNotAuthorizedUpdate = "Not authorized to update this movie"
	msgNotAuthorizedDelete = "Not authorized to delete this movie"
	msgInvalidVoteType     = `Vote type must be either "up" or "down"`
)

// MovieInput is the body of create and update requests.
type MovieInput struct {
	Title       string `json:"title" validate:"min=1,max=200" msg:"Title must be between 1 and 200 characters"`
	Description string `json:"description" validate:"min=10,max=1000" msg:"Description must be between 10 and 1000 characters"`
	Genre       string `json:"genre" validate:"genre" msg:"Please provide a valid genre"`
	ReleaseYear int    `json:"releaseYear" validate:"releaseyear" msg:"Please provide a valid release year"`
	Director    string `json:"director" validate:"min=2,max=100" msg:"Director name must be between 2 and 100 characters"`
}

func (in *MovieInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Genre = strings.TrimSpace(in.Genre)
	in.Director = strings.TrimSpace(in.Director)
}

func (in MovieInput) fields() models.MovieFields {
	return models.MovieFields{
		Title:       in.Title,
		Description: in.Description,
		Genre:       in.Genre,
		ReleaseYear: in.ReleaseYear,
		Director:    in.Director,
	}
}

// ListParams are the raw list query parameters. Zero values take defaults.
type ListParams struct {
	Genre     string
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

// Service implements the catalog and vote operations.
type Service struct {
	store  store.Store
	media  media.Store
	events events.Publisher
	api    config.APIConfig
	votes  *keyedMutex
	now    func() time.Time
}

// NewService creates the catalog service. pub may be events.Discard.
func NewService(st store.Store, images media.Store, pub events.Publisher, api config.APIConfig) *Service {
	if api.DefaultPageSize <= 0 {
		api.DefaultPageSize = 10
	}
	if api.MaxPageSize <= 0 {
		api.MaxPageSize = 100
	}
	return &Service{
		store:  st,
		media:  images,
		events: pub,
		api:    api,
		votes:  newKeyedMutex(),
		now:    time.Now,
	}
}

// PageRequest applies the configured defaults and bounds to page and limit.
func PageRequest(api config.APIConfig, page, limit int) models.PageRequest {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = api.DefaultPageSize
	}
	if api.MaxPageSize > 0 && limit > api.MaxPageSize {
		limit = api.MaxPageSize
	}
	// Keep (page-1)*limit representable; such a page is empty anyway.
	if limit > 0 && page > math.MaxInt/limit {
		page = math.MaxInt / limit
	}
	return models.PageRequest{Page: page, Limit: limit}
}

// Query validates p and turns it into a store query.
func (s *Service) Query(p ListParams) (models.MovieQuery, error) {
	q := models.MovieQuery{
		Genre:     strings.TrimSpace(p.Genre),
		SortBy:    models.SortField(p.SortBy),
		SortOrder: models.SortOrder(strings.ToLower(p.SortOrder)),
		Page:      PageRequest(s.api, p.Page, p.Limit),
	}
	if q.SortBy == "" {
		q.SortBy = models.SortByScore
	}
	if q.SortOrder == "" {
		q.SortOrder = models.SortDesc
	}

	verr := &validation.RequestValidationError{}
	if q.Genre != "" && !models.IsGenre(q.Genre) {
		verr.Add("genre", "Please provide a valid genre")
	}
	if !q.SortBy.Valid() {
		verr.Add("sortBy", "sortBy must be one of: score, createdAt, title, releaseYear")
	}
	if !q.SortOrder.Valid() {
		verr.Add("sortOrder", "sortOrder must be either asc or desc")
	}
	if len(verr.Errors()) > 0 {
		return q, verr
	}
	return q, nil
}

// ListMovies returns one page of the catalog and its pagination.
func (s *Service) ListMovies(ctx context.Context, p ListParams) ([]models.MovieView, *models.Pagination, error) {
	q, err := s.Query(p)
	if err != nil {
		return nil, nil, err
	}
	movies, total, err := s.store.ListMovies(ctx, q)
	if err != nil {
		return nil, nil, err
	}
	views, err := s.views(ctx, movies)
	if err != nil {
		return nil, nil, err
	}
	return views, models.NewPagination(q.Page, total), nil
}

// views populates addedBy for a batch of movies with one user lookup.
func (s *Service) views(ctx context.Context, movies []*models.Movie) ([]models.MovieView, error) {
	return PopulateMovies(ctx, s.store, movies)
}

// PopulateMovies builds views for movies, loading their owners at once.
func PopulateMovies(ctx context.Context, users store.UserStore, movies []*models.Movie) ([]models.MovieView, error) {
	ids := make([]string, 0, len(movies))
	for _, m := range movies {
		ids = append(ids, m.AddedBy)
	}
	owners, err := users.GetUsers(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]models.MovieView, 0, len(movies))
	for _, m := range movies {
		out = append(out, models.NewMovieView(m, owners[m.AddedBy]))
	}
	return out, nil
}

func (s *Service) view(ctx context.Context, m *models.Movie) (*models.MovieView, error) {
	views, err := s.views(ctx, []*models.Movie{m})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// GetMovie returns one movie with its owner populated.
func (s *Service) GetMovie(ctx context.Context, id string) (*models.MovieView, error) {
	m, err := s.store.GetMovie(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, m)
}

// CreateMovie adds a movie owned by subject. upload may be nil.
func (s *Service) CreateMovie(ctx context.Context, subject *auth.Subject, in MovieInput, upload *media.Upload) (*models.MovieView, error) {
	if subject == nil {
		return nil, models.Unauthorized("Authentication required.")
	}
	in.normalize()
	if verr := validation.ValidateStruct(&in); verr != nil {
		return nil, verr
	}

	now := s.now().UTC()
	m := &models.Movie{
		ID:        uuid.NewString(),
		AddedBy:   subject.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	in.fields().Apply(m)

	if upload != nil {
		url, err := s.media.Save(ctx, upload)
		if err != nil {
			return nil, err
		}
		m.Image = url
	}

	if err := s.store.CreateMovie(ctx, m); err != nil {
		s.deleteImage(ctx, m.Image)
		return nil, err
	}

	view, err := s.view(ctx, m)
	if err != nil {
		return nil, err
	}
	logging.Ctx(ctx).Info().Str("movie_id", m.ID).Msg("movie created")
	s.events.Publish(ctx, events.MovieCreated, subject.UserID, view)
	return view, nil
}

// UpdateMovie replaces the editable fields of a movie. A new upload
// replaces the image; without one the existing image is kept.
func (s *Service) UpdateMovie(ctx context.Context, subject *auth.Subject, id string, in MovieInput, upload *media.Upload) (*models.MovieView, error) {
	// The body is validated before the movie is looked up.
	in.normalize()
	if verr := validation.ValidateStruct(&in); verr != nil {
		return nil, verr
	}
	existing, err := s.store.GetMovie(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanModify(subject, existing.AddedBy) {
		return nil, models.Forbidden(msgNotAuthorizedUpdate)
	}

	patch := models.MoviePatch{Fields: in.fields()}
	if upload != nil {
		url, err := s.media.Save(ctx, upload)
		if err != nil {
			return nil, err
		}
		patch.Image = &url
	}

	updated, err := s.store.UpdateMovie(ctx, id, patch)
	if err != nil {
		if patch.Image != nil {
			s.deleteImage(ctx, *patch.Image)
		}
		return nil, err
	}
	if patch.Image != nil && existing.Image != "" && existing.Image != *patch.Image {
		s.deleteImage(ctx, existing.Image)
	}

	view, err := s.view(ctx, updated)
	if err != nil {
		return nil, err
	}
	s.events.Publish(ctx, events.MovieUpdated, subject.UserID, view)
	return view, nil
}

// DeleteMovie removes a movie with its votes, comments and image.
func (s *Service) DeleteMovie(ctx context.Context, subject *auth.Subject, id string) (*models.CascadeReport, error) {
	existing, err := s.store.GetMovie(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanModify(subject, existing.AddedBy) {
		return nil, models.Forbidden(msgNotAuthorizedDelete)
	}

	report, err := s.store.DeleteMovie(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, img := range report.Images {
		s.deleteImage(ctx, img)
	}

	logging.Ctx(ctx).Info().
		Str("movie_id", id).
		Int("comments", report.Comments).
		Int("votes", report.Votes).
		Msg("movie deleted")
	s.events.Publish(ctx, events.MovieDeleted, subject.UserID, events.DeletedPayload{
		ID:       id,
		Comments: report.Comments,
		Votes:    report.Votes,
	})
	return report, nil
}

// Vote toggles the caller's vote on a movie and returns the new tallies.
func (s *Service) Vote(ctx context.Context, subject *auth.Subject, movieID, voteType string) (*models.VoteResult, error) {
	if subject == nil {
		return nil, models.Unauthorized("Authentication required.")
	}
	vt := models.VoteType(voteType)
	if !vt.Valid() {
		return nil, validation.NewError("voteType", msgInvalidVoteType)
	}

	unlock := s.votes.Lock(subject.UserID + "\x00" + movieID)
	res, err := s.store.ApplyVote(ctx, subject.UserID, movieID, vt)
	unlock()
	if err != nil {
		return nil, err
	}

	metrics.RecordVote(string(res.Outcome))
	s.events.Publish(ctx, events.MovieVoted, subject.UserID, votePayload(movieID, res))
	return res, nil
}

func votePayload(movieID string, res *models.VoteResult) events.VotePayload {
	p := events.VotePayload{
		MovieID:   movieID,
		Upvotes:   res.Upvotes,
		Downvotes: res.Downvotes,
		Score:     res.Score,
	}
	if res.VoteType != nil {
		v := string(*res.VoteType)
		p.VoteType = &v
	}
	return p
}

// UserVote returns the caller's current vote, null when there is none.
func (s *Service) UserVote(ctx context.Context, subject *auth.Subject, movieID string) (*models.UserVote, error) {
	if subject == nil {
		return nil, models.Unauthorized("Authentication required.")
	}
	if _, err := s.store.GetMovie(ctx, movieID); err != nil {
		return nil, err
	}
	v, err := s.store.GetVote(ctx, subject.UserID, movieID)
	switch {
	case errors.Is(err, models.ErrNotFound):
		return &models.UserVote{}, nil
	case err != nil:
		return nil, err
	}
	vt := v.VoteType
	return &models.UserVote{VoteType: &vt}, nil
}

// RecountVotes rebuilds a movie's tallies from the vote ledger.
func (s *Service) RecountVotes(ctx context.Context, movieID string) (*models.MovieView, error) {
	before, err := s.store.GetMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}
	m, err := s.store.RecountVotes(ctx, movieID)
	if err != nil {
		return nil, err
	}
	if before.Upvotes != m.Upvotes || before.Downvotes != m.Downvotes {
		logging.Ctx(ctx).Warn().
			Str("movie_id", movieID).
			Int("upvotes_before", before.Upvotes).
			Int("upvotes_after", m.Upvotes).
			Int("downvotes_before", before.Downvotes).
			Int("downvotes_after", m.Downvotes).
			Msg("vote tally drift corrected")
	}
	return s.view(ctx, m)
}

// deleteImage removes an image object; failures only log.
func (s *Service) deleteImage(ctx context.Context, url string) {
	DeleteImage(ctx, s.media, url)
}

// DeleteImage removes an image object best-effort.
func DeleteImage(ctx context.Context, images media.Store, url string) {
	if url == "" || images == nil {
		return
	}
	if err := images.Delete(ctx, url); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("image", url).Msg("failed to delete image")
	}
}
