// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

// Package discussion implements comments on movies. Anyone may read a
// movie's comments; authors and admins may edit or delete them.
package discussion

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/moviehub/internal/auth"
	"github.com/tomtom215/moviehub/internal/authz"
	"github.com/tomtom215/moviehub/internal/catalog"
	"github.com/tomtom215/moviehub/internal/config"
	"github.com/tomtom215/moviehub/internal/events"
	"github.com/tomtom215/moviehub/internal/models"
	"github.com/tomtom215/moviehub/internal/store"
	"github.com/tomtom215/moviehub/internal/validation"
)

const (
	msgNotAuthorizedUpdate = "Not authorized to update this comment"
	msgNotAuthorizedDelete = "Not authorized to delete this comment"
)

// CommentInput is the body of create and update requests.
type CommentInput struct {
	Content string `json:"content" validate:"min=1,max=500" msg:"Comment must be between 1 and 500 characters"`
}

func (in *CommentInput) validate() error {
	in.Content = strings.TrimSpace(in.Content)
	if verr := validation.ValidateStruct(in); verr != nil {
		return verr
	}
	return nil
}

// Service implements comment operations.
type Service struct {
	store  store.Store
	events events.Publisher
	api    config.APIConfig
	now    func() time.Time
}

// NewService creates the discussion service.
func NewService(st store.Store, pub events.Publisher, api config.APIConfig) *Service {
	return &Service{store: st, events: pub, api: api, now: time.Now}
}

// List returns a page of a movie's comments, newest first.
func (s *Service) List(ctx context.Context, movieID string, page, limit int) ([]models.CommentView, *models.Pagination, error) {
	movie, err := s.store.GetMovie(ctx, movieID)
	if err != nil {
		return nil, nil, err
	}
	pr := catalog.PageRequest(s.api, page, limit)
	comments, total, err := s.store.ListComments(ctx, movieID, pr)
	if err != nil {
		return nil, nil, err
	}

	ids := make([]string, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.UserID)
	}
	authors, err := s.store.GetUsers(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	views := make([]models.CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, models.NewCommentView(c, authors[c.UserID], movie))
	}
	return views, models.NewPagination(pr, total), nil
}

// Create adds a comment by subject to a movie.
func (s *Service) Create(ctx context.Context, subject *auth.Subject, movieID string, in CommentInput) (*models.CommentView, error) {
	if subject == nil {
		return nil, models.Unauthorized("Authentication required.")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	c := &models.Comment{
		ID:        uuid.NewString(),
		Content:   in.Content,
		UserID:    subject.UserID,
		MovieID:   movieID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateComment(ctx, c); err != nil {
		return nil, err
	}
	view, err := s.view(ctx, c)
	if err != nil {
		return nil, err
	}
	s.events.Publish(ctx, events.CommentCreated, subject.UserID, view)
	return view, nil
}

// Get returns one comment with its author and movie title.
func (s *Service) Get(ctx context.Context, id string) (*models.CommentView, error) {
	c, err := s.store.GetComment(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, c)
}

// Update replaces a comment's content.
func (s *Service) Update(ctx context.Context, subject *auth.Subject, id string, in CommentInput) (*models.CommentView, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	existing, err := s.store.GetComment(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanModify(subject, existing.UserID) {
		return nil, models.Forbidden(msgNotAuthorizedUpdate)
	}
	updated, err := s.store.UpdateComment(ctx, id, in.Content)
	if err != nil {
		return nil, err
	}
	view, err := s.view(ctx, updated)
	if err != nil {
		return nil, err
	}
	s.events.Publish(ctx, events.CommentUpdated, subject.UserID, view)
	return view, nil
}

// Delete removes a comment.
func (s *Service) Delete(ctx context.Context, subject *auth.Subject, id string) error {
	existing, err := s.store.GetComment(ctx, id)
	if err != nil {
		return err
	}
	if !authz.CanModify(subject, existing.UserID) {
		return models.Forbidden(msgNotAuthorizedDelete)
	}
	if err := s.store.DeleteComment(ctx, id); err != nil {
		return err
	}
	s.events.Publish(ctx, events.CommentDeleted, subject.UserID, events.DeletedPayload{ID: id})
	return nil
}

// view populates the author and, when it still exists, the movie title.
func (s *Service) view(ctx context.Context, c *models.Comment) (*models.CommentView, error) {
	authors, err := s.store.GetUsers(ctx, []string{c.UserID})
	if err != nil {
		return nil, err
	}
	movie, err := s.store.GetMovie(ctx, c.MovieID)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	v := models.NewCommentView(c, authors[c.UserID], movie)
	return &v, nil
}
