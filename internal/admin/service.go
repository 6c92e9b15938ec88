// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

// Package admin implements user management and dashboard statistics.
// Every operation assumes the caller already passed the admin role check.
package admin

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/moviehub/internal/auth"
	"github.com/tomtom215/moviehub/internal/catalog"
	"github.com/tomtom215/moviehub/internal/config"
	"github.com/tomtom215/moviehub/internal/events"
	"github.com/tomtom215/moviehub/internal/logging"
	"github.com/tomtom215/moviehub/internal/media"
	"github.com/tomtom215/moviehub/internal/models"
	"github.com/tomtom215/moviehub/internal/store"
)

// Dashboard sizes.
const (
	recentUsersLimit = 5
	topMoviesLimit   = 5
)

// RoleInput is the body of a role change.
type RoleInput struct {
	Role string `json:"role"`
}

// Service implements the admin operations.
type Service struct {
	store  store.Store
	media  media.Store
	events events.Publisher
	api    config.APIConfig
}

// NewService creates the admin service.
func NewService(st store.Store, images media.Store, pub events.Publisher, api config.APIConfig) *Service {
	return &Service{store: st, media: images, events: pub, api: api}
}

// ListUsers returns a page of accounts, newest first.
func (s *Service) ListUsers(ctx context.Context, page, limit int) ([]*models.User, *models.Pagination, error) {
	pr := catalog.PageRequest(s.api, page, limit)
	users, total, err := s.store.ListUsers(ctx, pr)
	if err != nil {
		return nil, nil, err
	}
	return users, models.NewPagination(pr, total), nil
}

// GetUser returns one account.
func (s *Service) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.store.GetUser(ctx, id)
}

// UpdateRole sets a user's role. The change applies from the user's next
// request, since tokens are checked against the stored user.
func (s *Service) UpdateRole(ctx context.Context, subject *auth.Subject, id string, in RoleInput) (*models.User, error) {
	role := models.Role(in.Role)
	if !role.Valid() {
		return nil, models.BadRequest(`Invalid role. Must be "user" or "admin"`)
	}
	u, err := s.store.UpdateUserRole(ctx, id, role)
	if err != nil {
		return nil, err
	}
	logging.Ctx(ctx).Info().
		Str("target_user_id", id).
		Str("role", string(role)).
		Msg("user role changed")
	s.events.Publish(ctx, events.UserRoleChanged, actorID(subject), events.RolePayload{UserID: id, Role: string(role)})
	return u, nil
}

// DeleteUser removes an account with everything it owns: its movies
// (including their votes and comments), its comments and its votes.
// Admins cannot delete themselves.
func (s *Service) DeleteUser(ctx context.Context, subject *auth.Subject, id string) (*models.CascadeReport, error) {
	if subject != nil && subject.UserID == id {
		return nil, models.BadRequest("Cannot delete your own account")
	}
	report, err := s.store.DeleteUser(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, img := range report.Images {
		catalog.DeleteImage(ctx, s.media, img)
	}

	logging.Ctx(ctx).Info().
		Str("target_user_id", id).
		Int("movies", report.Movies).
		Int("comments", report.Comments).
		Int("votes", report.Votes).
		Msg("user deleted")
	for _, movieID := range report.MovieIDs {
		s.events.Publish(ctx, events.MovieDeleted, actorID(subject), events.DeletedPayload{ID: movieID})
	}
	s.events.Publish(ctx, events.UserDeleted, actorID(subject), events.DeletedPayload{
		ID:       id,
		Movies:   report.Movies,
		Comments: report.Comments,
		Votes:    report.Votes,
	})
	return report, nil
}

// Stats gathers the dashboard figures. The independent queries run
// concurrently.
func (s *Service) Stats(ctx context.Context) (*models.Stats, error) {
	var (
		stats  models.Stats
		recent []*models.User
		top    []*models.Movie
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalUsers, err = s.store.CountUsers(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalMovies, err = s.store.CountMovies(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalComments, err = s.store.CountComments(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalVotes, err = s.store.TallyTotals(gctx)
		return err
	})
	g.Go(func() (err error) {
		recent, err = s.store.RecentUsers(gctx, recentUsersLimit)
		return err
	})
	g.Go(func() (err error) {
		top, err = s.store.TopMovies(gctx, topMoviesLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats.RecentUsers = make([]models.RecentUser, 0, len(recent))
	for _, u := range recent {
		stats.RecentUsers = append(stats.RecentUsers, models.RecentUser{
			ID:        u.ID,
			Name:      u.Name,
			Email:     u.Email,
			Role:      u.Role,
			CreatedAt: u.CreatedAt,
		})
	}
	views, err := catalog.PopulateMovies(ctx, s.store, top)
	if err != nil {
		return nil, err
	}
	stats.TopMovies = views
	return &stats, nil
}

func actorID(subject *auth.Subject) string {
	if subject == nil {
		return ""
	}
	return subject.UserID
}
