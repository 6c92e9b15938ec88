// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

// Package store defines the persistence contract for MovieHub's four
// collections: users, movies, votes and comments.
//
// Two implementations exist:
//
//   - badgerstore: embedded BadgerDB; the default and the one used in tests
//   - mongostore: MongoDB, wrapped in a circuit breaker
//
// Implementations translate backend errors to models.ErrNotFound and
// models.ErrConflict. They must uphold three invariants:
//
//   - at most one vote per (user, movie)
//   - a vote's ledger write and its movie tally change are applied together
//   - tallies never go below zero
//
// Cascading deletes (DeleteMovie, DeleteUser) remove every dependent
// record and fix up the tallies of other movies the deleted user voted on.
package store

import (
	"context"

	"github.com/tomtom215/moviehub/internal/models"
)

// UserStore persists accounts. Emails are unique after models.NormalizeEmail.
type UserStore interface {
	// CreateUser fails with models.ErrConflict when the email is taken.
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUsers loads many users at once; missing IDs are absent from the map.
	GetUsers(ctx context.Context, ids []string) (map[string]*models.User, error)
	// ListUsers returns a page ordered newest first, and the total count.
	ListUsers(ctx context.Context, page models.PageRequest) ([]*models.User, int, error)
	UpdateUserRole(ctx context.Context, id string, role models.Role) (*models.User, error)
	// DeleteUser removes the user with their movies (and those movies'
	// votes and comments), their comments and their votes.
	DeleteUser(ctx context.Context, id string) (*models.CascadeReport, error)
	CountUsers(ctx context.Context) (int, error)
	RecentUsers(ctx context.Context, n int) ([]*models.User, error)
}

// MovieStore persists the catalog.
type MovieStore interface {
	CreateMovie(ctx context.Context, m *models.Movie) error
	GetMovie(ctx context.Context, id string) (*models.Movie, error)
	// ListMovies filters, orders by the derived score when asked, and pages.
	ListMovies(ctx context.Context, q models.MovieQuery) ([]*models.Movie, int, error)
	// UpdateMovie changes editable fields only; tallies are untouched.
	UpdateMovie(ctx context.Context, id string, patch models.MoviePatch) (*models.Movie, error)
	// DeleteMovie removes the movie with its votes and comments.
	DeleteMovie(ctx context.Context, id string) (*models.CascadeReport, error)
	CountMovies(ctx context.Context) (int, error)
	TallyTotals(ctx context.Context) (models.VoteTotals, error)
	// TopMovies returns the n movies with the most upvotes.
	TopMovies(ctx context.Context, n int) ([]*models.Movie, error)
}

// VoteStore persists the vote ledger and keeps tallies in step with it.
type VoteStore interface {
	// ApplyVote runs models.NextVote against the stored vote and applies
	// the resulting ledger and tally change together.
	ApplyVote(ctx context.Context, userID, movieID string, vt models.VoteType) (*models.VoteResult, error)
	// GetVote returns models.ErrNotFound when the user has not voted.
	GetVote(ctx context.Context, userID, movieID string) (*models.Vote, error)
	// RecountVotes rebuilds a movie's tallies from the ledger.
	RecountVotes(ctx context.Context, movieID string) (*models.Movie, error)
}

// CommentStore persists discussion.
type CommentStore interface {
	CreateComment(ctx context.Context, c *models.Comment) error
	GetComment(ctx context.Context, id string) (*models.Comment, error)
	// ListComments returns a movie's comments newest first, and the total.
	ListComments(ctx context.Context, movieID string, page models.PageRequest) ([]*models.Comment, int, error)
	UpdateComment(ctx context.Context, id, content string) (*models.Comment, error)
	DeleteComment(ctx context.Context, id string) error
	CountComments(ctx context.Context) (int, error)
}

// Store is the full persistence surface.
type Store interface {
	UserStore
	MovieStore
	VoteStore
	CommentStore

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
	// Backend names the implementation for logs and metrics.
	Backend() string
	Close() error
}
