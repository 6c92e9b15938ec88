// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

package badgerstore

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/moviehub/internal/models"
)

func getMovie(txn *badger.Txn, id string) (*models.Movie, error) {
	var m models.Movie
	if err := getJSON(txn, movieKey(id), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) CreateMovie(ctx context.Context, m *models.Movie) (err error) {
	defer observe("create_movie", time.Now(), &err)

	return s.update("create_movie", func(txn *badger.Txn) error {
		if err := setJSON(txn, movieKey(m.ID), m); err != nil {
			return err
		}
		return txn.Set(movieOwnerKey(m.AddedBy, m.ID), nil)
	})
}

func (s *Store) GetMovie(ctx context.Context, id string) (m *models.Movie, err error) {
	defer observe("get_movie", time.Now(), &err)

	err = s.db.View(func(txn *badger.Txn) error {
		m, err = getMovie(txn, id)
		return err
	})
	return m, notFound(err, "Movie not found")
}

// scanMovies loads every movie that passes keep.
func (s *Store) scanMovies(ctx context.Context, keep func(*models.Movie) bool) ([]*models.Movie, error) {
	var movies []*models.Movie
	err := s.db.View(func(txn *badger.Txn) error {
		return scanValues(ctx, txn, prefixMovie, func(val []byte) error {
			var m models.Movie
			if err := json.Unmarshal(val, &m); err != nil {
				return err
			}
			if keep == nil || keep(&m) {
				movies = append(movies, &m)
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("scan movies: %w", err)
	}
	return movies, nil
}

// ListMovies sorts the full filtered set before paging, so score ordering
// is global and always computed from the current tallies.
func (s *Store) ListMovies(ctx context.Context, q models.MovieQuery) (_ []*models.Movie, _ int, err error) {
	defer observe("list_movies", time.Now(), &err)

	movies, err := s.scanMovies(ctx, q.Matches)
	if err != nil {
		return nil, 0, err
	}
	slices.SortFunc(movies, func(a, b *models.Movie) int {
		return models.CompareMovies(a, b, q.SortBy, q.SortOrder)
	})
	return models.Paginate(movies, q.Page), len(movies), nil
}

func (s *Store) UpdateMovie(ctx context.Context, id string, patch models.MoviePatch) (m *models.Movie, err error) {
	defer observe("update_movie", time.Now(), &err)

	err = s.update("update_movie", func(txn *badger.Txn) error {
		cur, err := getMovie(txn, id)
		if err != nil {
			return err
		}
		patch.Fields.Apply(cur)
		if patch.Image != nil {
			cur.Image = *patch.Image
		}
		cur.UpdatedAt = s.now()
		if err := setJSON(txn, movieKey(id), cur); err != nil {
			return err
		}
		m = cur
		return nil
	})
	return m, notFound(err, "Movie not found")
}

func (s *Store) DeleteMovie(ctx context.Context, id string) (report *models.CascadeReport, err error) {
	defer observe("delete_movie", time.Now(), &err)

	err = s.update("delete_movie", func(txn *badger.Txn) error {
		report = &models.CascadeReport{}
		m, err := getMovie(txn, id)
		if err != nil {
			return err
		}
		return deleteMovieTxn(txn, m, report)
	})
	if err != nil {
		return nil, notFound(err, "Movie not found")
	}
	return report, nil
}

func (s *Store) CountMovies(ctx context.Context) (n int, err error) {
	defer observe("count_movies", time.Now(), &err)

	err = s.db.View(func(txn *badger.Txn) error {
		n = countPrefix(txn, prefixMovie)
		return nil
	})
	return n, err
}

func (s *Store) TallyTotals(ctx context.Context) (t models.VoteTotals, err error) {
	defer observe("tally_totals", time.Now(), &err)

	movies, err := s.scanMovies(ctx, nil)
	if err != nil {
		return t, err
	}
	for _, m := range movies {
		t.TotalUpvotes += m.Upvotes
		t.TotalDownvotes += m.Downvotes
	}
	return t, nil
}

func (s *Store) TopMovies(ctx context.Context, n int) (_ []*models.Movie, err error) {
	defer observe("top_movies", time.Now(), &err)

	movies, err := s.scanMovies(ctx, nil)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(movies, func(a, b *models.Movie) int {
		if a.Upvotes != b.Upvotes {
			return b.Upvotes - a.Upvotes
		}
		return models.CompareMovies(a, b, models.SortByCreatedAt, models.SortDesc)
	})
	return models.Paginate(movies, models.PageRequest{Page: 1, Limit: n}), nil
}
