// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/tomtom215/moviehub/internal/models"
)

func (s *Store) CreateMovie(ctx context.Context, m *models.Movie) (err error) {
	defer observe("create_movie", time.Now(), &err)

	_, err = s.exec("create_movie", func() (any, error) {
		return s.movies.InsertOne(ctx, m)
	})
	return err
}

func (s *Store) getMovie(ctx context.Context, id string) (*models.Movie, error) {
	var m models.Movie
	if err := findOne(ctx, s.movies, byID(id), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) GetMovie(ctx context.Context, id string) (_ *models.Movie, err error) {
	defer observe("get_movie", time.Now(), &err)

	m, err := call(s, "get_movie", func() (*models.Movie, error) {
		return s.getMovie(ctx, id)
	})
	return m, notFound(err, "Movie not found")
}

// sortStage mirrors models.CompareMovies: the requested key, then newest
// first, then _id. Score and the case-folded title are computed fields.
func sortStage(field models.SortField, order models.SortOrder) bson.D {
	dir := -1
	if order == models.SortAsc {
		dir = 1
	}
	key := "score"
	switch field {
	case models.SortByCreatedAt:
		key = "createdAt"
	case models.SortByTitle:
		key = "titleKey"
	case models.SortByReleaseYear:
		key = "releaseYear"
	}
	d := bson.D{{Key: key, Value: dir}}
	if key != "createdAt" {
		d = append(d, bson.E{Key: "createdAt", Value: -1})
	}
	return append(d, bson.E{Key: "_id", Value: 1})
}

func movieFilter(q models.MovieQuery) bson.D {
	if q.Genre == "" {
		return bson.D{}
	}
	return bson.D{{Key: "genre", Value: q.Genre}}
}

func (s *Store) ListMovies(ctx context.Context, q models.MovieQuery) (_ []*models.Movie, _ int, err error) {
	defer observe("list_movies", time.Now(), &err)

	filter := movieFilter(q)
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$addFields", Value: bson.D{
			{Key: "score", Value: bson.D{{Key: "$subtract", Value: bson.A{"$upvotes", "$downvotes"}}}},
			{Key: "titleKey", Value: bson.D{{Key: "$toLower", Value: "$title"}}},
		}}},
		{{Key: "$sort", Value: sortStage(q.SortBy, q.SortOrder)}},
		{{Key: "$skip", Value: int64(q.Page.Offset())}},
	}
	if q.Page.Limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: int64(q.Page.Limit)}})
	}
	pipeline = append(pipeline, bson.D{{Key: "$project", Value: bson.D{
		{Key: "score", Value: 0},
		{Key: "titleKey", Value: 0},
	}}})

	movies, err := call(s, "list_movies", func() ([]*models.Movie, error) {
		cur, err := s.movies.Aggregate(ctx, pipeline)
		if err != nil {
			return nil, fmt.Errorf("aggregate movies: %w", err)
		}
		var out []*models.Movie
		if err := cur.All(ctx, &out); err != nil {
			return nil, fmt.Errorf("decode movies: %w", err)
		}
		return out, nil
	})
	if err != nil {
		return nil, 0, err
	}

	total, err := call(s, "count_movies", func() (int, error) {
		n, err := s.movies.CountDocuments(ctx, filter)
		return int(n), err
	})
	if err != nil {
		return nil, 0, err
	}
	return movies, total, nil
}

func (s *Store) UpdateMovie(ctx context.Context, id string, patch models.MoviePatch) (_ *models.Movie, err error) {
	defer observe("update_movie", time.Now(), &err)

	set := bson.D{
		{Key: "title", Value: patch.Fields.Title},
		{Key: "description", Value: patch.Fields.Description},
		{Key: "genre", Value: patch.Fields.Genre},
		{Key: "releaseYear", Value: patch.Fields.ReleaseYear},
		{Key: "director", Value: patch.Fields.Director},
		{Key: "updatedAt", Value: s.now()},
	}
	if patch.Image != nil {
		set = append(set, bson.E{Key: "image", Value: *patch.Image})
	}

	m, err := call(s, "update_movie", func() (*models.Movie, error) {
		return findOneAndUpdate[models.Movie](ctx, s.movies, byID(id), bson.D{{Key: "$set", Value: set}})
	})
	return m, notFound(err, "Movie not found")
}

func (s *Store) CountMovies(ctx context.Context) (n int, err error) {
	defer observe("count_movies", time.Now(), &err)

	return call(s, "count_movies", func() (int, error) {
		c, err := s.movies.CountDocuments(ctx, bson.D{})
		return int(c), err
	})
}

func (s *Store) TallyTotals(ctx context.Context) (_ models.VoteTotals, err error) {
	defer observe("tally_totals", time.Now(), &err)

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "totalUpvotes", Value: bson.D{{Key: "$sum", Value: "$upvotes"}}},
			{Key: "totalDownvotes", Value: bson.D{{Key: "$sum", Value: "$downvotes"}}},
		}}},
	}
	return call(s, "tally_totals", func() (models.VoteTotals, error) {
		var t models.VoteTotals
		cur, err := s.movies.Aggregate(ctx, pipeline)
		if err != nil {
			return t, fmt.Errorf("aggregate tallies: %w", err)
		}
		var rows []struct {
			Up   int `bson:"totalUpvotes"`
			Down int `bson:"totalDownvotes"`
		}
		if err := cur.All(ctx, &rows); err != nil {
			return t, fmt.Errorf("decode tallies: %w", err)
		}
		if len(rows) > 0 {
			t.TotalUpvotes, t.TotalDownvotes = rows[0].Up, rows[0].Down
		}
		return t, nil
	})
}

func (s *Store) TopMovies(ctx context.Context, n int) (_ []*models.Movie, err error) {
	defer observe("top_movies", time.Now(), &err)

	sort := bson.D{{Key: "upvotes", Value: -1}, {Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: sort}},
		{{Key: "$limit", Value: int64(n)}},
	}
	return call(s, "top_movies", func() ([]*models.Movie, error) {
		cur, err := s.movies.Aggregate(ctx, pipeline)
		if err != nil {
			return nil, fmt.Errorf("aggregate top movies: %w", err)
		}
		var out []*models.Movie
		if err := cur.All(ctx, &out); err != nil {
			return nil, fmt.Errorf("decode top movies: %w", err)
		}
		return out, nil
	})
}
