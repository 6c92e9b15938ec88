// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/tomtom215/moviehub/internal/models"
)

// Cascades delete dependents before the parent, so an interrupted cascade
// leaves the parent in place and can simply be re-run.

// deleteMovies removes the given movies with their votes and comments.
func (s *Store) deleteMovies(ctx context.Context, movies []*models.Movie, report *models.CascadeReport) error {
	if len(movies) == 0 {
		return nil
	}
	ids := make([]string, len(movies))
	for i, m := range movies {
		ids[i] = m.ID
	}
	in := bson.D{{Key: "$in", Value: ids}}

	votes, err := s.votes.DeleteMany(ctx, bson.D{{Key: "movie", Value: in}})
	if err != nil {
		return fmt.Errorf("delete votes: %w", err)
	}
	comments, err := s.comments.DeleteMany(ctx, bson.D{{Key: "movie", Value: in}})
	if err != nil {
		return fmt.Errorf("delete comments: %w", err)
	}
	deleted, err := s.movies.DeleteMany(ctx, bson.D{{Key: "_id", Value: in}})
	if err != nil {
		return fmt.Errorf("delete movies: %w", err)
	}

	report.Votes += int(votes.DeletedCount)
	report.Comments += int(comments.DeletedCount)
	report.Movies += int(deleted.DeletedCount)
	for _, m := range movies {
		report.MovieIDs = append(report.MovieIDs, m.ID)
		if m.Image != "" {
			report.Images = append(report.Images, m.Image)
		}
	}
	return nil
}

func (s *Store) DeleteMovie(ctx context.Context, id string) (_ *models.CascadeReport, err error) {
	defer observe("delete_movie", time.Now(), &err)

	report, err := call(s, "delete_movie", func() (*models.CascadeReport, error) {
		m, err := s.getMovie(ctx, id)
		if err != nil {
			return nil, err
		}
		report := &models.CascadeReport{}
		if err := s.deleteMovies(ctx, []*models.Movie{m}, report); err != nil {
			return nil, err
		}
		return report, nil
	})
	return report, notFound(err, "Movie not found")
}

func (s *Store) DeleteUser(ctx context.Context, id string) (_ *models.CascadeReport, err error) {
	defer observe("delete_user", time.Now(), &err)

	report, err := call(s, "delete_user", func() (*models.CascadeReport, error) {
		var u models.User
		if err := findOne(ctx, s.users, byID(id), &u); err != nil {
			return nil, err
		}
		report := &models.CascadeReport{}

		proj := options.Find().SetProjection(bson.D{{Key: "_id", Value: 1}, {Key: "image", Value: 1}})
		owned, err := findAll[models.Movie](ctx, s.movies, bson.D{{Key: "addedBy", Value: id}}, proj)
		if err != nil {
			return nil, err
		}
		if err := s.deleteMovies(ctx, owned, report); err != nil {
			return nil, err
		}

		votes, err := findAll[models.Vote](ctx, s.votes, bson.D{{Key: "user", Value: id}}, nil)
		if err != nil {
			return nil, err
		}
		for _, v := range votes {
			res, err := s.votes.DeleteOne(ctx, bson.D{{Key: "_id", Value: v.ID}, {Key: "voteType", Value: v.VoteType}})
			if err != nil {
				return nil, fmt.Errorf("delete vote: %w", err)
			}
			if res.DeletedCount == 0 {
				continue
			}
			report.Votes++
			_, err = s.applyTally(ctx, v.MovieID, models.DeltaForRemoval(v.VoteType))
			if err != nil && !errors.Is(err, models.ErrNotFound) {
				return nil, fmt.Errorf("retract vote tally: %w", err)
			}
		}

		comments, err := s.comments.DeleteMany(ctx, bson.D{{Key: "user", Value: id}})
		if err != nil {
			return nil, fmt.Errorf("delete comments: %w", err)
		}
		report.Comments += int(comments.DeletedCount)

		if _, err := s.users.DeleteOne(ctx, byID(id)); err != nil {
			return nil, fmt.Errorf("delete user: %w", err)
		}
		return report, nil
	})
	return report, notFound(err, "User not found")
}
