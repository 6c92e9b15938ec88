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

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/tomtom215/moviehub/internal/metrics"
	"github.com/tomtom215/moviehub/internal/models"
)

// errLostRace means the ledger entry changed between read and write.
var errLostRace = errors.New("vote ledger changed concurrently")

func voteFilter(userID, movieID string) bson.D {
	return bson.D{{Key: "user", Value: userID}, {Key: "movie", Value: movieID}}
}

// tallyUpdate adds d to a movie's tallies, clamping each at zero.
func tallyUpdate(d models.TallyDelta) mongo.Pipeline {
	clamped := func(field string, delta int) bson.D {
		return bson.D{{Key: "$max", Value: bson.A{
			0,
			bson.D{{Key: "$add", Value: bson.A{bson.D{{Key: "$ifNull", Value: bson.A{"$" + field, 0}}}, delta}}},
		}}}
	}
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "upvotes", Value: clamped("upvotes", d.Up)},
			{Key: "downvotes", Value: clamped("downvotes", d.Down)},
		}}},
	}
}

func (s *Store) applyTally(ctx context.Context, movieID string, d models.TallyDelta) (*models.Movie, error) {
	return findOneAndUpdate[models.Movie](ctx, s.movies, byID(movieID), tallyUpdate(d))
}

// ApplyVote commits the ledger transition first, conditional on the entry
// read, then applies the tally delta of that transition.
func (s *Store) ApplyVote(ctx context.Context, userID, movieID string, requested models.VoteType) (_ *models.VoteResult, err error) {
	defer observe("apply_vote", time.Now(), &err)

	for attempt := 1; attempt <= maxCASAttempts; attempt++ {
		res, err := call(s, "apply_vote", func() (*models.VoteResult, error) {
			return s.tryVote(ctx, userID, movieID, requested)
		})
		if !errors.Is(err, errLostRace) {
			return res, notFound(err, "Movie not found")
		}
		metrics.StoreTxnRetries.WithLabelValues(backendName, "apply_vote").Inc()
	}
	return nil, fmt.Errorf("apply_vote: giving up after %d attempts: %w", maxCASAttempts, errLostRace)
}

func (s *Store) tryVote(ctx context.Context, userID, movieID string, requested models.VoteType) (*models.VoteResult, error) {
	if _, err := s.getMovie(ctx, movieID); err != nil {
		return nil, err
	}

	var existing models.Vote
	err := findOne(ctx, s.votes, voteFilter(userID, movieID), &existing)
	found := err == nil
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	var current models.VoteType
	if found {
		current = existing.VoteType
	}
	next, outcome, delta := models.NextVote(current, requested)
	now := s.now()

	switch {
	case !found:
		v := models.Vote{
			ID:        uuid.NewString(),
			UserID:    userID,
			MovieID:   movieID,
			VoteType:  next,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err := s.votes.InsertOne(ctx, v); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, errLostRace
			}
			return nil, err
		}

	case next == "":
		cond := bson.D{{Key: "_id", Value: existing.ID}, {Key: "voteType", Value: existing.VoteType}}
		res, err := s.votes.DeleteOne(ctx, cond)
		if err != nil {
			return nil, err
		}
		if res.DeletedCount == 0 {
			return nil, errLostRace
		}

	default:
		cond := bson.D{{Key: "_id", Value: existing.ID}, {Key: "voteType", Value: existing.VoteType}}
		update := bson.D{{Key: "$set", Value: bson.D{
			{Key: "voteType", Value: next},
			{Key: "updatedAt", Value: now},
		}}}
		res, err := s.votes.UpdateOne(ctx, cond, update)
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, errLostRace
		}
	}

	m, err := s.applyTally(ctx, movieID, delta)
	if err != nil {
		return nil, err
	}
	return models.NewVoteResult(m, next, outcome), nil
}

func (s *Store) GetVote(ctx context.Context, userID, movieID string) (_ *models.Vote, err error) {
	defer observe("get_vote", time.Now(), &err)

	v, err := call(s, "get_vote", func() (*models.Vote, error) {
		var v models.Vote
		if err := findOne(ctx, s.votes, voteFilter(userID, movieID), &v); err != nil {
			return nil, err
		}
		return &v, nil
	})
	return v, notFound(err, "Vote not found")
}

func (s *Store) RecountVotes(ctx context.Context, movieID string) (_ *models.Movie, err error) {
	defer observe("recount_votes", time.Now(), &err)

	m, err := call(s, "recount_votes", func() (*models.Movie, error) {
		if _, err := s.getMovie(ctx, movieID); err != nil {
			return nil, err
		}
		pipeline := mongo.Pipeline{
			{{Key: "$match", Value: bson.D{{Key: "movie", Value: movieID}}}},
			{{Key: "$group", Value: bson.D{
				{Key: "_id", Value: "$voteType"},
				{Key: "n", Value: bson.D{{Key: "$sum", Value: 1}}},
			}}},
		}
		cur, err := s.votes.Aggregate(ctx, pipeline)
		if err != nil {
			return nil, fmt.Errorf("aggregate votes: %w", err)
		}
		var rows []struct {
			Type models.VoteType `bson:"_id"`
			N    int             `bson:"n"`
		}
		if err := cur.All(ctx, &rows); err != nil {
			return nil, fmt.Errorf("decode vote counts: %w", err)
		}
		set := bson.D{{Key: "upvotes", Value: 0}, {Key: "downvotes", Value: 0}}
		for _, r := range rows {
			switch r.Type {
			case models.VoteUp:
				set[0].Value = r.N
			case models.VoteDown:
				set[1].Value = r.N
			}
		}
		return findOneAndUpdate[models.Movie](ctx, s.movies, byID(movieID), bson.D{{Key: "$set", Value: set}})
	})
	return m, notFound(err, "Movie not found")
}
