// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

package badgerstore

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/moviehub/internal/models"
)

// ApplyVote reads the caller's ledger entry and the movie, applies the
// transition table and writes both back in one transaction. A concurrent
// vote on the same movie invalidates the read set, so the loser re-runs
// against the winner's state.
func (s *Store) ApplyVote(ctx context.Context, userID, movieID string, requested models.VoteType) (res *models.VoteResult, err error) {
	defer observe("apply_vote", time.Now(), &err)

	err = s.update("apply_vote", func(txn *badger.Txn) error {
		m, err := getMovie(txn, movieID)
		if err != nil {
			return err
		}

		var existing *models.Vote
		var v models.Vote
		switch err := getJSON(txn, voteKey(movieID, userID), &v); {
		case err == nil:
			existing = &v
		case !errors.Is(err, models.ErrNotFound):
			return err
		}

		var current models.VoteType
		if existing != nil {
			current = existing.VoteType
		}
		next, outcome, delta := models.NextVote(current, requested)
		m.ApplyDelta(delta)

		now := s.now()
		if next == "" {
			if err := deleteKeys(txn, voteKey(movieID, userID), voteUserKey(userID, movieID)); err != nil {
				return err
			}
		} else {
			if existing == nil {
				existing = &models.Vote{
					ID:        uuid.NewString(),
					UserID:    userID,
					MovieID:   movieID,
					CreatedAt: now,
				}
				if err := txn.Set(voteUserKey(userID, movieID), nil); err != nil {
					return err
				}
			}
			existing.VoteType = next
			existing.UpdatedAt = now
			if err := setJSON(txn, voteKey(movieID, userID), existing); err != nil {
				return err
			}
		}

		if err := setJSON(txn, movieKey(movieID), m); err != nil {
			return err
		}
		res = models.NewVoteResult(m, next, outcome)
		return nil
	})
	return res, notFound(err, "Movie not found")
}

func (s *Store) GetVote(ctx context.Context, userID, movieID string) (v *models.Vote, err error) {
	defer observe("get_vote", time.Now(), &err)

	err = s.db.View(func(txn *badger.Txn) error {
		var out models.Vote
		if err := getJSON(txn, voteKey(movieID, userID), &out); err != nil {
			return err
		}
		v = &out
		return nil
	})
	return v, notFound(err, "Vote not found")
}

// RecountVotes rebuilds a movie's tallies from its ledger entries.
func (s *Store) RecountVotes(ctx context.Context, movieID string) (m *models.Movie, err error) {
	defer observe("recount_votes", time.Now(), &err)

	err = s.update("recount_votes", func(txn *badger.Txn) error {
		cur, err := getMovie(txn, movieID)
		if err != nil {
			return err
		}
		up, down := 0, 0
		err = scanValues(ctx, txn, prefixVote+movieID+":", func(val []byte) error {
			var v models.Vote
			if err := json.Unmarshal(val, &v); err != nil {
				return err
			}
			switch v.VoteType {
			case models.VoteUp:
				up++
			case models.VoteDown:
				down++
			}
			return nil
		})
		if err != nil {
			return err
		}
		cur.Upvotes, cur.Downvotes = up, down
		if err := setJSON(txn, movieKey(movieID), cur); err != nil {
			return err
		}
		m = cur
		return nil
	})
	return m, notFound(err, "Movie not found")
}
