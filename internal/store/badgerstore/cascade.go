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

	"github.com/tomtom215/moviehub/internal/models"
)

// Cascading deletes collect index suffixes first and mutate afterwards:
// a read-write transaction allows only one open iterator, and deleting
// while iterating would also skip keys.

// deleteMovieTxn removes a movie with its votes, comments and indexes.
func deleteMovieTxn(txn *badger.Txn, m *models.Movie, report *models.CascadeReport) error {
	voters := scanSuffixes(txn, prefixVote+m.ID+":")
	commentIDs := scanSuffixes(txn, prefixCommentMovie+m.ID+":")

	for _, userID := range voters {
		if err := deleteKeys(txn, voteKey(m.ID, userID), voteUserKey(userID, m.ID)); err != nil {
			return err
		}
		report.Votes++
	}

	for _, id := range commentIDs {
		c, err := getComment(txn, id)
		if errors.Is(err, models.ErrNotFound) {
			if err := deleteKeys(txn, commentMovieKey(m.ID, id)); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
		if err := deleteCommentTxn(txn, c); err != nil {
			return err
		}
		report.Comments++
	}

	if err := deleteKeys(txn, movieKey(m.ID), movieOwnerKey(m.AddedBy, m.ID)); err != nil {
		return err
	}
	report.Movies++
	report.MovieIDs = append(report.MovieIDs, m.ID)
	if m.Image != "" {
		report.Images = append(report.Images, m.Image)
	}
	return nil
}

// DeleteUser removes a user and everything they own: their movies (with
// all votes and comments on them), their comments elsewhere and their
// votes elsewhere. Removing a vote on a surviving movie takes it back out
// of that movie's tallies.
func (s *Store) DeleteUser(ctx context.Context, id string) (report *models.CascadeReport, err error) {
	defer observe("delete_user", time.Now(), &err)

	err = s.update("delete_user", func(txn *badger.Txn) error {
		report = &models.CascadeReport{}
		u, err := getUser(txn, id)
		if err != nil {
			return err
		}

		owned := scanSuffixes(txn, prefixMovieOwner+id+":")
		voted := scanSuffixes(txn, prefixVoteUser+id+":")
		commented := scanSuffixes(txn, prefixCommentUser+id+":")

		removed := make(map[string]bool, len(owned))
		for _, movieID := range owned {
			m, err := getMovie(txn, movieID)
			if errors.Is(err, models.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			if err := deleteMovieTxn(txn, m, report); err != nil {
				return err
			}
			removed[movieID] = true
		}

		for _, movieID := range voted {
			if removed[movieID] {
				continue
			}
			if err := s.retractVoteTxn(txn, id, movieID); err != nil {
				return err
			}
			report.Votes++
		}

		for _, commentID := range commented {
			c, err := getComment(txn, commentID)
			if errors.Is(err, models.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			if err := deleteCommentTxn(txn, c); err != nil {
				return err
			}
			report.Comments++
		}

		return deleteKeys(txn, userKey(id), userEmailKey(u.Email))
	})
	if err != nil {
		return nil, notFound(err, "User not found")
	}
	return report, nil
}

// retractVoteTxn deletes a user's vote on a movie and reverses its effect
// on the movie's tallies.
func (s *Store) retractVoteTxn(txn *badger.Txn, userID, movieID string) error {
	var v models.Vote
	err := getJSON(txn, voteKey(movieID, userID), &v)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return err
	}
	if err == nil {
		m, err := getMovie(txn, movieID)
		switch {
		case err == nil:
			m.ApplyDelta(models.DeltaForRemoval(v.VoteType))
			if err := setJSON(txn, movieKey(movieID), m); err != nil {
				return err
			}
		case !errors.Is(err, models.ErrNotFound):
			return err
		}
	}
	return deleteKeys(txn, voteKey(movieID, userID), voteUserKey(userID, movieID))
}
