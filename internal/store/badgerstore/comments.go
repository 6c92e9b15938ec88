// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

package badgerstore

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/moviehub/internal/models"
)

func getComment(txn *badger.Txn, id string) (*models.Comment, error) {
	var c models.Comment
	if err := getJSON(txn, commentKey(id), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateComment fails with a not-found error when the movie is gone, which
// keeps a comment from being attached to a movie deleted mid-request.
func (s *Store) CreateComment(ctx context.Context, c *models.Comment) (err error) {
	defer observe("create_comment", time.Now(), &err)

	err = s.update("create_comment", func(txn *badger.Txn) error {
		ok, err := exists(txn, movieKey(c.MovieID))
		if err != nil {
			return err
		}
		if !ok {
			return models.ErrNotFound
		}
		if err := setJSON(txn, commentKey(c.ID), c); err != nil {
			return err
		}
		if err := txn.Set(commentMovieKey(c.MovieID, c.ID), nil); err != nil {
			return err
		}
		return txn.Set(commentUserKey(c.UserID, c.ID), nil)
	})
	return notFound(err, "Movie not found")
}

func (s *Store) GetComment(ctx context.Context, id string) (c *models.Comment, err error) {
	defer observe("get_comment", time.Now(), &err)

	err = s.db.View(func(txn *badger.Txn) error {
		c, err = getComment(txn, id)
		return err
	})
	return c, notFound(err, "Comment not found")
}

// ListComments returns a movie's comments newest first.
func (s *Store) ListComments(ctx context.Context, movieID string, page models.PageRequest) (_ []*models.Comment, _ int, err error) {
	defer observe("list_comments", time.Now(), &err)

	var comments []*models.Comment
	err = s.db.View(func(txn *badger.Txn) error {
		ids := scanSuffixes(txn, prefixCommentMovie+movieID+":")
		comments = make([]*models.Comment, 0, len(ids))
		for _, id := range ids {
			if err := ctx.Err(); err != nil {
				return err
			}
			c, err := getComment(txn, id)
			if errors.Is(err, models.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			comments = append(comments, c)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	slices.SortFunc(comments, models.CompareCommentsNewestFirst)
	return models.Paginate(comments, page), len(comments), nil
}

func (s *Store) UpdateComment(ctx context.Context, id, content string) (c *models.Comment, err error) {
	defer observe("update_comment", time.Now(), &err)

	err = s.update("update_comment", func(txn *badger.Txn) error {
		cur, err := getComment(txn, id)
		if err != nil {
			return err
		}
		cur.Content = content
		cur.UpdatedAt = s.now()
		if err := setJSON(txn, commentKey(id), cur); err != nil {
			return err
		}
		c = cur
		return nil
	})
	return c, notFound(err, "Comment not found")
}

func (s *Store) DeleteComment(ctx context.Context, id string) (err error) {
	defer observe("delete_comment", time.Now(), &err)

	err = s.update("delete_comment", func(txn *badger.Txn) error {
		c, err := getComment(txn, id)
		if err != nil {
			return err
		}
		return deleteCommentTxn(txn, c)
	})
	return notFound(err, "Comment not found")
}

func (s *Store) CountComments(ctx context.Context) (n int, err error) {
	defer observe("count_comments", time.Now(), &err)

	err = s.db.View(func(txn *badger.Txn) error {
		n = countPrefix(txn, prefixComment)
		return nil
	})
	return n, err
}

func deleteCommentTxn(txn *badger.Txn, c *models.Comment) error {
	return deleteKeys(txn,
		commentKey(c.ID),
		commentMovieKey(c.MovieID, c.ID),
		commentUserKey(c.UserID, c.ID),
	)
}
