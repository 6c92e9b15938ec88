// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/tomtom215/moviehub/internal/models"
)

func (s *Store) CreateComment(ctx context.Context, c *models.Comment) (err error) {
	defer observe("create_comment", time.Now(), &err)

	_, err = s.exec("create_comment", func() (any, error) {
		if _, err := s.getMovie(ctx, c.MovieID); err != nil {
			return nil, err
		}
		return s.comments.InsertOne(ctx, c)
	})
	return notFound(err, "Movie not found")
}

func (s *Store) GetComment(ctx context.Context, id string) (_ *models.Comment, err error) {
	defer observe("get_comment", time.Now(), &err)

	c, err := call(s, "get_comment", func() (*models.Comment, error) {
		var c models.Comment
		if err := findOne(ctx, s.comments, byID(id), &c); err != nil {
			return nil, err
		}
		return &c, nil
	})
	return c, notFound(err, "Comment not found")
}

func (s *Store) ListComments(ctx context.Context, movieID string, page models.PageRequest) (_ []*models.Comment, _ int, err error) {
	defer observe("list_comments", time.Now(), &err)

	filter := bson.D{{Key: "movie", Value: movieID}}
	comments, err := call(s, "list_comments", func() ([]*models.Comment, error) {
		opts := options.Find().
			SetSort(newestFirst).
			SetSkip(int64(page.Offset())).
			SetLimit(int64(page.Limit))
		return findAll[models.Comment](ctx, s.comments, filter, opts)
	})
	if err != nil {
		return nil, 0, err
	}
	total, err := call(s, "count_comments", func() (int, error) {
		n, err := s.comments.CountDocuments(ctx, filter)
		return int(n), err
	})
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

func (s *Store) UpdateComment(ctx context.Context, id, content string) (_ *models.Comment, err error) {
	defer observe("update_comment", time.Now(), &err)

	c, err := call(s, "update_comment", func() (*models.Comment, error) {
		update := bson.D{{Key: "$set", Value: bson.D{
			{Key: "content", Value: content},
			{Key: "updatedAt", Value: s.now()},
		}}}
		return findOneAndUpdate[models.Comment](ctx, s.comments, byID(id), update)
	})
	return c, notFound(err, "Comment not found")
}

func (s *Store) DeleteComment(ctx context.Context, id string) (err error) {
	defer observe("delete_comment", time.Now(), &err)

	_, err = s.exec("delete_comment", func() (any, error) {
		res, err := s.comments.DeleteOne(ctx, byID(id))
		if err != nil {
			return nil, err
		}
		if res.DeletedCount == 0 {
			return nil, models.ErrNotFound
		}
		return nil, nil
	})
	return notFound(err, "Comment not found")
}

func (s *Store) CountComments(ctx context.Context) (n int, err error) {
	defer observe("count_comments", time.Now(), &err)

	return call(s, "count_comments", func() (int, error) {
		c, err := s.comments.CountDocuments(ctx, bson.D{})
		return int(c), err
	})
}
