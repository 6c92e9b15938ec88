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
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/tomtom215/moviehub/internal/models"
)

var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}

func (s *Store) CreateUser(ctx context.Context, u *models.User) (err error) {
	defer observe("create_user", time.Now(), &err)

	u.Email = models.NormalizeEmail(u.Email)
	_, err = s.exec("create_user", func() (any, error) {
		_, err := s.users.InsertOne(ctx, u)
		if mongo.IsDuplicateKeyError(err) {
			return nil, models.Conflict("User with this email already exists")
		}
		return nil, err
	})
	return err
}

func (s *Store) GetUser(ctx context.Context, id string) (_ *models.User, err error) {
	defer observe("get_user", time.Now(), &err)

	u, err := call(s, "get_user", func() (*models.User, error) {
		var u models.User
		if err := findOne(ctx, s.users, byID(id), &u); err != nil {
			return nil, err
		}
		return &u, nil
	})
	return u, notFound(err, "User not found")
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (_ *models.User, err error) {
	defer observe("get_user_by_email", time.Now(), &err)

	u, err := call(s, "get_user_by_email", func() (*models.User, error) {
		var u models.User
		filter := bson.D{{Key: "email", Value: models.NormalizeEmail(email)}}
		if err := findOne(ctx, s.users, filter, &u); err != nil {
			return nil, err
		}
		return &u, nil
	})
	return u, notFound(err, "User not found")
}

func (s *Store) GetUsers(ctx context.Context, ids []string) (_ map[string]*models.User, err error) {
	defer observe("get_users", time.Now(), &err)

	out := make(map[string]*models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	users, err := call(s, "get_users", func() ([]*models.User, error) {
		filter := bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}}
		return findAll[models.User](ctx, s.users, filter, nil)
	})
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

func (s *Store) ListUsers(ctx context.Context, page models.PageRequest) (_ []*models.User, _ int, err error) {
	defer observe("list_users", time.Now(), &err)

	users, err := call(s, "list_users", func() ([]*models.User, error) {
		opts := options.Find().
			SetSort(newestFirst).
			SetSkip(int64(page.Offset())).
			SetLimit(int64(page.Limit))
		return findAll[models.User](ctx, s.users, bson.D{}, opts)
	})
	if err != nil {
		return nil, 0, err
	}
	total, err := s.CountUsers(ctx)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (s *Store) RecentUsers(ctx context.Context, n int) (_ []*models.User, err error) {
	defer observe("recent_users", time.Now(), &err)

	return call(s, "recent_users", func() ([]*models.User, error) {
		opts := options.Find().SetSort(newestFirst).SetLimit(int64(n))
		return findAll[models.User](ctx, s.users, bson.D{}, opts)
	})
}

func (s *Store) UpdateUserRole(ctx context.Context, id string, role models.Role) (_ *models.User, err error) {
	defer observe("update_user_role", time.Now(), &err)

	u, err := call(s, "update_user_role", func() (*models.User, error) {
		update := bson.D{{Key: "$set", Value: bson.D{
			{Key: "role", Value: role},
			{Key: "updatedAt", Value: s.now()},
		}}}
		return findOneAndUpdate[models.User](ctx, s.users, byID(id), update)
	})
	return u, notFound(err, "User not found")
}

func (s *Store) CountUsers(ctx context.Context) (n int, err error) {
	defer observe("count_users", time.Now(), &err)

	return call(s, "count_users", func() (int, error) {
		c, err := s.users.CountDocuments(ctx, bson.D{})
		return int(c), err
	})
}

// findAll decodes every document matching filter.
func findAll[T any](ctx context.Context, coll *mongo.Collection, filter any, opts *options.FindOptionsBuilder) ([]*T, error) {
	var cur *mongo.Cursor
	var err error
	if opts != nil {
		cur, err = coll.Find(ctx, filter, opts)
	} else {
		cur, err = coll.Find(ctx, filter)
	}
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", coll.Name(), err)
	}
	var out []*T
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", coll.Name(), err)
	}
	return out, nil
}

// findOneAndUpdate applies update and returns the updated document.
func findOneAndUpdate[T any](ctx context.Context, coll *mongo.Collection, filter, update any) (*T, error) {
	var out T
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}
