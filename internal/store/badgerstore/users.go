// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

package badgerstore

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/moviehub/internal/models"
)

// userDoc is the stored form of a user. models.User hides the password
// hash from JSON, so it is carried in an explicit field here.
type userDoc struct {
	models.User
	PasswordHash string `json:"passwordHash"`
}

func toUserDoc(u *models.User) userDoc {
	return userDoc{User: *u, PasswordHash: u.PasswordHash}
}

func (d *userDoc) user() *models.User {
	u := d.User
	u.PasswordHash = d.PasswordHash
	return &u
}

func getUser(txn *badger.Txn, id string) (*models.User, error) {
	var d userDoc
	if err := getJSON(txn, userKey(id), &d); err != nil {
		return nil, err
	}
	return d.user(), nil
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) (err error) {
	defer observe("create_user", time.Now(), &err)

	u.Email = models.NormalizeEmail(u.Email)
	return s.update("create_user", func(txn *badger.Txn) error {
		taken, err := exists(txn, userEmailKey(u.Email))
		if err != nil {
			return err
		}
		if taken {
			return models.Conflict("User with this email already exists")
		}
		if err := setJSON(txn, userKey(u.ID), toUserDoc(u)); err != nil {
			return err
		}
		return txn.Set(userEmailKey(u.Email), []byte(u.ID))
	})
}

func (s *Store) GetUser(ctx context.Context, id string) (u *models.User, err error) {
	defer observe("get_user", time.Now(), &err)

	err = s.db.View(func(txn *badger.Txn) error {
		u, err = getUser(txn, id)
		return err
	})
	return u, notFound(err, "User not found")
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (u *models.User, err error) {
	defer observe("get_user_by_email", time.Now(), &err)

	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userEmailKey(models.NormalizeEmail(email)))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return models.ErrNotFound
		}
		if err != nil {
			return err
		}
		id, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		u, err = getUser(txn, string(id))
		return err
	})
	return u, notFound(err, "User not found")
}

func (s *Store) GetUsers(ctx context.Context, ids []string) (map[string]*models.User, error) {
	out := make(map[string]*models.User, len(ids))
	err := s.db.View(func(txn *badger.Txn) error {
		for _, id := range ids {
			if _, seen := out[id]; seen || id == "" {
				continue
			}
			u, err := getUser(txn, id)
			if errors.Is(err, models.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			out[id] = u
		}
		return nil
	})
	return out, err
}

// allUsersNewestFirst loads every user ordered by creation time, newest first.
func (s *Store) allUsersNewestFirst(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	err := s.db.View(func(txn *badger.Txn) error {
		return scanValues(ctx, txn, prefixUser, func(val []byte) error {
			var d userDoc
			if err := json.Unmarshal(val, &d); err != nil {
				return err
			}
			users = append(users, d.user())
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("scan users: %w", err)
	}
	slices.SortFunc(users, func(a, b *models.User) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return users, nil
}

func (s *Store) ListUsers(ctx context.Context, page models.PageRequest) (_ []*models.User, _ int, err error) {
	defer observe("list_users", time.Now(), &err)

	users, err := s.allUsersNewestFirst(ctx)
	if err != nil {
		return nil, 0, err
	}
	return models.Paginate(users, page), len(users), nil
}

func (s *Store) RecentUsers(ctx context.Context, n int) (_ []*models.User, err error) {
	defer observe("recent_users", time.Now(), &err)

	users, err := s.allUsersNewestFirst(ctx)
	if err != nil {
		return nil, err
	}
	return models.Paginate(users, models.PageRequest{Page: 1, Limit: n}), nil
}

func (s *Store) UpdateUserRole(ctx context.Context, id string, role models.Role) (u *models.User, err error) {
	defer observe("update_user_role", time.Now(), &err)

	err = s.update("update_user_role", func(txn *badger.Txn) error {
		cur, err := getUser(txn, id)
		if err != nil {
			return err
		}
		cur.Role = role
		cur.UpdatedAt = s.now()
		if err := setJSON(txn, userKey(id), toUserDoc(cur)); err != nil {
			return err
		}
		u = cur
		return nil
	})
	return u, notFound(err, "User not found")
}

func (s *Store) CountUsers(ctx context.Context) (n int, err error) {
	defer observe("count_users", time.Now(), &err)

	err = s.db.View(func(txn *badger.Txn) error {
		n = countPrefix(txn, prefixUser)
		return nil
	})
	return n, err
}
