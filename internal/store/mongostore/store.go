// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

// Package mongostore implements store.Store on MongoDB.
//
// Documents use string UUIDs as _id so IDs look the same on every backend.
// Uniqueness of emails and of (user, movie) votes is enforced by unique
// indexes. Vote ledger changes are conditional on the ledger entry still
// being in the state that was read; a lost race is retried, and each
// winning ledger change applies exactly one tally delta with an update
// pipeline that clamps at zero. No multi-document transactions are used,
// so a standalone mongod works.
//
// Every call runs through a circuit breaker. Not-found and conflict
// results count as successes for the breaker.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/tomtom215/moviehub/internal/config"
	"github.com/tomtom215/moviehub/internal/logging"
	"github.com/tomtom215/moviehub/internal/metrics"
	"github.com/tomtom215/moviehub/internal/models"
)

const backendName = "mongo"

// maxCASAttempts bounds retries of a conditional ledger write.
const maxCASAttempts = 20

const (
	collUsers    = "users"
	collMovies   = "movies"
	collVotes    = "votes"
	collComments = "comments"
)

// Store is a MongoDB-backed store.Store.
type Store struct {
	client   *mongo.Client
	db       *mongo.Database
	users    *mongo.Collection
	movies   *mongo.Collection
	votes    *mongo.Collection
	comments *mongo.Collection

	cb  *gobreaker.CircuitBreaker[any]
	now func() time.Time
}

// Open connects, verifies the connection and ensures indexes.
func Open(ctx context.Context, cfg config.MongoConfig) (*Store, error) {
	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.Timeout > 0 {
		opts.SetTimeout(cfg.Timeout)
	}
	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}

	s := newStore(client, cfg)
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logging.Info().
		Str("database", cfg.Database).
		Msg("Document store connected")
	return s, nil
}

func newStore(client *mongo.Client, cfg config.MongoConfig) *Store {
	db := client.Database(cfg.Database)
	return &Store{
		client:   client,
		db:       db,
		users:    db.Collection(collUsers),
		movies:   db.Collection(collMovies),
		votes:    db.Collection(collVotes),
		comments: db.Collection(collComments),
		cb:       newBreaker(cfg),
		now:      func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

// SetClock overrides the time source. Intended for tests.
func (s *Store) SetClock(now func() time.Time) { s.now = now }

func (s *Store) Backend() string { return backendName }

func (s *Store) Ping(ctx context.Context) error {
	_, err := s.exec("ping", func() (any, error) {
		return nil, s.client.Ping(ctx, readpref.Primary())
	})
	return err
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect MongoDB: %w", err)
	}
	return nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	asc := func(keys ...string) bson.D {
		d := bson.D{}
		for _, k := range keys {
			d = append(d, bson.E{Key: k, Value: 1})
		}
		return d
	}
	specs := map[*mongo.Collection][]mongo.IndexModel{
		s.users: {
			{Keys: asc("email"), Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
		s.movies: {
			{Keys: asc("genre")},
			{Keys: asc("addedBy")},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "upvotes", Value: -1}}},
		},
		s.votes: {
			{Keys: asc("user", "movie"), Options: options.Index().SetUnique(true)},
			{Keys: asc("movie")},
		},
		s.comments: {
			{Keys: bson.D{{Key: "movie", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: asc("user")},
		},
	}
	for coll, idx := range specs {
		if _, err := coll.Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll.Name(), err)
		}
	}
	return nil
}

// observe records operation latency; expected outcomes are not errors.
func observe(op string, start time.Time, errp *error) {
	var err error
	if errp != nil && *errp != nil &&
		!errors.Is(*errp, models.ErrNotFound) && !errors.Is(*errp, models.ErrConflict) {
		err = *errp
	}
	metrics.RecordStoreOp(backendName, op, start, err)
}

// call runs fn through the breaker and casts its result.
func call[T any](s *Store, op string, fn func() (T, error)) (T, error) {
	var zero T
	res, err := s.exec(op, func() (any, error) { return fn() })
	if err != nil {
		return zero, err
	}
	if res == nil {
		return zero, nil
	}
	typed, ok := res.(T)
	if !ok {
		return zero, fmt.Errorf("%s: unexpected result type %T", op, res)
	}
	return typed, nil
}

// findOne decodes the first match into v; no match is ErrNotFound.
func findOne(ctx context.Context, coll *mongo.Collection, filter any, v any) error {
	err := coll.FindOne(ctx, filter).Decode(v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ErrNotFound
	}
	return err
}

func notFound(err error, msg string) error {
	if errors.Is(err, models.ErrNotFound) {
		return models.NotFound(msg)
	}
	return err
}

func byID(id string) bson.D { return bson.D{{Key: "_id", Value: id}} }
