// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

// Package badgerstore implements store.Store on an embedded BadgerDB.
//
// Records are JSON documents under typed key prefixes. Secondary indexes
// are empty-valued keys whose suffix carries the referenced IDs:
//
//	user:<id>                      user document
//	user_email:<email>             -> user id (unique email index)
//	movie:<id>                     movie document
//	movie_owner:<owner>:<movie>    index of movies by addedBy
//	vote:<movie>:<user>            vote document (unique by construction)
//	vote_user:<user>:<movie>       index of votes by user
//	comment:<id>                   comment document
//	comment_movie:<movie>:<id>     index of comments by movie
//	comment_user:<user>:<id>       index of comments by author
//
// Every mutation that touches more than one key runs in a single
// read-write transaction. Badger's optimistic concurrency control aborts a
// transaction whose reads were invalidated by a concurrent commit
// (badger.ErrConflict); such transactions are re-run from scratch, which is
// what keeps a vote's ledger entry and its movie's tallies in step under
// concurrent voting.
package badgerstore

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/moviehub/internal/config"
	"github.com/tomtom215/moviehub/internal/logging"
	"github.com/tomtom215/moviehub/internal/metrics"
	"github.com/tomtom215/moviehub/internal/models"
)

const backendName = "badger"

// maxTxnAttempts bounds conflict retries for a single operation.
const maxTxnAttempts = 20

const (
	prefixUser         = "user:"
	prefixUserEmail    = "user_email:"
	prefixMovie        = "movie:"
	prefixMovieOwner   = "movie_owner:"
	prefixVote         = "vote:"
	prefixVoteUser     = "vote_user:"
	prefixComment      = "comment:"
	prefixCommentMovie = "comment_movie:"
	prefixCommentUser  = "comment_user:"
)

func userKey(id string) []byte { return []byte(prefixUser + id) }
func userEmailKey(email string) []byte { return []byte(prefixUserEmail + email) }
func movieKey(id string) []byte { return []byte(prefixMovie + id) }
func movieOwnerKey(owner, id string) []byte {
	return []byte(prefixMovieOwner + owner + ":" + id)
}
func voteKey(movieID, userID string) []byte {
	return []byte(prefixVote + movieID + ":" + userID)
}
func voteUserKey(userID, movieID string) []byte {
	return []byte(prefixVoteUser + userID + ":" + movieID)
}
func commentKey(id string) []byte { return []byte(prefixComment + id) }
func commentMovieKey(movieID, id string) []byte {
	return []byte(prefixCommentMovie + movieID + ":" + id)
}
func commentUserKey(userID, id string) []byte {
	return []byte(prefixCommentUser + userID + ":" + id)
}

// Store is a BadgerDB-backed store.Store.
type Store struct {
	db  *badger.DB
	now func() time.Time
}

// Open opens (or creates) the database described by cfg.
func Open(cfg config.BadgerConfig) (*Store, error) {
	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithLogger(newBadgerLogger())

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Msg("Document store opened")
	return New(db), nil
}

// New wraps an already open database. The caller keeps ownership of db
// only if it does not call Close.
func New(db *badger.DB) *Store {
	return &Store{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// SetClock overrides the time source. Intended for tests.
func (s *Store) SetClock(now func() time.Time) { s.now = now }

func (s *Store) Backend() string { return backendName }

// Ping fails once the database is closed.
func (s *Store) Ping(ctx context.Context) error {
	if s.db.IsClosed() {
		return errors.New("badger: database is closed")
	}
	return ctx.Err()
}

func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close BadgerDB: %w", err)
	}
	return nil
}

// update runs fn in a read-write transaction, re-running it when the
// commit reports a conflict. fn must not keep state across attempts.
func (s *Store) update(op string, fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 1; attempt <= maxTxnAttempts; attempt++ {
		err = s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		metrics.StoreTxnRetries.WithLabelValues(backendName, op).Inc()
		time.Sleep(time.Duration(rand.IntN(attempt*200)+50) * time.Microsecond)
	}
	return fmt.Errorf("%s: giving up after %d conflicting attempts: %w", op, maxTxnAttempts, err)
}

// observe records operation latency. Not-found and conflict results are
// expected outcomes, not store failures.
func observe(op string, start time.Time, errp *error) {
	var err error
	if errp != nil && *errp != nil &&
		!errors.Is(*errp, models.ErrNotFound) && !errors.Is(*errp, models.ErrConflict) {
		err = *errp
	}
	metrics.RecordStoreOp(backendName, op, start, err)
}

// getJSON decodes the value at key into v. A missing key is ErrNotFound.
func getJSON(txn *badger.Txn, key []byte, v any) error {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return models.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

func setJSON(txn *badger.Txn, key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return txn.Set(key, data)
}

func exists(txn *badger.Txn, key []byte) (bool, error) {
	_, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// deleteKeys deletes every key; used after an iterator has been closed.
func deleteKeys(txn *badger.Txn, keys ...[]byte) error {
	for _, k := range keys {
		if err := txn.Delete(k); err != nil {
			return fmt.Errorf("delete %s: %w", k, err)
		}
	}
	return nil
}

// scanValues decodes every document under prefix with decode.
func scanValues(ctx context.Context, txn *badger.Txn, prefix string, decode func(val []byte) error) error {
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()

	p := []byte(prefix)
	for it.Seek(p); it.ValidForPrefix(p); it.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := it.Item().Value(decode); err != nil {
			return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
		}
	}
	return nil
}

// scanSuffixes returns the key suffixes after prefix, without loading
// values. For index prefixes the suffix is the referenced ID.
func scanSuffixes(txn *badger.Txn, prefix string) []string {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	var out []string
	p := []byte(prefix)
	for it.Seek(p); it.ValidForPrefix(p); it.Next() {
		out = append(out, strings.TrimPrefix(string(it.Item().Key()), prefix))
	}
	return out
}

// countPrefix counts keys under prefix.
func countPrefix(txn *badger.Txn, prefix string) int {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	n := 0
	p := []byte(prefix)
	for it.Seek(p); it.ValidForPrefix(p); it.Next() {
		n++
	}
	return n
}

// notFound converts ErrNotFound into a message-carrying domain error and
// passes other errors through.
func notFound(err error, msg string) error {
	if errors.Is(err, models.ErrNotFound) {
		return models.NotFound(msg)
	}
	return err
}
