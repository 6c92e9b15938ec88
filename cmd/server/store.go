// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/moviehub/internal/config"
	"github.com/tomtom215/moviehub/internal/logging"
	"github.com/tomtom215/moviehub/internal/store"
	"github.com/tomtom215/moviehub/internal/store/badgerstore"
	"github.com/tomtom215/moviehub/internal/store/mongostore"
)

// openStore opens the configured document store.
func openStore(ctx context.Context, cfg config.DatabaseConfig) (store.Store, error) {
	switch cfg.Driver {
	case "", "badger":
		st, err := badgerstore.Open(cfg.Badger)
		if err != nil {
			return nil, fmt.Errorf("open badger store: %w", err)
		}
		logging.Info().
			Str("path", cfg.Badger.Path).
			Bool("in_memory", cfg.Badger.InMemory).
			Msg("Badger store opened")
		return st, nil
	case "mongo":
		timeout := cfg.Mongo.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		st, err := mongostore.Open(ctx, cfg.Mongo)
		if err != nil {
			return nil, fmt.Errorf("open mongo store: %w", err)
		}
		logging.Info().Str("database", cfg.Mongo.Database).Msg("MongoDB store connected")
		return st, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
