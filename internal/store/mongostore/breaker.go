// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

package mongostore

import (
	"context"
	"errors"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/moviehub/internal/config"
	"github.com/tomtom215/moviehub/internal/logging"
	"github.com/tomtom215/moviehub/internal/metrics"
	"github.com/tomtom215/moviehub/internal/models"
)

const breakerName = "mongodb"

func newBreaker(cfg config.MongoConfig) *gobreaker.CircuitBreaker[any] {
	metrics.SetCircuitBreakerState(breakerName, stateToInt(gobreaker.StateClosed))

	return gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: cfg.BreakerMaxRequests,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerTimeout,

		// Opens once the failure ratio reaches the threshold over at least
		// BreakerMinRequests calls in the current window.
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.BreakerMinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			trip := ratio >= cfg.BreakerFailureRatio
			if trip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", ratio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return trip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("[CIRCUIT BREAKER] State transition")
			metrics.SetCircuitBreakerState(name, stateToInt(to))
		},

		IsSuccessful: isBreakerSuccess,
	})
}

// isBreakerSuccess treats domain outcomes and caller cancellation as
// healthy responses from the database.
func isBreakerSuccess(err error) bool {
	return err == nil ||
		errors.Is(err, models.ErrNotFound) ||
		errors.Is(err, models.ErrConflict) ||
		errors.Is(err, errLostRace) ||
		errors.Is(err, context.Canceled)
}

// exec runs fn through the breaker. An open breaker surfaces as an error
// that the HTTP layer reports as a server error.
func (s *Store) exec(op string, fn func() (any, error)) (any, error) {
	res, err := s.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		logging.Warn().Str("operation", op).Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
	}
	return res, err
}

func stateToInt(state gobreaker.State) int {
	switch state {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
