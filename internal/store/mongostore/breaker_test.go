// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

package mongostore

import (
	"context"
	"errors"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/moviehub/internal/config"
	"github.com/tomtom215/moviehub/internal/models"
)

func TestBreakerIgnoresDomainErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, true},
		{"not found", models.NotFound("Movie not found"), true},
		{"conflict", models.Conflict("User with this email already exists"), true},
		{"lost race", errLostRace, true},
		{"canceled", context.Canceled, true},
		{"server error", errors.New("connection reset"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isBreakerSuccess(tt.err); got != tt.want {
				t.Errorf("isBreakerSuccess(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	cfg := config.MongoConfig{
		BreakerMaxRequests:  1,
		BreakerInterval:     time.Minute,
		BreakerTimeout:      time.Minute,
		BreakerFailureRatio: 0.5,
		BreakerMinRequests:  2,
	}
	s := &Store{cb: newBreaker(cfg)}

	failing := func() (any, error) { return nil, errors.New("dial tcp: connection refused") }
	for i := 0; i < 2; i++ {
		_, _ = s.exec("ping", failing)
	}
	_, err := s.exec("ping", failing)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("err = %v, want ErrOpenState", err)
	}
}
