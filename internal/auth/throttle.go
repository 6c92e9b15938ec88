// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

package auth

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LoginThrottle limits login attempts per account. It complements the
// per-IP limits on the auth routes: an attacker rotating addresses still
// gets perMinute guesses at one email.
type LoginThrottle struct {
	limiters map[string]*throttleEntry
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	idle     time.Duration
	now      func() time.Time
}

type throttleEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// NewLoginThrottle allows perMinute attempts per key per minute, with the
// full allowance available as a burst. perMinute <= 0 disables throttling.
func NewLoginThrottle(perMinute int) *LoginThrottle {
	t := &LoginThrottle{
		limiters: make(map[string]*throttleEntry),
		rate:     rate.Inf,
		idle:     time.Hour,
		now:      time.Now,
	}
	if perMinute > 0 {
		t.rate = rate.Every(time.Minute / time.Duration(perMinute))
		t.burst = perMinute
	}
	return t
}

// Allow consumes one attempt for key.
func (t *LoginThrottle) Allow(key string) bool {
	if t.rate == rate.Inf {
		return true
	}
	now := t.now()

	t.mu.Lock()
	entry, ok := t.limiters[key]
	if !ok {
		entry = &throttleEntry{limiter: rate.NewLimiter(t.rate, t.burst)}
		t.limiters[key] = entry
	}
	entry.lastAccess = now
	limiter := entry.limiter
	t.mu.Unlock()

	return limiter.AllowN(now, 1)
}

// Reset forgets key, restoring its full allowance. Called after a
// successful login.
func (t *LoginThrottle) Reset(key string) {
	t.mu.Lock()
	delete(t.limiters, key)
	t.mu.Unlock()
}

// Serve drops idle entries every few minutes until ctx is done.
// It implements suture.Service.
func (t *LoginThrottle) Serve(ctx context.Context) error {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.cleanup()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (t *LoginThrottle) String() string { return "login-throttle" }

func (t *LoginThrottle) cleanup() {
	t.mu.Lock()
	defer t.mu.Unlock()

	threshold := t.now().Add(-t.idle)
	for key, entry := range t.limiters {
		if entry.lastAccess.Before(threshold) {
			delete(t.limiters, key)
		}
	}
}

func (t *LoginThrottle) size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.limiters)
}
