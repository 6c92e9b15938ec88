// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

/*
Package auth provides authentication for MovieHub: password hashing,
JWT issuance and validation, login throttling and the request middleware
that turns a bearer token into a Subject.

Key Components:

  - TokenManager: HS256 tokens carrying userId, email and role, issued by
    "moviehub" with a fixed lifetime (security.token_ttl, default 7 days)
  - HashPassword / CheckPassword: bcrypt with a configurable cost
  - LoginThrottle: token bucket per normalized email (x/time/rate)
  - Service: Register, Login, Verify, Profile and the EnsureAdmin bootstrap
  - Middleware.RequireAuth: bearer token -> verified user -> Subject

Usage Example:

	tokens, err := auth.NewTokenManager(cfg.Security)
	if err != nil {
	    return err
	}
	throttle := auth.NewLoginThrottle(cfg.Security.LoginAttemptsPerMinute)
	svc, err := auth.NewService(st, tokens, throttle, cfg.Security, bus)
	if err != nil {
	    return err
	}
	mw := auth.NewMiddleware(svc)

	r.With(mw.RequireAuth).Get("/auth/profile", h.Profile)

Failure Responses:

RequireAuth answers 401 with one of three messages: no token, invalid
token (bad signature, wrong algorithm, expired) or user not found. The role
in the token is never trusted; the stored user's role is used.

Login answers 401 "Invalid email or password" for both unknown emails and
wrong passwords, and 429 once an email exceeds its attempt budget.

Security:

  - Only HMAC signing methods are accepted
  - Unknown emails still cost one bcrypt comparison
  - Passwords, hashes and tokens are never logged
*/
package auth
