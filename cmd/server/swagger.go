// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

// @title MovieHub API
// @version 1.0
// @description Movie catalog with up/down voting and comments.
// @description
// @description Every response uses the envelope
// @description `{"success": bool, "message": string, "data": ..., "pagination": {...}, "errors": [...]}`.
// @description Validation failures return 400 with one entry per invalid field in `errors`.
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/moviehub/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:5000
// @BasePath /api
// @schemes http https
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token from /api/auth/login, sent as "Bearer <token>".
//
// @tag.name Auth
// @tag.description Registration, login and profile
//
// @tag.name Movies
// @tag.description Movie catalog and voting
//
// @tag.name Comments
// @tag.description Movie discussion
//
// @tag.name Admin
// @tag.description User management and statistics (admin role)
//
// @tag.name Health
// @tag.description Liveness and readiness probes
package main
