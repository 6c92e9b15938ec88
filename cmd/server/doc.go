// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

// Package main is the entry point for the MovieHub API server.
//
// MovieHub is a REST API where registered users catalog movies, vote them
// up or down and discuss them in comments. Administrators manage accounts
// and see dashboard statistics.
//
// # Startup
//
// The server initializes components in this order:
//
//  1. Configuration: defaults, config.yaml, .env and environment (koanf)
//  2. Logging: zerolog, JSON or console
//  3. Store: embedded BadgerDB (default) or MongoDB
//  4. Media: poster storage on disk or in an S3-compatible bucket
//  5. Auth: JWT tokens, bcrypt passwords, Casbin role policy
//  6. Events: in-process Watermill bus feeding the audit log and websocket hub
//  7. HTTP server under a suture supervisor tree
//
// # Configuration
//
// The most common environment variables:
//
//	PORT=5000
//	DATABASE_DRIVER=badger|mongo
//	MONGODB_URI=mongodb://localhost:27017
//	JWT_SECRET=...            (32+ characters, required in production)
//	ADMIN_EMAIL, ADMIN_PASSWORD
//	UPLOADS_DRIVER=disk|s3
//	CORS_ORIGINS=http://localhost:3000
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains
// in-flight requests for SERVER_SHUTDOWN_TIMEOUT before the store is
// closed.
package main
