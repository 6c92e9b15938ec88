// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

// Package testinfra provides container-backed infrastructure for
// integration tests.
//
// Tests that use it carry the integration build tag and skip themselves
// when Docker is unavailable:
//
//	//go:build integration
//
//	func TestMongoStore(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    mongo, err := testinfra.NewMongoContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, mongo)
//	    // connect to mongo.URI
//	}
//
// The first run pulls the container image; later runs use the cache.
package testinfra
