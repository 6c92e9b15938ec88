// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

/*
Package supervisor runs MovieHub's long-lived goroutines under a suture
supervisor tree.

	moviehub (root)
	├── data-layer       event router (audit log, live feed fan-out)
	├── messaging-layer  websocket hub, login throttle sweeper
	└── api-layer        HTTP server

A service that panics or returns an error is restarted by its layer
supervisor with exponential backoff. Layers fail independently: a crashed
hub does not take the HTTP server down with it.

Every service implements suture.Service:

	Serve(ctx context.Context) error
	String() string

Serve blocks until ctx is canceled and then returns ctx.Err(). The
websocket hub, event router and login throttle already have that shape
and are added directly; an *http.Server is wrapped by HTTPServerService.
*/
package supervisor
