// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

/*
Package websocket pushes catalog activity to browsers in real time.

A Hub owns the connected clients and fans out messages to them. It is fed
by the events router through BroadcastEvent, so every vote, new movie,
or comment reaches subscribers as

	{"type": "movie.voted", "data": {"id": "...", "type": "movie.voted", "payload": {...}}}

Clients are read-only. The only frame they may send is {"type":"ping"},
answered with {"type":"pong"}. Slow clients whose 256-message buffer
fills are disconnected instead of stalling the hub.

The Hub runs as a suture service; when its context is canceled it closes
every client with a going-away frame.
*/
package websocket
