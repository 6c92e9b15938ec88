// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

/*
Package events carries MovieHub's domain events.

Services publish through the Publisher interface after a write commits:

	bus.Publish(ctx, events.MovieVoted, subject.UserID, events.VotePayload{...})

The Bus is a watermill GoChannel with one topic per event Type. Publishing
never fails the caller; errors are logged and counted in
moviehub_event_publish_errors_total.

The Router runs under the supervisor and registers two consumer handlers per
topic:

  - websocket-broadcast: forwards the decoded Event to the websocket hub
  - audit-log: writes one structured log line per event

Delivery is at-most-once and in-memory only. Events published while the
router is restarting are lost.
*/
package events
