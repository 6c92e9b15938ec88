// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/rs/zerolog"

	"github.com/tomtom215/moviehub/internal/logging"
)

// Broadcaster receives public events for delivery to live clients.
type Broadcaster interface {
	BroadcastEvent(evt Event)
}

// Router consumes the bus and fans public events out to the websocket hub
// and every event to the audit log. It implements suture.Service; each Serve call builds a fresh
// watermill router, since a router cannot be run twice.
type Router struct {
	bus          *Bus
	broadcaster  Broadcaster
	audit        zerolog.Logger
	closeTimeout time.Duration
	running      chan struct{}
}

// NewRouter wires the consumer handlers. broadcaster may be nil, in which
// case only the audit log handler is registered.
func NewRouter(bus *Bus, broadcaster Broadcaster) *Router {
	return &Router{
		bus:          bus,
		broadcaster:  broadcaster,
		audit:        logging.WithComponent("audit"),
		closeTimeout: 10 * time.Second,
		running:      make(chan struct{}, 1),
	}
}

// SetAuditLogger replaces the audit sink.
func (r *Router) SetAuditLogger(l zerolog.Logger) { r.audit = l }

// Running receives a value each time the underlying router starts.
func (r *Router) Running() <-chan struct{} { return r.running }

func (r *Router) Serve(ctx context.Context) error {
	wm, err := message.NewRouter(message.RouterConfig{CloseTimeout: r.closeTimeout}, r.bus.logger)
	if err != nil {
		return fmt.Errorf("create event router: %w", err)
	}
	wm.AddMiddleware(middleware.Recoverer)

	for _, t := range AllTypes {
		if r.broadcaster != nil && t.Public() {
			wm.AddConsumerHandler("websocket-broadcast."+string(t), t.Topic(), r.bus.Subscriber(), r.broadcast)
		}
		wm.AddConsumerHandler("audit-log."+string(t), t.Topic(), r.bus.Subscriber(), r.auditLog)
	}

	go func() {
		select {
		case <-wm.Running():
			select {
			case r.running <- struct{}{}:
			default:
			}
		case <-ctx.Done():
		}
	}()

	if err := wm.Run(ctx); err != nil {
		return fmt.Errorf("event router: %w", err)
	}
	return ctx.Err()
}

func (r *Router) String() string { return "event-router" }

func (r *Router) broadcast(msg *message.Message) error {
	evt, err := Decode(msg)
	if err != nil {
		// A malformed message can never succeed; ack it.
		logging.Warn().Err(err).Msg("dropping undecodable event")
		return nil
	}
	if !evt.Type.Public() {
		return nil
	}
	r.broadcaster.BroadcastEvent(evt)
	return nil
}

func (r *Router) auditLog(msg *message.Message) error {
	evt, err := Decode(msg)
	if err != nil {
		logging.Warn().Err(err).Msg("dropping undecodable event")
		return nil
	}
	r.audit.Info().
		Str("event_id", evt.ID).
		Str("event_type", string(evt.Type)).
		Str("actor_id", evt.ActorID).
		Time("occurred_at", evt.OccurredAt).
		RawJSON("payload", payloadOrNull(evt.Payload)).
		Msg("domain event")
	return nil
}

func payloadOrNull(p []byte) []byte {
	if len(p) == 0 {
		return []byte("null")
	}
	return p
}
