// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/moviehub/internal/config"
	"github.com/tomtom215/moviehub/internal/logging"
	"github.com/tomtom215/moviehub/internal/metrics"
)

// Bus is an in-process pub/sub for domain events backed by a watermill
// GoChannel. Events published before any subscriber exists are dropped.
type Bus struct {
	pubsub *gochannel.GoChannel
	logger watermill.LoggerAdapter
	now    func() time.Time
}

// NewBus creates a bus whose subscriber channels buffer cfg.BufferSize
// messages each.
func NewBus(cfg config.EventsConfig) *Bus {
	logger := watermill.NewSlogLogger(logging.NewSlogLogger())
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: cfg.BufferSize,
		}, logger),
		logger: logger,
		now:    time.Now,
	}
}

// Publish encodes and publishes an event. Failures are logged and counted.
func (b *Bus) Publish(ctx context.Context, t Type, actorID string, payload any) {
	err := b.publish(t, actorID, payload)
	metrics.RecordEventPublished(string(t), err)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("event_type", string(t)).Msg("failed to publish event")
	}
}

func (b *Bus) publish(t Type, actorID string, payload any) error {
	evt := Event{
		ID:         uuid.NewString(),
		Type:       t,
		ActorID:    actorID,
		OccurredAt: b.now().UTC(),
	}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode payload: %w", err)
		}
		evt.Payload = raw
	}
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	msg := message.NewMessage(evt.ID, body)
	msg.Metadata.Set("event_type", string(t))
	return b.pubsub.Publish(t.Topic(), msg)
}

// Subscriber exposes the bus to a watermill router.
func (b *Bus) Subscriber() message.Subscriber { return b.pubsub }

// Close stops delivery to all subscribers.
func (b *Bus) Close() error { return b.pubsub.Close() }

// Decode parses a message produced by Publish.
func Decode(msg *message.Message) (Event, error) {
	var evt Event
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		return Event{}, fmt.Errorf("decode event %s: %w", msg.UUID, err)
	}
	return evt, nil
}
