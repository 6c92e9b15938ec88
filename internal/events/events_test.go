// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

package events

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"

	"github.com/tomtom215/moviehub/internal/config"
	"github.com/tomtom215/moviehub/internal/logging"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
	got    chan struct{}
}

func newRecorder() *recorder { return &recorder{got: make(chan struct{}, 16)} }

func (r *recorder) BroadcastEvent(evt Event) {
	r.mu.Lock()
	r.events = append(r.events, evt)
	r.mu.Unlock()
	r.got <- struct{}{}
}

func TestTopicsAreDistinct(t *testing.T) {
	seen := map[string]bool{}
	for _, typ := range AllTypes {
		topic := typ.Topic()
		if seen[topic] {
			t.Fatalf("duplicate topic %q", topic)
		}
		seen[topic] = true
	}
	if len(seen) != 10 {
		t.Errorf("got %d topics, want 10", len(seen))
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode(message.NewMessage("x", []byte("{not json"))); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestRouterDeliversToBroadcasterAndAudit(t *testing.T) {
	bus := NewBus(config.EventsConfig{BufferSize: 16})
	defer bus.Close()

	rec := newRecorder()
	var auditBuf syncBuffer
	r := NewRouter(bus, rec)
	r.SetAuditLogger(logging.NewTestLogger(&auditBuf))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Serve(ctx) }()

	select {
	case <-r.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("router did not start")
	}

	bus.Publish(ctx, MovieVoted, "user-1", VotePayload{MovieID: "m1", Upvotes: 1, Score: 1})

	select {
	case <-rec.got:
	case <-time.After(5 * time.Second):
		t.Fatal("event not broadcast")
	}

	rec.mu.Lock()
	evt := rec.events[0]
	rec.mu.Unlock()
	if evt.Type != MovieVoted || evt.ActorID != "user-1" || evt.ID == "" {
		t.Errorf("unexpected event %+v", evt)
	}
	var p VotePayload
	if err := json.Unmarshal(evt.Payload, &p); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if p.MovieID != "m1" || p.Upvotes != 1 {
		t.Errorf("payload = %+v", p)
	}

	deadline := time.Now().Add(5 * time.Second)
	for !strings.Contains(auditBuf.String(), `"event_type":"movie.voted"`) {
		if time.Now().After(deadline) {
			t.Fatalf("audit log missing event: %s", auditBuf.String())
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(15 * time.Second):
		t.Fatal("router did not stop")
	}
}

func TestPublicTypes(t *testing.T) {
	tests := []struct {
		typ  Type
		want bool
	}{
		{MovieCreated, true},
		{MovieVoted, true},
		{CommentDeleted, true},
		{UserRegistered, false},
		{UserRoleChanged, false},
		{UserDeleted, false},
	}
	for _, tt := range tests {
		if got := tt.typ.Public(); got != tt.want {
			t.Errorf("%s.Public() = %v, want %v", tt.typ, got, tt.want)
		}
	}
}

func TestRouterKeepsUserEventsOffBroadcaster(t *testing.T) {
	bus := NewBus(config.EventsConfig{BufferSize: 16})
	defer bus.Close()

	rec := newRecorder()
	var auditBuf syncBuffer
	r := NewRouter(bus, rec)
	r.SetAuditLogger(logging.NewTestLogger(&auditBuf))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- r.Serve(ctx) }()

	select {
	case <-r.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("router did not start")
	}

	bus.Publish(ctx, UserRegistered, "u1", map[string]string{"email": "private@corp.example"})
	bus.Publish(ctx, UserRoleChanged, "admin", RolePayload{UserID: "u1", Role: "admin"})
	bus.Publish(ctx, MovieCreated, "u1", map[string]string{"id": "m1"})

	select {
	case <-rec.got:
	case <-time.After(5 * time.Second):
		t.Fatal("movie event not broadcast")
	}

	// Audit still records user events.
	deadline := time.Now().Add(5 * time.Second)
	for !strings.Contains(auditBuf.String(), `"event_type":"user.role_changed"`) ||
		!strings.Contains(auditBuf.String(), `"event_type":"user.registered"`) {
		if time.Now().After(deadline) {
			t.Fatalf("audit log missing user events: %s", auditBuf.String())
		}
		time.Sleep(10 * time.Millisecond)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	for _, evt := range rec.events {
		if !evt.Type.Public() {
			t.Errorf("broadcaster received %s", evt.Type)
		}
	}
	if len(rec.events) != 1 || rec.events[0].Type != MovieCreated {
		t.Errorf("broadcast events = %+v", rec.events)
	}
}

func TestDiscardPublisher(t *testing.T) {
	// Must not panic with a nil payload.
	Discard.Publish(context.Background(), UserDeleted, "", nil)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
