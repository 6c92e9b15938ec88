// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

package events

import (
	"context"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Type names a domain event. Each type is published on its own topic.
type Type string

const (
	MovieCreated    Type = "movie.created"
	MovieUpdated    Type = "movie.updated"
	MovieDeleted    Type = "movie.deleted"
	MovieVoted      Type = "movie.voted"
	CommentCreated  Type = "comment.created"
	CommentUpdated  Type = "comment.updated"
	CommentDeleted  Type = "comment.deleted"
	UserRegistered  Type = "user.registered"
	UserRoleChanged Type = "user.role_changed"
	UserDeleted     Type = "user.deleted"
)

// AllTypes lists every event type; the router subscribes to each.
var AllTypes = []Type{
	MovieCreated, MovieUpdated, MovieDeleted, MovieVoted,
	CommentCreated, CommentUpdated, CommentDeleted,
	UserRegistered, UserRoleChanged, UserDeleted,
}

// Topic returns the watermill topic for t.
func (t Type) Topic() string { return "moviehub." + string(t) }

// Public reports whether t may be pushed to unauthenticated live-feed
// clients. Only catalog and discussion events qualify; user events carry
// account details that the REST API restricts to admins.
func (t Type) Public() bool {
	return strings.HasPrefix(string(t), "movie.") || strings.HasPrefix(string(t), "comment.")
}

// Event is the envelope carried on the bus and pushed to websocket clients.
type Event struct {
	ID         string          `json:"id"`
	Type       Type            `json:"type"`
	ActorID    string          `json:"actorId,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// Publisher emits domain events. Publishing is best-effort: implementations
// log failures and never return them to the caller.
type Publisher interface {
	Publish(ctx context.Context, t Type, actorID string, payload any)
}

// Discard is a Publisher that drops everything.
var Discard Publisher = discard{}

type discard struct{}

func (discard) Publish(context.Context, Type, string, any) {}

// Payloads for the event types that are not a plain record.

type VotePayload struct {
	MovieID   string  `json:"movieId"`
	VoteType  *string `json:"voteType"`
	Upvotes   int     `json:"upvotes"`
	Downvotes int     `json:"downvotes"`
	Score     int     `json:"score"`
}

type DeletedPayload struct {
	ID       string `json:"id"`
	Movies   int    `json:"movies,omitempty"`
	Comments int    `json:"comments,omitempty"`
	Votes    int    `json:"votes,omitempty"`
}

type RolePayload struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}
