// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

package models

import "time"

// VoteType is the direction of a vote.
type VoteType string

const (
	VoteUp   VoteType = "up"
	VoteDown VoteType = "down"
)

func (v VoteType) Valid() bool { return v == VoteUp || v == VoteDown }

// Vote is a ledger entry. At most one exists per (UserID, MovieID).
type Vote struct {
	ID        string    `json:"_id" bson:"_id"`
	UserID    string    `json:"user" bson:"user"`
	MovieID   string    `json:"movie" bson:"movie"`
	VoteType  VoteType  `json:"voteType" bson:"voteType"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// VoteOutcome names which transition a vote request took.
type VoteOutcome string

const (
	VoteAdded    VoteOutcome = "added"
	VoteRemoved  VoteOutcome = "removed"
	VoteSwitched VoteOutcome = "switched"
)

// TallyDelta is a change to a movie's up/down tallies.
type TallyDelta struct {
	Up   int
	Down int
}

func deltaFor(v VoteType, n int) TallyDelta {
	if v == VoteUp {
		return TallyDelta{Up: n}
	}
	return TallyDelta{Down: n}
}

// Add combines two deltas.
func (d TallyDelta) Add(o TallyDelta) TallyDelta {
	return TallyDelta{Up: d.Up + o.Up, Down: d.Down + o.Down}
}

// Negate returns the delta that undoes d.
func (d TallyDelta) Negate() TallyDelta {
	return TallyDelta{Up: -d.Up, Down: -d.Down}
}

// NextVote is the vote transition table. existing is "" when the user has
// not voted. It returns the ledger state after the request ("" means the
// vote is deleted), which transition was taken and the tally change.
//
//	none + up   -> up    (+1 up)
//	up   + up   -> none  (-1 up)
//	up   + down -> down  (-1 up, +1 down)
func NextVote(existing, requested VoteType) (VoteType, VoteOutcome, TallyDelta) {
	switch existing {
	case "":
		return requested, VoteAdded, deltaFor(requested, 1)
	case requested:
		return "", VoteRemoved, deltaFor(requested, -1)
	default:
		return requested, VoteSwitched, deltaFor(existing, -1).Add(deltaFor(requested, 1))
	}
}

// DeltaForRemoval is the tally change when an existing vote disappears
// without a replacement, e.g. when its user is deleted.
func DeltaForRemoval(v VoteType) TallyDelta { return deltaFor(v, -1) }

// VoteResult is returned by a vote request.
type VoteResult struct {
	VoteType  *VoteType   `json:"voteType"`
	Upvotes   int         `json:"upvotes"`
	Downvotes int         `json:"downvotes"`
	Score     int         `json:"score"`
	Outcome   VoteOutcome `json:"-"`
}

// NewVoteResult builds a result from the post-mutation state.
func NewVoteResult(m *Movie, next VoteType, outcome VoteOutcome) *VoteResult {
	r := &VoteResult{
		Upvotes:   m.Upvotes,
		Downvotes: m.Downvotes,
		Score:     m.Score(),
		Outcome:   outcome,
	}
	if next != "" {
		v := next
		r.VoteType = &v
	}
	return r
}

// Message is the client-facing description of the transition.
func (o VoteOutcome) Message() string {
	switch o {
	case VoteRemoved:
		return "Vote removed successfully"
	case VoteSwitched:
		return "Vote updated successfully"
	default:
		return "Vote added successfully"
	}
}

// UserVote is the caller's current vote on a movie; VoteType is null when
// there is none.
type UserVote struct {
	VoteType *VoteType `json:"voteType"`
}
