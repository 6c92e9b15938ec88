// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

/*
Package models defines the MovieHub records and the pure rules that operate
on them.

Records:

  - User: identity and credential (role user or admin)
  - Movie: catalog entry with denormalized up/down tallies
  - Vote: one ledger entry per (user, movie)
  - Comment: free text attached to a movie

Rules that both store backends must agree on live here as plain functions
so that they have exactly one definition:

  - Score(up, down): the only ranking formula; never persisted
  - NextVote: the up/down/toggle-off transition table
  - Movie.ApplyDelta: tally mutation clamped at zero
  - CompareMovies: the list ordering including tie-breaks

The *View types are the response shapes with references populated
(addedBy, comment author, comment movie).
*/
package models
