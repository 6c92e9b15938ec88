// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

/*
Package catalog implements the movie catalog and the vote engine.

Movies are listed with optional genre filtering, sorted by score,
creation time, title or release year, and paged. The score is always
derived as upvotes minus downvotes via models.Score; it is never stored.

# Voting

A vote request is a toggle:

	none + up   -> up     "Vote added successfully"
	up   + up   -> none   "Vote removed successfully"
	up   + down -> down   "Vote updated successfully"

Requests for the same (user, movie) pair are serialized by an in-process
keyed lock, and the store applies the ledger write and the tally change
together (a single Badger transaction, or a compare-and-swap ledger write
in MongoDB). Tallies are clamped at zero. When a tally is suspected to
have drifted from the ledger, RecountVotes rebuilds it.

Movie edits and deletes are limited to the movie's creator and admins
(see authz.CanModify). Deleting a movie removes its votes, comments and
image.
*/
package catalog
