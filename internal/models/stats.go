// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

package models

// VoteTotals sums the tallies across the catalog.
type VoteTotals struct {
	TotalUpvotes   int `json:"totalUpvotes"`
	TotalDownvotes int `json:"totalDownvotes"`
}

// Stats is the admin dashboard summary.
type Stats struct {
	TotalUsers    int          `json:"totalUsers"`
	TotalMovies   int          `json:"totalMovies"`
	TotalComments int          `json:"totalComments"`
	TotalVotes    VoteTotals   `json:"totalVotes"`
	RecentUsers   []RecentUser `json:"recentUsers"`
	TopMovies     []MovieView  `json:"topMovies"`
}

// CascadeReport describes what a cascading delete removed.
type CascadeReport struct {
	Movies   int `json:"movies"`
	Comments int `json:"comments"`
	Votes    int `json:"votes"`

	// Images of deleted movies, for best-effort object cleanup.
	Images []string `json:"-"`

	// MovieIDs are the deleted movies.
	MovieIDs []string `json:"-"`
}
