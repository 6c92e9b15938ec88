// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

package models

import (
	"strings"
	"time"
)

// Genres is the fixed set of accepted movie genres.
var Genres = []string{
	"Action", "Adventure", "Animation", "Biography", "Comedy", "Crime",
	"Documentary", "Drama", "Family", "Fantasy", "Film-Noir", "History",
	"Horror", "Music", "Musical", "Mystery", "Romance", "Sci-Fi",
	"Sport", "Thriller", "War", "Western",
}

var genreSet = func() map[string]bool {
	m := make(map[string]bool, len(Genres))
	for _, g := range Genres {
		m[g] = true
	}
	return m
}()

// IsGenre reports whether g is one of Genres (case-sensitive).
func IsGenre(g string) bool { return genreSet[g] }

// MinReleaseYear is the year of the earliest surviving film.
const MinReleaseYear = 1888

// MaxReleaseYear allows announced films up to five years out.
func MaxReleaseYear(now time.Time) int { return now.Year() + 5 }

// Movie is a catalog entry. Upvotes and Downvotes are a denormalized cache
// of the vote ledger; the score is never stored.
type Movie struct {
	ID          string    `json:"_id" bson:"_id"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description" bson:"description"`
	Genre       string    `json:"genre" bson:"genre"`
	ReleaseYear int       `json:"releaseYear" bson:"releaseYear"`
	Director    string    `json:"director" bson:"director"`
	Image       string    `json:"image,omitempty" bson:"image,omitempty"`
	AddedBy     string    `json:"addedBy" bson:"addedBy"`
	Upvotes     int       `json:"upvotes" bson:"upvotes"`
	Downvotes   int       `json:"downvotes" bson:"downvotes"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Score is the ranking signal. It is the only place the formula exists.
func Score(upvotes, downvotes int) int { return upvotes - downvotes }

// Score returns the derived score of m.
func (m *Movie) Score() int { return Score(m.Upvotes, m.Downvotes) }

// ApplyDelta adjusts the tallies, clamping each at zero.
func (m *Movie) ApplyDelta(d TallyDelta) {
	m.Upvotes = clampAdd(m.Upvotes, d.Up)
	m.Downvotes = clampAdd(m.Downvotes, d.Down)
}

func clampAdd(v, d int) int {
	if v+d < 0 {
		return 0
	}
	return v + d
}

// MovieFields are the user-editable attributes of a movie.
type MovieFields struct {
	Title       string
	Description string
	Genre       string
	ReleaseYear int
	Director    string
}

// Apply copies the editable fields onto m.
func (f MovieFields) Apply(m *Movie) {
	m.Title = f.Title
	m.Description = f.Description
	m.Genre = f.Genre
	m.ReleaseYear = f.ReleaseYear
	m.Director = f.Director
}

// MoviePatch is an update: new fields and, optionally, a new image.
// A nil Image keeps the existing one.
type MoviePatch struct {
	Fields MovieFields
	Image  *string
}

// MovieView is the response shape of a movie with addedBy populated and
// the score derived.
type MovieView struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Genre       string    `json:"genre"`
	ReleaseYear int       `json:"releaseYear"`
	Director    string    `json:"director"`
	Image       string    `json:"image,omitempty"`
	AddedBy     *UserRef  `json:"addedBy"`
	Upvotes     int       `json:"upvotes"`
	Downvotes   int       `json:"downvotes"`
	Score       int       `json:"score"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewMovieView builds the response shape. owner may be nil when the
// referenced user no longer exists.
func NewMovieView(m *Movie, owner *User) MovieView {
	return MovieView{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Genre:       m.Genre,
		ReleaseYear: m.ReleaseYear,
		Director:    m.Director,
		Image:       m.Image,
		AddedBy:     owner.Ref(),
		Upvotes:     m.Upvotes,
		Downvotes:   m.Downvotes,
		Score:       m.Score(),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// MovieRef is the populated form of a movie reference on a comment.
type MovieRef struct {
	ID    string `json:"_id"`
	Title string `json:"title,omitempty"`
}

// SortField is a movie list ordering key.
type SortField string

const (
	SortByScore       SortField = "score"
	SortByCreatedAt   SortField = "createdAt"
	SortByTitle       SortField = "title"
	SortByReleaseYear SortField = "releaseYear"
)

func (f SortField) Valid() bool {
	switch f {
	case SortByScore, SortByCreatedAt, SortByTitle, SortByReleaseYear:
		return true
	}
	return false
}

// SortOrder is asc or desc.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

func (o SortOrder) Valid() bool { return o == SortAsc || o == SortDesc }

// MovieQuery filters, orders and pages the catalog.
type MovieQuery struct {
	Genre     string
	SortBy    SortField
	SortOrder SortOrder
	Page      PageRequest
}

// Matches reports whether m passes the query's filter.
func (q MovieQuery) Matches(m *Movie) bool {
	return q.Genre == "" || m.Genre == q.Genre
}

// CompareMovies orders a before b (negative), after (positive) or equal (0)
// under field and order. Equal keys fall back to newest first, then ID, so
// pagination is stable.
func CompareMovies(a, b *Movie, field SortField, order SortOrder) int {
	c := 0
	switch field {
	case SortByCreatedAt:
		c = a.CreatedAt.Compare(b.CreatedAt)
	case SortByTitle:
		c = strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
	case SortByReleaseYear:
		c = a.ReleaseYear - b.ReleaseYear
	default:
		c = a.Score() - b.Score()
	}
	if order != SortAsc {
		c = -c
	}
	if c != 0 {
		return c
	}
	if t := b.CreatedAt.Compare(a.CreatedAt); t != 0 {
		return t
	}
	return strings.Compare(a.ID, b.ID)
}
