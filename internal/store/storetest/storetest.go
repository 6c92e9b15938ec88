// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

// Package storetest is a behavioral test suite shared by every store.Store
// implementation.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/moviehub/internal/models"
	"github.com/tomtom215/moviehub/internal/store"
)

// Factory returns an empty store. It is called once per subtest.
type Factory func(t *testing.T) store.Store

var base = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

// Run executes the suite against stores produced by newStore.
func Run(t *testing.T, newStore Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s store.Store)
	}{
		{"Users", testUsers},
		{"UserListing", testUserListing},
		{"Movies", testMovies},
		{"MovieListing", testMovieListing},
		{"VoteTransitions", testVoteTransitions},
		{"VoteMissingMovie", testVoteMissingMovie},
		{"ConcurrentVoters", testConcurrentVoters},
		{"ConcurrentToggle", testConcurrentToggle},
		{"Recount", testRecount},
		{"Comments", testComments},
		{"DeleteMovieCascade", testDeleteMovieCascade},
		{"DeleteUserCascade", testDeleteUserCascade},
		{"Stats", testStats},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)
			tt.fn(t, s)
		})
	}
}

func mustUser(t *testing.T, s store.Store, email string, offset int) *models.User {
	t.Helper()
	at := base.Add(time.Duration(offset) * time.Minute)
	u := &models.User{
		ID:           uuid.NewString(),
		Name:         "User " + email,
		Email:        email,
		PasswordHash: "$2a$04$hash",
		Role:         models.RoleUser,
		CreatedAt:    at,
		UpdatedAt:    at,
	}
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser(%s): %v", email, err)
	}
	return u
}

func mustMovie(t *testing.T, s store.Store, owner *models.User, title, genre string, offset int) *models.Movie {
	t.Helper()
	at := base.Add(time.Duration(offset) * time.Minute)
	m := &models.Movie{
		ID:          uuid.NewString(),
		Title:       title,
		Description: "About " + title,
		Genre:       genre,
		ReleaseYear: 2000 + offset,
		Director:    "Director",
		Image:       "/uploads/" + title + ".png",
		AddedBy:     owner.ID,
		CreatedAt:   at,
		UpdatedAt:   at,
	}
	if err := s.CreateMovie(context.Background(), m); err != nil {
		t.Fatalf("CreateMovie(%s): %v", title, err)
	}
	return m
}

func mustComment(t *testing.T, s store.Store, author *models.User, movie *models.Movie, content string, offset int) *models.Comment {
	t.Helper()
	at := base.Add(time.Duration(offset) * time.Minute)
	c := &models.Comment{
		ID:        uuid.NewString(),
		Content:   content,
		UserID:    author.ID,
		MovieID:   movie.ID,
		CreatedAt: at,
		UpdatedAt: at,
	}
	if err := s.CreateComment(context.Background(), c); err != nil {
		t.Fatalf("CreateComment: %v", err)
	}
	return c
}

func mustVote(t *testing.T, s store.Store, u *models.User, m *models.Movie, vt models.VoteType) *models.VoteResult {
	t.Helper()
	res, err := s.ApplyVote(context.Background(), u.ID, m.ID, vt)
	if err != nil {
		t.Fatalf("ApplyVote(%s): %v", vt, err)
	}
	return res
}

func wantTallies(t *testing.T, s store.Store, movieID string, up, down int) {
	t.Helper()
	m, err := s.GetMovie(context.Background(), movieID)
	if err != nil {
		t.Fatalf("GetMovie: %v", err)
	}
	if m.Upvotes != up || m.Downvotes != down {
		t.Errorf("tallies = %d/%d, want %d/%d", m.Upvotes, m.Downvotes, up, down)
	}
}

func wantNotFound(t *testing.T, err error, what string) {
	t.Helper()
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("%s: err = %v, want ErrNotFound", what, err)
	}
}

func testUsers(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := mustUser(t, s, "Alice@Example.com", 0)

	got, err := s.GetUserByEmail(ctx, "  alice@EXAMPLE.com ")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if got.ID != u.ID || got.Email != "alice@example.com" {
		t.Errorf("GetUserByEmail = %+v", got)
	}
	if got.PasswordHash != u.PasswordHash {
		t.Errorf("password hash not persisted: %q", got.PasswordHash)
	}

	dup := &models.User{ID: uuid.NewString(), Name: "Dup", Email: "ALICE@example.com", Role: models.RoleUser}
	err = s.CreateUser(ctx, dup)
	if !errors.Is(err, models.ErrConflict) {
		t.Errorf("duplicate email: err = %v, want ErrConflict", err)
	}

	_, err = s.GetUser(ctx, uuid.NewString())
	wantNotFound(t, err, "GetUser(missing)")
	_, err = s.GetUserByEmail(ctx, "nobody@example.com")
	wantNotFound(t, err, "GetUserByEmail(missing)")

	updated, err := s.UpdateUserRole(ctx, u.ID, models.RoleAdmin)
	if err != nil {
		t.Fatalf("UpdateUserRole: %v", err)
	}
	if updated.Role != models.RoleAdmin {
		t.Errorf("role = %s, want admin", updated.Role)
	}
	again, _ := s.GetUser(ctx, u.ID)
	if again == nil || again.Role != models.RoleAdmin || again.PasswordHash == "" {
		t.Errorf("role change not persisted: %+v", again)
	}
	_, err = s.UpdateUserRole(ctx, uuid.NewString(), models.RoleAdmin)
	wantNotFound(t, err, "UpdateUserRole(missing)")

	other := mustUser(t, s, "bob@example.com", 1)
	users, err := s.GetUsers(ctx, []string{u.ID, other.ID, uuid.NewString(), u.ID})
	if err != nil {
		t.Fatalf("GetUsers: %v", err)
	}
	if len(users) != 2 || users[other.ID] == nil {
		t.Errorf("GetUsers returned %d users", len(users))
	}
}

func testUserListing(t *testing.T, s store.Store) {
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		mustUser(t, s, fmt.Sprintf("user%d@example.com", i), i)
	}

	page, total, err := s.ListUsers(ctx, models.PageRequest{Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(page) != 2 || page[0].Email != "user2@example.com" || page[1].Email != "user1@example.com" {
		t.Errorf("page 2 = %v", emails(page))
	}

	recent, err := s.RecentUsers(ctx, 3)
	if err != nil {
		t.Fatalf("RecentUsers: %v", err)
	}
	if len(recent) != 3 || recent[0].Email != "user4@example.com" {
		t.Errorf("recent = %v", emails(recent))
	}

	n, err := s.CountUsers(ctx)
	if err != nil || n != 5 {
		t.Errorf("CountUsers = %d, %v", n, err)
	}
}

func emails(users []*models.User) []string {
	out := make([]string, len(users))
	for i, u := range users {
		out[i] = u.Email
	}
	return out
}

func titles(movies []*models.Movie) []string {
	out := make([]string, len(movies))
	for i, m := range movies {
		out[i] = m.Title
	}
	return out
}

func testMovies(t *testing.T, s store.Store) {
	ctx := context.Background()
	owner := mustUser(t, s, "owner@example.com", 0)
	m := mustMovie(t, s, owner, "Heat", "Crime", 0)

	got, err := s.GetMovie(ctx, m.ID)
	if err != nil {
		t.Fatalf("GetMovie: %v", err)
	}
	if got.Title != "Heat" || got.AddedBy != owner.ID || got.Upvotes != 0 {
		t.Errorf("GetMovie = %+v", got)
	}

	patch := models.MoviePatch{Fields: models.MovieFields{
		Title:       "Heat (1995)",
		Description: "Remastered",
		Genre:       "Action",
		ReleaseYear: 1995,
		Director:    "Michael Mann",
	}}
	updated, err := s.UpdateMovie(ctx, m.ID, patch)
	if err != nil {
		t.Fatalf("UpdateMovie: %v", err)
	}
	if updated.Title != "Heat (1995)" || updated.Genre != "Action" || updated.Image != m.Image {
		t.Errorf("UpdateMovie without image = %+v", updated)
	}

	img := "/uploads/new.png"
	patch.Image = &img
	updated, err = s.UpdateMovie(ctx, m.ID, patch)
	if err != nil {
		t.Fatalf("UpdateMovie with image: %v", err)
	}
	if updated.Image != img {
		t.Errorf("image = %q, want %q", updated.Image, img)
	}
	if !updated.CreatedAt.Equal(m.CreatedAt) {
		t.Errorf("createdAt changed: %v", updated.CreatedAt)
	}

	_, err = s.GetMovie(ctx, uuid.NewString())
	wantNotFound(t, err, "GetMovie(missing)")
	_, err = s.UpdateMovie(ctx, uuid.NewString(), patch)
	wantNotFound(t, err, "UpdateMovie(missing)")
}

func testMovieListing(t *testing.T, s store.Store) {
	ctx := context.Background()
	owner := mustUser(t, s, "owner@example.com", 0)
	voters := make([]*models.User, 3)
	for i := range voters {
		voters[i] = mustUser(t, s, fmt.Sprintf("v%d@example.com", i), i+1)
	}

	alien := mustMovie(t, s, owner, "Alien", "Horror", 0)
	brazil := mustMovie(t, s, owner, "Brazil", "Comedy", 1)
	cube := mustMovie(t, s, owner, "Cube", "Horror", 2)
	mustMovie(t, s, owner, "Dune", "Sci-Fi", 3)

	// Brazil: +2, Alien: +1 -1 = 0, Cube: -1, Dune: 0
	mustVote(t, s, voters[0], brazil, models.VoteUp)
	mustVote(t, s, voters[1], brazil, models.VoteUp)
	mustVote(t, s, voters[0], alien, models.VoteUp)
	mustVote(t, s, voters[1], alien, models.VoteDown)
	mustVote(t, s, voters[2], cube, models.VoteDown)

	tests := []struct {
		name  string
		query models.MovieQuery
		want  []string
		total int
	}{
		{
			name:  "score desc with newest-first ties",
			query: models.MovieQuery{SortBy: models.SortByScore, SortOrder: models.SortDesc, Page: models.PageRequest{Page: 1, Limit: 10}},
			want:  []string{"Brazil", "Dune", "Alien", "Cube"},
			total: 4,
		},
		{
			name:  "score asc",
			query: models.MovieQuery{SortBy: models.SortByScore, SortOrder: models.SortAsc, Page: models.PageRequest{Page: 1, Limit: 10}},
			want:  []string{"Cube", "Dune", "Alien", "Brazil"},
			total: 4,
		},
		{
			name:  "createdAt desc",
			query: models.MovieQuery{SortBy: models.SortByCreatedAt, SortOrder: models.SortDesc, Page: models.PageRequest{Page: 1, Limit: 10}},
			want:  []string{"Dune", "Cube", "Brazil", "Alien"},
			total: 4,
		},
		{
			name:  "title asc second page",
			query: models.MovieQuery{SortBy: models.SortByTitle, SortOrder: models.SortAsc, Page: models.PageRequest{Page: 2, Limit: 3}},
			want:  []string{"Dune"},
			total: 4,
		},
		{
			name:  "genre filter",
			query: models.MovieQuery{Genre: "Horror", SortBy: models.SortByReleaseYear, SortOrder: models.SortDesc, Page: models.PageRequest{Page: 1, Limit: 10}},
			want:  []string{"Cube", "Alien"},
			total: 2,
		},
		{
			name:  "page past the end",
			query: models.MovieQuery{SortBy: models.SortByCreatedAt, SortOrder: models.SortDesc, Page: models.PageRequest{Page: 9, Limit: 10}},
			want:  []string{},
			total: 4,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, total, err := s.ListMovies(ctx, tt.query)
			if err != nil {
				t.Fatalf("ListMovies: %v", err)
			}
			if total != tt.total {
				t.Errorf("total = %d, want %d", total, tt.total)
			}
			if fmt.Sprint(titles(got)) != fmt.Sprint(tt.want) {
				t.Errorf("order = %v, want %v", titles(got), tt.want)
			}
		})
	}
}

func testVoteTransitions(t *testing.T, s store.Store) {
	ctx := context.Background()
	owner := mustUser(t, s, "owner@example.com", 0)
	voter := mustUser(t, s, "voter@example.com", 1)
	m := mustMovie(t, s, owner, "Heat", "Crime", 0)

	steps := []struct {
		vote    models.VoteType
		outcome models.VoteOutcome
		state   models.VoteType
		up      int
		down    int
	}{
		{models.VoteUp, models.VoteAdded, models.VoteUp, 1, 0},
		{models.VoteUp, models.VoteRemoved, "", 0, 0},
		{models.VoteDown, models.VoteAdded, models.VoteDown, 0, 1},
		{models.VoteUp, models.VoteSwitched, models.VoteUp, 1, 0},
		{models.VoteDown, models.VoteSwitched, models.VoteDown, 0, 1},
		{models.VoteDown, models.VoteRemoved, "", 0, 0},
	}
	for i, step := range steps {
		res := mustVote(t, s, voter, m, step.vote)
		if res.Outcome != step.outcome || res.Upvotes != step.up || res.Downvotes != step.down {
			t.Fatalf("step %d: got %s %d/%d, want %s %d/%d",
				i, res.Outcome, res.Upvotes, res.Downvotes, step.outcome, step.up, step.down)
		}
		if res.Score != step.up-step.down {
			t.Errorf("step %d: score = %d", i, res.Score)
		}

		v, err := s.GetVote(ctx, voter.ID, m.ID)
		switch {
		case step.state == "":
			wantNotFound(t, err, fmt.Sprintf("step %d GetVote", i))
			if res.VoteType != nil {
				t.Errorf("step %d: voteType = %v, want nil", i, *res.VoteType)
			}
		case err != nil:
			t.Fatalf("step %d: GetVote: %v", i, err)
		case v.VoteType != step.state:
			t.Errorf("step %d: ledger = %s, want %s", i, v.VoteType, step.state)
		}
		wantTallies(t, s, m.ID, step.up, step.down)
	}
}

func testVoteMissingMovie(t *testing.T, s store.Store) {
	voter := mustUser(t, s, "voter@example.com", 0)
	_, err := s.ApplyVote(context.Background(), voter.ID, uuid.NewString(), models.VoteUp)
	wantNotFound(t, err, "ApplyVote(missing movie)")
}

func testConcurrentVoters(t *testing.T, s store.Store) {
	ctx := context.Background()
	owner := mustUser(t, s, "owner@example.com", 0)
	m := mustMovie(t, s, owner, "Heat", "Crime", 0)

	const n = 20
	voters := make([]*models.User, n)
	for i := range voters {
		voters[i] = mustUser(t, s, fmt.Sprintf("v%d@example.com", i), i+1)
	}

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i, u := range voters {
		vt := models.VoteUp
		if i%4 == 0 {
			vt = models.VoteDown
		}
		wg.Add(1)
		go func(u *models.User, vt models.VoteType) {
			defer wg.Done()
			if _, err := s.ApplyVote(ctx, u.ID, m.ID, vt); err != nil {
				errs <- err
			}
		}(u, vt)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent ApplyVote: %v", err)
	}

	wantTallies(t, s, m.ID, 15, 5)
}

func testConcurrentToggle(t *testing.T, s store.Store) {
	ctx := context.Background()
	owner := mustUser(t, s, "owner@example.com", 0)
	voter := mustUser(t, s, "voter@example.com", 1)
	m := mustMovie(t, s, owner, "Heat", "Crime", 0)

	// An even number of identical requests from one user must toggle back
	// to no vote, whatever the interleaving.
	const n = 10
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.ApplyVote(ctx, voter.ID, m.ID, models.VoteUp); err != nil {
				t.Errorf("ApplyVote: %v", err)
			}
		}()
	}
	wg.Wait()

	wantTallies(t, s, m.ID, 0, 0)
	_, err := s.GetVote(ctx, voter.ID, m.ID)
	wantNotFound(t, err, "GetVote after even toggles")
}

func testRecount(t *testing.T, s store.Store) {
	ctx := context.Background()
	owner := mustUser(t, s, "owner@example.com", 0)
	a := mustUser(t, s, "a@example.com", 1)
	b := mustUser(t, s, "b@example.com", 2)
	m := mustMovie(t, s, owner, "Heat", "Crime", 0)

	mustVote(t, s, a, m, models.VoteUp)
	mustVote(t, s, b, m, models.VoteDown)

	got, err := s.RecountVotes(ctx, m.ID)
	if err != nil {
		t.Fatalf("RecountVotes: %v", err)
	}
	if got.Upvotes != 1 || got.Downvotes != 1 {
		t.Errorf("recount = %d/%d, want 1/1", got.Upvotes, got.Downvotes)
	}
	_, err = s.RecountVotes(ctx, uuid.NewString())
	wantNotFound(t, err, "RecountVotes(missing)")
}

func testComments(t *testing.T, s store.Store) {
	ctx := context.Background()
	owner := mustUser(t, s, "owner@example.com", 0)
	m := mustMovie(t, s, owner, "Heat", "Crime", 0)
	other := mustMovie(t, s, owner, "Ronin", "Action", 1)

	first := mustComment(t, s, owner, m, "first", 0)
	mustComment(t, s, owner, m, "second", 1)
	third := mustComment(t, s, owner, m, "third", 2)
	mustComment(t, s, owner, other, "elsewhere", 3)

	page, total, err := s.ListComments(ctx, m.ID, models.PageRequest{Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if total != 3 || len(page) != 2 || page[0].ID != third.ID {
		t.Errorf("ListComments total=%d len=%d", total, len(page))
	}

	updated, err := s.UpdateComment(ctx, first.ID, "edited")
	if err != nil {
		t.Fatalf("UpdateComment: %v", err)
	}
	if updated.Content != "edited" || updated.MovieID != m.ID {
		t.Errorf("UpdateComment = %+v", updated)
	}

	if err := s.DeleteComment(ctx, first.ID); err != nil {
		t.Fatalf("DeleteComment: %v", err)
	}
	_, err = s.GetComment(ctx, first.ID)
	wantNotFound(t, err, "GetComment(deleted)")
	wantNotFound(t, s.DeleteComment(ctx, first.ID), "DeleteComment(deleted)")

	orphan := &models.Comment{ID: uuid.NewString(), Content: "x", UserID: owner.ID, MovieID: uuid.NewString()}
	wantNotFound(t, s.CreateComment(ctx, orphan), "CreateComment(missing movie)")

	n, err := s.CountComments(ctx)
	if err != nil || n != 3 {
		t.Errorf("CountComments = %d, %v", n, err)
	}
}

func testDeleteMovieCascade(t *testing.T, s store.Store) {
	ctx := context.Background()
	owner := mustUser(t, s, "owner@example.com", 0)
	voter := mustUser(t, s, "voter@example.com", 1)
	m := mustMovie(t, s, owner, "Heat", "Crime", 0)
	keep := mustMovie(t, s, owner, "Ronin", "Action", 1)

	mustVote(t, s, voter, m, models.VoteUp)
	mustVote(t, s, owner, m, models.VoteDown)
	mustVote(t, s, voter, keep, models.VoteUp)
	c := mustComment(t, s, voter, m, "gone", 0)
	kept := mustComment(t, s, voter, keep, "stays", 1)

	report, err := s.DeleteMovie(ctx, m.ID)
	if err != nil {
		t.Fatalf("DeleteMovie: %v", err)
	}
	if report.Movies != 1 || report.Votes != 2 || report.Comments != 1 {
		t.Errorf("report = %+v", report)
	}
	if len(report.Images) != 1 || report.Images[0] != m.Image {
		t.Errorf("report images = %v", report.Images)
	}

	_, err = s.GetMovie(ctx, m.ID)
	wantNotFound(t, err, "GetMovie(deleted)")
	_, err = s.GetVote(ctx, voter.ID, m.ID)
	wantNotFound(t, err, "GetVote(deleted movie)")
	_, err = s.GetComment(ctx, c.ID)
	wantNotFound(t, err, "GetComment(deleted movie)")

	if _, err := s.GetComment(ctx, kept.ID); err != nil {
		t.Errorf("unrelated comment removed: %v", err)
	}
	wantTallies(t, s, keep.ID, 1, 0)

	_, err = s.DeleteMovie(ctx, m.ID)
	wantNotFound(t, err, "DeleteMovie(deleted)")
}

func testDeleteUserCascade(t *testing.T, s store.Store) {
	ctx := context.Background()
	doomed := mustUser(t, s, "doomed@example.com", 0)
	other := mustUser(t, s, "other@example.com", 1)

	own := mustMovie(t, s, doomed, "Mine", "Drama", 0)
	theirs := mustMovie(t, s, other, "Theirs", "Drama", 1)
	down := mustMovie(t, s, other, "Disliked", "Drama", 2)

	mustVote(t, s, other, own, models.VoteUp)
	mustVote(t, s, doomed, own, models.VoteUp)
	mustVote(t, s, doomed, theirs, models.VoteUp)
	mustVote(t, s, other, theirs, models.VoteUp)
	mustVote(t, s, doomed, down, models.VoteDown)

	mustComment(t, s, other, own, "on doomed movie", 0)
	onTheirs := mustComment(t, s, doomed, theirs, "by doomed", 1)
	survivor := mustComment(t, s, other, theirs, "survivor", 2)

	report, err := s.DeleteUser(ctx, doomed.ID)
	if err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if report.Movies != 1 || report.Comments != 2 || report.Votes != 4 {
		t.Errorf("report = %+v", report)
	}

	_, err = s.GetUser(ctx, doomed.ID)
	wantNotFound(t, err, "GetUser(deleted)")
	_, err = s.GetUserByEmail(ctx, doomed.Email)
	wantNotFound(t, err, "GetUserByEmail(deleted)")
	_, err = s.GetMovie(ctx, own.ID)
	wantNotFound(t, err, "GetMovie(owned by deleted)")
	_, err = s.GetComment(ctx, onTheirs.ID)
	wantNotFound(t, err, "GetComment(by deleted)")
	if _, err := s.GetComment(ctx, survivor.ID); err != nil {
		t.Errorf("survivor comment removed: %v", err)
	}

	wantTallies(t, s, theirs.ID, 1, 0)
	wantTallies(t, s, down.ID, 0, 0)
	_, err = s.GetVote(ctx, doomed.ID, theirs.ID)
	wantNotFound(t, err, "GetVote(by deleted)")
	if _, err := s.GetVote(ctx, other.ID, theirs.ID); err != nil {
		t.Errorf("other user's vote removed: %v", err)
	}

	// The email is free again.
	mustUser(t, s, "doomed@example.com", 5)
}

func testStats(t *testing.T, s store.Store) {
	ctx := context.Background()
	owner := mustUser(t, s, "owner@example.com", 0)
	a := mustUser(t, s, "a@example.com", 1)
	b := mustUser(t, s, "b@example.com", 2)

	first := mustMovie(t, s, owner, "First", "Drama", 0)
	second := mustMovie(t, s, owner, "Second", "Drama", 1)
	third := mustMovie(t, s, owner, "Third", "Drama", 2)

	mustVote(t, s, a, second, models.VoteUp)
	mustVote(t, s, b, second, models.VoteUp)
	mustVote(t, s, a, first, models.VoteUp)
	mustVote(t, s, b, third, models.VoteDown)

	totals, err := s.TallyTotals(ctx)
	if err != nil {
		t.Fatalf("TallyTotals: %v", err)
	}
	if totals.TotalUpvotes != 3 || totals.TotalDownvotes != 1 {
		t.Errorf("totals = %+v", totals)
	}

	top, err := s.TopMovies(ctx, 2)
	if err != nil {
		t.Fatalf("TopMovies: %v", err)
	}
	if fmt.Sprint(titles(top)) != fmt.Sprint([]string{"Second", "First"}) {
		t.Errorf("top = %v", titles(top))
	}

	n, err := s.CountMovies(ctx)
	if err != nil || n != 3 {
		t.Errorf("CountMovies = %d, %v", n, err)
	}
	if err := s.Ping(ctx); err != nil {
		t.Errorf("Ping: %v", err)
	}
}
