// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/moviehub/internal/auth"
	"github.com/tomtom215/moviehub/internal/config"
	"github.com/tomtom215/moviehub/internal/events"
	"github.com/tomtom215/moviehub/internal/media"
	"github.com/tomtom215/moviehub/internal/models"
	"github.com/tomtom215/moviehub/internal/store/badgerstore"
	"github.com/tomtom215/moviehub/internal/validation"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

type published struct {
	typ     events.Type
	actor   string
	payload any
}

type capturePublisher struct {
	mu  sync.Mutex
	got []published
}

func (c *capturePublisher) Publish(_ context.Context, t events.Type, actor string, payload any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.got = append(c.got, published{t, actor, payload})
}

func (c *capturePublisher) types() []events.Type {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]events.Type, 0, len(c.got))
	for _, p := range c.got {
		out = append(out, p.typ)
	}
	return out
}

type fixture struct {
	svc    *Service
	store  *badgerstore.Store
	pub    *capturePublisher
	dir    string
	owner  *auth.Subject
	other  *auth.Subject
	admin  *auth.Subject
	images *media.DiskStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st, err := badgerstore.Open(config.BadgerConfig{InMemory: true})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	dir := t.TempDir()
	images, err := media.NewDiskStore(dir, "/uploads")
	if err != nil {
		t.Fatal(err)
	}
	pub := &capturePublisher{}
	f := &fixture{
		svc:    NewService(st, images, pub, config.APIConfig{DefaultPageSize: 10, MaxPageSize: 50}),
		store:  st,
		pub:    pub,
		dir:    dir,
		images: images,
	}
	f.owner = f.addUser(t, "Ann", "ann@x.com", models.RoleUser)
	f.other = f.addUser(t, "Bob", "bob@x.com", models.RoleUser)
	f.admin = f.addUser(t, "Root", "root@x.com", models.RoleAdmin)
	return f
}

func (f *fixture) addUser(t *testing.T, name, email string, role models.Role) *auth.Subject {
	t.Helper()
	now := time.Now().UTC()
	u := &models.User{
		ID:           "user-" + name,
		Name:         name,
		Email:        email,
		PasswordHash: "x",
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := f.store.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return auth.SubjectFromUser(u)
}

func arrival() MovieInput {
	return MovieInput{
		Title:       "Arrival",
		Description: "A linguist works with the military to talk to aliens.",
		Genre:       "Sci-Fi",
		ReleaseYear: 2016,
		Director:    "Denis V.",
	}
}

func (f *fixture) createMovie(t *testing.T, subject *auth.Subject, in MovieInput) *models.MovieView {
	t.Helper()
	m, err := f.svc.CreateMovie(context.Background(), subject, in, nil)
	if err != nil {
		t.Fatalf("CreateMovie() error = %v", err)
	}
	return m
}

func pngUpload(t *testing.T) *media.Upload {
	t.Helper()
	u, err := media.NewUpload("poster.png", bytes.NewReader(pngBytes), media.Limits{MaxBytes: 1 << 20, AllowedTypes: media.DefaultAllowedTypes})
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func imageExists(t *testing.T, dir, url string) bool {
	t.Helper()
	_, err := os.Stat(filepath.Join(dir, strings.TrimPrefix(url, "/uploads/")))
	return err == nil
}

func assertMessage(t *testing.T, err error, kind error, msg string) {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Fatalf("error = %v, want %v", err, kind)
	}
	if got, _ := models.ClientMessage(err); got != msg {
		t.Errorf("message = %q, want %q", got, msg)
	}
}

func TestCreateAndGetMovie(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	m := f.createMovie(t, f.owner, arrival())
	if m.Upvotes != 0 || m.Downvotes != 0 || m.Score != 0 {
		t.Errorf("tallies = %d/%d/%d", m.Upvotes, m.Downvotes, m.Score)
	}
	if m.AddedBy == nil || m.AddedBy.Name != "Ann" {
		t.Errorf("addedBy = %+v", m.AddedBy)
	}

	got, err := f.svc.GetMovie(ctx, m.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Arrival" || got.AddedBy.Email != "ann@x.com" {
		t.Errorf("got %+v", got)
	}

	_, err = f.svc.GetMovie(ctx, "missing")
	assertMessage(t, err, models.ErrNotFound, "Movie not found")

	if types := f.pub.types(); len(types) != 1 || types[0] != events.MovieCreated {
		t.Errorf("events = %v", types)
	}
}

func TestCreateMovieValidation(t *testing.T) {
	f := newFixture(t)
	in := MovieInput{Title: "", Description: "short", Genre: "Cartoon", ReleaseYear: 1700, Director: "X"}
	_, err := f.svc.CreateMovie(context.Background(), f.owner, in, nil)

	var verr *validation.RequestValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v", err)
	}
	want := map[string]string{
		"title":       "Title must be between 1 and 200 characters",
		"description": "Description must be between 10 and 1000 characters",
		"genre":       "Please provide a valid genre",
		"releaseYear": "Please provide a valid release year",
		"director":    "Director name must be between 2 and 100 characters",
	}
	got := map[string]string{}
	for _, fe := range verr.Errors() {
		got[fe.Field] = fe.Message
	}
	for field, msg := range want {
		if got[field] != msg {
			t.Errorf("%s: got %q, want %q", field, got[field], msg)
		}
	}
}

func TestCreateMovieWithImage(t *testing.T) {
	f := newFixture(t)
	m, err := f.svc.CreateMovie(context.Background(), f.owner, arrival(), pngUpload(t))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(m.Image, "/uploads/") || !imageExists(t, f.dir, m.Image) {
		t.Errorf("image = %q not stored", m.Image)
	}
}

func TestUpdateMovieOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.createMovie(t, f.owner, arrival())

	edit := arrival()
	edit.Title = "Arrival (2016)"

	_, err := f.svc.UpdateMovie(ctx, f.other, m.ID, edit, nil)
	assertMessage(t, err, models.ErrForbidden, "Not authorized to update this movie")

	// A rejected update leaves the record untouched.
	stored, err := f.store.GetMovie(ctx, m.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Title != m.Title || !stored.UpdatedAt.Equal(m.UpdatedAt) {
		t.Errorf("movie changed after forbidden update: %+v", stored)
	}

	got, err := f.svc.UpdateMovie(ctx, f.owner, m.ID, edit, nil)
	if err != nil || got.Title != "Arrival (2016)" {
		t.Fatalf("owner update: %v %+v", err, got)
	}

	edit.Title = "Arrival (Admin)"
	got, err = f.svc.UpdateMovie(ctx, f.admin, m.ID, edit, nil)
	if err != nil || got.Title != "Arrival (Admin)" {
		t.Fatalf("admin update: %v %+v", err, got)
	}

	_, err = f.svc.UpdateMovie(ctx, f.owner, "missing", edit, nil)
	assertMessage(t, err, models.ErrNotFound, "Movie not found")
}

func TestUpdateMovieValidatesBeforeLookup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.createMovie(t, f.owner, arrival())

	invalid := arrival()
	invalid.Title = ""
	invalid.ReleaseYear = 1700

	tests := []struct {
		name    string
		subject *auth.Subject
		id      string
	}{
		{"owner", f.owner, m.ID},
		{"non-owner", f.other, m.ID},
		{"missing movie", f.owner, "missing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.UpdateMovie(ctx, tt.subject, tt.id, invalid, nil)
			var verr *validation.RequestValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error = %v, want validation error", err)
			}
			if len(verr.Errors()) != 2 {
				t.Errorf("errors = %+v", verr.Errors())
			}
		})
	}

	stored, err := f.store.GetMovie(ctx, m.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Title != "Arrival" {
		t.Errorf("title = %q", stored.Title)
	}
}

func TestListMoviesHugePage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createMovie(t, f.owner, arrival())

	views, page, err := f.svc.ListMovies(ctx, ListParams{Page: 1<<61 + 1, Limit: 4})
	if err != nil {
		t.Fatal(err)
	}
	if len(views) != 0 {
		t.Errorf("got %d movies past the end", len(views))
	}
	if page.Total != 1 || page.Limit != 4 {
		t.Errorf("pagination = %+v", page)
	}
}

func TestUpdateMovieKeepsTalliesAndReplacesImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	m, err := f.svc.CreateMovie(ctx, f.owner, arrival(), pngUpload(t))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Vote(ctx, f.other, m.ID, "up"); err != nil {
		t.Fatal(err)
	}

	// No upload keeps the image.
	got, err := f.svc.UpdateMovie(ctx, f.owner, m.ID, arrival(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if got.Image != m.Image || got.Upvotes != 1 || got.Score != 1 {
		t.Errorf("after plain update: %+v", got)
	}

	got, err = f.svc.UpdateMovie(ctx, f.owner, m.ID, arrival(), pngUpload(t))
	if err != nil {
		t.Fatal(err)
	}
	if got.Image == m.Image || !imageExists(t, f.dir, got.Image) {
		t.Errorf("new image = %q", got.Image)
	}
	if imageExists(t, f.dir, m.Image) {
		t.Error("old image not removed")
	}
	if got.Upvotes != 1 {
		t.Errorf("upvotes = %d", got.Upvotes)
	}
}

func TestDeleteMovieCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	m, err := f.svc.CreateMovie(ctx, f.owner, arrival(), pngUpload(t))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Vote(ctx, f.other, m.ID, "down"); err != nil {
		t.Fatal(err)
	}
	c := &models.Comment{ID: "c1", Content: "great", UserID: f.other.UserID, MovieID: m.ID, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	if err := f.store.CreateComment(ctx, c); err != nil {
		t.Fatal(err)
	}

	_, err = f.svc.DeleteMovie(ctx, f.other, m.ID)
	assertMessage(t, err, models.ErrForbidden, "Not authorized to delete this movie")

	report, err := f.svc.DeleteMovie(ctx, f.owner, m.ID)
	if err != nil {
		t.Fatal(err)
	}
	if report.Votes != 1 || report.Comments != 1 {
		t.Errorf("report = %+v", report)
	}
	if imageExists(t, f.dir, m.Image) {
		t.Error("image not removed")
	}
	if _, err := f.store.GetComment(ctx, "c1"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("comment survived: %v", err)
	}
	if _, err := f.store.GetVote(ctx, f.other.UserID, m.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("vote survived: %v", err)
	}
}

func TestAdminMayDeleteAnyMovie(t *testing.T) {
	f := newFixture(t)
	m := f.createMovie(t, f.owner, arrival())
	if _, err := f.svc.DeleteMovie(context.Background(), f.admin, m.ID); err != nil {
		t.Fatal(err)
	}
}

func TestVoteScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.createMovie(t, f.owner, arrival())

	steps := []struct {
		vote      string
		wantType  string
		wantScore int
		wantUp    int
		wantDown  int
		wantMsg   string
	}{
		{"up", "up", 1, 1, 0, "Vote added successfully"},
		{"up", "", 0, 0, 0, "Vote removed successfully"},
		{"down", "down", -1, 0, 1, "Vote added successfully"},
		{"up", "up", 1, 1, 0, "Vote updated successfully"},
	}
	for i, s := range steps {
		res, err := f.svc.Vote(ctx, f.owner, m.ID, s.vote)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		gotType := ""
		if res.VoteType != nil {
			gotType = string(*res.VoteType)
		}
		if gotType != s.wantType || res.Score != s.wantScore || res.Upvotes != s.wantUp || res.Downvotes != s.wantDown {
			t.Errorf("step %d: got %s %d (%d/%d)", i, gotType, res.Score, res.Upvotes, res.Downvotes)
		}
		if res.Outcome.Message() != s.wantMsg {
			t.Errorf("step %d: message %q", i, res.Outcome.Message())
		}

		uv, err := f.svc.UserVote(ctx, f.owner, m.ID)
		if err != nil {
			t.Fatal(err)
		}
		if (uv.VoteType == nil) != (s.wantType == "") {
			t.Errorf("step %d: user vote = %v", i, uv.VoteType)
		}
	}
}

func TestVoteErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.createMovie(t, f.owner, arrival())

	_, err := f.svc.Vote(ctx, f.owner, m.ID, "sideways")
	var verr *validation.RequestValidationError
	if !errors.As(err, &verr) || verr.Errors()[0].Message != `Vote type must be either "up" or "down"` {
		t.Errorf("invalid type: %v", err)
	}

	_, err = f.svc.Vote(ctx, f.owner, "missing", "up")
	assertMessage(t, err, models.ErrNotFound, "Movie not found")

	_, err = f.svc.UserVote(ctx, f.owner, "missing")
	assertMessage(t, err, models.ErrNotFound, "Movie not found")
}

func TestConcurrentVotesSameUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.createMovie(t, f.owner, arrival())

	const n = 25
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.svc.Vote(ctx, f.other, m.ID, "up"); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	got, err := f.svc.GetMovie(ctx, m.ID)
	if err != nil {
		t.Fatal(err)
	}
	// An odd number of toggles leaves exactly one vote.
	if got.Upvotes != 1 || got.Downvotes != 0 {
		t.Errorf("tallies = %d/%d", got.Upvotes, got.Downvotes)
	}
	if f.svc.votes.size() != 0 {
		t.Errorf("lock map holds %d keys", f.svc.votes.size())
	}
}

func TestConcurrentVotesManyUsers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.createMovie(t, f.owner, arrival())

	const n = 20
	voters := make([]*auth.Subject, n)
	for i := range voters {
		voters[i] = f.addUser(t, fmt.Sprintf("Voter%02d", i), fmt.Sprintf("v%d@x.com", i), models.RoleUser)
	}

	var wg sync.WaitGroup
	for i, v := range voters {
		wg.Add(1)
		go func(v *auth.Subject, up bool) {
			defer wg.Done()
			vt := "down"
			if up {
				vt = "up"
			}
			if _, err := f.svc.Vote(ctx, v, m.ID, vt); err != nil {
				t.Error(err)
			}
		}(v, i%4 != 0)
	}
	wg.Wait()

	got, err := f.svc.GetMovie(ctx, m.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Upvotes != 15 || got.Downvotes != 5 || got.Score != 10 {
		t.Errorf("tallies = %d/%d score %d", got.Upvotes, got.Downvotes, got.Score)
	}
}

func TestRecountVotes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.createMovie(t, f.owner, arrival())
	if _, err := f.svc.Vote(ctx, f.other, m.ID, "up"); err != nil {
		t.Fatal(err)
	}

	got, err := f.svc.RecountVotes(ctx, m.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Upvotes != 1 || got.Score != 1 {
		t.Errorf("recount = %+v", got)
	}
	_, err = f.svc.RecountVotes(ctx, "missing")
	assertMessage(t, err, models.ErrNotFound, "Movie not found")
}

func TestListMovies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	titles := []string{"Alien", "Brazil", "Casablanca"}
	ids := map[string]string{}
	for i, title := range titles {
		in := arrival()
		in.Title = title
		if i == 2 {
			in.Genre = "Drama"
		}
		ids[title] = f.createMovie(t, f.owner, in).ID
	}
	mustVote := func(s *auth.Subject, title, vt string) {
		t.Helper()
		if _, err := f.svc.Vote(ctx, s, ids[title], vt); err != nil {
			t.Fatal(err)
		}
	}
	mustVote(f.owner, "Brazil", "up")
	mustVote(f.other, "Brazil", "up")
	mustVote(f.owner, "Alien", "down")

	views, page, err := f.svc.ListMovies(ctx, ListParams{})
	if err != nil {
		t.Fatal(err)
	}
	if page.Page != 1 || page.Limit != 10 || page.Total != 3 || page.Pages != 1 {
		t.Errorf("pagination = %+v", page)
	}
	for i := 1; i < len(views); i++ {
		if views[i-1].Score < views[i].Score {
			t.Errorf("not score desc: %d then %d", views[i-1].Score, views[i].Score)
		}
	}
	if views[0].Title != "Brazil" || views[2].Title != "Alien" {
		t.Errorf("order = %s, %s, %s", views[0].Title, views[1].Title, views[2].Title)
	}

	views, _, err = f.svc.ListMovies(ctx, ListParams{Genre: "Drama"})
	if err != nil || len(views) != 1 || views[0].Title != "Casablanca" {
		t.Errorf("genre filter: %v %d", err, len(views))
	}

	views, page, err = f.svc.ListMovies(ctx, ListParams{SortBy: "title", SortOrder: "asc", Page: 2, Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(views) != 1 || views[0].Title != "Casablanca" || page.Pages != 2 {
		t.Errorf("page 2 = %d items, %+v", len(views), page)
	}
}

func TestListMoviesRejectsBadParams(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.svc.ListMovies(context.Background(), ListParams{Genre: "Cartoon", SortBy: "rating", SortOrder: "up"})
	var verr *validation.RequestValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v", err)
	}
	if len(verr.Errors()) != 3 {
		t.Errorf("errors = %+v", verr.Errors())
	}
}

func TestPageRequestBounds(t *testing.T) {
	api := config.APIConfig{DefaultPageSize: 10, MaxPageSize: 50}
	tests := []struct {
		page, limit         int
		wantPage, wantLimit int
	}{
		{0, 0, 1, 10},
		{-3, -1, 1, 10},
		{2, 20, 2, 20},
		{1, 500, 1, 50},
		{math.MaxInt, 50, math.MaxInt / 50, 50},
	}
	for _, tt := range tests {
		got := PageRequest(api, tt.page, tt.limit)
		if got.Page != tt.wantPage || got.Limit != tt.wantLimit {
			t.Errorf("PageRequest(%d, %d) = %+v", tt.page, tt.limit, got)
		}
	}
}

func TestKeyedMutexSerializes(t *testing.T) {
	k := newKeyedMutex()
	var mu sync.Mutex
	inside := 0
	maxInside := 0

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := k.Lock("a")
			mu.Lock()
			inside++
			if inside > maxInside {
				maxInside = inside
			}
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			inside--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()
	if maxInside != 1 {
		t.Errorf("max concurrent holders = %d", maxInside)
	}
	if k.size() != 0 {
		t.Errorf("size = %d", k.size())
	}
}
