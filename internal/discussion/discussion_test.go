// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

package discussion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/moviehub/internal/auth"
	"github.com/tomtom215/moviehub/internal/config"
	"github.com/tomtom215/moviehub/internal/events"
	"github.com/tomtom215/moviehub/internal/models"
	"github.com/tomtom215/moviehub/internal/store/badgerstore"
	"github.com/tomtom215/moviehub/internal/validation"
)

type fixture struct {
	svc   *Service
	store *badgerstore.Store
	movie string
	ann   *auth.Subject
	bob   *auth.Subject
	admin *auth.Subject
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st, err := badgerstore.Open(config.BadgerConfig{InMemory: true})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = st.Close() })

	f := &fixture{
		svc:   NewService(st, events.Discard, config.APIConfig{DefaultPageSize: 10, MaxPageSize: 100}),
		store: st,
	}
	ctx := context.Background()
	now := time.Now().UTC()
	for _, u := range []*models.User{
		{ID: "ann", Name: "Ann", Email: "ann@x.com", Role: models.RoleUser, CreatedAt: now},
		{ID: "bob", Name: "Bob", Email: "bob@x.com", Role: models.RoleUser, CreatedAt: now},
		{ID: "root", Name: "Root", Email: "root@x.com", Role: models.RoleAdmin, CreatedAt: now},
	} {
		if err := st.CreateUser(ctx, u); err != nil {
			t.Fatal(err)
		}
		switch u.ID {
		case "ann":
			f.ann = auth.SubjectFromUser(u)
		case "bob":
			f.bob = auth.SubjectFromUser(u)
		default:
			f.admin = auth.SubjectFromUser(u)
		}
	}
	m := &models.Movie{ID: "arrival", Title: "Arrival", Genre: "Sci-Fi", AddedBy: "ann", CreatedAt: now, UpdatedAt: now}
	if err := st.CreateMovie(ctx, m); err != nil {
		t.Fatal(err)
	}
	f.movie = m.ID
	return f
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

func TestCreateAndGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.svc.Create(ctx, f.ann, f.movie, CommentInput{Content: "  Loved the heptapods.  "})
	if err != nil {
		t.Fatal(err)
	}
	if c.Content != "Loved the heptapods." {
		t.Errorf("content = %q", c.Content)
	}
	if c.User == nil || c.User.Name != "Ann" {
		t.Errorf("user = %+v", c.User)
	}

	got, err := f.svc.Get(ctx, c.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Movie == nil || got.Movie.Title != "Arrival" {
		t.Errorf("movie = %+v", got.Movie)
	}

	_, err = f.svc.Get(ctx, "missing")
	assertMessage(t, err, models.ErrNotFound, "Comment not found")
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, content := range []string{"", "   ", strings.Repeat("x", 501)} {
		_, err := f.svc.Create(ctx, f.ann, f.movie, CommentInput{Content: content})
		var verr *validation.RequestValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("content len %d: error = %v", len(content), err)
		}
		if fe := verr.Errors(); fe[0].Field != "content" || fe[0].Message != "Comment must be between 1 and 500 characters" {
			t.Errorf("errors = %+v", fe)
		}
	}

	if _, err := f.svc.Create(ctx, f.ann, f.movie, CommentInput{Content: strings.Repeat("é", 500)}); err != nil {
		t.Errorf("500 runes rejected: %v", err)
	}

	_, err := f.svc.Create(ctx, f.ann, "missing", CommentInput{Content: "hi"})
	assertMessage(t, err, models.ErrNotFound, "Movie not found")
}

func TestListNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		i := i
		f.svc.now = func() time.Time { return base.Add(time.Duration(i) * time.Minute) }
		if _, err := f.svc.Create(ctx, f.bob, f.movie, CommentInput{Content: fmt.Sprintf("comment %02d", i)}); err != nil {
			t.Fatal(err)
		}
	}

	views, page, err := f.svc.List(ctx, f.movie, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(views) != 10 || page.Total != 12 || page.Pages != 2 {
		t.Fatalf("got %d items, %+v", len(views), page)
	}
	if views[0].Content != "comment 11" || views[9].Content != "comment 02" {
		t.Errorf("order: first %q last %q", views[0].Content, views[9].Content)
	}
	if views[0].User == nil || views[0].User.Name != "Bob" {
		t.Errorf("author not populated: %+v", views[0].User)
	}

	views, _, err = f.svc.List(ctx, f.movie, 2, 10)
	if err != nil || len(views) != 2 {
		t.Errorf("page 2: %v, %d items", err, len(views))
	}

	_, _, err = f.svc.List(ctx, "missing", 1, 10)
	assertMessage(t, err, models.ErrNotFound, "Movie not found")
}

func TestUpdateAndDeleteOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.svc.Create(ctx, f.ann, f.movie, CommentInput{Content: "first"})
	if err != nil {
		t.Fatal(err)
	}

	_, err = f.svc.Update(ctx, f.bob, c.ID, CommentInput{Content: "hijack"})
	assertMessage(t, err, models.ErrForbidden, "Not authorized to update this comment")

	stored, err := f.store.GetComment(ctx, c.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Content != "first" {
		t.Errorf("content after forbidden update = %q", stored.Content)
	}

	got, err := f.svc.Update(ctx, f.ann, c.ID, CommentInput{Content: "edited"})
	if err != nil || got.Content != "edited" {
		t.Fatalf("owner update: %v %+v", err, got)
	}

	// Validation runs before the lookup and the ownership check.
	for _, tc := range []struct {
		name    string
		subject *auth.Subject
		id      string
	}{
		{"owner", f.ann, c.ID},
		{"non-owner", f.bob, c.ID},
		{"missing comment", f.ann, "missing"},
	} {
		_, err = f.svc.Update(ctx, tc.subject, tc.id, CommentInput{Content: ""})
		var verr *validation.RequestValidationError
		if !errors.As(err, &verr) {
			t.Errorf("%s empty update: %v", tc.name, err)
		}
	}

	err = f.svc.Delete(ctx, f.bob, c.ID)
	assertMessage(t, err, models.ErrForbidden, "Not authorized to delete this comment")

	if err := f.svc.Delete(ctx, f.admin, c.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	err = f.svc.Delete(ctx, f.ann, c.ID)
	assertMessage(t, err, models.ErrNotFound, "Comment not found")
}
