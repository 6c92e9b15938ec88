// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

package validation

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
	if v1 == nil {
		t.Error("GetValidator() should not return nil")
	}
}

type movieRequest struct {
	Title       string `json:"title" validate:"min=1,max=200" msg:"Title must be between 1 and 200 characters"`
	Genre       string `json:"genre" validate:"genre" msg:"Please provide a valid genre"`
	ReleaseYear int    `json:"releaseYear" validate:"releaseyear"`
	Director    string `json:"director" validate:"min=2,max=100"`
}

func validMovie() movieRequest {
	return movieRequest{Title: "Arrival", Genre: "Sci-Fi", ReleaseYear: 2016, Director: "Denis V."}
}

func TestValidateStruct_Valid(t *testing.T) {
	in := validMovie()
	if verr := ValidateStruct(&in); verr != nil {
		t.Fatalf("ValidateStruct() = %v, want nil", verr)
	}
}

func TestValidateStruct_CollectsAllFields(t *testing.T) {
	in := movieRequest{Title: "", Genre: "Sci-fi", ReleaseYear: 1887, Director: "D"}
	verr := ValidateStruct(&in)
	if verr == nil {
		t.Fatal("ValidateStruct() = nil, want errors")
	}

	want := []FieldError{
		{Field: "title", Message: "Title must be between 1 and 200 characters"},
		{Field: "genre", Message: "Please provide a valid genre"},
		{Field: "releaseYear", Message: "releaseYear must be a valid release year"},
		{Field: "director", Message: "director must be at least 2 characters"},
	}
	got := verr.Errors()
	if len(got) != len(want) {
		t.Fatalf("got %d errors %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("error[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestReleaseYearBounds(t *testing.T) {
	defer func(orig func() time.Time) { now = orig }(now)
	now = func() time.Time { return time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		year  int
		valid bool
	}{
		{1887, false},
		{1888, true},
		{2026, true},
		{2031, true},
		{2032, false},
		{0, false},
	}
	for _, tt := range tests {
		in := validMovie()
		in.ReleaseYear = tt.year
		verr := ValidateStruct(&in)
		if (verr == nil) != tt.valid {
			t.Errorf("year %d: valid = %v, want %v (%v)", tt.year, verr == nil, tt.valid, verr)
		}
	}
}

func TestGenreRule(t *testing.T) {
	for _, g := range []string{"Action", "Film-Noir", "Sci-Fi", "Western"} {
		in := validMovie()
		in.Genre = g
		if verr := ValidateStruct(&in); verr != nil {
			t.Errorf("genre %q rejected: %v", g, verr)
		}
	}
	for _, g := range []string{"", "action", "Noir", "SciFi"} {
		in := validMovie()
		in.Genre = g
		if verr := ValidateStruct(&in); verr == nil {
			t.Errorf("genre %q accepted", g)
		}
	}
}

func TestMinMaxCountsRunes(t *testing.T) {
	in := validMovie()
	in.Director = "Ōz"
	if verr := ValidateStruct(&in); verr != nil {
		t.Errorf("two-rune director rejected: %v", verr)
	}
	in.Director = strings.Repeat("é", 101)
	if verr := ValidateStruct(&in); verr == nil {
		t.Error("101-rune director accepted")
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Ignored  string `json:"-" validate:"omitempty,min=3"`
}

func TestErrorMessages(t *testing.T) {
	verr := ValidateStruct(&loginRequest{Email: "not-an-email"})
	if verr == nil {
		t.Fatal("expected errors")
	}
	got := verr.Errors()
	if len(got) != 2 {
		t.Fatalf("got %v", got)
	}
	if got[0].Message != "email must be a valid email address" {
		t.Errorf("email message = %q", got[0].Message)
	}
	if got[1].Message != "password is required" {
		t.Errorf("password message = %q", got[1].Message)
	}
	if !strings.Contains(verr.Error(), "password is required") {
		t.Errorf("Error() = %q", verr.Error())
	}
}

func TestAddCollectsHandChecks(t *testing.T) {
	verr := NewError("image", "Only image files are allowed")
	verr.Add("voteType", `Vote type must be either "up" or "down"`)
	if len(verr.Errors()) != 2 || verr.Errors()[1].Field != "voteType" {
		t.Fatalf("errors = %+v", verr.Errors())
	}

	var err error = verr
	var target *RequestValidationError
	if !errors.As(err, &target) {
		t.Error("errors.As should find *RequestValidationError")
	}
}
