// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

// Package validation validates request structs with go-playground/validator
// v10 and reports every violated field at once.
//
// The validator is a thread-safe singleton that caches struct metadata.
// Error field names are taken from the `json` tag, so clients see the same
// names they sent. Two custom rules are registered:
//
//   - genre: the value is one of the fixed catalog genres
//   - releaseyear: an integer from 1888 through five years after the
//     current year
//
// A `msg` struct tag overrides the generated message for a field:
//
//	type CommentInput struct {
//	    Content string `json:"content" validate:"min=1,max=500" msg:"Comment must be between 1 and 500 characters"`
//	}
//
//	if verr := validation.ValidateStruct(&in); verr != nil {
//	    return verr
//	}
//
// Callers that check extra fields by hand build errors with NewError and
// Add.
package validation
