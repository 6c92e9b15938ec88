// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

package models

import "time"

// Comment is free text attached to a movie.
type Comment struct {
	ID        string    `json:"_id" bson:"_id"`
	Content   string    `json:"content" bson:"content"`
	UserID    string    `json:"user" bson:"user"`
	MovieID   string    `json:"movie" bson:"movie"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// CommentView is a comment with its author populated. Movie carries the
// title only on single-comment reads.
type CommentView struct {
	ID        string    `json:"_id"`
	Content   string    `json:"content"`
	User      *UserRef  `json:"user"`
	Movie     *MovieRef `json:"movie"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewCommentView builds the response shape. author and movie may be nil.
func NewCommentView(c *Comment, author *User, movie *Movie) CommentView {
	ref := &MovieRef{ID: c.MovieID}
	if movie != nil {
		ref.Title = movie.Title
	}
	return CommentView{
		ID:        c.ID,
		Content:   c.Content,
		User:      author.Ref(),
		Movie:     ref,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// CompareCommentsNewestFirst orders comments by CreatedAt desc, then ID.
func CompareCommentsNewestFirst(a, b *Comment) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	switch {
	case a.ID < b.ID:
		return -1
	case a.ID > b.ID:
		return 1
	}
	return 0
}
