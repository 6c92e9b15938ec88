// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

package models

import "math"

// PageRequest is a 1-based page and a page size.
type PageRequest struct {
	Page  int
	Limit int
}

// Offset is the number of records skipped before this page. It saturates
// at math.MaxInt instead of overflowing.
func (p PageRequest) Offset() int {
	if p.Page < 1 || p.Limit < 1 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// Window returns the [start, end) slice bounds of this page within n items.
func (p PageRequest) Window(n int) (int, int) {
	start := p.Offset()
	if start < 0 {
		start = 0
	}
	if start > n {
		start = n
	}
	end := n
	if p.Limit < n-start {
		end = start + p.Limit
	}
	return start, end
}

// Pagination is the envelope's pagination block.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// NewPagination computes pages = ceil(total/limit).
func NewPagination(p PageRequest, total int) *Pagination {
	pages := 0
	if p.Limit > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return &Pagination{Page: p.Page, Limit: p.Limit, Total: total, Pages: pages}
}

// Paginate slices one page out of items that are already ordered.
func Paginate[T any](items []T, p PageRequest) []T {
	start, end := p.Window(len(items))
	return items[start:end]
}
