// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

// Package media stores movie poster images on local disk or in an
// S3-compatible bucket and returns the URL clients load them from.
package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/moviehub/internal/config"
	"github.com/tomtom215/moviehub/internal/validation"
)

// DefaultAllowedTypes are the image types accepted when none are configured.
var DefaultAllowedTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Upload is a validated image held in memory.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Size is the image size in bytes.
func (u *Upload) Size() int64 { return int64(len(u.Data)) }

// Ext is the file extension matching the sniffed content type.
func (u *Upload) Ext() string { return extensions[u.ContentType] }

// Limits bound what NewUpload accepts.
type Limits struct {
	MaxBytes     int64
	AllowedTypes []string
}

// LimitsFrom reads upload limits from config.
func LimitsFrom(cfg config.UploadsConfig) Limits {
	l := Limits{MaxBytes: cfg.MaxBytes, AllowedTypes: cfg.AllowedTypes}
	if len(l.AllowedTypes) == 0 {
		l.AllowedTypes = DefaultAllowedTypes
	}
	return l
}

// NewUpload reads an image from r. The content type is sniffed from the
// bytes; the client-declared type is ignored. Size and type violations are
// reported as a validation error on the "image" field.
func NewUpload(filename string, r io.Reader, limits Limits) (*Upload, error) {
	data, err := io.ReadAll(io.LimitReader(r, limits.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > limits.MaxBytes {
		return nil, validation.NewError("image", fmt.Sprintf("Image must be at most %s", humanBytes(limits.MaxBytes)))
	}
	if len(data) == 0 {
		return nil, validation.NewError("image", "Image file is empty")
	}

	ct := http.DetectContentType(data)
	if !slices.Contains(limits.AllowedTypes, ct) || extensions[ct] == "" {
		return nil, validation.NewError("image", "Only image files are allowed (jpeg, png, gif, webp)")
	}
	return &Upload{Filename: filename, ContentType: ct, Data: data}, nil
}

// Store persists images. Delete is idempotent: a missing object is not
// an error.
type Store interface {
	Save(ctx context.Context, u *Upload) (url string, err error)
	Delete(ctx context.Context, url string) error
}

// New builds the store selected by cfg.Driver.
func New(ctx context.Context, cfg config.UploadsConfig) (Store, error) {
	switch cfg.Driver {
	case "", "disk":
		return NewDiskStore(cfg.Dir, cfg.URLPrefix)
	case "s3":
		return NewS3Store(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown uploads driver %q", cfg.Driver)
	}
}

// objectName is <unix-nanos>-<uuid><ext>; names sort by upload time.
func objectName(u *Upload, now time.Time) string {
	return fmt.Sprintf("%d-%s%s", now.UnixNano(), uuid.NewString(), u.Ext())
}

func humanBytes(n int64) string {
	const mib = 1 << 20
	if n >= mib && n%mib == 0 {
		return fmt.Sprintf("%d MB", n/mib)
	}
	return fmt.Sprintf("%d bytes", n)
}

func reader(u *Upload) *bytes.Reader { return bytes.NewReader(u.Data) }
