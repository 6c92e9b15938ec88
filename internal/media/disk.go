// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

package media

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tomtom215/moviehub/internal/logging"
	"github.com/tomtom215/moviehub/internal/metrics"
)

// DiskStore keeps images in a local directory served under URLPrefix.
type DiskStore struct {
	dir       string
	urlPrefix string
	now       func() time.Time
}

// NewDiskStore creates dir if needed.
func NewDiskStore(dir, urlPrefix string) (*DiskStore, error) {
	if dir == "" {
		return nil, errors.New("uploads dir is required for the disk driver")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	if urlPrefix == "" {
		urlPrefix = "/uploads"
	}
	return &DiskStore{
		dir:       dir,
		urlPrefix: "/" + strings.Trim(urlPrefix, "/"),
		now:       time.Now,
	}, nil
}

// URLPrefix is the path images are served under.
func (d *DiskStore) URLPrefix() string { return d.urlPrefix }

// Handler serves stored images. Directory listings are disabled.
func (d *DiskStore) Handler() http.Handler {
	files := http.StripPrefix(d.urlPrefix, http.FileServer(http.Dir(d.dir)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("X-Content-Type-Options", "nosniff")
		files.ServeHTTP(w, r)
	})
}

func (d *DiskStore) Save(ctx context.Context, u *Upload) (string, error) {
	name := objectName(u, d.now())

	// Write then rename so readers never see a partial file.
	tmp, err := os.CreateTemp(d.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := reader(u).WriteTo(tmp); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close image: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", fmt.Errorf("chmod image: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(d.dir, name)); err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}

	metrics.ImageUploadBytes.Observe(float64(u.Size()))
	logging.Ctx(ctx).Debug().Str("object", name).Int64("bytes", u.Size()).Msg("image stored")
	return d.urlPrefix + "/" + name, nil
}

// Delete removes the file behind url. URLs outside the prefix are ignored.
func (d *DiskStore) Delete(ctx context.Context, url string) error {
	name, ok := strings.CutPrefix(url, d.urlPrefix+"/")
	if !ok || name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		logging.Ctx(ctx).Debug().Str("url", url).Msg("not a local image, skipping delete")
		return nil
	}
	err := os.Remove(filepath.Join(d.dir, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}
