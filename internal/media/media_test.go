// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/tomtom215/moviehub/internal/config"
	"github.com/tomtom215/moviehub/internal/validation"
)

// Smallest valid PNG header plus padding; enough for content sniffing.
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

var gifBytes = append([]byte("GIF89a"), bytes.Repeat([]byte{0}, 64)...)

func testLimits() Limits {
	return Limits{MaxBytes: 1024, AllowedTypes: DefaultAllowedTypes}
}

func TestNewUpload(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantCT  string
		wantExt string
		wantMsg string
	}{
		{"png", pngBytes, "image/png", ".png", ""},
		{"gif", gifBytes, "image/gif", ".gif", ""},
		{"text", []byte("hello, this is not an image at all"), "", "", "Only image files are allowed (jpeg, png, gif, webp)"},
		{"empty", nil, "", "", "Image file is empty"},
		{"too large", append(append([]byte{}, pngBytes...), bytes.Repeat([]byte{1}, 2048)...), "", "", "Image must be at most 1024 bytes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := NewUpload("poster", bytes.NewReader(tt.data), testLimits())
			if tt.wantMsg != "" {
				var verr *validation.RequestValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("error = %v, want validation error", err)
				}
				fe := verr.Errors()
				if len(fe) != 1 || fe[0].Field != "image" || fe[0].Message != tt.wantMsg {
					t.Errorf("errors = %+v", fe)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewUpload() error = %v", err)
			}
			if u.ContentType != tt.wantCT || u.Ext() != tt.wantExt {
				t.Errorf("got %s %s", u.ContentType, u.Ext())
			}
		})
	}
}

func TestUploadRestrictedTypes(t *testing.T) {
	limits := Limits{MaxBytes: 1024, AllowedTypes: []string{"image/jpeg"}}
	if _, err := NewUpload("x.png", bytes.NewReader(pngBytes), limits); err == nil {
		t.Error("png accepted when only jpeg allowed")
	}
}

func TestLimitsFromDefaults(t *testing.T) {
	l := LimitsFrom(config.UploadsConfig{MaxBytes: 5 << 20})
	if len(l.AllowedTypes) != len(DefaultAllowedTypes) {
		t.Errorf("allowed types = %v", l.AllowedTypes)
	}
	if got := humanBytes(5 << 20); got != "5 MB" {
		t.Errorf("humanBytes = %q", got)
	}
}

func TestDiskStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	d, err := NewDiskStore(dir, "/uploads/")
	if err != nil {
		t.Fatal(err)
	}
	u, err := NewUpload("poster.png", bytes.NewReader(pngBytes), testLimits())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	url, err := d.Save(ctx, u)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !strings.HasPrefix(url, "/uploads/") || !strings.HasSuffix(url, ".png") {
		t.Fatalf("url = %q", url)
	}
	name := strings.TrimPrefix(url, "/uploads/")
	if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
		t.Fatalf("file not written: %v", err)
	}

	w := httptest.NewRecorder()
	d.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))
	if w.Code != http.StatusOK || !bytes.Equal(w.Body.Bytes(), pngBytes) {
		t.Errorf("serve: status %d, %d bytes", w.Code, w.Body.Len())
	}

	w = httptest.NewRecorder()
	d.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("directory listing status = %d", w.Code)
	}

	if err := d.Delete(ctx, url); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
		t.Error("file still present")
	}
	if err := d.Delete(ctx, url); err != nil {
		t.Errorf("second Delete() error = %v", err)
	}
}

func TestDiskStoreDeleteIgnoresForeignURLs(t *testing.T) {
	dir := t.TempDir()
	outside := filepath.Join(dir, "keep.txt")
	if err := os.WriteFile(outside, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	d, err := NewDiskStore(filepath.Join(dir, "uploads"), "/uploads")
	if err != nil {
		t.Fatal(err)
	}
	for _, url := range []string{"/uploads/../keep.txt", "https://cdn.example.com/a.png", "", "/uploads/"} {
		if err := d.Delete(context.Background(), url); err != nil {
			t.Errorf("Delete(%q) error = %v", url, err)
		}
	}
	if _, err := os.Stat(outside); err != nil {
		t.Error("file outside uploads dir was removed")
	}
}

type fakeS3 struct {
	puts    map[string][]byte
	types   map[string]string
	deletes []string
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.puts[*in.Key] = data
	f.types[*in.Key] = *in.ContentType
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Store(t *testing.T) {
	fake := &fakeS3{puts: map[string][]byte{}, types: map[string]string{}}
	s := newS3Store(fake, "posters", "https://cdn.example.com/")
	u, err := NewUpload("p.png", bytes.NewReader(pngBytes), testLimits())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	url, err := s.Save(ctx, u)
	if err != nil {
		t.Fatal(err)
	}
	key, ok := strings.CutPrefix(url, "https://cdn.example.com/")
	if !ok || !strings.HasPrefix(key, "movies/") {
		t.Fatalf("url = %q", url)
	}
	if !bytes.Equal(fake.puts[key], pngBytes) || fake.types[key] != "image/png" {
		t.Error("object not stored as sent")
	}

	if err := s.Delete(ctx, url); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "/uploads/local.png"); err != nil {
		t.Fatal(err)
	}
	if len(fake.deletes) != 1 || fake.deletes[0] != key {
		t.Errorf("deletes = %v", fake.deletes)
	}
}

func TestPublicBaseURL(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.S3Config
		endpoint string
		want     string
	}{
		{"explicit", config.S3Config{Bucket: "b", PublicBaseURL: "https://img.example.com"}, "", "https://img.example.com"},
		{"path style", config.S3Config{Bucket: "b", UsePathStyle: true}, "http://minio:9000", "http://minio:9000/b"},
		{"virtual host", config.S3Config{Bucket: "b"}, "https://r2.example.com", "https://b.r2.example.com"},
		{"aws", config.S3Config{Bucket: "b"}, "", "https://b.s3.eu-west-1.amazonaws.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := publicBaseURL(tt.cfg, "eu-west-1", tt.endpoint); got != tt.want {
				t.Errorf("publicBaseURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewSelectsDriver(t *testing.T) {
	ctx := context.Background()
	st, err := New(ctx, config.UploadsConfig{Driver: "disk", Dir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := st.(*DiskStore); !ok {
		t.Errorf("got %T", st)
	}
	if _, err := New(ctx, config.UploadsConfig{Driver: "ftp"}); err == nil {
		t.Error("unknown driver accepted")
	}
	if _, err := New(ctx, config.UploadsConfig{Driver: "s3"}); err == nil {
		t.Error("s3 without bucket accepted")
	}
}
