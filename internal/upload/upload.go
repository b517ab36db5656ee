// Package upload relays client files to object storage under generated keys.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/santu/marketplace/internal/slug"
)

const (
	DefaultType   = "general"
	DefaultPrefix = "uploads"
	MaxBytes      = 10 << 20
)

var (
	ErrNoFile          = errors.New("file is required")
	ErrStorageDisabled = errors.New("object storage is not configured")
)

type Object struct {
	Key         string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Store persists one object and returns its public URL.
type Store interface {
	Put(ctx context.Context, obj Object) (string, error)
}

// Disabled stands in for a Store when no bucket is configured.
type Disabled struct{}

func (Disabled) Put(context.Context, Object) (string, error) { return "", ErrStorageDisabled }

type Input struct {
	File     io.ReadSeeker
	Filename string
	Size     int64
	Type     string
	Prefix   string
}

type Result struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

type Relay struct {
	Store Store
	Now   func() time.Time
	NewID func() string
}

// StoreError carries the storage backend's message for the caller.
type StoreError struct {
	Err error
}

func (e *StoreError) Error() string { return e.Err.Error() }

func (e *StoreError) Unwrap() error { return e.Err }

// Upload makes a single attempt; retries belong to the caller.
func (r *Relay) Upload(ctx context.Context, in Input) (*Result, error) {
	if in.File == nil {
		return nil, ErrNoFile
	}

	contentType, err := sniffContentType(in.File)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	now := time.Now()
	if r.Now != nil {
		now = r.Now()
	}
	id := ""
	if r.NewID != nil {
		id = r.NewID()
	} else {
		id = uuid.NewString()
	}

	key := Key(in.Prefix, in.Type, in.Filename, now, id)
	url, err := r.Store.Put(ctx, Object{Key: key, ContentType: contentType, Size: in.Size, Body: in.File})
	if err != nil {
		return nil, &StoreError{Err: err}
	}
	return &Result{URL: url, Key: key}, nil
}

var extPattern = regexp.MustCompile(`^\.[a-z0-9]{1,10}$`)

// Key builds <prefix>/<type>/<yyyy>/<mm>/<id><ext>. Prefix and type are
// slug-normalized and fall back to their defaults when empty, so a key
// never carries path traversal segments.
func Key(prefix, typ, filename string, now time.Time, id string) string {
	p := slug.Normalize(prefix)
	if p == "" {
		p = DefaultPrefix
	}
	t := slug.Normalize(typ)
	if t == "" {
		t = DefaultType
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !extPattern.MatchString(ext) {
		ext = ""
	}
	now = now.UTC()
	return fmt.Sprintf("%s/%s/%04d/%02d/%s%s", p, t, now.Year(), int(now.Month()), id, ext)
}

// sniffContentType reads the first 512 bytes and rewinds.
func sniffContentType(f io.ReadSeeker) (string, error) {
	buf := make([]byte, 512)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("seek reset: %w", err)
	}
	return http.DetectContentType(buf[:n]), nil
}
