// Package storage keeps uploaded objects (slide type images, brand logos,
// help files) and hands out the URL they are served under.
package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidKey  = errors.New("invalid object key")
	ErrInvalidData = errors.New("invalid base64 data")
)

// Storage defines the interface for object storage
type Storage interface {
	// Put stores data under key and returns its public URL.
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)

	// Open reads an object back.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// List returns the keys under prefix.
	List(ctx context.Context, prefix string) ([]string, error)

	// Delete removes an object.
	Delete(ctx context.Context, key string) error
}

// Key prefixes per upload category.
const (
	PrefixSlideImages = "slide-images"
	PrefixBrand       = "brand"
	PrefixHelpFiles   = "help-files"
)

// ObjectKey builds "{prefix}/{name}-{unixMillis}.{ext}".
func ObjectKey(prefix, name, ext string, now time.Time) string {
	return fmt.Sprintf("%s/%s-%d.%s", prefix, name, now.UnixMilli(), ext)
}

var unsafeName = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// UniqueKey builds "{prefix}/{uuid}-{fileName}" with the file name sanitized.
func UniqueKey(prefix, fileName string) string {
	name := unsafeName.ReplaceAllString(path.Base(strings.ReplaceAll(fileName, "\\", "/")), "_")
	if name == "" || name == "." || name == ".." {
		name = "file"
	}
	return fmt.Sprintf("%s/%s-%s", prefix, uuid.NewString(), name)
}

// Extension returns the lower-cased extension of fileName without the dot,
// or def when there is none.
func Extension(fileName, def string) string {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(fileName)), ".")
	if ext == "" {
		return def
	}
	return ext
}

// ImageContentType maps a file extension to the image MIME type stored with
// the object. Unknown extensions are treated as PNG.
func ImageContentType(ext string) string {
	switch strings.ToLower(ext) {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	case "svg":
		return "image/svg+xml"
	}
	return "image/png"
}

// DecodeData decodes base64 content, optionally wrapped in a data URL
// ("data:image/png;base64,..."). The MIME type of the data URL is returned
// when present.
func DecodeData(s string) ([]byte, string, error) {
	var mime string
	if strings.HasPrefix(s, "data:") {
		header, payload, ok := strings.Cut(s, ",")
		if !ok {
			return nil, "", ErrInvalidData
		}
		mime = strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
		s = payload
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	return data, mime, nil
}

// cleanKey rejects keys escaping the storage root.
func cleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", ErrInvalidKey
	}
	c := path.Clean(key)
	if c == "." || c == ".." || strings.HasPrefix(c, "../") {
		return "", ErrInvalidKey
	}
	return c, nil
}
