// Package media uploads user media (avatars, cover images) to the external
// S3-compatible media host and hands back publicly servable URLs.
package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Object is one file to upload.
type Object struct {
	// Key is the object key inside the bucket, see StorageKey.
	Key         string
	ContentType string
	Body        io.Reader
}

// Store is the media host boundary. Upload returns the public URL of the
// stored object.
type Store interface {
	Upload(ctx context.Context, obj Object) (string, error)
}

// StorageKey builds a collision-free object key like
// "avatars/2026/8/30/<uuid>.png". The original filename only contributes
// its extension.
func StorageKey(prefix, filename string) string {
	d := time.Now()
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("%s/%d/%d/%d/%v%s", prefix, d.Year(), d.Month(), d.Day(), uuid.New(), ext)
}
