package images

import (
	"context"
	"mime/multipart"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrUnsupportedType is returned for uploads whose extension is not an image type.
var ErrUnsupportedType = errors.New("only image files are allowed")

var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".avif": true,
}

// Store persists uploaded images and resolves their public URLs.
type Store interface {
	// Save writes the upload and returns its stored name.
	Save(ctx context.Context, fh *multipart.FileHeader) (string, error)
	// Delete removes a stored image. A missing image is not an error.
	Delete(ctx context.Context, name string) error
	// URL returns the public URL of name. baseURL is the scheme and host
	// the request arrived on; backends with their own public origin ignore it.
	URL(baseURL, name string) string
}

// Allowed reports whether filename carries an accepted image extension.
func Allowed(filename string) bool {
	return allowedExt[strings.ToLower(filepath.Ext(filename))]
}

// newName generates the stored name for an upload, keeping its extension.
func newName(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExt[ext] {
		return "", ErrUnsupportedType
	}
	return uuid.NewString() + ext, nil
}

// NameFromURL extracts the stored name from a persisted image URL.
func NameFromURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	p := raw
	if u, err := url.Parse(raw); err == nil {
		p = u.Path
	}
	name := path.Base(p)
	if name == "." || name == "/" {
		return ""
	}
	return name
}
