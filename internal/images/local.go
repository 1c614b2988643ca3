package images

import (
	"context"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// LocalStore keeps images in a directory served under /uploads.
type LocalStore struct {
	dir string
}

var _ Store = (*LocalStore)(nil)

// NewLocalStore creates dir if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create upload dir %s", dir)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Dir() string { return s.dir }

func (s *LocalStore) Save(_ context.Context, fh *multipart.FileHeader) (string, error) {
	name, err := newName(fh.Filename)
	if err != nil {
		return "", err
	}

	src, err := fh.Open()
	if err != nil {
		return "", errors.Wrap(err, "open upload")
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", errors.Wrap(err, "create image file")
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(dst.Name())
		return "", errors.Wrap(err, "write image file")
	}
	if err := dst.Close(); err != nil {
		return "", errors.Wrap(err, "close image file")
	}
	return name, nil
}

func (s *LocalStore) Delete(_ context.Context, name string) error {
	if name == "" || name != filepath.Base(name) {
		return errors.Errorf("invalid image name %q", name)
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "remove image %s", name)
	}
	return nil
}

func (s *LocalStore) URL(baseURL, name string) string {
	return strings.TrimRight(baseURL, "/") + "/uploads/" + name
}
