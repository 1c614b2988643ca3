package images

import (
	"context"
	"mime/multipart"

	"go.uber.org/zap"
)

// Delta tracks the files one record write touches. Added holds names written
// for the request, Stale holds names the previous version referenced and the
// new one drops. Rollback undoes Added after a failed write; Commit purges
// Stale after a successful one. Neither returns errors: failures are logged
// and the files are left behind.
type Delta struct {
	store Store
	log   *zap.Logger

	Added []string
	Stale []string
}

func NewDelta(store Store, log *zap.Logger) *Delta {
	if log == nil {
		log = zap.NewNop()
	}
	return &Delta{store: store, log: log}
}

// Save writes fh through the store and records it as added.
func (d *Delta) Save(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	name, err := d.store.Save(ctx, fh)
	if err != nil {
		return "", err
	}
	d.Added = append(d.Added, name)
	return name, nil
}

// SaveAll writes every file and stops at the first failure. Files already
// written stay in Added for Rollback.
func (d *Delta) SaveAll(ctx context.Context, files []*multipart.FileHeader) ([]string, error) {
	names := make([]string, 0, len(files))
	for _, fh := range files {
		name, err := d.Save(ctx, fh)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

// Replace marks the images behind urls as stale.
func (d *Delta) Replace(urls ...string) {
	for _, u := range urls {
		if name := NameFromURL(u); name != "" {
			d.Stale = append(d.Stale, name)
		}
	}
}

// Rollback removes every added file.
func (d *Delta) Rollback(ctx context.Context) {
	d.purge(ctx, d.Added, "rollback")
	d.Added = nil
}

// Commit removes every stale file.
func (d *Delta) Commit(ctx context.Context) {
	d.purge(ctx, d.Stale, "commit")
	d.Stale = nil
}

func (d *Delta) purge(ctx context.Context, names []string, phase string) {
	for _, name := range names {
		if err := d.store.Delete(ctx, name); err != nil {
			d.log.Warn("image cleanup failed",
				zap.String("phase", phase),
				zap.String("image", name),
				zap.Error(err),
			)
		}
	}
}
