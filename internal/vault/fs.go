package vault

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// FS implements Vault on top of an afero filesystem. Production wiring passes
// afero.NewOsFs() rooted at the library directory; tests pass a MemMapFs.
type FS struct {
	fs   afero.Fs
	root string
}

// NewFS creates a filesystem-backed vault rooted at root.
func NewFS(fs afero.Fs, root string) *FS {
	return &FS{fs: fs, root: root}
}

func (v *FS) resolve(path string) string {
	return filepath.Join(v.root, filepath.FromSlash(path))
}

func (v *FS) Read(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := afero.ReadFile(v.fs, v.resolve(path))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func (v *FS) Write(ctx context.Context, path string, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full := v.resolve(path)
	if err := v.fs.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create parent of %s: %w", path, err)
	}
	if err := afero.WriteFile(v.fs, full, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func (v *FS) Exists(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	ok, err := afero.Exists(v.fs, v.resolve(path))
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	return ok, nil
}

func (v *FS) ModTime(ctx context.Context, path string) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	info, err := v.fs.Stat(v.resolve(path))
	if err != nil {
		return time.Time{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return info.ModTime(), nil
}

func (v *FS) CreateFolder(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := v.fs.MkdirAll(v.resolve(path), 0o755); err != nil {
		return fmt.Errorf("create folder %s: %w", path, err)
	}
	return nil
}
