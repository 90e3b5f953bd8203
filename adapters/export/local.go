// Package export provides sinks that receive decoded images for saving.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Skryldev/imagebox/core"
	apperrors "github.com/Skryldev/imagebox/errors"
	"github.com/Skryldev/imagebox/utils"
)

// Exporter receives a decoded blob under a logical name and returns where it
// was written.
type Exporter interface {
	Export(ctx context.Context, name string, blob *core.Blob) (string, error)
}

// Local stores exported images on the local filesystem.
type Local struct {
	rootDir     string
	permissions os.FileMode
}

// NewLocal creates a Local export sink rooted at dir.
func NewLocal(dir string, perm os.FileMode) (*Local, error) {
	if perm == 0 {
		perm = 0o644
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("local export: mkdir %s: %w", dir, err)
	}
	return &Local{rootDir: dir, permissions: perm}, nil
}

// Path returns the file path name would be written to for mimeType. The
// extension for mimeType is appended unless name already ends in a known
// media extension, so dotted ids like "img.1" still get one.
func (l *Local) Path(name, mimeType string) string {
	base := filepath.Base(filepath.Clean("/" + name))
	if want := utils.ExtensionFor(mimeType); !hasImageExt(base, want) {
		base += want
	}
	return filepath.Join(l.rootDir, base)
}

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true}

func hasImageExt(name, want string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext != "" && (imageExts[ext] || ext == want)
}

// Export writes blob to <root>/<name><ext>, replacing any existing file.
func (l *Local) Export(ctx context.Context, name string, blob *core.Blob) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", apperrors.Wrap(apperrors.CategoryExport, "local.export", err)
	}
	if blob == nil {
		return "", apperrors.New(apperrors.CategoryExport, "local.export", apperrors.ErrEmptyInput)
	}
	if strings.TrimSpace(name) == "" {
		return "", apperrors.New(apperrors.CategoryExport, "local.export", fmt.Errorf("empty name: %w", apperrors.ErrEmptyInput))
	}

	path := l.Path(name, blob.MimeType)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, blob.Data, l.permissions); err != nil {
		return "", apperrors.Wrap(apperrors.CategoryExport, "local.export.write", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", apperrors.Wrap(apperrors.CategoryExport, "local.export.rename", err)
	}
	return path, nil
}
