package export

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skryldev/imagebox/core"
	apperrors "github.com/Skryldev/imagebox/errors"
)

var _ Exporter = (*Local)(nil)

func TestLocal_Export(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLocal(filepath.Join(dir, "out"), 0)
	require.NoError(t, err)

	blob := &core.Blob{Data: []byte{255, 216, 255, 224}, MimeType: "image/jpeg"}
	path, err := l.Export(context.Background(), "k1", blob)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "out", "k1.jpg"), path)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, blob.Data, got)

	// Overwrite in place.
	blob.Data = []byte{1, 2, 3}
	_, err = l.Export(context.Background(), "k1", blob)
	require.NoError(t, err)
	got, _ = os.ReadFile(path)
	assert.Equal(t, []byte{1, 2, 3}, got)
}

func TestLocal_PathStaysInRoot(t *testing.T) {
	l, err := NewLocal(t.TempDir(), 0)
	require.NoError(t, err)
	p := l.Path("../../etc/passwd", "image/png")
	assert.Equal(t, "passwd.png", filepath.Base(p))
	assert.Equal(t, l.rootDir, filepath.Dir(p))

	assert.Equal(t, "photo.jpeg", filepath.Base(l.Path("photo.jpeg", "image/png")))
}

func TestLocal_PathDottedNames(t *testing.T) {
	l, err := NewLocal(t.TempDir(), 0)
	require.NoError(t, err)

	tests := []struct {
		name, mime, want string
	}{
		{"img.1", "image/jpeg", "img.1.jpg"},
		{"img.1-original", "image/png", "img.1-original.png"},
		{"v1.2.3-processed", "image/webp", "v1.2.3-processed.webp"},
		{"k1.png", "image/png", "k1.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, filepath.Base(l.Path(tt.name, tt.mime)))
		})
	}
}

func TestLocal_ExportErrors(t *testing.T) {
	l, err := NewLocal(t.TempDir(), 0)
	require.NoError(t, err)

	_, err = l.Export(context.Background(), "x", nil)
	assert.True(t, apperrors.IsCategory(err, apperrors.CategoryExport))

	_, err = l.Export(context.Background(), " ", &core.Blob{})
	assert.ErrorIs(t, err, apperrors.ErrEmptyInput)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Export(ctx, "x", &core.Blob{})
	assert.ErrorIs(t, err, context.Canceled)
}
