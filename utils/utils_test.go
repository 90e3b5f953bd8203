package utils

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00}, "jpeg"},
		{"png", []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, "png"},
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), "webp"},
		{"gif", []byte("GIF89a\x01\x00"), "gif"},
		{"short", []byte{0xFF}, "unknown"},
		{"text", []byte("test image data"), "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat(tt.data))
		})
	}
}

func TestSniffMIME(t *testing.T) {
	assert.Equal(t, "image/jpeg", SniffMIME([]byte{0xFF, 0xD8, 0xFF, 0xE0}))
	assert.Equal(t, "", SniffMIME([]byte("png data")))
}

func TestExtensionFor(t *testing.T) {
	assert.Equal(t, ".jpg", ExtensionFor("image/jpeg"))
	assert.Equal(t, ".jpg", ExtensionFor("IMAGE/JPG"))
	assert.Equal(t, ".png", ExtensionFor("image/png; foo=bar"))
	assert.Equal(t, ".webp", ExtensionFor("image/webp"))
	assert.Equal(t, ".bin", ExtensionFor(""))
}

func TestDrainReader(t *testing.T) {
	src := bytes.Repeat([]byte("abc"), 1000)
	buf, err := DrainReader(context.Background(), bytes.NewReader(src), 7)
	require.NoError(t, err)
	defer ReleaseBuffer(buf)
	assert.Equal(t, src, buf.Bytes())
}

type failingReader struct{ err error }

func (f failingReader) Read([]byte) (int, error) { return 0, f.err }

func TestDrainReader_Error(t *testing.T) {
	boom := errors.New("boom")
	_, err := DrainReader(context.Background(), failingReader{boom}, 0)
	assert.ErrorIs(t, err, boom)
}

func TestDrainReader_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := DrainReader(ctx, bytes.NewReader([]byte("x")), 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLimitedReader(t *testing.T) {
	exact := &LimitedReader{R: bytes.NewReader([]byte("12345")), Max: 5}
	out, err := io.ReadAll(exact)
	require.NoError(t, err)
	assert.Equal(t, "12345", string(out))

	over := &LimitedReader{R: bytes.NewReader([]byte("123456")), Max: 5}
	_, err = io.ReadAll(over)
	assert.ErrorIs(t, err, ErrLimitExceeded)

	unlimited := &LimitedReader{R: bytes.NewReader([]byte("123456"))}
	out, err = io.ReadAll(unlimited)
	require.NoError(t, err)
	assert.Len(t, out, 6)
}
