package probe

import (
	"bytes"
	"context"
	"encoding/binary"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skryldev/imagebox/core"
	apperrors "github.com/Skryldev/imagebox/errors"
)

func solid(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 50, B: 50, A: 255})
		}
	}
	return img
}

// losslessWebPHeader builds a RIFF/VP8L stream carrying only the header
// needed by DecodeConfig.
func losslessWebPHeader(w, h int) []byte {
	bits := uint32(w-1) | uint32(h-1)<<14
	chunk := make([]byte, 5)
	chunk[0] = 0x2f
	binary.LittleEndian.PutUint32(chunk[1:], bits)
	chunk = append(chunk, 0) // pad to even length

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(4+8+len(chunk)))
	buf.WriteString("WEBPVP8L")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(5))
	buf.Write(chunk)
	return buf.Bytes()
}

func TestProbe(t *testing.T) {
	var jpg, pn, gf bytes.Buffer
	require.NoError(t, jpeg.Encode(&jpg, solid(32, 16), &jpeg.Options{Quality: 80}))
	require.NoError(t, png.Encode(&pn, solid(7, 9)))
	require.NoError(t, gif.Encode(&gf, solid(5, 4), nil))

	tests := []struct {
		name   string
		prober core.Prober
		format core.Format
		data   []byte
		w, h   int
	}{
		{"jpeg", NewJPEG(), core.FormatJPEG, jpg.Bytes(), 32, 16},
		{"png", NewPNG(), core.FormatPNG, pn.Bytes(), 7, 9},
		{"gif", NewGIF(), core.FormatGIF, gf.Bytes(), 5, 4},
		{"webp", NewWebP(), core.FormatWebP, losslessWebPHeader(4, 3), 4, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.True(t, tt.prober.CanProbe(tt.format))
			meta, err := tt.prober.Probe(context.Background(), bytes.NewReader(tt.data))
			require.NoError(t, err)
			assert.Equal(t, tt.w, meta.Width)
			assert.Equal(t, tt.h, meta.Height)
			assert.Equal(t, tt.format, meta.Format)
		})
	}
}

func TestProbe_Garbage(t *testing.T) {
	_, err := NewPNG().Probe(context.Background(), bytes.NewReader([]byte("png data")))
	require.Error(t, err)
	assert.True(t, apperrors.IsCategory(err, apperrors.CategoryDecode))
}

func TestProbe_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewJPEG().Probe(ctx, bytes.NewReader(nil))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRegisterDefaults(t *testing.T) {
	reg := core.NewRegistry()
	RegisterDefaults(reg)
	for _, f := range []core.Format{core.FormatJPEG, core.FormatPNG, core.FormatGIF, core.FormatWebP} {
		p, ok := reg.ProberFor(f)
		require.True(t, ok, f)
		assert.True(t, p.CanProbe(f))
	}
	_, ok := reg.ProberFor(core.FormatUnknown)
	assert.False(t, ok)
}
