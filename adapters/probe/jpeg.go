// Package probe provides format-specific header probes. They read only the
// image configuration block and never decode pixel data.
package probe

import (
	"context"
	"image"
	"image/jpeg"
	"io"

	"github.com/Skryldev/imagebox/core"
	apperrors "github.com/Skryldev/imagebox/errors"
)

// JPEG probes JPEG headers using the standard library.
type JPEG struct{}

// NewJPEG returns a JPEG prober.
func NewJPEG() *JPEG { return &JPEG{} }

func (j *JPEG) CanProbe(format core.Format) bool {
	return format == core.FormatJPEG
}

func (j *JPEG) Probe(ctx context.Context, r io.Reader) (core.Metadata, error) {
	return probeWith(ctx, "jpeg.probe", core.FormatJPEG, r, jpeg.DecodeConfig)
}

// probeWith runs a DecodeConfig function and maps the result to core.Metadata.
func probeWith(
	ctx context.Context,
	op string,
	format core.Format,
	r io.Reader,
	decodeConfig func(io.Reader) (image.Config, error),
) (core.Metadata, error) {
	if err := ctx.Err(); err != nil {
		return core.Metadata{}, apperrors.Wrap(apperrors.CategoryDecode, op, err)
	}
	cfg, err := decodeConfig(r)
	if err != nil {
		return core.Metadata{}, apperrors.Wrap(apperrors.CategoryDecode, op, err)
	}
	return core.Metadata{
		Width:  cfg.Width,
		Height: cfg.Height,
		Format: format,
	}, nil
}
