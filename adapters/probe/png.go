package probe

import (
	"context"
	"image/png"
	"io"

	"github.com/Skryldev/imagebox/core"
)

// PNG probes PNG headers using the standard library.
type PNG struct{}

func NewPNG() *PNG { return &PNG{} }

func (p *PNG) CanProbe(format core.Format) bool {
	return format == core.FormatPNG
}

func (p *PNG) Probe(ctx context.Context, r io.Reader) (core.Metadata, error) {
	return probeWith(ctx, "png.probe", core.FormatPNG, r, png.DecodeConfig)
}
