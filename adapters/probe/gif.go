package probe

import (
	"context"
	"image/gif"
	"io"

	"github.com/Skryldev/imagebox/core"
)

// GIF probes GIF logical screen dimensions.
type GIF struct{}

func NewGIF() *GIF { return &GIF{} }

func (g *GIF) CanProbe(format core.Format) bool {
	return format == core.FormatGIF
}

func (g *GIF) Probe(ctx context.Context, r io.Reader) (core.Metadata, error) {
	return probeWith(ctx, "gif.probe", core.FormatGIF, r, gif.DecodeConfig)
}
