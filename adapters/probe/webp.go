package probe

import (
	"context"
	"io"

	"github.com/Skryldev/imagebox/core"
	"golang.org/x/image/webp"
)

// WebP probes WebP headers using golang.org/x/image/webp.
// VP8, VP8L and VP8X (extended) headers are understood.
type WebP struct{}

func NewWebP() *WebP { return &WebP{} }

func (w *WebP) CanProbe(format core.Format) bool {
	return format == core.FormatWebP
}

func (w *WebP) Probe(ctx context.Context, r io.Reader) (core.Metadata, error) {
	return probeWith(ctx, "webp.probe", core.FormatWebP, r, webp.DecodeConfig)
}
