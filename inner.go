package imagebox

import "github.com/Skryldev/imagebox/core"

// Registry exposes the prober registry for advanced use (e.g. replacing a
// built-in probe in tests). Prefer RegisterProber for normal usage.
func (b *Box) Registry() core.Registry { return b.reg }
