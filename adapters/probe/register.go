package probe

import "github.com/Skryldev/imagebox/core"

// RegisterDefaults registers the built-in probes on reg.
func RegisterDefaults(reg core.Registry) {
	reg.RegisterProber(core.FormatJPEG, NewJPEG())
	reg.RegisterProber(core.FormatPNG, NewPNG())
	reg.RegisterProber(core.FormatGIF, NewGIF())
	reg.RegisterProber(core.FormatWebP, NewWebP())
}
