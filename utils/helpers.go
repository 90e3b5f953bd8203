package utils

import (
	"bytes"
	"mime"
	"net/http"
	"strings"
)

const (
	formatJPEG    = "jpeg"
	formatPNG     = "png"
	formatWebP    = "webp"
	formatGIF     = "gif"
	formatUnknown = "unknown"
)

// DetectFormat sniffs the leading bytes of data and returns the image format.
func DetectFormat(data []byte) string {
	if len(data) < 4 {
		return formatUnknown
	}
	// JPEG: FF D8 FF
	if data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF {
		return formatJPEG
	}
	// PNG: 89 50 4E 47
	if data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4E && data[3] == 0x47 {
		return formatPNG
	}
	// WebP: RIFF....WEBP
	if len(data) >= 12 &&
		data[0] == 'R' && data[1] == 'I' && data[2] == 'F' && data[3] == 'F' &&
		data[8] == 'W' && data[9] == 'E' && data[10] == 'B' && data[11] == 'P' {
		return formatWebP
	}
	if bytes.HasPrefix(data, []byte("GIF87a")) || bytes.HasPrefix(data, []byte("GIF89a")) {
		return formatGIF
	}
	// Fallback to net/http sniffing.
	switch http.DetectContentType(data) {
	case "image/jpeg":
		return formatJPEG
	case "image/png":
		return formatPNG
	case "image/webp":
		return formatWebP
	case "image/gif":
		return formatGIF
	}
	return formatUnknown
}

// SniffMIME returns the image MIME type for data, or "" when the bytes are
// not a recognised image.
func SniffMIME(data []byte) string {
	f := DetectFormat(data)
	if f == formatUnknown {
		return ""
	}
	return "image/" + f
}

// FormatFromMIME maps a MIME type to a format name. Parameters such as
// "; charset=" are ignored.
func FormatFromMIME(mimeType string) string {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	switch mt {
	case "image/jpeg", "image/jpg", "image/pjpeg":
		return formatJPEG
	case "image/png":
		return formatPNG
	case "image/webp":
		return formatWebP
	case "image/gif":
		return formatGIF
	}
	return formatUnknown
}

// ExtensionFor returns a file extension (with the leading dot) for a MIME
// type. Unknown types get ".bin".
func ExtensionFor(mimeType string) string {
	switch FormatFromMIME(mimeType) {
	case formatJPEG:
		return ".jpg"
	case formatPNG:
		return ".png"
	case formatWebP:
		return ".webp"
	case formatGIF:
		return ".gif"
	}
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}

// CloneBytes returns a copy of b (safe for use after the source buffer is released).
func CloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// BytesReader creates an io.Reader backed by b without allocation.
func BytesReader(b []byte) *bytes.Reader {
	return bytes.NewReader(b)
}
