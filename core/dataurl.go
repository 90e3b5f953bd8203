package core

import (
	"encoding/base64"
	"strings"

	apperrors "github.com/Skryldev/imagebox/errors"
)

// DefaultMIME is used when a source declares no media type and none can be
// sniffed, matching what browsers emit for untyped blobs.
const DefaultMIME = "application/octet-stream"

const (
	dataScheme   = "data:"
	base64Marker = ";base64,"
)

// FormatDataURL renders data as data:<mimeType>;base64,<payload>.
func FormatDataURL(mimeType string, data []byte) string {
	var sb strings.Builder
	sb.Grow(len(dataScheme) + len(mimeType) + len(base64Marker) + base64.StdEncoding.EncodedLen(len(data)))
	sb.WriteString(dataScheme)
	sb.WriteString(mimeType)
	sb.WriteString(base64Marker)
	sb.WriteString(base64.StdEncoding.EncodeToString(data))
	return sb.String()
}

// SplitDataURL splits s on its first comma. The MIME type is the text between
// the first ':' of the header and the next ';' after it, or "" when the header
// carries none. ok is false when there is no comma and so no payload.
func SplitDataURL(s string) (mimeType, payload string, ok bool) {
	header, payload, ok := strings.Cut(s, ",")
	if !ok {
		return "", "", false
	}
	return headerMIME(header), payload, true
}

func headerMIME(header string) string {
	colon := strings.IndexByte(header, ':')
	if colon < 0 {
		return ""
	}
	rest := header[colon+1:]
	semi := strings.IndexByte(rest, ';')
	if semi < 0 {
		return ""
	}
	return rest[:semi]
}

// ParseDataURL decodes a data URL into a Blob. The payload must be padded
// standard base64 (line breaks are skipped); anything else is a decode error
// and no partial blob is returned.
func ParseDataURL(s string) (*Blob, error) {
	mimeType, payload, ok := SplitDataURL(s)
	if !ok {
		return nil, apperrors.New(apperrors.CategoryDecode, "dataurl.parse", apperrors.ErrMalformedDataURL)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, apperrors.New(apperrors.CategoryDecode, "dataurl.base64",
			&payloadError{cause: err})
	}
	return &Blob{Data: data, MimeType: mimeType}, nil
}

// payloadError ties a base64 failure to ErrInvalidBase64 while keeping the
// offset reported by encoding/base64.
type payloadError struct{ cause error }

func (e *payloadError) Error() string {
	return apperrors.ErrInvalidBase64.Error() + ": " + e.cause.Error()
}

func (e *payloadError) Unwrap() []error { return []error{apperrors.ErrInvalidBase64, e.cause} }
