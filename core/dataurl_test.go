package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Skryldev/imagebox/errors"
)

func TestFormatDataURL(t *testing.T) {
	assert.Equal(t, "data:image/jpeg;base64,dGVzdCBpbWFnZSBkYXRh",
		FormatDataURL("image/jpeg", []byte("test image data")))
	assert.Equal(t, "data:image/png;base64,cG5nIGRhdGE=",
		FormatDataURL("image/png", []byte("png data")))
	assert.Equal(t, "data:;base64,", FormatDataURL("", nil))
}

func TestSplitDataURL(t *testing.T) {
	tests := []struct {
		in      string
		mime    string
		payload string
		ok      bool
	}{
		{"data:image/jpeg;base64,AAAA", "image/jpeg", "AAAA", true},
		{"data:;base64,dGVzdA==", "", "dGVzdA==", true},
		{"data:image/png,AAAA", "", "AAAA", true},
		{"image/png;base64,AAAA", "", "AAAA", true},
		{"data:a;b:c;base64,AA,BB", "a", "AA,BB", true},
		{"data:image/svg+xml;charset=utf-8;base64,AA", "image/svg+xml", "AA", true},
		{"data:image/jpeg;base64", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			mime, payload, ok := SplitDataURL(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.mime, mime)
			assert.Equal(t, tt.payload, payload)
		})
	}
}

func TestParseDataURL(t *testing.T) {
	blob, err := ParseDataURL("data:image/jpeg;base64,dGVzdCBpbWFnZSBkYXRh")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", blob.MimeType)
	assert.Equal(t, len("test image data"), blob.Size())
	assert.Equal(t, "test image data", string(blob.Data))
}

func TestParseDataURL_EmptyMIME(t *testing.T) {
	blob, err := ParseDataURL("data:;base64,dGVzdA==")
	require.NoError(t, err)
	assert.Equal(t, "", blob.MimeType)
	assert.Equal(t, []byte("test"), blob.Data)
}

func TestParseDataURL_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		is   error
	}{
		{"invalid characters", "data:image/jpeg;base64,not-valid-base64!!", apperrors.ErrInvalidBase64},
		{"dash in payload", "data:image/jpeg;base64,invalid-base64-data", apperrors.ErrInvalidBase64},
		{"bad padding", "data:image/jpeg;base64,dGVzdA=", apperrors.ErrInvalidBase64},
		{"unpadded", "data:image/jpeg;base64,dGVzdA", apperrors.ErrInvalidBase64},
		{"embedded space", "data:image/jpeg;base64,dGVz dA==", apperrors.ErrInvalidBase64},
		{"no comma", "data:image/jpeg;base64", apperrors.ErrMalformedDataURL},
		{"empty", "", apperrors.ErrMalformedDataURL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blob, err := ParseDataURL(tt.in)
			require.Error(t, err)
			assert.Nil(t, blob)
			assert.ErrorIs(t, err, tt.is)
			assert.True(t, apperrors.IsCategory(err, apperrors.CategoryDecode))
		})
	}
}

// Line breaks are skipped by encoding/base64, so wrapped payloads still decode.
func TestParseDataURL_LineBreaks(t *testing.T) {
	blob, err := ParseDataURL("data:image/jpeg;base64,dGVz\r\ndA==")
	require.NoError(t, err)
	assert.Equal(t, []byte("test"), blob.Data)
}

func TestRecordHelpers(t *testing.T) {
	r := Record{ID: "a", OriginalImage: "orig"}
	assert.False(t, r.HasProcessed())
	assert.Equal(t, "orig", r.Latest())

	p := "proc"
	r.ProcessedImage = &p
	assert.True(t, r.HasProcessed())
	assert.Equal(t, "proc", r.Latest())
}
