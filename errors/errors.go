package errors

import (
	"errors"
	"fmt"
)

// Category classifies error types for targeted handling and monitoring.
type Category string

const (
	CategorySource Category = "source" // binary source could not be read
	CategoryDecode Category = "decode" // text form is not a valid data URL
	CategoryInput  Category = "input"
	CategoryStore  Category = "store"
	CategoryConfig Category = "config"
	CategoryExport Category = "export"
	CategoryPool   Category = "pool"
)

// Error is the structured error type used throughout the module.
type Error struct {
	Category Category
	Op       string // operation name
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s: %v", e.Category, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an Error.
func New(category Category, op string, err error) *Error {
	return &Error{Category: category, Op: op, Err: err}
}

// Wrap wraps an existing error with context. A nil err stays nil.
func Wrap(category Category, op string, err error) error {
	if err == nil {
		return nil
	}
	return New(category, op, err)
}

// IsCategory reports whether err belongs to the given category.
func IsCategory(err error, cat Category) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Category == cat
	}
	return false
}

// CategoryOf returns the category of err, or "" when err is not an *Error.
func CategoryOf(err error) Category {
	var e *Error
	if errors.As(err, &e) {
		return e.Category
	}
	return ""
}

// Sentinel errors for common failure modes.
var (
	ErrEmptyInput        = errors.New("empty input")
	ErrMalformedDataURL  = errors.New("malformed data url: missing payload")
	ErrInvalidBase64     = errors.New("invalid base64 payload")
	ErrTooLarge          = errors.New("image exceeds size limit")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrNotFound          = errors.New("image not found")
	ErrIDExhausted       = errors.New("could not generate an unused id")
	ErrQueueFull         = errors.New("encode queue full")
	ErrClosed            = errors.New("codec stopped")
)
