package convert

import (
	"errors"
	"fmt"
)

// Validation kinds. Use errors.Is against a *ValidationError.
var (
	ErrMissingFile    = errors.New("convert: missing file")
	ErrWrongExtension = errors.New("convert: wrong extension")
	ErrTooLarge       = errors.New("convert: file too large")
)

// ValidationError is a caller-correctable rejection of the upload. Message
// is safe to show to the end user.
type ValidationError struct {
	Kind    error
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return e.Kind }

// ErrorCode is the MCP tool error code for rejected uploads.
func (e *ValidationError) ErrorCode() string { return "invalid_input" }

func missingFile() error {
	return &ValidationError{Kind: ErrMissingFile, Message: "No se proporcionó archivo"}
}

func wrongExtension() error {
	return &ValidationError{Kind: ErrWrongExtension, Message: "Archivo debe ser un PDF"}
}

// TooLarge reports an upload exceeding limit bytes.
func TooLarge(limit int64) error {
	return &ValidationError{
		Kind:    ErrTooLarge,
		Message: fmt.Sprintf("Archivo demasiado grande (máximo %d MB)", limit>>20),
	}
}

// ConversionError wraps a failure of the extraction or writing stage.
// Error returns the underlying message unchanged.
type ConversionError struct {
	Stage string // "extract" or "write"
	Err   error
}

func (e *ConversionError) Error() string { return e.Err.Error() }

func (e *ConversionError) Unwrap() error { return e.Err }

// ErrorCode is the MCP tool error code for failed conversions.
func (e *ConversionError) ErrorCode() string { return "conversion_failed" }
