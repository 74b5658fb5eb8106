package errors

import (
	"errors"
	"fmt"
)

// Standard application errors
var (
	ErrUnreadableLine     = errors.New("line could not be read")
	ErrInvalidJSON        = errors.New("invalid JSON format")
	ErrNotObject          = errors.New("JSON value is not an object")
	ErrFileNotFound       = errors.New("file not found")
	ErrNoInput            = errors.New("no input provided: please specify a file with -i or pipe JSON lines to stdin")
	ErrUnknownCompression = errors.New("unknown compression")
	ErrInvalidConfig      = errors.New("invalid configuration")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput   ErrorType = "input"
	ErrorTypeParsing ErrorType = "parsing"
	ErrorTypeRecord  ErrorType = "record"
	ErrorTypeConfig  ErrorType = "config"
	ErrorTypeOutput  ErrorType = "output"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for comparison
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// LineError ties an error to the 1-based input line it came from.
type LineError struct {
	Line uint64
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// Unwrap returns wrapped error
func (e *LineError) Unwrap() error {
	return e.Err
}

// AtLine wraps err with the line number it occurred on.
func AtLine(line uint64, err error) error {
	if err == nil {
		return nil
	}
	return &LineError{Line: line, Err: err}
}

// NewInputError creates a new error related to reading input
func NewInputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInput,
		Message: message,
		Err:     err,
	}
}

// NewParsingError creates a new error for a line that is not valid JSON
func NewParsingError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeParsing,
		Message: message,
		Err:     err,
	}
}

// NewRecordError creates a new error for a line whose JSON value is not an object
func NewRecordError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeRecord,
		Message: message,
		Err:     err,
	}
}

// NewConfigError creates a new error related to configuration
func NewConfigError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeConfig,
		Message: message,
		Err:     err,
	}
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeOutput,
		Message: message,
		Err:     err,
	}
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	prefix := ""
	var lineErr *LineError
	if errors.As(err, &lineErr) {
		prefix = fmt.Sprintf("line %d: ", lineErr.Line)
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("%sInput error: %s", prefix, appErr.Message)
		case ErrorTypeParsing:
			return fmt.Sprintf("%sJSON parsing error: %s", prefix, appErr.Message)
		case ErrorTypeRecord:
			return fmt.Sprintf("%sRecord error: %s", prefix, appErr.Message)
		case ErrorTypeConfig:
			return fmt.Sprintf("Configuration error: %s", appErr.Message)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", appErr.Message)
		default:
			return fmt.Sprintf("%sError: %s", prefix, appErr.Message)
		}
	}

	// Handle standard errors
	if errors.Is(err, ErrUnreadableLine) {
		return prefix + "Error: A line could not be read from the input."
	}
	if errors.Is(err, ErrInvalidJSON) {
		return prefix + "Error: The input contains invalid JSON. Please check your JSON syntax."
	}
	if errors.Is(err, ErrNotObject) {
		return prefix + "Error: Each line must contain a JSON object."
	}
	if errors.Is(err, ErrFileNotFound) {
		return "Error: The specified file could not be found. Please check the file path."
	}
	if errors.Is(err, ErrNoInput) {
		return "Error: No input provided. Please specify a file with -i or pipe JSON lines to stdin."
	}

	// Generic error message for unknown errors
	return fmt.Sprintf("Error: %v", err)
}
