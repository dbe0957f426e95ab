// Package errors provides standardized error types and helpers for verse segmentation.
package errors

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Sentinel errors for common cases
var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates invalid input or validation failure
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnsupported indicates an unsupported operation or format
	ErrUnsupported = errors.New("unsupported")

	// ErrInvalidVerseNumber indicates a verse-number run whose text has no usable number
	ErrInvalidVerseNumber = errors.New("invalid verse number")
	// ErrInvalidChapterNumber indicates a chapter-number run whose text has no usable number
	ErrInvalidChapterNumber = errors.New("invalid chapter number")
	// ErrParagraphContentChanged indicates a paragraph was mutated while a scan was in progress
	ErrParagraphContentChanged = errors.New("paragraph content changed")
	// ErrNilParagraph indicates a segmenter was started without a paragraph
	ErrNilParagraph = errors.New("nil paragraph")
)

// NumberRunError reports a chapter or verse number run that could not be parsed.
type NumberRunError struct {
	Kind string // "verse" or "chapter"
	Text string // Run text as found in the paragraph
	Err  error  // Underlying error, if any
}

func (e *NumberRunError) Error() string {
	return fmt.Sprintf("invalid %s number %q", e.Kind, e.Text)
}

func (e *NumberRunError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	if e.Kind == "chapter" {
		return ErrInvalidChapterNumber
	}
	return ErrInvalidVerseNumber
}

// StaleParagraphError reports a paragraph whose live content no longer matches
// the snapshot a segmenter was started on.
type StaleParagraphError struct {
	ParagraphID uuid.UUID
	CachedLen   int
	CurrentLen  int
}

func (e *StaleParagraphError) Error() string {
	if e.CachedLen != e.CurrentLen {
		return fmt.Sprintf("paragraph %s changed during scan: length %d, was %d", e.ParagraphID, e.CurrentLen, e.CachedLen)
	}
	return fmt.Sprintf("paragraph %s changed during scan", e.ParagraphID)
}

func (e *StaleParagraphError) Unwrap() error {
	return ErrParagraphContentChanged
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string // Field name that failed validation
	Value   string // Value that failed validation (may be redacted)
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// IOError represents an I/O operation error with context
type IOError struct {
	Operation string // Operation being performed (e.g., "read", "write", "open")
	Path      string // File/resource path involved
	Err       error  // Underlying error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ParseError represents a parsing or deserialization error
type ParseError struct {
	Format  string // Format being parsed (e.g., "USX", "USFM", "styles")
	Path    string // File path, if applicable
	Message string // Error details
	Err     error  // Underlying error, if any
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to parse %s at %s: %s", e.Format, e.Path, e.Message)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// UnsupportedError represents an unsupported feature or format
type UnsupportedError struct {
	Feature string // Feature or format that is unsupported
	Reason  string // Why it's not supported
	Err     error  // Underlying error, if any
}

func (e *UnsupportedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unsupported %s: %s", e.Feature, e.Reason)
	}
	return fmt.Sprintf("unsupported %s", e.Feature)
}

func (e *UnsupportedError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrUnsupported
}

// Helper functions for creating common errors

// NewVerseNumber creates a NumberRunError for a verse-number run
func NewVerseNumber(text string, err error) *NumberRunError {
	return &NumberRunError{Kind: "verse", Text: text, Err: err}
}

// NewChapterNumber creates a NumberRunError for a chapter-number run
func NewChapterNumber(text string, err error) *NumberRunError {
	return &NumberRunError{Kind: "chapter", Text: text, Err: err}
}

// NewValidation creates a ValidationError
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// NewIO creates an IOError
func NewIO(operation, path string, err error) *IOError {
	return &IOError{
		Operation: operation,
		Path:      path,
		Err:       err,
	}
}

// NewParse creates a ParseError
func NewParse(format, path, message string) *ParseError {
	return &ParseError{
		Format:  format,
		Path:    path,
		Message: message,
	}
}

// NewUnsupported creates an UnsupportedError
func NewUnsupported(feature, reason string) *UnsupportedError {
	return &UnsupportedError{
		Feature: feature,
		Reason:  reason,
	}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
