package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat means the document extension and sniffed MIME type
	// both fall outside the supported set.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrCorruptDocument means the payload claims a supported format but
	// cannot be opened by its reader.
	ErrCorruptDocument = errors.New("corrupt document")

	// ErrEmptyDocument means the document opened cleanly but produced no
	// content at all.
	ErrEmptyDocument = errors.New("empty document")

	// ErrNoFinancialContent means the document content carries no financial
	// signal worth sending to extraction.
	ErrNoFinancialContent = errors.New("no financial content detected")

	// ErrFileTooLarge means the upload exceeds the configured size limit.
	ErrFileTooLarge = errors.New("file exceeds size limit")

	// ErrExtractionFailed means every extraction attempt was exhausted
	// without a usable result.
	ErrExtractionFailed = errors.New("extraction failed after all attempts")
)

// ReadError wraps a reader failure with the file it came from.
type ReadError struct {
	FileName string
	Err      error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.FileName, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }
