// Package errs defines the error taxonomy shared by the subtitle pipeline.
//
// Sentinel errors classify failures; callers match with errors.Is and read
// structured detail from the typed errors below. Strategy-level sync
// failures are carried as result data, not errors — these types cover the
// truly exceptional paths.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrConfiguration   = errors.New("configuration error")
	ErrEncoding        = errors.New("encoding error")
	ErrFormat          = errors.New("subtitle format error")
	ErrSync            = errors.New("subtitle sync error")
	ErrToolNotFound    = errors.New("external tool not found")
	ErrFileOperation   = errors.New("file operation error")
	ErrVideoProcessing = errors.New("video processing error")
)

// Wrap tags err with a sentinel marker and contextual detail. The marker
// should be one of the sentinels above.
func Wrap(marker error, detail string, err error) error {
	if marker == nil {
		marker = ErrFileOperation
	}
	detail = strings.TrimSpace(detail)
	if err != nil {
		if detail == "" {
			return fmt.Errorf("%w: %w", marker, err)
		}
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	if detail == "" {
		return marker
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// SyncError reports a synchronization failure along with whether retrying
// with a different strategy is meaningful.
type SyncError struct {
	Message           string
	FallbackAvailable bool
}

func (e *SyncError) Error() string { return e.Message }

func (e *SyncError) Unwrap() error { return ErrSync }

func NewSyncError(message string, fallbackAvailable bool) *SyncError {
	return &SyncError{Message: message, FallbackAvailable: fallbackAvailable}
}

// ToolNotFoundError reports a missing external dependency with an install
// hint. A fallback strategy is always available when a tool is missing.
type ToolNotFoundError struct {
	Tool        string
	InstallHint string
}

func (e *ToolNotFoundError) Error() string {
	if e.InstallHint != "" {
		return fmt.Sprintf("%s not found. Install with: %s", e.Tool, e.InstallHint)
	}
	return fmt.Sprintf("%s not found", e.Tool)
}

func (e *ToolNotFoundError) Unwrap() error { return ErrToolNotFound }

// FileError tags an I/O failure with the operation and path it belongs to.
type FileError struct {
	Operation string
	Path      string
	Err       error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("file operation %q failed for %s: %v", e.Operation, e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return ErrFileOperation }

func NewFileError(operation, path string, err error) *FileError {
	return &FileError{Operation: operation, Path: path, Err: err}
}
