// Package checkederrs provides the structured error taxonomy for the
// pagedfile checksum-protected paged file abstraction.
package checkederrs

import (
	"errors"
	"fmt"
)

// Sentinel errors for the eight error kinds. Structured error types below
// Unwrap to these so callers can use errors.Is without caring which
// structured type produced the error.
var (
	// ErrOpenFailed indicates a backend could not be opened.
	ErrOpenFailed = errors.New("open failed")
	// ErrSeekFailed indicates a seek on the backend failed.
	ErrSeekFailed = errors.New("seek failed")
	// ErrReadFailed indicates a physical page read failed.
	ErrReadFailed = errors.New("read failed")
	// ErrWriteFailed indicates a physical page write failed.
	ErrWriteFailed = errors.New("write failed")
	// ErrCloseFailed indicates closing the backend failed.
	ErrCloseFailed = errors.New("close failed")
	// ErrBadChecksum indicates a stored page checksum did not match.
	ErrBadChecksum = errors.New("bad checksum")
	// ErrFileReadOnly indicates a write was attempted on a read-only file.
	ErrFileReadOnly = errors.New("file is read-only")
	// ErrInternal indicates an invariant was violated.
	ErrInternal = errors.New("internal error")
)

// OpenFailedError is returned when Open or OpenMemory cannot establish a
// usable backend.
type OpenFailedError struct {
	FileName string
	Mode     string
	Err      error
}

func (e *OpenFailedError) Error() string {
	return fmt.Sprintf("open %s (mode %s): %v", e.FileName, e.Mode, e.Unwrap())
}

func (e *OpenFailedError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrOpenFailed
}

// SeekFailedError is returned when a backend seek fails.
type SeekFailedError struct {
	FileName string
	Offset   int64
	Whence   int
	Err      error
}

func (e *SeekFailedError) Error() string {
	return fmt.Sprintf("seek %s to offset %d (whence %d): %v", e.FileName, e.Offset, e.Whence, e.Err)
}

func (e *SeekFailedError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrSeekFailed
}

// ReadFailedError is returned when a physical page read fails.
type ReadFailedError struct {
	FileName string
	Page     uint64
	Length   int
	Err      error
}

func (e *ReadFailedError) Error() string {
	return fmt.Sprintf("read %s page %d (%d bytes): %v", e.FileName, e.Page, e.Length, e.Err)
}

func (e *ReadFailedError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrReadFailed
}

// WriteFailedError is returned when a physical page write fails.
type WriteFailedError struct {
	FileName string
	Page     uint64
	Length   int
	Err      error
}

func (e *WriteFailedError) Error() string {
	return fmt.Sprintf("write %s page %d (%d bytes): %v", e.FileName, e.Page, e.Length, e.Err)
}

func (e *WriteFailedError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrWriteFailed
}

// CloseFailedError is returned when closing the backend fails.
type CloseFailedError struct {
	FileName string
	Err      error
}

func (e *CloseFailedError) Error() string {
	return fmt.Sprintf("close %s: %v", e.FileName, e.Err)
}

func (e *CloseFailedError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrCloseFailed
}

// BadChecksumError is returned when a stored page checksum does not match
// the checksum computed over the page's data bytes.
type BadChecksumError struct {
	FileName string
	Page     uint64
	Length   uint64
	Computed uint32
	Stored   uint32
}

func (e *BadChecksumError) Error() string {
	return fmt.Sprintf("bad checksum in %s at page %d (file length %d): computed 0x%08x, stored 0x%08x",
		e.FileName, e.Page, e.Length, e.Computed, e.Stored)
}

func (e *BadChecksumError) Unwrap() error {
	return ErrBadChecksum
}

// FileReadOnlyError is returned when a write or extend is attempted on a
// file opened for reading only.
type FileReadOnlyError struct {
	FileName  string
	Operation string
}

func (e *FileReadOnlyError) Error() string {
	return fmt.Sprintf("cannot %s %s: file is read-only", e.Operation, e.FileName)
}

func (e *FileReadOnlyError) Unwrap() error {
	return ErrFileReadOnly
}

// InternalError is returned when an invariant of the paged file abstraction
// is violated (e.g. a read would run past the logical length, or a buffer is
// shorter than the requested read or write length).
type InternalError struct {
	FileName string
	Message  string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error in %s: %s", e.FileName, e.Message)
}

func (e *InternalError) Unwrap() error {
	return ErrInternal
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

// Is wraps errors.Is for convenience.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
