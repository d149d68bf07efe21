package pagedfile

import (
	"fmt"

	"github.com/mjpearson/pagedfile/core/checkederrs"
	"github.com/mjpearson/pagedfile/internal/logging"
)

// Mode selects whether Open opens a file for reading only or for reading
// and writing.
type Mode int

const (
	// ModeRead opens a file read-only.
	ModeRead Mode = iota
	// ModeReadWrite opens a file for reading and writing, creating it if
	// it does not already exist.
	ModeReadWrite
)

func (m Mode) String() string {
	if m == ModeRead {
		return "r"
	}
	return "rw"
}

// OffsetMode selects whether an offset or length is expressed in physical
// bytes (including page checksums) or logical bytes (the data stream a
// caller sees).
type OffsetMode int

const (
	// Physical offsets/lengths count every byte on disk, including
	// per-page checksums.
	Physical OffsetMode = iota
	// Logical offsets/lengths count only data bytes, as seen by a
	// caller of Read/Write.
	Logical
)

// CheckedFile presents a contiguous, checksum-verified logical byte stream
// over a page-structured Backend. It is not safe for concurrent use by
// multiple goroutines; callers needing concurrent access must serialize
// their own calls.
type CheckedFile struct {
	backend       Backend
	fileName      string
	readOnly      bool
	policy        ChecksumPolicy
	logicalLength uint64
	physPos       uint64
}

// Open opens name as a file-backed CheckedFile. ModeReadWrite creates the
// file if it does not exist; an existing file's logical length is derived
// from its current physical size.
func Open(name string, mode Mode, policy ChecksumPolicy) (*CheckedFile, error) {
	readOnly := mode == ModeRead
	fb, err := openFileBackend(name, readOnly)
	if err != nil {
		return nil, &checkederrs.OpenFailedError{FileName: name, Mode: mode.String(), Err: err}
	}
	cf, err := newCheckedFile(fb, name, readOnly, policy)
	if err != nil {
		_ = fb.Close()
		return nil, err
	}
	logging.BackendOpened(name, "file", mode.String())
	return cf, nil
}

// OpenMemory opens buf as a read-only, memory-backed CheckedFile. buf
// remains owned by the caller; CheckedFile never copies, frees, or writes
// to it.
func OpenMemory(buf []byte, policy ChecksumPolicy) (*CheckedFile, error) {
	const name = "<memory>"
	mb := newMemoryBackend(buf, name)
	cf, err := newCheckedFile(mb, name, true, policy)
	if err != nil {
		return nil, err
	}
	logging.BackendOpened(name, "memory", "r")
	return cf, nil
}

func newCheckedFile(backend Backend, name string, readOnly bool, policy ChecksumPolicy) (*CheckedFile, error) {
	physLen, err := backend.Length()
	if err != nil {
		return nil, &checkederrs.OpenFailedError{FileName: name, Mode: "stat", Err: err}
	}
	return &CheckedFile{
		backend:       backend,
		fileName:      name,
		readOnly:      readOnly,
		policy:        policy,
		logicalLength: physicalToLogical(physLen),
	}, nil
}

// Position returns the current cursor position, expressed in the given
// offset mode.
func (cf *CheckedFile) Position(mode OffsetMode) uint64 {
	if mode == Logical {
		return physicalToLogical(cf.physPos)
	}
	return cf.physPos
}

// Length returns the file's current length, expressed in the given offset
// mode.
func (cf *CheckedFile) Length(mode OffsetMode) uint64 {
	if mode == Logical {
		return cf.logicalLength
	}
	return logicalSizeToPhysicalSize(cf.logicalLength)
}

// logicalSizeToPhysicalSize returns the physical byte count occupied by a
// stream of the given logical length: one full PhysicalPageSize per
// (possibly partial) logical page.
func logicalSizeToPhysicalSize(logicalLen uint64) uint64 {
	if logicalLen == 0 {
		return 0
	}
	pages := (logicalLen + LogicalPageSize - 1) / LogicalPageSize
	return pages * PhysicalPageSize
}

// Seek moves the cursor and returns its new position in the requested
// mode. Unlike the backend's internal cursor (see MemoryBackend's Seek),
// this follows standard io.Seeker semantics: for SeekEnd, offset is added
// to the length and so should be zero or negative to stay in range. No
// bounds check against the logical length is enforced here: a caller may
// legitimately seek past end before an Extend or Write grows the file.
func (cf *CheckedFile) Seek(offset int64, whence SeekWhence, mode OffsetMode) (uint64, error) {
	length := cf.Length(mode)

	var base int64
	switch whence {
	case SeekStart:
		base = 0
	case SeekCurrent:
		base = int64(cf.Position(mode))
	case SeekEnd:
		base = int64(length)
	default:
		return 0, &checkederrs.SeekFailedError{
			FileName: cf.fileName, Offset: offset, Whence: int(whence),
			Err: fmt.Errorf("invalid whence %d", whence),
		}
	}

	newPos := base + offset
	if newPos < 0 {
		return 0, &checkederrs.SeekFailedError{
			FileName: cf.fileName, Offset: offset, Whence: int(whence),
			Err: fmt.Errorf("resulting position %d is negative", newPos),
		}
	}

	var newLogical uint64
	if mode == Logical {
		newLogical = uint64(newPos)
	} else {
		newLogical = physicalToLogical(uint64(newPos))
	}
	cf.physPos = logicalToPhysical(newLogical)
	return cf.Position(mode), nil
}

// Read reads n logical bytes starting at the current position into dst,
// which must have length at least n, and advances the position by n. It
// fails with an InternalError if the read would run past the file's
// logical length.
func (cf *CheckedFile) Read(dst []byte, n uint64) error {
	if n == 0 {
		return nil
	}
	if uint64(len(dst)) < n {
		return &checkederrs.InternalError{FileName: cf.fileName, Message: "destination shorter than requested read length"}
	}

	logicalPos := physicalToLogical(cf.physPos)
	end := logicalPos + n
	if end > cf.logicalLength {
		return &checkederrs.InternalError{
			FileName: cf.fileName,
			Message:  fmt.Sprintf("read past end: position %d + %d exceeds length %d", logicalPos, n, cf.logicalLength),
		}
	}

	page := logicalPos / LogicalPageSize
	offset := logicalPos % LogicalPageSize
	remaining := n
	dstOff := uint64(0)

	// Phase 1: first page, partial if the cursor sits mid-page.
	if offset != 0 {
		chunk := LogicalPageSize - offset
		if chunk > remaining {
			chunk = remaining
		}
		data, err := cf.readPhysicalPage(page, chunk == remaining)
		if err != nil {
			return err
		}
		copy(dst[dstOff:dstOff+chunk], data[offset:offset+chunk])
		page++
		dstOff += chunk
		remaining -= chunk
	}

	// Phase 2: interior full pages.
	for remaining >= LogicalPageSize {
		data, err := cf.readPhysicalPage(page, remaining == LogicalPageSize)
		if err != nil {
			return err
		}
		copy(dst[dstOff:dstOff+LogicalPageSize], data)
		page++
		dstOff += LogicalPageSize
		remaining -= LogicalPageSize
	}

	// Phase 3: trailing partial page. Always verified regardless of
	// sampling policy, since it is the tail of the request.
	if remaining > 0 {
		data, err := cf.readPhysicalPage(page, true)
		if err != nil {
			return err
		}
		copy(dst[dstOff:dstOff+remaining], data[:remaining])
	}

	cf.physPos = logicalToPhysical(end)
	return nil
}

// Write writes n logical bytes from src starting at the current position,
// advancing the position by n and growing the logical length if the write
// runs past the current end. It fails immediately if the file is
// read-only.
func (cf *CheckedFile) Write(src []byte, n uint64) error {
	if cf.readOnly {
		return &checkederrs.FileReadOnlyError{FileName: cf.fileName, Operation: "write"}
	}
	if n == 0 {
		return nil
	}
	if uint64(len(src)) < n {
		return &checkederrs.InternalError{FileName: cf.fileName, Message: "source shorter than requested write length"}
	}

	logicalPos := physicalToLogical(cf.physPos)
	end := logicalPos + n

	page := logicalPos / LogicalPageSize
	offset := logicalPos % LogicalPageSize
	remaining := n
	srcOff := uint64(0)

	advance := func(delta uint64) {
		logicalPos += delta
		if logicalPos > cf.logicalLength {
			cf.logicalLength = logicalPos
		}
	}

	if offset != 0 {
		chunk := LogicalPageSize - offset
		if chunk > remaining {
			chunk = remaining
		}
		if err := cf.writePhysicalPage(page, offset, src[srcOff:srcOff+chunk]); err != nil {
			return err
		}
		page++
		srcOff += chunk
		remaining -= chunk
		advance(chunk)
	}

	for remaining >= LogicalPageSize {
		if err := cf.writePhysicalPage(page, 0, src[srcOff:srcOff+LogicalPageSize]); err != nil {
			return err
		}
		page++
		srcOff += LogicalPageSize
		remaining -= LogicalPageSize
		advance(LogicalPageSize)
	}

	if remaining > 0 {
		if err := cf.writePhysicalPage(page, 0, src[srcOff:srcOff+remaining]); err != nil {
			return err
		}
		advance(remaining)
	}

	cf.physPos = logicalToPhysical(end)
	return nil
}

// Extend grows the file's logical length to newLength (given in mode),
// zero-filling the new region. It is a no-op if newLength does not exceed
// the current length; shrinking is not supported. logicalLength is
// updated after each page is durably written rather than only once at the
// end, so a failure partway through leaves it consistent with what is
// actually on disk.
func (cf *CheckedFile) Extend(newLength uint64, mode OffsetMode) error {
	if cf.readOnly {
		return &checkederrs.FileReadOnlyError{FileName: cf.fileName, Operation: "extend"}
	}

	var target uint64
	if mode == Logical {
		target = newLength
	} else {
		target = physicalToLogical(newLength)
	}
	if target <= cf.logicalLength {
		return nil
	}

	logging.ExtendStarted(cf.fileName, cf.logicalLength, target)

	current := cf.logicalLength
	for current < target {
		page := current / LogicalPageSize
		offset := current % LogicalPageSize
		chunk := LogicalPageSize - offset
		if needed := target - current; chunk > needed {
			chunk = needed
		}
		if err := cf.writePhysicalPage(page, offset, make([]byte, chunk)); err != nil {
			logging.ExtendFailed(cf.fileName, current, err)
			return err
		}
		current += chunk
		cf.logicalLength = current
	}
	return nil
}

// Close closes the underlying backend.
func (cf *CheckedFile) Close() error {
	if err := cf.backend.Close(); err != nil {
		return &checkederrs.CloseFailedError{FileName: cf.fileName, Err: err}
	}
	logging.BackendClosed(cf.fileName)
	return nil
}

// Unlink closes the file and, for file-backed instances, removes it from
// disk. The underlying removal is best-effort: a failure there is logged
// rather than returned, since the file is already closed and the caller's
// primary intent (stop using it) has already succeeded, but it is never
// silently discarded.
func (cf *CheckedFile) Unlink() error {
	closeErr := cf.Close()

	fb, ok := cf.backend.(*FileBackend)
	if !ok {
		return closeErr
	}
	if err := fb.unlink(); err != nil {
		logging.UnlinkRemoveFailed(cf.fileName, err)
	}
	return closeErr
}
