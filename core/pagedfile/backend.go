package pagedfile

import "io"

// SeekWhence mirrors io.Seeker's whence values and is used by Backend to
// avoid importing os-specific constants into callers that only need the
// memory backend.
type SeekWhence int

const (
	// SeekStart seeks relative to the start of the backend.
	SeekStart SeekWhence = iota
	// SeekCurrent seeks relative to the current position.
	SeekCurrent
	// SeekEnd seeks relative to the end of the backend.
	SeekEnd
)

// Backend is the physical storage underneath a CheckedFile: something that
// can be seeked, read, and optionally written, with a reportable length.
// FileBackend and MemoryBackend are its two implementations, chosen at
// construction time rather than through a base-class pointer.
type Backend interface {
	io.Closer

	// Seek moves the backend's cursor and returns the new absolute
	// offset from the start of the backend.
	Seek(offset int64, whence SeekWhence) (int64, error)

	// Read reads len(p) bytes starting at the current cursor, advancing
	// it by the number of bytes read. It behaves like io.ReadFull: a
	// short read is always an error.
	Read(p []byte) (int, error)

	// Write writes p at the current cursor, advancing it by len(p).
	// Backends that are read-only (MemoryBackend) always return an
	// error.
	Write(p []byte) (int, error)

	// Length returns the current physical length of the backend.
	Length() (uint64, error)

	// ReadOnly reports whether Write will always fail for this backend.
	ReadOnly() bool

	// Name returns a descriptive name for the backend, used in error
	// messages and logging.
	Name() string
}
