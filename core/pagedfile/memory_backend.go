package pagedfile

import (
	"fmt"
	"io"
)

// memoryCursor tracks a read position inside a caller-owned byte buffer.
// It mirrors the original BufferView helper: small enough to be its own
// type rather than inlined into MemoryBackend, since MemoryBackend is
// mostly Backend-interface plumbing around this cursor.
type memoryCursor struct {
	buf []byte
	pos int64
}

// seek moves the cursor. SeekEnd here is NOT standard POSIX lseek
// semantics: offset is treated as a nonnegative distance back from the end
// of the buffer (cursor = len(buf) - offset), matching the behavior of the
// original BufferView this type is modeled on. SeekStart and SeekCurrent
// behave as usual. A seek past the end of the buffer is clamped to the
// end and reported as a failure for that call; the cursor still ends up
// at the clamped position.
func (c *memoryCursor) seek(offset int64, whence SeekWhence) (int64, error) {
	var newPos int64
	switch whence {
	case SeekStart:
		newPos = offset
	case SeekCurrent:
		newPos = c.pos + offset
	case SeekEnd:
		newPos = int64(len(c.buf)) - offset
	default:
		return 0, fmt.Errorf("memory backend: invalid whence %d", whence)
	}
	if newPos < 0 {
		return 0, fmt.Errorf("memory backend: seek to negative offset %d", newPos)
	}
	if newPos > int64(len(c.buf)) {
		c.pos = int64(len(c.buf))
		return c.pos, fmt.Errorf("memory backend: seek to %d past end %d, clamped", newPos, len(c.buf))
	}
	c.pos = newPos
	return c.pos, nil
}

// read copies len(p) bytes starting at the cursor into p and advances the
// cursor. A
// short read (request runs past the end of the buffer) is an error.
func (c *memoryCursor) read(p []byte) (int, error) {
	if c.pos < 0 || c.pos+int64(len(p)) > int64(len(c.buf)) {
		return 0, io.ErrUnexpectedEOF
	}
	n := copy(p, c.buf[c.pos:c.pos+int64(len(p))])
	c.pos += int64(n)
	return n, nil
}

// MemoryBackend is a Backend over a caller-owned, read-only byte buffer.
// It never takes ownership of buf and never frees it; Close is a no-op
// beyond marking the backend closed.
type MemoryBackend struct {
	cursor memoryCursor
	name   string
	closed bool
}

// newMemoryBackend wraps buf for positioned, read-only access.
func newMemoryBackend(buf []byte, name string) *MemoryBackend {
	return &MemoryBackend{cursor: memoryCursor{buf: buf}, name: name}
}

func (b *MemoryBackend) Seek(offset int64, whence SeekWhence) (int64, error) {
	return b.cursor.seek(offset, whence)
}

func (b *MemoryBackend) Read(p []byte) (int, error) {
	return b.cursor.read(p)
}

func (b *MemoryBackend) Write(p []byte) (int, error) {
	return 0, fmt.Errorf("memory backend %s is read-only", b.name)
}

func (b *MemoryBackend) Length() (uint64, error) {
	return uint64(len(b.cursor.buf)), nil
}

func (b *MemoryBackend) ReadOnly() bool {
	return true
}

func (b *MemoryBackend) Name() string {
	return b.name
}

// Close marks the backend closed. The underlying buffer is caller-owned
// and is never released here.
func (b *MemoryBackend) Close() error {
	b.closed = true
	return nil
}
