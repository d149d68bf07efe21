package pagedfile

import (
	"fmt"
	"io"
	"os"
)

// FileBackend is a Backend over a real OS file descriptor.
type FileBackend struct {
	file     *os.File
	name     string
	readOnly bool
	closed   bool
}

// openFileBackend opens name read-only when readOnly is true, otherwise
// read-write, creating the file if it does not exist. An existing file is
// opened as it is; it is not truncated.
func openFileBackend(name string, readOnly bool) (*FileBackend, error) {
	var flag int
	if readOnly {
		flag = os.O_RDONLY
	} else {
		flag = os.O_RDWR | os.O_CREATE
	}
	f, err := os.OpenFile(name, flag, 0o644)
	if err != nil {
		return nil, err
	}
	return &FileBackend{file: f, name: name, readOnly: readOnly}, nil
}

func (b *FileBackend) Seek(offset int64, whence SeekWhence) (int64, error) {
	return b.file.Seek(offset, int(whence))
}

func (b *FileBackend) Read(p []byte) (int, error) {
	return io.ReadFull(b.file, p)
}

func (b *FileBackend) Write(p []byte) (int, error) {
	if b.readOnly {
		return 0, fmt.Errorf("file backend %s is read-only", b.name)
	}
	return b.file.Write(p)
}

func (b *FileBackend) Length() (uint64, error) {
	info, err := b.file.Stat()
	if err != nil {
		return 0, err
	}
	return uint64(info.Size()), nil
}

func (b *FileBackend) ReadOnly() bool {
	return b.readOnly
}

func (b *FileBackend) Name() string {
	return b.name
}

// Close closes the underlying file. It is idempotent: a second call is a
// no-op, matching CheckedFile's own idempotent Close.
func (b *FileBackend) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	return b.file.Close()
}

// unlink removes the backend's underlying file with os.Remove.
func (b *FileBackend) unlink() error {
	return os.Remove(b.name)
}
