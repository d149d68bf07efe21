package checkederrs

import (
	"errors"
	"testing"
)

func TestOpenFailedErrorUnwrapsToSentinel(t *testing.T) {
	err := &OpenFailedError{FileName: "x.dat", Mode: "rw", Err: nil}
	if !errors.Is(err, ErrOpenFailed) {
		t.Errorf("expected errors.Is(err, ErrOpenFailed) to be true")
	}
	if got, want := err.Error(), "open x.dat (mode rw): open failed"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestOpenFailedErrorPreservesUnderlying(t *testing.T) {
	underlying := errors.New("permission denied")
	err := &OpenFailedError{FileName: "x.dat", Mode: "r", Err: underlying}
	if !errors.Is(err, underlying) {
		t.Errorf("expected errors.Is(err, underlying) to be true")
	}
}

func TestBadChecksumErrorFields(t *testing.T) {
	err := &BadChecksumError{
		FileName: "x.dat",
		Page:     3,
		Length:   4096,
		Computed: 0xdeadbeef,
		Stored:   0xcafef00d,
	}
	if !errors.Is(err, ErrBadChecksum) {
		t.Errorf("expected errors.Is(err, ErrBadChecksum) to be true")
	}
	want := "bad checksum in x.dat at page 3 (file length 4096): computed 0xdeadbeef, stored 0xcafef00d"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestFileReadOnlyError(t *testing.T) {
	err := &FileReadOnlyError{FileName: "ro.dat", Operation: "write"}
	if !errors.Is(err, ErrFileReadOnly) {
		t.Errorf("expected errors.Is(err, ErrFileReadOnly) to be true")
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(nil, "context") != nil {
		t.Errorf("Wrap(nil, ...) should return nil")
	}
	if Wrapf(nil, "context %d", 1) != nil {
		t.Errorf("Wrapf(nil, ...) should return nil")
	}
}

func TestWrapPreservesChain(t *testing.T) {
	base := errors.New("boom")
	wrapped := Wrap(base, "opening file")
	if !Is(wrapped, base) {
		t.Errorf("expected wrapped error to satisfy Is(wrapped, base)")
	}
}

func TestAs(t *testing.T) {
	var target *BadChecksumError
	err := error(&BadChecksumError{FileName: "a", Page: 1})
	if !As(err, &target) {
		t.Errorf("expected As to match *BadChecksumError")
	}
	if target.FileName != "a" {
		t.Errorf("target.FileName = %q, want %q", target.FileName, "a")
	}
}
