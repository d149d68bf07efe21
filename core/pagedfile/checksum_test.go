package pagedfile

import "testing"

func TestByteReverse32(t *testing.T) {
	cases := []struct {
		in, want uint32
	}{
		{0x00000000, 0x00000000},
		{0xFFFFFFFF, 0xFFFFFFFF},
		{0x01020304, 0x04030201},
		{0x12345678, 0x78563412},
	}
	for _, c := range cases {
		if got := byteReverse32(c.in); got != c.want {
			t.Errorf("byteReverse32(0x%08x) = 0x%08x, want 0x%08x", c.in, got, c.want)
		}
	}
}

func TestByteReverse32Involution(t *testing.T) {
	vals := []uint32{0, 1, 0xdeadbeef, 0x1edc6f41}
	for _, v := range vals {
		if got := byteReverse32(byteReverse32(v)); got != v {
			t.Errorf("byteReverse32(byteReverse32(0x%08x)) = 0x%08x, want 0x%08x", v, got, v)
		}
	}
}

func TestChecksumDeterministic(t *testing.T) {
	buf := make([]byte, LogicalPageSize)
	for i := range buf {
		buf[i] = byte(i)
	}
	a := checksum(buf)
	b := checksum(buf)
	if a != b {
		t.Errorf("checksum not deterministic: 0x%08x != 0x%08x", a, b)
	}
}

func TestChecksumSensitiveToData(t *testing.T) {
	buf1 := make([]byte, LogicalPageSize)
	buf2 := make([]byte, LogicalPageSize)
	copy(buf2, buf1)
	buf2[10] ^= 0x01

	if checksum(buf1) == checksum(buf2) {
		t.Errorf("expected different checksums for differing data")
	}
}

func TestChecksumEmpty(t *testing.T) {
	// An all-ones CRC with an all-ones final XOR over zero bytes should
	// collapse to zero before the byte reversal, and reversal of zero is
	// zero.
	if got := checksum(nil); got != 0 {
		t.Errorf("checksum(nil) = 0x%08x, want 0x00000000", got)
	}
}
