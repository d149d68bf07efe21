package pagedfile

import "hash/crc32"

// crcTable is the CRC-32C (Castagnoli) polynomial table used for page
// checksums. Castagnoli is reflected in/out and XORs the final result,
// which is exactly what hash/crc32's standard table semantics provide.
var crcTable = crc32.MakeTable(crc32.Castagnoli)

// checksum computes the page checksum over buf: a CRC-32C over the data
// bytes, then a 32-bit byte-reversal of the result. The reversal has no
// cryptographic purpose; it matches the on-disk format inherited from the
// original page layout and must be reproduced exactly for files to remain
// interchangeable with it.
func checksum(buf []byte) uint32 {
	return byteReverse32(crc32.Checksum(buf, crcTable))
}

// byteReverse32 swaps the two low/high byte pairs of val and then swaps
// its two 16-bit halves, fully reversing the byte order of the 32-bit
// value.
func byteReverse32(val uint32) uint32 {
	val = ((val << 8) & 0xFF00FF00) | ((val >> 8) & 0x00FF00FF)
	return (val << 16) | (val >> 16)
}
