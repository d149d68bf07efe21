package pagedfile

import (
	"encoding/binary"

	"github.com/mjpearson/pagedfile/core/checkederrs"
	"github.com/mjpearson/pagedfile/internal/logging"
)

// readPhysicalPageRaw reads page's full physical page (data plus trailing
// checksum) from the backend without verifying it.
func (cf *CheckedFile) readPhysicalPageRaw(page uint64) (data []byte, stored uint32, err error) {
	physOffset := int64(page * PhysicalPageSize)
	if _, err := cf.backend.Seek(physOffset, SeekStart); err != nil {
		return nil, 0, &checkederrs.SeekFailedError{FileName: cf.fileName, Offset: physOffset, Err: err}
	}
	buf := make([]byte, PhysicalPageSize)
	if _, err := cf.backend.Read(buf); err != nil {
		return nil, 0, &checkederrs.ReadFailedError{FileName: cf.fileName, Page: page, Length: PhysicalPageSize, Err: err}
	}
	return buf[:LogicalPageSize], binary.LittleEndian.Uint32(buf[LogicalPageSize:]), nil
}

// readPhysicalPage reads page and, depending on cf.policy and isTail,
// verifies its checksum.
func (cf *CheckedFile) readPhysicalPage(page uint64, isTail bool) ([]byte, error) {
	data, stored, err := cf.readPhysicalPageRaw(page)
	if err != nil {
		return nil, err
	}
	if !cf.policy.shouldVerify(page, isTail) {
		return data, nil
	}
	computed := checksum(data)
	if computed != stored {
		logging.ChecksumMismatch(cf.fileName, page, computed, stored)
		return nil, &checkederrs.BadChecksumError{
			FileName: cf.fileName,
			Page:     page,
			Length:   cf.logicalLength,
			Computed: computed,
			Stored:   stored,
		}
	}
	logging.PageVerified(cf.fileName, page)
	return data, nil
}

// loadPageForWrite returns page's current logical data, or a zero-filled
// page if page does not yet exist in the backend. It does not verify the
// existing checksum: the caller is about to overwrite part of the page
// and recompute it, so a stale checksum here is irrelevant.
func (cf *CheckedFile) loadPageForWrite(page uint64) ([]byte, error) {
	physLen, err := cf.backend.Length()
	if err != nil {
		return nil, &checkederrs.ReadFailedError{FileName: cf.fileName, Page: page, Err: err}
	}
	if page*PhysicalPageSize >= physLen {
		return make([]byte, LogicalPageSize), nil
	}
	data, _, err := cf.readPhysicalPageRaw(page)
	return data, err
}

// writePhysicalPage writes data into page's logical byte range
// [rangeOffset, rangeOffset+len(data)), load-modify-writing the rest of
// the page when data does not cover it in full, then stores a freshly
// computed checksum over the whole page.
func (cf *CheckedFile) writePhysicalPage(page, rangeOffset uint64, data []byte) error {
	var buf [LogicalPageSize]byte
	if rangeOffset != 0 || uint64(len(data)) < LogicalPageSize {
		existing, err := cf.loadPageForWrite(page)
		if err != nil {
			return err
		}
		copy(buf[:], existing)
	}
	copy(buf[rangeOffset:], data)

	sum := checksum(buf[:])
	physBuf := make([]byte, PhysicalPageSize)
	copy(physBuf, buf[:])
	binary.LittleEndian.PutUint32(physBuf[LogicalPageSize:], sum)

	physOffset := int64(page * PhysicalPageSize)
	if _, err := cf.backend.Seek(physOffset, SeekStart); err != nil {
		return &checkederrs.SeekFailedError{FileName: cf.fileName, Offset: physOffset, Err: err}
	}
	if _, err := cf.backend.Write(physBuf); err != nil {
		return &checkederrs.WriteFailedError{FileName: cf.fileName, Page: page, Length: len(physBuf), Err: err}
	}
	return nil
}
