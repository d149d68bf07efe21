package pagedfile

import "strconv"

// WriteString writes s as raw bytes at the current position. It returns cf
// so callers can chain further writes on the success path, e.g.:
//
//	cf, err := cf.WriteString("magic")
//	if err == nil {
//		cf, err = cf.WriteInt64(version)
//	}
//
// Unlike the original's operator<< chaining, a failed write always
// surfaces its error explicitly rather than being silently absorbed into
// the chain.
func (cf *CheckedFile) WriteString(s string) (*CheckedFile, error) {
	b := []byte(s)
	if err := cf.Write(b, uint64(len(b))); err != nil {
		return cf, err
	}
	return cf, nil
}

// WriteInt64 writes v formatted as a base-10 decimal string.
func (cf *CheckedFile) WriteInt64(v int64) (*CheckedFile, error) {
	return cf.WriteString(strconv.FormatInt(v, 10))
}

// WriteUint64 writes v formatted as a base-10 decimal string.
func (cf *CheckedFile) WriteUint64(v uint64) (*CheckedFile, error) {
	return cf.WriteString(strconv.FormatUint(v, 10))
}

// WriteFloat32 writes v formatted with at most 7 significant digits. Seven
// digits do not tell every pair of neighbouring float32 values apart, so the
// text does not always parse back to exactly v.
func (cf *CheckedFile) WriteFloat32(v float32) (*CheckedFile, error) {
	return cf.WriteString(strconv.FormatFloat(float64(v), 'g', 7, 32))
}

// WriteFloat64 writes v formatted with 17 significant digits, the
// precision a float64 can round-trip exactly.
func (cf *CheckedFile) WriteFloat64(v float64) (*CheckedFile, error) {
	return cf.WriteString(strconv.FormatFloat(v, 'g', 17, 64))
}
