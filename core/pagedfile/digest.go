package pagedfile

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// digestChunkSize bounds how much logical data Digest reads into memory at
// once, so digesting a large file doesn't require buffering it whole.
const digestChunkSize = LogicalPageSize * 64

// Digest returns the BLAKE3 hash of the entire logical byte stream, hex
// encoded. It is an additional, opt-in end-to-end integrity check layered
// above the mandatory per-page CRC-32C, not a replacement for it. The
// current position is saved and restored.
func (cf *CheckedFile) Digest() (string, error) {
	saved := cf.Position(Logical)
	if _, err := cf.Seek(0, SeekStart, Logical); err != nil {
		return "", err
	}

	h := blake3.New()
	buf := make([]byte, digestChunkSize)
	remaining := cf.logicalLength

	for remaining > 0 {
		chunk := uint64(len(buf))
		if chunk > remaining {
			chunk = remaining
		}
		if err := cf.Read(buf[:chunk], chunk); err != nil {
			_, _ = cf.Seek(int64(saved), SeekStart, Logical)
			return "", err
		}
		_, _ = h.Write(buf[:chunk])
		remaining -= chunk
	}

	if _, err := cf.Seek(int64(saved), SeekStart, Logical); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
