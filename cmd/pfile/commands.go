package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mjpearson/pagedfile/core/checkederrs"
	"github.com/mjpearson/pagedfile/core/pagedfile"
)

// policyFlag parses a --policy flag using pagedfile's compact grammar,
// defaulting to "all" when not given.
type policyFlag struct {
	Policy string `help:"Checksum verification policy: none, all, or sampled(N)." default:"all"`
}

func (p policyFlag) parse() (pagedfile.ChecksumPolicy, error) {
	if p.Policy == "" {
		return pagedfile.PolicyAll, nil
	}
	return pagedfile.ParsePolicy(p.Policy)
}

// CreateCmd creates a new empty paged file.
type CreateCmd struct {
	Path string `arg:"" help:"Path of the file to create."`
	policyFlag
}

func (c *CreateCmd) Run(out *outputMode) error {
	policy, err := c.parse()
	if err != nil {
		return err
	}
	cf, err := pagedfile.Open(c.Path, pagedfile.ModeReadWrite, policy)
	if err != nil {
		return err
	}
	return cf.Close()
}

// WriteCmd writes raw bytes at a logical offset, extending the file if
// needed.
type WriteCmd struct {
	Path   string `arg:"" help:"Path of the file to write to."`
	Offset uint64 `help:"Logical offset to write at." default:"0"`
	Data   string `arg:"" help:"Data to write, as a literal string."`
	policyFlag
}

func (c *WriteCmd) Run(out *outputMode) error {
	policy, err := c.parse()
	if err != nil {
		return err
	}
	cf, err := pagedfile.Open(c.Path, pagedfile.ModeReadWrite, policy)
	if err != nil {
		return err
	}
	defer cf.Close()

	if _, err := cf.Seek(int64(c.Offset), pagedfile.SeekStart, pagedfile.Logical); err != nil {
		return err
	}
	data := []byte(c.Data)
	return cf.Write(data, uint64(len(data)))
}

// ReadCmd reads a logical byte range and prints it.
type ReadCmd struct {
	Path   string `arg:"" help:"Path of the file to read from."`
	Offset uint64 `help:"Logical offset to read from." default:"0"`
	Length uint64 `arg:"" help:"Number of bytes to read."`
	policyFlag
}

func (c *ReadCmd) Run(out *outputMode) error {
	policy, err := c.parse()
	if err != nil {
		return err
	}
	cf, err := pagedfile.Open(c.Path, pagedfile.ModeRead, policy)
	if err != nil {
		return err
	}
	defer cf.Close()

	if _, err := cf.Seek(int64(c.Offset), pagedfile.SeekStart, pagedfile.Logical); err != nil {
		return err
	}
	buf := make([]byte, c.Length)
	if err := cf.Read(buf, c.Length); err != nil {
		return err
	}

	if out.json {
		enc, _ := json.Marshal(map[string]string{"data": string(buf)})
		fmt.Println(string(enc))
		return nil
	}
	_, err = os.Stdout.Write(buf)
	return err
}

// ExtendCmd grows a file's logical length with zero-filled bytes.
type ExtendCmd struct {
	Path   string `arg:"" help:"Path of the file to extend."`
	Length uint64 `arg:"" help:"New logical length."`
	policyFlag
}

func (c *ExtendCmd) Run(out *outputMode) error {
	policy, err := c.parse()
	if err != nil {
		return err
	}
	cf, err := pagedfile.Open(c.Path, pagedfile.ModeReadWrite, policy)
	if err != nil {
		return err
	}
	defer cf.Close()
	return cf.Extend(c.Length, pagedfile.Logical)
}

// VerifyCmd checks every physical page's checksum, reporting the first
// mismatch found.
type VerifyCmd struct {
	Path string `arg:"" help:"Path of the file to verify."`
}

func (c *VerifyCmd) Run(out *outputMode) error {
	cf, err := pagedfile.Open(c.Path, pagedfile.ModeRead, pagedfile.PolicyAll)
	if err != nil {
		return err
	}
	defer cf.Close()

	total := cf.Length(pagedfile.Logical)
	chunk := uint64(pagedfile.LogicalPageSize * 16)
	buf := make([]byte, chunk)

	var read uint64
	for read < total {
		n := chunk
		if remaining := total - read; remaining < n {
			n = remaining
		}
		if err := cf.Read(buf[:n], n); err != nil {
			var badSum *checkederrs.BadChecksumError
			if checkederrs.As(err, &badSum) {
				if out.json {
					enc, _ := json.Marshal(map[string]any{"ok": false, "page": badSum.Page})
					fmt.Println(string(enc))
				} else {
					fmt.Printf("bad checksum at page %d\n", badSum.Page)
				}
				return nil
			}
			return err
		}
		read += n
	}

	if out.json {
		enc, _ := json.Marshal(map[string]any{"ok": true})
		fmt.Println(string(enc))
	} else {
		fmt.Println("ok")
	}
	return nil
}

// InfoCmd prints a file's logical and physical length.
type InfoCmd struct {
	Path string `arg:"" help:"Path of the file to inspect."`
}

func (c *InfoCmd) Run(out *outputMode) error {
	cf, err := pagedfile.Open(c.Path, pagedfile.ModeRead, pagedfile.PolicyNone)
	if err != nil {
		return err
	}
	defer cf.Close()

	logical := cf.Length(pagedfile.Logical)
	physical := cf.Length(pagedfile.Physical)

	if out.json {
		enc, _ := json.Marshal(map[string]uint64{"logical_length": logical, "physical_length": physical})
		fmt.Println(string(enc))
		return nil
	}
	fmt.Printf("logical length:  %s (%d bytes)\n", humanize.Bytes(logical), logical)
	fmt.Printf("physical length: %s (%d bytes)\n", humanize.Bytes(physical), physical)
	return nil
}

// DigestCmd prints a file's whole-stream BLAKE3 digest.
type DigestCmd struct {
	Path string `arg:"" help:"Path of the file to digest."`
}

func (c *DigestCmd) Run(out *outputMode) error {
	cf, err := pagedfile.Open(c.Path, pagedfile.ModeRead, pagedfile.PolicyNone)
	if err != nil {
		return err
	}
	defer cf.Close()

	digest, err := cf.Digest()
	if err != nil {
		return err
	}
	if out.json {
		enc, _ := json.Marshal(map[string]string{"blake3": digest})
		fmt.Println(string(enc))
		return nil
	}
	fmt.Println(digest)
	return nil
}
