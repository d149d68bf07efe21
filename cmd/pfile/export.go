package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ulikunitz/xz"
)

// Injectable functions, following the same testability idiom as the
// teacher's xz-based archive code: tests can swap these to exercise error
// paths without touching the real filesystem or xz codec.
var (
	xzNewWriter   = xz.NewWriter
	xzNewReader   = xz.NewReader
	osOpenPfile   = os.Open
	osCreatePfile = os.Create
)

// ExportCmd compresses a paged file's entire physical image into a
// portable .pfx (xz) snapshot, including each page's checksum, so Import can
// reconstruct it byte-for-byte.
type ExportCmd struct {
	Path string `arg:"" help:"Path of the paged file to export."`
	Out  string `arg:"" help:"Path of the .pfx snapshot to create."`
}

func (c *ExportCmd) Run(out *outputMode) error {
	src, err := osOpenPfile(c.Path)
	if err != nil {
		return fmt.Errorf("export: opening %s: %w", c.Path, err)
	}
	defer src.Close()

	dst, err := osCreatePfile(c.Out)
	if err != nil {
		return fmt.Errorf("export: creating %s: %w", c.Out, err)
	}
	defer dst.Close()

	w, err := xzNewWriter(dst)
	if err != nil {
		return fmt.Errorf("export: starting xz stream: %w", err)
	}
	if _, err := io.Copy(w, src); err != nil {
		return fmt.Errorf("export: compressing %s: %w", c.Path, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("export: finishing xz stream: %w", err)
	}

	if out.json {
		enc, _ := json.Marshal(map[string]string{"snapshot": c.Out})
		fmt.Println(string(enc))
	} else {
		fmt.Printf("exported %s -> %s\n", c.Path, c.Out)
	}
	return nil
}

// ImportCmd reconstructs a paged file's physical image from a .pfx
// snapshot produced by ExportCmd.
type ImportCmd struct {
	In   string `arg:"" help:"Path of the .pfx snapshot to import."`
	Path string `arg:"" help:"Path of the paged file to create."`
}

func (c *ImportCmd) Run(out *outputMode) error {
	src, err := osOpenPfile(c.In)
	if err != nil {
		return fmt.Errorf("import: opening %s: %w", c.In, err)
	}
	defer src.Close()

	r, err := xzNewReader(src)
	if err != nil {
		return fmt.Errorf("import: starting xz stream: %w", err)
	}

	dst, err := osCreatePfile(c.Path)
	if err != nil {
		return fmt.Errorf("import: creating %s: %w", c.Path, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return fmt.Errorf("import: decompressing into %s: %w", c.Path, err)
	}

	if out.json {
		enc, _ := json.Marshal(map[string]string{"path": c.Path})
		fmt.Println(string(enc))
	} else {
		fmt.Printf("imported %s -> %s\n", c.In, c.Path)
	}
	return nil
}
