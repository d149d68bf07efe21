// Command pfile is the CLI for creating, writing, reading, and verifying
// checksum-protected paged files.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-isatty"
)

const version = "0.1.0"

// CLI defines the command-line interface for pfile.
var CLI struct {
	JSON bool `help:"Force machine-readable JSON output, even on a terminal."`

	Create  CreateCmd  `cmd:"" help:"Create a new empty paged file."`
	Write   WriteCmd   `cmd:"" help:"Write data at a logical offset."`
	Read    ReadCmd    `cmd:"" help:"Read data from a logical offset."`
	Extend  ExtendCmd  `cmd:"" help:"Grow a file's logical length, zero-filling."`
	Verify  VerifyCmd  `cmd:"" help:"Verify every page's checksum."`
	Info    InfoCmd    `cmd:"" help:"Print logical and physical length."`
	Digest  DigestCmd  `cmd:"" help:"Print the file's BLAKE3 digest."`
	Export  ExportCmd  `cmd:"" help:"Export a file to a portable .pfx snapshot."`
	Import  ImportCmd  `cmd:"" help:"Import a .pfx snapshot to a file."`
	Serve   ServeCmd   `cmd:"" help:"Serve asynchronous verification jobs over HTTP/WebSocket."`
	Version VersionCmd `cmd:"" help:"Print version information."`
}

// outputMode decides between human-readable and JSON rendering and is
// injected into every command's Run method by kong.
type outputMode struct {
	json bool
}

// VersionCmd prints the CLI version.
type VersionCmd struct{}

func (c *VersionCmd) Run(out *outputMode) error {
	if out.json {
		fmt.Printf("{\"version\":%q}\n", version)
		return nil
	}
	fmt.Printf("pfile %s\n", version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("pfile"),
		kong.Description("Checksum-protected paged file toolkit"),
		kong.UsageOnError(),
	)

	out := &outputMode{json: CLI.JSON || !isatty.IsTerminal(os.Stdout.Fd())}
	err := ctx.Run(out)
	ctx.FatalIfErrorf(err)
}
