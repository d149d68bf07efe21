package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mjpearson/pagedfile/core/pagedfile"
)

func TestCreateWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cmd.dat")
	out := &outputMode{json: true}

	create := &CreateCmd{Path: path}
	if err := create.Run(out); err != nil {
		t.Fatalf("CreateCmd.Run: %v", err)
	}

	write := &WriteCmd{Path: path, Data: "hello"}
	if err := write.Run(out); err != nil {
		t.Fatalf("WriteCmd.Run: %v", err)
	}

	cf, err := pagedfile.Open(path, pagedfile.ModeRead, pagedfile.PolicyAll)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer cf.Close()
	// A reopened file's logical length covers its whole pages.
	if got := cf.Length(pagedfile.Logical); got != pagedfile.LogicalPageSize {
		t.Errorf("Length(Logical) = %d, want %d", got, pagedfile.LogicalPageSize)
	}
}

func TestExtendCmdGrows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cmd_extend.dat")
	out := &outputMode{json: true}

	create := &CreateCmd{Path: path}
	if err := create.Run(out); err != nil {
		t.Fatalf("CreateCmd.Run: %v", err)
	}
	extend := &ExtendCmd{Path: path, Length: 2048}
	if err := extend.Run(out); err != nil {
		t.Fatalf("ExtendCmd.Run: %v", err)
	}

	cf, err := pagedfile.Open(path, pagedfile.ModeRead, pagedfile.PolicyAll)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer cf.Close()
	// Extending to 2048 bytes occupies three pages; reopened, all three
	// pages count toward the logical length.
	if got := cf.Length(pagedfile.Logical); got != 3*pagedfile.LogicalPageSize {
		t.Errorf("Length(Logical) = %d, want %d", got, 3*pagedfile.LogicalPageSize)
	}
}

func TestVerifyCmdReportsOK(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cmd_verify.dat")
	out := &outputMode{json: false}

	create := &CreateCmd{Path: path}
	if err := create.Run(out); err != nil {
		t.Fatalf("CreateCmd.Run: %v", err)
	}
	write := &WriteCmd{Path: path, Data: "checksum me"}
	if err := write.Run(out); err != nil {
		t.Fatalf("WriteCmd.Run: %v", err)
	}

	verify := &VerifyCmd{Path: path}
	if err := verify.Run(out); err != nil {
		t.Fatalf("VerifyCmd.Run: %v", err)
	}
}

func TestInfoCmdRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cmd_info.dat")
	out := &outputMode{json: true}

	create := &CreateCmd{Path: path}
	if err := create.Run(out); err != nil {
		t.Fatalf("CreateCmd.Run: %v", err)
	}
	write := &WriteCmd{Path: path, Data: "info"}
	if err := write.Run(out); err != nil {
		t.Fatalf("WriteCmd.Run: %v", err)
	}

	info := &InfoCmd{Path: path}
	if err := info.Run(out); err != nil {
		t.Fatalf("InfoCmd.Run: %v", err)
	}
}

func TestDigestCmdRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cmd_digest.dat")
	out := &outputMode{json: true}

	create := &CreateCmd{Path: path}
	if err := create.Run(out); err != nil {
		t.Fatalf("CreateCmd.Run: %v", err)
	}
	write := &WriteCmd{Path: path, Data: "digest me"}
	if err := write.Run(out); err != nil {
		t.Fatalf("WriteCmd.Run: %v", err)
	}

	digest := &DigestCmd{Path: path}
	if err := digest.Run(out); err != nil {
		t.Fatalf("DigestCmd.Run: %v", err)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cmd_export.dat")
	snapshot := filepath.Join(dir, "snap.pfx")
	restored := filepath.Join(dir, "restored.dat")
	out := &outputMode{json: true}

	create := &CreateCmd{Path: path}
	if err := create.Run(out); err != nil {
		t.Fatalf("CreateCmd.Run: %v", err)
	}
	write := &WriteCmd{Path: path, Data: "exported content"}
	if err := write.Run(out); err != nil {
		t.Fatalf("WriteCmd.Run: %v", err)
	}

	export := &ExportCmd{Path: path, Out: snapshot}
	if err := export.Run(out); err != nil {
		t.Fatalf("ExportCmd.Run: %v", err)
	}
	if _, err := os.Stat(snapshot); err != nil {
		t.Fatalf("expected snapshot file: %v", err)
	}

	imp := &ImportCmd{In: snapshot, Path: restored}
	if err := imp.Run(out); err != nil {
		t.Fatalf("ImportCmd.Run: %v", err)
	}

	cf, err := pagedfile.Open(restored, pagedfile.ModeRead, pagedfile.PolicyAll)
	if err != nil {
		t.Fatalf("Open restored: %v", err)
	}
	defer cf.Close()
	length := cf.Length(pagedfile.Logical)
	buf := make([]byte, length)
	if err := cf.Read(buf, length); err != nil {
		t.Fatalf("Read: %v", err)
	}
	// The reopened logical stream covers the whole page: the payload
	// followed by the zero fill of the rest of the page.
	want := make([]byte, pagedfile.LogicalPageSize)
	copy(want, "exported content")
	if string(buf) != string(want) {
		t.Errorf("restored data = %q, want %q", buf, want)
	}
}
