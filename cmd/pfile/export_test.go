package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestExportImportFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "export_rt.dat")
	snapshot := filepath.Join(dir, "export_rt.pfx")
	restored := filepath.Join(dir, "export_rt_restored.dat")
	out := &outputMode{json: false}

	if err := (&CreateCmd{Path: path}).Run(out); err != nil {
		t.Fatalf("CreateCmd.Run: %v", err)
	}
	if err := (&WriteCmd{Path: path, Data: "round trip payload"}).Run(out); err != nil {
		t.Fatalf("WriteCmd.Run: %v", err)
	}

	if err := (&ExportCmd{Path: path, Out: snapshot}).Run(out); err != nil {
		t.Fatalf("ExportCmd.Run: %v", err)
	}
	info, err := os.Stat(snapshot)
	if err != nil {
		t.Fatalf("stat snapshot: %v", err)
	}
	if info.Size() == 0 {
		t.Error("expected non-empty snapshot file")
	}

	if err := (&ImportCmd{In: snapshot, Path: restored}).Run(out); err != nil {
		t.Fatalf("ImportCmd.Run: %v", err)
	}
	if _, err := os.Stat(restored); err != nil {
		t.Fatalf("stat restored: %v", err)
	}
}

func TestExportFailsWhenSourceMissing(t *testing.T) {
	dir := t.TempDir()
	out := &outputMode{json: false}
	cmd := &ExportCmd{Path: filepath.Join(dir, "does-not-exist.dat"), Out: filepath.Join(dir, "out.pfx")}
	if err := cmd.Run(out); err == nil {
		t.Fatal("expected error exporting a missing source file")
	}
}

func TestExportPropagatesDestinationCreateFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "export_fail.dat")
	out := &outputMode{json: false}
	if err := (&CreateCmd{Path: path}).Run(out); err != nil {
		t.Fatalf("CreateCmd.Run: %v", err)
	}

	origCreate := osCreatePfile
	defer func() { osCreatePfile = origCreate }()

	wantErr := errors.New("injected destination create failure")
	osCreatePfile = func(name string) (*os.File, error) {
		return nil, wantErr
	}

	cmd := &ExportCmd{Path: path, Out: filepath.Join(dir, "out.pfx")}
	if err := cmd.Run(out); err == nil {
		t.Fatal("expected ExportCmd.Run to fail when the destination cannot be created")
	} else if !errors.Is(err, wantErr) {
		t.Errorf("expected error to wrap injected failure, got %v", err)
	}
}

func TestImportFailsWhenSnapshotMissing(t *testing.T) {
	dir := t.TempDir()
	out := &outputMode{json: false}
	cmd := &ImportCmd{In: filepath.Join(dir, "missing.pfx"), Path: filepath.Join(dir, "out.dat")}
	if err := cmd.Run(out); err == nil {
		t.Fatal("expected error importing a missing snapshot")
	}
}
