package deps

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"wadshelf/internal/catalog"
)

func writeStub(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestCheckBinaries(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs are not executable on windows")
	}
	binDir := t.TempDir()
	present := writeStub(t, binDir, "gzdoom")
	writeStub(t, binDir, "dsda-doom")

	reqs := []Requirement{
		{Name: "GZDoom", Command: present},
		{Name: "dsda", Command: "dsda-doom", Directory: binDir},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Resolved != present {
		t.Fatalf("expected absolute command to resolve, got %#v", results[0])
	}
	if !results[1].Available || results[1].Resolved != filepath.Join(binDir, "dsda-doom") {
		t.Fatalf("expected port directory lookup, got %#v", results[1])
	}
	if results[2].Available || results[2].Detail == "" {
		t.Fatalf("expected missing binary to be reported, got %#v", results[2])
	}
	if results[3].Available || results[3].Detail != "command not configured" {
		t.Fatalf("expected blank command to be reported, got %#v", results[3])
	}

	missing := Missing(results)
	if len(missing) != 2 || missing[0].Name != "Missing" {
		t.Fatalf("unexpected missing set %#v", missing)
	}
}

func TestPortRequirements(t *testing.T) {
	ports := []*catalog.SourcePort{
		{Name: "GZDoom", Executable: "gzdoom", Directory: "/opt/gzdoom"},
		nil,
		{Name: "Slade", Executable: "slade", IsUtility: true},
	}
	reqs := PortRequirements(ports)
	if len(reqs) != 2 {
		t.Fatalf("expected nil ports to be skipped, got %d", len(reqs))
	}
	if reqs[0].Directory != "/opt/gzdoom" || reqs[1].Command != "slade" || !reqs[1].Utility {
		t.Fatalf("unexpected requirements %#v", reqs)
	}
}

func TestCheckDirectory(t *testing.T) {
	dir := t.TempDir()
	if got := CheckDirectory("Data", dir); !got.Usable || got.Missing {
		t.Fatalf("expected temp dir to be usable, got %#v", got)
	}

	missing := filepath.Join(dir, "library")
	if got := CheckDirectory("Library", missing); got.Usable || !got.Missing {
		t.Fatalf("expected missing dir to be reported, got %#v", got)
	}

	file := writeStub(t, dir, "catalog.db")
	if got := CheckDirectory("File", file); got.Usable || got.Detail != "is not a directory" {
		t.Fatalf("expected file to be rejected, got %#v", got)
	}
}
