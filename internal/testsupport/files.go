package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteWAD writes a small PWAD (or IWAD when iwad is set) with an empty
// directory and returns its path.
func WriteWAD(t testing.TB, dir, name string, iwad bool) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", dir, err)
	}
	magic := "PWAD"
	if iwad {
		magic = "IWAD"
	}
	// Header: magic, lump count, directory offset (little endian).
	header := append([]byte(magic), 0, 0, 0, 0, 12, 0, 0, 0)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, header, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
