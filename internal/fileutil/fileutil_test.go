package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestImportFileCopiesIntoLibrary(t *testing.T) {
	srcDir := t.TempDir()
	library := filepath.Join(t.TempDir(), "library")
	src := filepath.Join(srcDir, "av.wad")
	content := []byte("PWAD\x00\x00\x00\x00\x0c\x00\x00\x00")
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatal(err)
	}

	dst, err := ImportFile(src, library)
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	if dst != filepath.Join(library, "av.wad") {
		t.Fatalf("unexpected destination %q", dst)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Fatalf("content mismatch: got %q, want %q", got, content)
	}

	if _, err := ImportFile(src, library); !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists on second import, got %v", err)
	}
}

func TestImportFileSanitizesName(t *testing.T) {
	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "what?:now.pk3")
	if err := os.WriteFile(src, []byte("PK"), 0o644); err != nil {
		t.Fatal(err)
	}
	dst, err := ImportFile(src, t.TempDir())
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	if filepath.Base(dst) != "what-now.pk3" {
		t.Fatalf("unexpected sanitized name %q", filepath.Base(dst))
	}
}

func TestImportFileMissingSource(t *testing.T) {
	library := t.TempDir()
	if _, err := ImportFile(filepath.Join(t.TempDir(), "gone.wad"), library); err == nil {
		t.Fatal("expected error for missing source")
	}
	if _, err := os.Stat(filepath.Join(library, "gone.wad")); !os.IsNotExist(err) {
		t.Fatal("failed import must not leave a file behind")
	}
}

func TestCopyFileVerifiedRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.wad")
	dst := filepath.Join(dir, "dst.wad")
	if err := os.WriteFile(src, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dst, []byte("keep"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := CopyFileVerified(src, dst); err == nil {
		t.Fatal("expected existing destination to be refused")
	}
	got, _ := os.ReadFile(dst)
	if string(got) != "keep" {
		t.Fatalf("destination overwritten: %q", got)
	}
}

func TestSanitizeFileName(t *testing.T) {
	cases := map[string]string{
		"  plain.wad ":      "plain.wad",
		"a/b\\c.wad":        "a-b-c.wad",
		"<bad>|\"name\".wad": "badname.wad",
		"":                  "",
	}
	for in, want := range cases {
		if got := SanitizeFileName(in); got != want {
			t.Fatalf("SanitizeFileName(%q) = %q, want %q", in, got, want)
		}
	}
}
