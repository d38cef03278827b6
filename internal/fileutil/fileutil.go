package fileutil

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrExists reports that an import target is already present in the library.
var ErrExists = errors.New("file already exists in library")

var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName replaces characters that are unsafe in library file names.
// Separators and wildcards become dashes, other unsafe characters are removed.
func SanitizeFileName(name string) string {
	return strings.TrimSpace(fileNameReplacer.Replace(strings.TrimSpace(name)))
}

// ImportFile copies src into the library directory under its sanitized base
// name and returns the new path. Existing library files are never replaced.
func ImportFile(src, libraryDir string) (string, error) {
	name := SanitizeFileName(filepath.Base(src))
	if name == "" || name == "." {
		return "", fmt.Errorf("import %q: empty file name", src)
	}
	if err := os.MkdirAll(libraryDir, 0o755); err != nil {
		return "", fmt.Errorf("create library directory: %w", err)
	}
	dst := filepath.Join(libraryDir, name)
	if _, err := os.Stat(dst); err == nil {
		return "", fmt.Errorf("import %s: %w", name, ErrExists)
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("stat %s: %w", dst, err)
	}
	if err := CopyFileVerified(src, dst); err != nil {
		return "", fmt.Errorf("import %s: %w", name, err)
	}
	return dst, nil
}

// CopyFileVerified streams src to dst and compares size and SHA256 of both
// sides. dst is removed on mismatch.
func CopyFileVerified(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if srcInfo.IsDir() {
		return fmt.Errorf("source %q is a directory", src)
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		_ = out.Close()
	}()

	srcHasher := sha256.New()
	dstHasher := sha256.New()
	written, err := io.Copy(io.MultiWriter(out, dstHasher), io.TeeReader(in, srcHasher))
	if err != nil {
		_ = os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return err
	}

	if written != srcInfo.Size() {
		_ = os.Remove(dst)
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcInfo.Size(), written)
	}
	if !bytes.Equal(srcHasher.Sum(nil), dstHasher.Sum(nil)) {
		_ = os.Remove(dst)
		return errors.New("copy hash mismatch: file corrupted during copy")
	}
	return nil
}
