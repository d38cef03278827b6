package catalog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// InspectFile reads the header of a WAD and reports whether it is a base game
// (IWAD). Archives such as PK3 are never base games.
func InspectFile(path string) (isBase bool, err error) {
	if !strings.EqualFold(filepath.Ext(path), ".wad") {
		return false, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	magic := make([]byte, 4)
	if _, err := io.ReadFull(f, magic); err != nil {
		return false, fmt.Errorf("read header of %s: %w", path, err)
	}
	switch string(magic) {
	case "IWAD":
		return true, nil
	case "PWAD":
		return false, nil
	default:
		return false, fmt.Errorf("%s is not a WAD file", path)
	}
}
