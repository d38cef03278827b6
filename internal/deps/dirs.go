package deps

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// DirStatus reports whether a configured directory is usable.
type DirStatus struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Usable bool   `json:"usable"`
	// Missing is set when the directory does not exist yet.
	Missing bool   `json:"missing,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

// CheckDirectory verifies that path is a directory the process can read,
// write and traverse.
func CheckDirectory(name, path string) DirStatus {
	status := DirStatus{Name: name, Path: path}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			status.Missing = true
			status.Detail = "does not exist"
			return status
		}
		status.Detail = fmt.Sprintf("stat: %v", err)
		return status
	}
	if !info.IsDir() {
		status.Detail = "is not a directory"
		return status
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		status.Detail = fmt.Sprintf("insufficient permissions: %v", err)
		return status
	}
	status.Usable = true
	status.Detail = "read/write ok"
	return status
}
