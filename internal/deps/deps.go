package deps

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"wadshelf/internal/catalog"
)

// Requirement names an executable a source port or utility launches.
type Requirement struct {
	Name      string
	Command   string
	Directory string
	Utility   bool
}

// Status reports whether a requirement resolves to a runnable binary.
type Status struct {
	Name      string `json:"name"`
	Command   string `json:"command"`
	Utility   bool   `json:"utility"`
	Available bool   `json:"available"`
	Resolved  string `json:"resolved,omitempty"`
	Detail    string `json:"detail,omitempty"`
}

// PortRequirements builds one requirement per registered source port.
func PortRequirements(ports []*catalog.SourcePort) []Requirement {
	reqs := make([]Requirement, 0, len(ports))
	for _, p := range ports {
		if p == nil {
			continue
		}
		reqs = append(reqs, Requirement{
			Name:      p.Name,
			Command:   p.Executable,
			Directory: p.Directory,
			Utility:   p.IsUtility,
		})
	}
	return reqs
}

// CheckBinaries resolves each requirement. A command without a path
// separator is looked up in the requirement's directory first, then in PATH.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{Name: req.Name, Command: cmd, Utility: req.Utility}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := resolve(cmd, strings.TrimSpace(req.Directory))
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		status.Resolved = resolved
		results = append(results, status)
	}
	return results
}

// Missing returns the statuses whose binary could not be resolved.
func Missing(statuses []Status) []Status {
	var out []Status
	for _, s := range statuses {
		if !s.Available {
			out = append(out, s)
		}
	}
	return out
}

func resolve(cmd, dir string) (string, error) {
	if dir != "" && !strings.ContainsRune(cmd, filepath.Separator) {
		if path, err := exec.LookPath(filepath.Join(dir, cmd)); err == nil {
			return path, nil
		}
	}
	return exec.LookPath(cmd)
}
