package deps

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

// Requirement defines an executable the harness expects at a fixed path.
type Requirement struct {
	Name        string
	Path        string
	Description string
	Hint        string
}

// Status reports the availability of a requirement.
type Status struct {
	Name        string
	Path        string
	Description string
	Hint        string
	Available   bool
	Detail      string
}

// Check verifies that req.Path names an existing, executable regular file.
// It never searches PATH: the harness relies on conventional relative
// locations, so a binary elsewhere on the system does not count.
func Check(req Requirement) Status {
	path := strings.TrimSpace(req.Path)
	status := Status{
		Name:        req.Name,
		Path:        path,
		Description: strings.TrimSpace(req.Description),
		Hint:        strings.TrimSpace(req.Hint),
	}
	if path == "" {
		status.Detail = "path not configured"
		return status
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			status.Detail = fmt.Sprintf("%s not found", path)
			return status
		}
		status.Detail = fmt.Sprintf("%s (stat: %v)", path, err)
		return status
	}
	if info.IsDir() {
		status.Detail = fmt.Sprintf("%s is a directory", path)
		return status
	}
	if err := unix.Access(path, unix.X_OK); err != nil {
		status.Detail = fmt.Sprintf("%s is not executable (%v)", path, err)
		return status
	}
	status.Available = true
	return status
}
