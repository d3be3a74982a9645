// Package cleanup removes the files a harness run owns, whatever happened
// during the run.
package cleanup

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"evorun/internal/logging"
	"evorun/internal/report"
)

// Removal is the teardown result for one path.
type Removal struct {
	Path    string
	Removed bool
	Err     error
}

// Set is an explicitly enumerated group of transient files.
type Set struct {
	paths []string
}

// New returns a Set owning paths. Empty and duplicate entries are ignored.
func New(paths ...string) *Set {
	seen := make(map[string]struct{}, len(paths))
	owned := make([]string, 0, len(paths))
	for _, path := range paths {
		if path == "" {
			continue
		}
		clean := filepath.Clean(path)
		if _, dup := seen[clean]; dup {
			continue
		}
		seen[clean] = struct{}{}
		owned = append(owned, clean)
	}
	return &Set{paths: owned}
}

// Release removes every owned path that exists. A missing path is not an
// error and one failed removal never stops the rest. Release may be called
// any number of times.
func (s *Set) Release() []Removal {
	removals := make([]Removal, 0, len(s.paths))
	for _, path := range s.paths {
		removals = append(removals, remove(path))
	}
	return removals
}

func remove(path string) Removal {
	removal := Removal{Path: path}
	info, err := os.Lstat(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			removal.Err = fmt.Errorf("stat %s: %w", path, err)
		}
		return removal
	}
	if info.IsDir() {
		removal.Err = fmt.Errorf("refusing to remove directory %s", path)
		return removal
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return removal
		}
		removal.Err = fmt.Errorf("remove %s: %w", path, err)
		return removal
	}
	removal.Removed = true
	return removal
}

// Render reports each removal and logs failures.
func Render(rep *report.Reporter, logger *slog.Logger, removals []Removal) {
	logger = logging.NewComponentLogger(logger, "cleanup")
	rep.Section("Cleanup")
	for _, removal := range removals {
		switch {
		case removal.Err != nil:
			rep.Fail("Could not remove %s: %v", removal.Path, removal.Err)
			logging.WarnWithContext(logger, "transient file not removed", "cleanup_failed",
				"remove the file by hand before the next run",
				logging.String("path", removal.Path),
				logging.Error(removal.Err),
			)
		case removal.Removed:
			rep.OK("Removed %s", removal.Path)
			logger.Debug("transient file removed", logging.String("path", removal.Path))
		}
	}
	rep.OK("Cleanup completed")
}

// Failed reports whether any removal failed.
func Failed(removals []Removal) bool {
	for _, removal := range removals {
		if removal.Err != nil {
			return true
		}
	}
	return false
}
