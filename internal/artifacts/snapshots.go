package artifacts

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
)

// SnapshotProbe describes the saved-state files found in a directory.
type SnapshotProbe struct {
	Dir    string
	Found  bool
	Total  int
	Recent []string
	Err    error
}

// ProbeSnapshots lists regular files in dir ending in suffix and keeps the
// lexically-last limit names, in lexical order. Snapshot names carry their
// timestamp, so lexical order is chronological order.
func ProbeSnapshots(dir, suffix string, limit int) SnapshotProbe {
	probe := SnapshotProbe{Dir: dir}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return probe
		}
		probe.Err = fmt.Errorf("read snapshot directory: %w", err)
		return probe
	}
	probe.Found = true

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), suffix) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	probe.Total = len(names)
	if limit > 0 && len(names) > limit {
		names = names[len(names)-limit:]
	}
	probe.Recent = names
	return probe
}
