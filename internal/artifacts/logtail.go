package artifacts

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// LogProbe holds the tail of the daemon's log file.
type LogProbe struct {
	Path  string
	Found bool
	Lines []string
	Err   error
}

// ProbeLog returns the last n lines of path in their original order.
func ProbeLog(path string, n int) LogProbe {
	probe := LogProbe{Path: path}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return probe
		}
		probe.Err = fmt.Errorf("stat log file: %w", err)
		return probe
	}
	if info.IsDir() {
		probe.Err = fmt.Errorf("log path %q is a directory", path)
		return probe
	}
	probe.Found = true

	lines, err := readLastLines(path, n)
	if err != nil {
		probe.Err = err
		return probe
	}
	probe.Lines = lines
	return probe
}

// readLastLines keeps a bounded ring of the most recent lines so memory stays
// proportional to limit, not to the log's size.
func readLastLines(path string, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	ring := make([]string, limit)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = strings.TrimSpace(scanner.Text())
		idx = (idx + 1) % limit
		if count < limit {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log file: %w", err)
	}

	lines := make([]string, count)
	if count == limit {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%limit]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}
