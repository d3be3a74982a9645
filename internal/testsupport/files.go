package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteStub writes an executable shell script at path, creating parents.
func WriteStub(t testing.TB, path, script string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", path, err)
	}
}

// WriteFile writes content to path, creating parents.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteLines writes n numbered lines ("line 1" .. "line n") to path.
func WriteLines(t testing.TB, path string, n int) {
	t.Helper()

	var b strings.Builder
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "line %d\n", i)
	}
	WriteFile(t, path, b.String())
}

// ClientScript returns a stand-in for the simulation client. It dispatches on
// its last argument (--version, start, status, stop, --interactive, or a
// daemon-native subcommand) and appends every invocation to a calls.log file
// next to itself.
func ClientScript(failing ...string) string {
	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	b.WriteString("for arg in \"$@\"; do last=\"$arg\"; done\n")
	b.WriteString("echo \"$last\" >> \"$(dirname \"$0\")/calls.log\"\n")
	for _, name := range failing {
		fmt.Fprintf(&b, "if [ \"$last\" = %q ]; then echo \"%s failed\" 1>&2; exit 1; fi\n", name, name)
	}
	b.WriteString(`case "$last" in
  --version) echo "EvoSim 0.1.0" ;;
  start) echo "Evolution started" ;;
  status) printf 'State: running\nGeneration: 10\n' ;;
  stop) echo "Evolution stopped" ;;
  --interactive) echo "interactive session ended" ;;
  *) echo "$last ok" ;;
esac
exit 0
`)
	return b.String()
}

// ReadCalls returns the subcommands recorded by a ClientScript stub.
func ReadCalls(t testing.TB, clientPath string) []string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(filepath.Dir(clientPath), "calls.log"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		t.Fatalf("read calls log: %v", err)
	}
	return strings.Fields(string(data))
}
