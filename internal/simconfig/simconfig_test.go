package simconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestWriteProducesExpectedSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "example_config.yaml")
	if err := Write(path, Default()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	var parsed map[string]map[string]any
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("written config is not valid YAML: %v", err)
	}
	for _, section := range []string{"environment", "bytecode_vm", "symmetry_analyzer", "evolution_engine"} {
		if _, ok := parsed[section]; !ok {
			t.Fatalf("missing section %q in:\n%s", section, data)
		}
	}
	if parsed["environment"]["mutation_rate"] != 0.02 {
		t.Fatalf("unexpected mutation_rate: %v", parsed["environment"]["mutation_rate"])
	}
	if parsed["bytecode_vm"]["max_instructions"] != 5000 {
		t.Fatalf("unexpected max_instructions: %v", parsed["bytecode_vm"]["max_instructions"])
	}
	if parsed["evolution_engine"]["save_interval_generations"] != 50 {
		t.Fatalf("unexpected save interval: %v", parsed["evolution_engine"]["save_interval_generations"])
	}
	if !strings.HasPrefix(string(data), "environment:\n") {
		t.Fatalf("expected environment section first:\n%s", data)
	}
}

func TestWriteOverwritesPriorContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "example_config.yaml")
	if err := os.WriteFile(path, []byte(strings.Repeat("stale: true\n", 200)), 0o644); err != nil {
		t.Fatalf("seed stale config: %v", err)
	}

	if err := Write(path, Default()); err != nil {
		t.Fatalf("first Write: %v", err)
	}
	first, _ := os.ReadFile(path)
	if err := Write(path, Default()); err != nil {
		t.Fatalf("second Write: %v", err)
	}
	second, _ := os.ReadFile(path)

	if strings.Contains(string(second), "stale") {
		t.Fatalf("stale content survived:\n%s", second)
	}
	if string(first) != string(second) {
		t.Fatal("repeated writes should produce identical documents")
	}
}

func TestWriteDoesNotValidateRanges(t *testing.T) {
	doc := Default()
	doc.Environment.MutationRate = 7
	doc.BytecodeVM.ImageWidth = -1
	path := filepath.Join(t.TempDir(), "example_config.yaml")
	if err := Write(path, doc); err != nil {
		t.Fatalf("out-of-range values must pass through, got %v", err)
	}
}

func TestWriteFailsWhenParentIsAFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	if err := Write(filepath.Join(blocker, "example_config.yaml"), Default()); err == nil {
		t.Fatal("expected error when parent path is a file")
	}
}
