// Package simconfig materializes the configuration document the simulation
// daemon reads once at start.
//
// The harness does not validate parameter ranges; that is the daemon's job.
// It only guarantees a well-formed YAML document at the expected path.
package simconfig

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Environment holds population and pacing parameters.
type Environment struct {
	InitialPopulation int     `yaml:"initial_population"`
	MaxPopulation     int     `yaml:"max_population"`
	MutationRate      float64 `yaml:"mutation_rate"`
	GenerationTimeMS  int     `yaml:"generation_time_ms"`
}

// BytecodeVM holds the output image size and per-organism instruction budget.
type BytecodeVM struct {
	ImageWidth      int `yaml:"image_width"`
	ImageHeight     int `yaml:"image_height"`
	MaxInstructions int `yaml:"max_instructions"`
}

// SymmetryAnalyzer weights each symmetry axis in the fitness score.
type SymmetryAnalyzer struct {
	HorizontalWeight float64 `yaml:"horizontal_weight"`
	VerticalWeight   float64 `yaml:"vertical_weight"`
	DiagonalWeight   float64 `yaml:"diagonal_weight"`
	RotationalWeight float64 `yaml:"rotational_weight"`
}

// EvolutionEngine controls snapshot cadence.
type EvolutionEngine struct {
	SaveIntervalGenerations int `yaml:"save_interval_generations"`
}

// Document is the full daemon configuration. Field order is the order
// sections appear in the written file.
type Document struct {
	Environment      Environment      `yaml:"environment"`
	BytecodeVM       BytecodeVM       `yaml:"bytecode_vm"`
	SymmetryAnalyzer SymmetryAnalyzer `yaml:"symmetry_analyzer"`
	EvolutionEngine  EvolutionEngine  `yaml:"evolution_engine"`
}

// Default returns the fixed parameter set used by every harness run.
func Default() Document {
	return Document{
		Environment: Environment{
			InitialPopulation: 50,
			MaxPopulation:     200,
			MutationRate:      0.02,
			GenerationTimeMS:  500,
		},
		BytecodeVM: BytecodeVM{
			ImageWidth:      128,
			ImageHeight:     128,
			MaxInstructions: 5000,
		},
		SymmetryAnalyzer: SymmetryAnalyzer{
			HorizontalWeight: 0.3,
			VerticalWeight:   0.3,
			DiagonalWeight:   0.2,
			RotationalWeight: 0.2,
		},
		EvolutionEngine: EvolutionEngine{
			SaveIntervalGenerations: 50,
		},
	}
}

// Marshal renders doc as YAML with two-space indentation.
func Marshal(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode daemon config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode daemon config: %w", err)
	}
	return buf.Bytes(), nil
}

// Write materializes doc at path, replacing whatever was there.
func Write(path string, doc Document) error {
	data, err := Marshal(doc)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write daemon config: %w", err)
	}
	return nil
}
