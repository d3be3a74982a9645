package artifacts

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// NotAvailable stands in for a statistic the summary does not carry.
const NotAvailable = "N/A"

// Summary statistic keys read from the document's "statistics" mapping.
const (
	KeyTotalGenerations  = "total_generations"
	KeyBestFitness       = "best_fitness"
	KeyCurrentPopulation = "current_population"
)

// SummaryProbe holds the statistics extracted from the exported summary.
type SummaryProbe struct {
	Path              string
	Found             bool
	HasStatistics     bool
	TotalGenerations  string
	BestFitness       string
	CurrentPopulation string
	Err               error
}

// ProbeSummary parses the JSON summary at path as a mapping. Absent fields,
// or an absent "statistics" section, read as NotAvailable.
func ProbeSummary(path string) SummaryProbe {
	probe := SummaryProbe{
		Path:              path,
		TotalGenerations:  NotAvailable,
		BestFitness:       NotAvailable,
		CurrentPopulation: NotAvailable,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return probe
		}
		probe.Err = fmt.Errorf("read summary: %w", err)
		return probe
	}
	probe.Found = true

	var doc map[string]any
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&doc); err != nil {
		probe.Err = fmt.Errorf("parse summary: %w", err)
		return probe
	}

	stats, ok := doc["statistics"].(map[string]any)
	if !ok {
		return probe
	}
	probe.HasStatistics = true
	probe.TotalGenerations = statValue(stats, KeyTotalGenerations)
	probe.BestFitness = statValue(stats, KeyBestFitness)
	probe.CurrentPopulation = statValue(stats, KeyCurrentPopulation)
	return probe
}

func statValue(stats map[string]any, key string) string {
	value, ok := stats[key]
	if !ok || value == nil {
		return NotAvailable
	}
	switch v := value.(type) {
	case json.Number:
		return v.String()
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
