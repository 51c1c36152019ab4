package optimize

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Metadata describes the sweep that produced a report.
type Metadata struct {
	RunID        string     `json:"run_id"`
	Symbol       string     `json:"symbol"`
	Timeframe    string     `json:"timeframe"`
	Strategy     string     `json:"strategy"`
	Start        time.Time  `json:"start"`
	End          time.Time  `json:"end"`
	Split        *time.Time `json:"split,omitempty"`
	Combinations int        `json:"combinations_tested"`
	GeneratedAt  time.Time  `json:"generated_at"`
}

// Report is the results artifact written after a sweep.
type Report struct {
	Metadata Metadata `json:"metadata"`
	Results  []Result `json:"results"`
}

// WriteReport persists the report atomically: the document lands on disk
// complete or not at all, so an interrupted run never leaves a truncated
// artifact behind.
func WriteReport(path string, rep Report) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".report-*.json")
	if err != nil {
		return fmt.Errorf("create temp report: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("publish report: %w", err)
	}
	return nil
}

// LoadReport reads a previously written report.
func LoadReport(path string) (Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Report{}, fmt.Errorf("read report: %w", err)
	}
	var rep Report
	if err := json.Unmarshal(data, &rep); err != nil {
		return Report{}, fmt.Errorf("decode report %s: %w", path, err)
	}
	return rep, nil
}
