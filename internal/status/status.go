// Status artifact schema shared by the monitor and the simulator.
package status

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Training status values. The producer may report other values; only
// completed and error are terminal for the monitor.
const (
	StatusTraining  = "training"
	StatusCompleted = "completed"
	StatusError     = "error"
)

// Document is the on-disk shape of the status artifact as the producer
// writes it. Optional fields are pointers so absence is encoded as an
// explicit null rather than a zero value.
type Document struct {
	CurrentIteration          int64    `json:"current_iteration"`
	TotalIterations           int64    `json:"total_iterations"`
	ProgressPercentage        float64  `json:"progress_percentage"`
	ElapsedTimeSeconds        float64  `json:"elapsed_time_seconds"`
	EstimatedRemainingSeconds float64  `json:"estimated_remaining_seconds"`
	CurrentSplatCount         int64    `json:"current_splat_count"`
	LastEvalPSNR              *float64 `json:"last_eval_psnr"`
	LastEvalSSIM              *float64 `json:"last_eval_ssim"`
	ExportPath                *string  `json:"export_path"`
	CurrentExportFile         *string  `json:"current_export_file"`
	Status                    string   `json:"status"`
	LastUpdated               string   `json:"last_updated"`
	RunID                     string   `json:"run_id,omitempty"`
}

// Snapshot is one parsed read of the status artifact. Optional metrics
// stay pointers; export fields normalize null to the empty string.
type Snapshot struct {
	CurrentIteration          int64
	TotalIterations           int64
	ProgressPercentage        float64
	ElapsedTimeSeconds        float64
	EstimatedRemainingSeconds float64
	CurrentSplatCount         int64
	LastEvalPSNR              *float64
	LastEvalSSIM              *float64
	ExportPath                string
	CurrentExportFile         string
	Status                    string
	LastUpdated               string
}

// Terminal reports whether the snapshot's status ends a monitoring run.
func (s *Snapshot) Terminal() bool {
	return s.Status == StatusCompleted || s.Status == StatusError
}

// ErrMalformed marks a document that could not be decoded as JSON,
// typically a torn write by a non-atomic producer.
var ErrMalformed = errors.New("malformed status document")

// MissingKeyError reports a required artifact key that is absent or null.
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("status document missing required key %q", e.Key)
}

// rawSnapshot decodes every key as a pointer so required keys can be
// checked for presence, not just zero values.
type rawSnapshot struct {
	CurrentIteration          *int64   `json:"current_iteration"`
	TotalIterations           *int64   `json:"total_iterations"`
	ProgressPercentage        *float64 `json:"progress_percentage"`
	ElapsedTimeSeconds        *float64 `json:"elapsed_time_seconds"`
	EstimatedRemainingSeconds *float64 `json:"estimated_remaining_seconds"`
	CurrentSplatCount         *int64   `json:"current_splat_count"`
	LastEvalPSNR              *float64 `json:"last_eval_psnr"`
	LastEvalSSIM              *float64 `json:"last_eval_ssim"`
	ExportPath                *string  `json:"export_path"`
	CurrentExportFile         *string  `json:"current_export_file"`
	Status                    *string  `json:"status"`
	LastUpdated               *string  `json:"last_updated"`
}

// Parse decodes a status artifact. Undecodable input returns an error
// wrapping ErrMalformed; a required key that is absent or null returns
// a *MissingKeyError. Unknown keys are ignored.
func Parse(data []byte) (*Snapshot, error) {
	var raw rawSnapshot
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	required := []struct {
		key string
		ok  bool
	}{
		{"current_iteration", raw.CurrentIteration != nil},
		{"total_iterations", raw.TotalIterations != nil},
		{"progress_percentage", raw.ProgressPercentage != nil},
		{"elapsed_time_seconds", raw.ElapsedTimeSeconds != nil},
		{"estimated_remaining_seconds", raw.EstimatedRemainingSeconds != nil},
		{"current_splat_count", raw.CurrentSplatCount != nil},
		{"status", raw.Status != nil},
		{"last_updated", raw.LastUpdated != nil},
	}
	for _, r := range required {
		if !r.ok {
			return nil, &MissingKeyError{Key: r.key}
		}
	}

	snap := &Snapshot{
		CurrentIteration:          *raw.CurrentIteration,
		TotalIterations:           *raw.TotalIterations,
		ProgressPercentage:        *raw.ProgressPercentage,
		ElapsedTimeSeconds:        *raw.ElapsedTimeSeconds,
		EstimatedRemainingSeconds: *raw.EstimatedRemainingSeconds,
		CurrentSplatCount:         *raw.CurrentSplatCount,
		LastEvalPSNR:              raw.LastEvalPSNR,
		LastEvalSSIM:              raw.LastEvalSSIM,
		Status:                    *raw.Status,
		LastUpdated:               *raw.LastUpdated,
	}
	if raw.ExportPath != nil {
		snap.ExportPath = *raw.ExportPath
	}
	if raw.CurrentExportFile != nil {
		snap.CurrentExportFile = *raw.CurrentExportFile
	}
	return snap, nil
}

// Load reads and parses the artifact at path. A missing file surfaces
// as fs.ErrNotExist, which also covers the file vanishing between
// polls.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("read status file: %w", err)
	}
	return Parse(data)
}
