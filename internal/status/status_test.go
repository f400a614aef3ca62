package status

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const validDoc = `{
	"current_iteration": 100,
	"total_iterations": 1000,
	"progress_percentage": 10.0,
	"elapsed_time_seconds": 60.5,
	"estimated_remaining_seconds": 544.5,
	"current_splat_count": 5000,
	"last_eval_psnr": null,
	"last_eval_ssim": null,
	"export_path": "./test",
	"current_export_file": null,
	"status": "training",
	"last_updated": "2025-06-28T09:34:56Z"
}`

func TestParseValid(t *testing.T) {
	snap, err := Parse([]byte(validDoc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if snap.CurrentIteration != 100 || snap.TotalIterations != 1000 {
		t.Fatalf("unexpected iterations: %d/%d", snap.CurrentIteration, snap.TotalIterations)
	}
	if snap.ProgressPercentage != 10.0 {
		t.Fatalf("unexpected progress: %v", snap.ProgressPercentage)
	}
	if snap.CurrentSplatCount != 5000 {
		t.Fatalf("unexpected splat count: %d", snap.CurrentSplatCount)
	}
	if snap.LastEvalPSNR != nil || snap.LastEvalSSIM != nil {
		t.Fatalf("null metrics should stay absent: %v %v", snap.LastEvalPSNR, snap.LastEvalSSIM)
	}
	if snap.ExportPath != "./test" || snap.CurrentExportFile != "" {
		t.Fatalf("unexpected export fields: %q %q", snap.ExportPath, snap.CurrentExportFile)
	}
	if snap.Status != StatusTraining {
		t.Fatalf("unexpected status: %q", snap.Status)
	}
}

func TestParseOptionalMetrics(t *testing.T) {
	doc := `{
		"current_iteration": 600,
		"total_iterations": 1000,
		"progress_percentage": 60.0,
		"elapsed_time_seconds": 120.0,
		"estimated_remaining_seconds": 80.0,
		"current_splat_count": 120000,
		"last_eval_psnr": 31.42,
		"last_eval_ssim": 0.912,
		"current_export_file": "splats_600.ply",
		"status": "training",
		"last_updated": "2025-06-28T09:40:00Z"
	}`
	snap, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if snap.LastEvalPSNR == nil || *snap.LastEvalPSNR != 31.42 {
		t.Fatalf("unexpected psnr: %v", snap.LastEvalPSNR)
	}
	if snap.LastEvalSSIM == nil || *snap.LastEvalSSIM != 0.912 {
		t.Fatalf("unexpected ssim: %v", snap.LastEvalSSIM)
	}
	if snap.CurrentExportFile != "splats_600.ply" {
		t.Fatalf("unexpected export file: %q", snap.CurrentExportFile)
	}
}

func TestParseUnknownKeysTolerated(t *testing.T) {
	doc := `{
		"current_iteration": 1,
		"total_iterations": 10,
		"progress_percentage": 10.0,
		"elapsed_time_seconds": 1.0,
		"estimated_remaining_seconds": 9.0,
		"current_splat_count": 10,
		"status": "warmup",
		"last_updated": "2025-06-28T09:34:56Z",
		"run_id": "d2f1c1f0-0000-0000-0000-000000000000",
		"gpu_name": "test"
	}`
	snap, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if snap.Terminal() {
		t.Fatalf("unknown status %q must not be terminal", snap.Status)
	}
}

func TestParseMissingRequiredKeys(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		key  string
	}{
		{
			name: "no status",
			doc: `{"current_iteration":1,"total_iterations":10,"progress_percentage":10.0,
				"elapsed_time_seconds":1.0,"estimated_remaining_seconds":9.0,
				"current_splat_count":10,"last_updated":"2025-06-28T09:34:56Z"}`,
			key: "status",
		},
		{
			name: "null iteration",
			doc: `{"current_iteration":null,"total_iterations":10,"progress_percentage":10.0,
				"elapsed_time_seconds":1.0,"estimated_remaining_seconds":9.0,
				"current_splat_count":10,"status":"training","last_updated":"x"}`,
			key: "current_iteration",
		},
		{
			name: "no splat count",
			doc: `{"current_iteration":1,"total_iterations":10,"progress_percentage":10.0,
				"elapsed_time_seconds":1.0,"estimated_remaining_seconds":9.0,
				"status":"training","last_updated":"x"}`,
			key: "current_splat_count",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.doc))
			var missing *MissingKeyError
			if !errors.As(err, &missing) {
				t.Fatalf("expected MissingKeyError, got %v", err)
			}
			if missing.Key != tc.key {
				t.Fatalf("expected key %q, got %q", tc.key, missing.Key)
			}
		})
	}
}

func TestParseMalformed(t *testing.T) {
	for _, doc := range []string{"", "{", `{"current_iteration": 5`, "not json"} {
		if _, err := Parse([]byte(doc)); !errors.Is(err, ErrMalformed) {
			t.Fatalf("doc %q: expected ErrMalformed, got %v", doc, err)
		}
	}
}

func TestTerminal(t *testing.T) {
	cases := map[string]bool{
		StatusCompleted: true,
		StatusError:     true,
		StatusTraining:  false,
		"paused":        false,
		"":              false,
	}
	for st, want := range cases {
		s := &Snapshot{Status: st}
		if s.Terminal() != want {
			t.Fatalf("Terminal(%q) = %v, want %v", st, !want, want)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "status.json")

	if _, err := Load(path); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}

	if err := os.WriteFile(path, []byte(validDoc), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	snap, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if snap.CurrentIteration != 100 {
		t.Fatalf("unexpected iteration: %d", snap.CurrentIteration)
	}
}
