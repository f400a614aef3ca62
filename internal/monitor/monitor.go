// Poll loop observing a training status artifact.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"splatwatch/internal/status"
)

// Monitor polls a status artifact and emits one progress line per
// iteration change. It only ever reads the artifact; all output goes
// to a single writer.
type Monitor struct {
	path     string
	interval time.Duration
	out      io.Writer
	now      func() time.Time

	lastIteration int64
}

// New creates a Monitor for the artifact at path. The interval must be
// positive.
func New(path string, interval time.Duration) (*Monitor, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive, got %s", interval)
	}
	return &Monitor{
		path:          path,
		interval:      interval,
		out:           os.Stdout,
		now:           time.Now,
		lastIteration: -1,
	}, nil
}

// Run polls until the producer reports a terminal status or ctx is
// cancelled. Both are normal terminations and return nil: the monitor
// reports outcomes, it does not judge them.
func (m *Monitor) Run(ctx context.Context) error {
	fmt.Fprintf(m.out, "Monitoring training progress from: %s\n", m.path)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		if m.poll() {
			return nil
		}
		select {
		case <-ctx.Done():
			fmt.Fprintln(m.out, "Monitoring stopped by user.")
			return nil
		case <-ticker.C:
		}
	}
}

// poll performs one read-parse-render cycle and reports whether the
// loop should stop. Every anomaly is a one-line notice; none are
// fatal, since the producer may be mid-write or not started yet.
func (m *Monitor) poll() bool {
	snap, err := status.Load(m.path)
	if err != nil {
		var missing *status.MissingKeyError
		switch {
		case errors.Is(err, fs.ErrNotExist):
			fmt.Fprintln(m.out, "Status file not found, waiting for training to start...")
		case errors.Is(err, status.ErrMalformed):
			fmt.Fprintln(m.out, "Status file corrupted, retrying...")
		case errors.As(err, &missing):
			fmt.Fprintf(m.out, "Missing key in status file: %q\n", missing.Key)
		default:
			fmt.Fprintf(m.out, "Status file unreadable, retrying: %v\n", err)
		}
		return false
	}

	if snap.CurrentIteration != m.lastIteration {
		m.lastIteration = snap.CurrentIteration
		fmt.Fprintln(m.out, RenderLine(m.now(), snap))
	}

	switch snap.Status {
	case status.StatusCompleted:
		notice := "Training completed!"
		if snap.CurrentExportFile != "" && snap.ExportPath != "" {
			// Plain join keeps relative prefixes like "./out" intact.
			notice += fmt.Sprintf(" Final output: %s/%s", snap.ExportPath, snap.CurrentExportFile)
		}
		fmt.Fprintln(m.out, notice)
		return true
	case status.StatusError:
		fmt.Fprintln(m.out, "Training failed!")
		return true
	}
	return false
}
