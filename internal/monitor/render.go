package monitor

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"splatwatch/internal/status"
)

// RenderLine formats one canonical progress line for a snapshot.
// Evaluation metrics appear only when both are present; the export
// segment only when a file is named.
func RenderLine(now time.Time, snap *status.Snapshot) string {
	line := fmt.Sprintf("[%s] Iter %d/%d (%.1f%%) | Elapsed: %s | Remaining: %s | Splats: %s | Status: %s",
		now.Format("15:04:05"),
		snap.CurrentIteration,
		snap.TotalIterations,
		snap.ProgressPercentage,
		status.FormatDuration(snap.ElapsedTimeSeconds),
		status.FormatDuration(snap.EstimatedRemainingSeconds),
		humanize.Comma(snap.CurrentSplatCount),
		snap.Status,
	)
	if snap.LastEvalPSNR != nil && snap.LastEvalSSIM != nil {
		line += fmt.Sprintf(" | PSNR: %.2f | SSIM: %.3f", *snap.LastEvalPSNR, *snap.LastEvalSSIM)
	}
	if snap.CurrentExportFile != "" {
		line += fmt.Sprintf(" | Last export: %s", snap.CurrentExportFile)
	}
	return line
}
