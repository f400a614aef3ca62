package status

import "fmt"

// FormatDuration renders a duration in seconds as a compact single
// unit: "59.9s", "1.0m", "1.0h". No composite forms like "1h 5m".
func FormatDuration(seconds float64) string {
	switch {
	case seconds < 60:
		return fmt.Sprintf("%.1fs", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%.1fm", seconds/60)
	default:
		return fmt.Sprintf("%.1fh", seconds/3600)
	}
}
