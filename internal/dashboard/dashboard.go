package dashboard

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Run renders the dashboard for the artifact at path, polling at
// interval, until the operator quits. The run outlives a terminal
// status so the final state stays on screen.
func Run(path string, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", interval)
	}
	p := tea.NewProgram(newModel(path, interval), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
