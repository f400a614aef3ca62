// Terminal dashboard rendering the monitor's poll loop
package dashboard

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/wordwrap"

	"splatwatch/internal/monitor"
	"splatwatch/internal/status"
)

// pollMsg triggers one read of the status artifact.
type pollMsg time.Time

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	doneStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	failStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

type model struct {
	path     string
	interval time.Duration
	now      func() time.Time

	bar  progress.Model
	vp   viewport.Model
	snap *status.Snapshot

	lines         []string
	notice        string
	lastIteration int64
	wrap          bool
	autoscroll    bool
	done          bool
	width         int
	height        int
}

func newModel(path string, interval time.Duration) model {
	bar := progress.New(progress.WithDefaultGradient())
	vp := viewport.New(0, 0)
	return model{
		path:          path,
		interval:      interval,
		now:           time.Now,
		bar:           bar,
		vp:            vp,
		lastIteration: -1,
		autoscroll:    true,
	}
}

func (m model) Init() tea.Cmd {
	return func() tea.Msg { return pollMsg(time.Now()) }
}

func (m model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return pollMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = msg.Width - 4
		m.vp.Width = msg.Width
		m.vp.Height = max(msg.Height-9, 3)
		m.refreshViewport()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "w":
			m.wrap = !m.wrap
			m.refreshViewport()
		case "a":
			m.autoscroll = !m.autoscroll
		default:
			var cmd tea.Cmd
			m.vp, cmd = m.vp.Update(msg)
			return m, cmd
		}
	case pollMsg:
		m.refresh()
		if m.done {
			return m, nil
		}
		return m, m.tick()
	}
	return m, nil
}

// refresh performs one poll with the same anomaly policy as the plain
// monitor: every failure is a notice, never a crash.
func (m *model) refresh() {
	snap, err := status.Load(m.path)
	if err != nil {
		var missing *status.MissingKeyError
		switch {
		case errors.Is(err, fs.ErrNotExist):
			m.notice = "Status file not found, waiting for training to start..."
		case errors.Is(err, status.ErrMalformed):
			m.notice = "Status file corrupted, retrying..."
		case errors.As(err, &missing):
			m.notice = fmt.Sprintf("Missing key in status file: %q", missing.Key)
		default:
			m.notice = fmt.Sprintf("Status file unreadable, retrying: %v", err)
		}
		return
	}

	m.notice = ""
	m.snap = snap
	if snap.CurrentIteration != m.lastIteration {
		m.lastIteration = snap.CurrentIteration
		m.lines = append(m.lines, monitor.RenderLine(m.now(), snap))
		m.refreshViewport()
	}
	if snap.Terminal() {
		m.done = true
	}
}

func (m *model) refreshViewport() {
	lines := m.lines
	if m.wrap && m.vp.Width > 0 {
		wrapped := make([]string, 0, len(lines))
		for _, l := range lines {
			wrapped = append(wrapped, wordwrap.String(l, m.vp.Width))
		}
		lines = wrapped
	}
	m.vp.SetContent(strings.Join(lines, "\n"))
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("splatwatch") + " " + labelStyle.Render(m.path) + "\n\n")

	if m.snap != nil {
		b.WriteString(m.bar.ViewAs(m.snap.ProgressPercentage/100) + "\n\n")
		b.WriteString(m.statsLine() + "\n")
	} else {
		b.WriteString(m.bar.ViewAs(0) + "\n\n")
		b.WriteString(labelStyle.Render("no status read yet") + "\n")
	}

	if m.notice != "" {
		notice := m.notice
		if m.width > 0 {
			notice = wordwrap.String(notice, m.width)
		}
		b.WriteString(noticeStyle.Render(notice) + "\n")
	}
	if m.done && m.snap != nil {
		switch m.snap.Status {
		case status.StatusCompleted:
			line := "Training completed!"
			if m.snap.CurrentExportFile != "" && m.snap.ExportPath != "" {
				line += fmt.Sprintf(" Final output: %s/%s", m.snap.ExportPath, m.snap.CurrentExportFile)
			}
			b.WriteString(doneStyle.Render(line) + "\n")
		case status.StatusError:
			b.WriteString(failStyle.Render("Training failed!") + "\n")
		}
	}

	b.WriteString("\n" + m.vp.View() + "\n")
	b.WriteString(labelStyle.Render("q quit · w wrap · a autoscroll"))
	return b.String()
}

func (m model) statsLine() string {
	s := m.snap
	parts := []string{
		labelStyle.Render("iter ") + valueStyle.Render(fmt.Sprintf("%d/%d", s.CurrentIteration, s.TotalIterations)),
		labelStyle.Render("elapsed ") + valueStyle.Render(status.FormatDuration(s.ElapsedTimeSeconds)),
		labelStyle.Render("remaining ") + valueStyle.Render(status.FormatDuration(s.EstimatedRemainingSeconds)),
		labelStyle.Render("splats ") + valueStyle.Render(humanize.Comma(s.CurrentSplatCount)),
		labelStyle.Render("status ") + valueStyle.Render(s.Status),
	}
	if s.LastEvalPSNR != nil && s.LastEvalSSIM != nil {
		parts = append(parts,
			labelStyle.Render("psnr ")+valueStyle.Render(fmt.Sprintf("%.2f", *s.LastEvalPSNR)),
			labelStyle.Render("ssim ")+valueStyle.Render(fmt.Sprintf("%.3f", *s.LastEvalSSIM)))
	}
	if s.CurrentExportFile != "" {
		parts = append(parts, labelStyle.Render("export ")+valueStyle.Render(s.CurrentExportFile))
	}
	return strings.Join(parts, labelStyle.Render("  |  "))
}
