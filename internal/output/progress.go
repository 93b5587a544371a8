package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const defaultBarWidth = 40

var (
	barLabelStyle   = lipgloss.NewStyle().Foreground(ColorForeground).Bold(true)
	barFilledStyle  = lipgloss.NewStyle().Foreground(ColorSuccess)
	barEmptyStyle   = lipgloss.NewStyle().Foreground(ColorBorder)
	barPercentStyle = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	barCountStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
)

// ProgressBar renders completed runs out of the total on one line.
type ProgressBar struct {
	Current int
	Total   int
	Width   int
	Label   string
}

// NewProgressBar creates a progress bar labelled label.
func NewProgressBar(label string, total int) *ProgressBar {
	return &ProgressBar{Total: total, Width: defaultBarWidth, Label: label}
}

// Update records the number of completed runs and the latest total.
func (p *ProgressBar) Update(current, total int) {
	p.Current, p.Total = current, total
}

// Percentage returns the completion percentage
func (p *ProgressBar) Percentage() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Current) / float64(p.Total) * 100
}

// IsComplete returns true if progress is at 100%
func (p *ProgressBar) IsComplete() bool {
	return p.Current >= p.Total
}

// Render returns the styled progress bar
func (p *ProgressBar) Render() string {
	pct := p.Percentage()
	filled := min(p.Width, int(float64(p.Width)*pct/100))

	var sb strings.Builder
	if p.Label != "" {
		sb.WriteString(barLabelStyle.Render(p.Label) + " ")
	}
	sb.WriteString("[")
	sb.WriteString(barFilledStyle.Render(strings.Repeat("█", filled)))
	sb.WriteString(barEmptyStyle.Render(strings.Repeat("░", p.Width-filled)))
	sb.WriteString("] ")
	sb.WriteString(barPercentStyle.Render(fmt.Sprintf("%.1f%%", pct)) + " ")
	sb.WriteString(barCountStyle.Render(fmt.Sprintf("%d/%d", p.Current, p.Total)))
	return sb.String()
}

// ParseProgress extracts the counts from a "Completed N/M runs" line.
func ParseProgress(line string) (current, total int, ok bool) {
	if _, err := fmt.Sscanf(line, "Completed %d/%d runs", &current, &total); err != nil {
		return 0, 0, false
	}
	return current, total, true
}
