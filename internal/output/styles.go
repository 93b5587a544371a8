package output

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	ColorPrimary    = lipgloss.Color("#7D56F4")
	ColorSuccess    = lipgloss.Color("#04B575")
	ColorDanger     = lipgloss.Color("#FF5F87")
	ColorForeground = lipgloss.Color("#FAFAFA")
	ColorMuted      = lipgloss.Color("#626262")
	ColorBorder     = lipgloss.Color("#383838")
)

// Styles
var (
	TitleStyle          = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	TableHeaderStyle    = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	TableCellStyle      = lipgloss.NewStyle().Foreground(ColorForeground)
	MetricLabelStyle    = lipgloss.NewStyle().Foreground(ColorMuted)
	MetricPositiveStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	MetricNegativeStyle = lipgloss.NewStyle().Foreground(ColorDanger)
)
