package viz

import "github.com/charmbracelet/lipgloss"

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)

	// MetricLabel and MetricValue style the post-run summary lines.
	MetricLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	MetricValue = lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true)

	// Title styles the CLI banners.
	Title = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
)
