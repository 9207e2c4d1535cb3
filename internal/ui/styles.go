package ui

import "github.com/charmbracelet/lipgloss"

// Palette shared by all command output.
const (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorMuted   = lipgloss.Color("#6B7280")
	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
)

var (
	// HeaderStyle renders table headers and section titles.
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	// PathStyle renders file paths.
	PathStyle = lipgloss.NewStyle().Foreground(colorMuted)
	// SuccessStyle renders completed steps.
	SuccessStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	// WarningStyle renders dry-run notices.
	WarningStyle = lipgloss.NewStyle().Foreground(colorWarning)
)
