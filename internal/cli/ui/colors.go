// Package ui provides UI styling and output functions for the CLI.
package ui

import "github.com/charmbracelet/lipgloss"

// Message styles
var (
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555"))
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#50FA7B"))
	InfoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#0099FF"))
	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB86C"))
	DimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	BoldStyle    = lipgloss.NewStyle().Bold(true)
)

// Working tree styles used by the status table
var (
	// DirtyStyle marks trees with uncommitted or untracked changes
	DirtyStyle  = WarningStyle.Bold(true)
	CleanStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00CC66"))
	BranchStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#AA88FF"))
)

// Icons
const (
	RepositoryIcon = "📦"
	StatusIcon     = "🔍"
	SuccessIcon    = "✅"
	ErrorIcon      = "❌"
	InfoIcon       = "ⓘ"
	WarningIcon    = "⚠️"
)
