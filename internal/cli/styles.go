package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true)
	nameStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("141"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

var divider = strings.Repeat("─", 50)

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
