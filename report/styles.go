// Package report renders an audit as colourised console text.
package report

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used by each part of the report.
type Styles struct {
	// Banner marks the "Analysing:" label.
	Banner lipgloss.Style
	// Header styles section labels.
	Header lipgloss.Style
	// Value styles the primary value of a line.
	Value lipgloss.Style
	// Accent styles keywords, heading tags, anchor text and image fields.
	Accent lipgloss.Style
	// Host styles the host part of each redirect hop.
	Host lipgloss.Style
	// Alert highlights oversized images.
	Alert lipgloss.Style
}

// DefaultStyles mirrors the classic ANSI palette: magenta headers, blue
// values, yellow accents, green hosts and red alerts.
func DefaultStyles() *Styles {
	return &Styles{
		Banner: lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		Header: lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
		Value:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Accent: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Host:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Alert:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	}
}
