// Package ui is the terminal front end: a lipgloss theme, a painter for
// display blocks, and the bubbletea program that drives a chat session.
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/kenya-legal-ai/lexclient/internal/legal/model"
)

// Palette taken from the Kenyan flag, softened for terminal backgrounds.
var (
	Green  = lipgloss.AdaptiveColor{Light: "#006B3F", Dark: "#3FB77A"}
	Red    = lipgloss.AdaptiveColor{Light: "#B3261E", Dark: "#F2766B"}
	Amber  = lipgloss.AdaptiveColor{Light: "#8A5A00", Dark: "#FFC107"}
	Ink    = lipgloss.AdaptiveColor{Light: "#1B1B1B", Dark: "#EDEDED"}
	Muted  = lipgloss.AdaptiveColor{Light: "#6B6B6B", Dark: "#8C8C8C"}
	Accent = lipgloss.AdaptiveColor{Light: "#1E4E8C", Dark: "#7FB2F0"}
)

// Styles holds every style the painter and the chat view use.
type Styles struct {
	Header lipgloss.Style
	Status lipgloss.Style
	Footer lipgloss.Style

	UserLabel      lipgloss.Style
	User           lipgloss.Style
	AssistantLabel lipgloss.Style
	Body           lipgloss.Style
	Heading        lipgloss.Style
	Strong         lipgloss.Style
	Emphasis       lipgloss.Style
	Citation       lipgloss.Style
	Pending        lipgloss.Style

	Notice     lipgloss.Style
	SourceChip lipgloss.Style
	FollowUp   lipgloss.Style
	Error      lipgloss.Style
	Empty      lipgloss.Style

	Disclaimer map[model.DisclaimerLevel]lipgloss.Style

	ResultTitle lipgloss.Style
	Score       lipgloss.Style
	Tag         lipgloss.Style
	Card        lipgloss.Style

	Online  lipgloss.Style
	Offline lipgloss.Style
}

// DefaultStyles returns the standard theme.
func DefaultStyles() Styles {
	chip := lipgloss.NewStyle().Padding(0, 1)

	return Styles{
		Header: lipgloss.NewStyle().Foreground(Green).Bold(true),
		Status: lipgloss.NewStyle().Foreground(Muted),
		Footer: lipgloss.NewStyle().Foreground(Muted).Faint(true),

		UserLabel:      lipgloss.NewStyle().Foreground(Accent).Bold(true),
		User:           lipgloss.NewStyle().Foreground(Ink),
		AssistantLabel: lipgloss.NewStyle().Foreground(Green).Bold(true),
		Body:           lipgloss.NewStyle().Foreground(Ink),
		Heading:        lipgloss.NewStyle().Foreground(Green).Bold(true).Underline(true),
		Strong:         lipgloss.NewStyle().Bold(true),
		Emphasis:       lipgloss.NewStyle().Italic(true),
		Citation:       lipgloss.NewStyle().Foreground(Accent),
		Pending:        lipgloss.NewStyle().Foreground(Amber).Italic(true),

		Notice:     lipgloss.NewStyle().Foreground(Amber).Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(Amber).PaddingLeft(1),
		SourceChip: chip.Foreground(Accent).Underline(true),
		FollowUp:   chip.Foreground(Green),
		Error:      lipgloss.NewStyle().Foreground(Red).Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(Red).PaddingLeft(1),
		Empty:      lipgloss.NewStyle().Foreground(Muted).Italic(true),

		Disclaimer: map[model.DisclaimerLevel]lipgloss.Style{
			model.DisclaimerResearch:       lipgloss.NewStyle().Foreground(Muted).Faint(true),
			model.DisclaimerBorderline:     lipgloss.NewStyle().Foreground(Amber),
			model.DisclaimerSpecificAdvice: lipgloss.NewStyle().Foreground(Red).Bold(true).Border(lipgloss.ThickBorder(), false, false, false, true).BorderForeground(Red).PaddingLeft(1),
		},

		ResultTitle: lipgloss.NewStyle().Foreground(Ink).Bold(true),
		Score:       lipgloss.NewStyle().Foreground(Green).Bold(true),
		Tag:         lipgloss.NewStyle().Foreground(Muted),
		Card:        lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(Muted).Padding(0, 1),

		Online:  lipgloss.NewStyle().Foreground(Green).Bold(true),
		Offline: lipgloss.NewStyle().Foreground(Red).Bold(true),
	}
}

// DisclaimerStyle falls back to the research style for unknown levels.
func (s Styles) DisclaimerStyle(level model.DisclaimerLevel) lipgloss.Style {
	if st, ok := s.Disclaimer[level]; ok {
		return st
	}
	return s.Disclaimer[model.DisclaimerResearch]
}
