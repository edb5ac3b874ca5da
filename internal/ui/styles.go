package ui

import (
	"github.com/charmbracelet/lipgloss"

	"logdeck/internal/model"
)

type Styles struct {
	Title    lipgloss.Style
	Status   lipgloss.Style
	Warn     lipgloss.Style
	Help     lipgloss.Style
	Severity map[model.Severity]lipgloss.Style
	Selected lipgloss.Style
	Header   lipgloss.Style
}

func NewStyles(dark bool) Styles {
	s := Styles{}
	if dark {
		s.Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
		s.Status = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
		s.Warn = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
		s.Help = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	} else {
		s.Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("27"))
		s.Status = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.Warn = lipgloss.NewStyle().Foreground(lipgloss.Color("130"))
		s.Help = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	}
	s.Severity = map[model.Severity]lipgloss.Style{
		model.SeverityDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		model.SeverityInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("45")),
		model.SeverityWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		model.SeverityError: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
	s.Selected = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("220"))
	s.Header = lipgloss.NewStyle().Bold(true)
	return s
}
