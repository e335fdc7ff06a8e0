package cli

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"todo/domain/entity"
)

// styles holds every lipgloss style the menu renders with. They share one
// renderer so colour follows the output writer rather than os.Stdout.
type styles struct {
	header   lipgloss.Style
	menuKey  lipgloss.Style
	success  lipgloss.Style
	failure  lipgloss.Style
	warning  lipgloss.Style
	faint    lipgloss.Style
	done     lipgloss.Style
	overdue  lipgloss.Style
	tag      lipgloss.Style
	priority map[entity.Priority]lipgloss.Style
}

func newStyles(out io.Writer, color bool) styles {
	r := lipgloss.NewRenderer(out)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}

	return styles{
		header:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		menuKey: r.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		success: r.NewStyle().Foreground(lipgloss.Color("42")),
		failure: r.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		warning: r.NewStyle().Foreground(lipgloss.Color("214")),
		faint:   r.NewStyle().Foreground(lipgloss.Color("245")),
		done:    r.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("245")),
		overdue: r.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		tag:     r.NewStyle().Foreground(lipgloss.Color("141")),
		priority: map[entity.Priority]lipgloss.Style{
			entity.PriorityHigh:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
			entity.PriorityMedium: r.NewStyle().Foreground(lipgloss.Color("220")),
			entity.PriorityLow:    r.NewStyle().Foreground(lipgloss.Color("42")),
		},
	}
}

func (s styles) forPriority(p entity.Priority) lipgloss.Style {
	if st, ok := s.priority[p]; ok {
		return st
	}
	return s.faint
}
