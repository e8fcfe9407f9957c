package theme

import "github.com/charmbracelet/lipgloss/v2"

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	List   ListTheme
	Detail DetailTheme
	Form   FormTheme
	Footer FooterTheme
}

// ListTheme styles the routine list rows.
type ListTheme struct {
	Title      lipgloss.Style
	Cursor     lipgloss.Style
	Name       lipgloss.Style
	Faint      lipgloss.Style
	TierLow    lipgloss.Style
	TierMedium lipgloss.Style
	TierHigh   lipgloss.Style
	DoneToday  lipgloss.Style
}

// DetailTheme styles the routine detail panel.
type DetailTheme struct {
	Frame   lipgloss.Style
	Title   lipgloss.Style
	Label   lipgloss.Style
	Body    lipgloss.Style
	Warning lipgloss.Style
}

// FormTheme styles the add/edit sheets.
type FormTheme struct {
	Frame        lipgloss.Style
	Title        lipgloss.Style
	Label        lipgloss.Style
	FocusedLabel lipgloss.Style
	Error        lipgloss.Style
}

// FooterTheme styles the bottom help bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	faint := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	label := lipgloss.NewStyle().Bold(true)
	return Theme{
		List: ListTheme{
			Title:      lipgloss.NewStyle().Bold(true),
			Cursor:     lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
			Name:       lipgloss.NewStyle(),
			Faint:      faint,
			TierLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("35")),
			TierMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("178")),
			TierHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("204")),
			DoneToday:  lipgloss.NewStyle().Foreground(lipgloss.Color("35")).Bold(true),
		},
		Detail: DetailTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(1, 2),
			Title:   lipgloss.NewStyle().Bold(true),
			Label:   label,
			Body:    lipgloss.NewStyle(),
			Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("204")).Bold(true),
		},
		Form: FormTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(1, 2),
			Title:        lipgloss.NewStyle().Bold(true),
			Label:        label,
			FocusedLabel: lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
			Error:        lipgloss.NewStyle().Foreground(lipgloss.Color("204")),
		},
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status: faint,
		},
	}
}

// TierStyle returns the style matching an urgency tier name.
func (t ListTheme) TierStyle(tier string) lipgloss.Style {
	switch tier {
	case "high":
		return t.TierHigh
	case "medium":
		return t.TierMedium
	default:
		return t.TierLow
	}
}
