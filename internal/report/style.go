package report

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Color palette shared with the rest of the console output
var (
	Cyan    = lipgloss.Color("#00E5FF") // Header
	Green   = lipgloss.Color("#2AFFAA") // Match
	Red     = lipgloss.Color("#FF5555") // Mismatch
	Yellow  = lipgloss.Color("#FFB500") // Expected value
	Base01  = lipgloss.Color("#6C7280") // Labels
	Magenta = lipgloss.Color("#FF1B6B") // Raw integers
)

// styles are bound to a renderer so that colors depend on the destination
// writer, not on os.Stdout.
type styles struct {
	header   lipgloss.Style
	label    lipgloss.Style
	raw      lipgloss.Style
	expected lipgloss.Style
	match    lipgloss.Style
	mismatch lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		header:   r.NewStyle().Foreground(Cyan).Bold(true),
		label:    r.NewStyle().Foreground(Base01),
		raw:      r.NewStyle().Foreground(Magenta),
		expected: r.NewStyle().Foreground(Yellow),
		match:    r.NewStyle().Foreground(Green).Bold(true),
		mismatch: r.NewStyle().Foreground(Red).Bold(true),
	}
}
