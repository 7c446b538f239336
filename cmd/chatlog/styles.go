package main

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	colorOK     = lipgloss.Color("10") // bright green
	colorWarn   = lipgloss.Color("11") // bright yellow
	colorFail   = lipgloss.Color("9")  // bright red
	colorDim    = lipgloss.Color("240")
	colorAuthor = lipgloss.Color("12") // bright blue

	styleOK      = lipgloss.NewStyle().Foreground(colorOK).Bold(true)
	styleWarn    = lipgloss.NewStyle().Foreground(colorWarn).Bold(true)
	styleFail    = lipgloss.NewStyle().Foreground(colorFail).Bold(true)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleAuthor  = lipgloss.NewStyle().Foreground(colorAuthor).Bold(true)
	styleSection = lipgloss.NewStyle().Bold(true).Underline(true)
)

// paint renders text with s only when stdout is a terminal, so piped output
// stays plain.
func paint(s lipgloss.Style, text string) string {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return text
	}
	return s.Render(text)
}
