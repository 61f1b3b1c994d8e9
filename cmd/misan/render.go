package main

import (
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	// sectionStyle marks section headers in streamed output.
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	// thinkingStyle dims the streamed reasoning trace.
	thinkingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// renderMarkdown renders text as markdown for terminal display. When
// stdout is not a terminal, or the renderer cannot be constructed, the
// text passes through unchanged.
func renderMarkdown(text string) string {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return text
	}

	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return text
	}
	rendered, err := renderer.Render(text)
	if err != nil {
		return text
	}
	return rendered
}
