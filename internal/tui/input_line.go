package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// renderInputLine renders a text input on one visual line. Newlines would
// make lipgloss wrap the input while typing.
func renderInputLine(bodyW int, inputView string) string {
	if bodyW < 10 {
		bodyW = 10
	}
	inputView = strings.ReplaceAll(inputView, "\n", " ")
	inputView = strings.ReplaceAll(inputView, "\r", " ")

	line := lipgloss.PlaceHorizontal(
		bodyW,
		lipgloss.Left,
		" "+inputView+" ",
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceBackground(colorInputBg),
	)
	if xansi.StringWidth(line) > bodyW {
		line = xansi.Cut(line, 0, bodyW) + "\x1b[0m"
	}
	return line
}

// renderField renders a labeled input with its error line beneath.
func renderField(bodyW int, label, inputView, errMsg string, focused bool) string {
	lbl := styleMuted().Render(label)
	if focused {
		lbl = lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render(glyphCursor() + " " + label)
	}
	out := lbl + "\n" + renderInputLine(bodyW, inputView)
	if strings.TrimSpace(errMsg) != "" {
		out += "\n" + styleError().Render(errMsg)
	}
	return out
}
