package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// fitBlock forces s to exactly width columns (ANSI-aware) and height lines so
// the frame does not jump when page content changes size.
func fitBlock(s string, width, height int) string {
	if width < 0 {
		width = 0
	}
	lines := strings.Split(s, "\n")
	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}
	for i, ln := range lines {
		w := xansi.StringWidth(ln)
		if w > width {
			switch {
			case width <= 0:
				ln = ""
			case width == 1:
				ln = xansi.Cut(ln, 0, 1)
			default:
				ln = xansi.Cut(ln, 0, width-1) + "…"
			}
			w = xansi.StringWidth(ln)
		}
		if w < width {
			ln += strings.Repeat(" ", width-w)
		}
		lines[i] = ln
	}
	return strings.Join(lines, "\n")
}

// hrule draws a horizontal rule width columns wide.
func hrule(width int) string {
	if width <= 0 {
		return ""
	}
	return styleMuted().Render(strings.Repeat(glyphHRule(), width))
}
