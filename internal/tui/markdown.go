package tui

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

var (
	mdRendererMu sync.Mutex
	// Keyed by style and wrap width. WithAutoStyle can block on terminal
	// background queries, so renderers use a fixed style and are reused.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

func renderMarkdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}

	style := markdownStyle()
	key := style + ":" + strconv.Itoa(width)

	mdRendererMu.Lock()
	r := mdRenderers[key]
	if r == nil {
		cfg := markdownStyleConfig(style)
		zero := uint(0)
		cfg.Document.Margin = &zero
		rr, err := glamour.NewTermRenderer(
			glamour.WithStyles(cfg),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			mdRendererMu.Unlock()
			return md
		}
		mdRenderers[key] = rr
		r = rr
	}
	mdRendererMu.Unlock()

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

func markdownStyleConfig(styleName string) ansi.StyleConfig {
	cfg := styles.DarkStyleConfig
	if styleName == "light" {
		cfg = styles.LightStyleConfig
	}
	text := mdColor(colorSurfaceFg, styleName)
	accent := mdColor(colorAccent, styleName)
	cfg.Text.Color = text
	cfg.Heading.Color = text
	cfg.H1.Color = text
	cfg.H2.Color = text
	cfg.H3.Color = text
	cfg.Code.Color = text
	cfg.Link.Color = accent
	cfg.LinkText.Color = accent
	cfg.Strong.Color = nil
	cfg.Emph.Color = nil
	return cfg
}

func markdownStyle() string {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("USERHUB_TUI_THEME"))) {
	case "light":
		return "light"
	case "dark":
		return "dark"
	}
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

func mdColor(c lipgloss.AdaptiveColor, styleName string) *string {
	v := c.Dark
	if styleName == "light" {
		v = c.Light
	}
	return &v
}
