package tui

import (
	"os"
	"strings"
	"sync/atomic"
)

type glyphSet int32

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

// activeGlyphs is read from View and written once at startup (and by tests).
var activeGlyphs atomic.Int32

// glyph is one affordance in both renderings.
type glyph struct{ unicode, ascii string }

var (
	cursorGlyph    = glyph{"›", ">"}
	separatorGlyph = glyph{"│", "|"}
	prevPageGlyph  = glyph{"‹", "<"}
	nextPageGlyph  = glyph{"›", ">"}
	hruleGlyph     = glyph{"─", "-"}
)

func (g glyph) String() string {
	if glyphs() == glyphSetASCII {
		return g.ascii
	}
	return g.unicode
}

// applyGlyphPreference picks the glyph set from USERHUB_TUI_GLYPHS, else from
// tui.glyphs in config.json. Unrecognized names leave the set unchanged.
func applyGlyphPreference(configured string) {
	name := strings.TrimSpace(os.Getenv("USERHUB_TUI_GLYPHS"))
	if name == "" {
		name = strings.TrimSpace(configured)
	}
	if gs, ok := parseGlyphSet(name); ok {
		setGlyphs(gs)
	}
}

func parseGlyphSet(name string) (glyphSet, bool) {
	switch strings.ToLower(name) {
	case "", "unicode", "utf8", "utf-8":
		return glyphSetUnicode, true
	case "ascii":
		return glyphSetASCII, true
	}
	return 0, false
}

func setGlyphs(gs glyphSet) { activeGlyphs.Store(int32(gs)) }

func glyphs() glyphSet { return glyphSet(activeGlyphs.Load()) }

func glyphCursor() string    { return cursorGlyph.String() }
func glyphSeparator() string { return separatorGlyph.String() }
func glyphPrev() string      { return prevPageGlyph.String() }
func glyphNext() string      { return nextPageGlyph.String() }
func glyphHRule() string     { return hruleGlyph.String() }
