package tui

import "testing"

func TestGlyphs_FromEnvAndConfig(t *testing.T) {
	t.Cleanup(func() { setGlyphs(glyphSetUnicode) })

	t.Setenv("USERHUB_TUI_GLYPHS", "")
	setGlyphs(glyphSetUnicode)
	applyGlyphPreference("")
	if got := glyphs(); got != glyphSetUnicode {
		t.Fatalf("expected unicode glyphs by default; got %v", got)
	}

	applyGlyphPreference("ascii")
	if got := glyphs(); got != glyphSetASCII {
		t.Fatalf("expected ascii glyphs from config; got %v", got)
	}

	// The environment wins over config.
	t.Setenv("USERHUB_TUI_GLYPHS", "unicode")
	applyGlyphPreference("ascii")
	if got := glyphs(); got != glyphSetUnicode {
		t.Fatalf("expected unicode glyphs from env; got %v", got)
	}

	// Unknown values should be ignored (keep current).
	setGlyphs(glyphSetASCII)
	t.Setenv("USERHUB_TUI_GLYPHS", "bogus")
	applyGlyphPreference("")
	if got := glyphs(); got != glyphSetASCII {
		t.Fatalf("expected unknown to be ignored; got %v", got)
	}
	if glyphCursor() != ">" || glyphHRule() != "-" {
		t.Fatalf("unexpected ascii glyphs: %q %q", glyphCursor(), glyphHRule())
	}
}

func TestParseGlyphSet(t *testing.T) {
	cases := []struct {
		in   string
		want glyphSet
		ok   bool
	}{
		{"", glyphSetUnicode, true},
		{"UTF-8", glyphSetUnicode, true},
		{"ASCII", glyphSetASCII, true},
		{"emoji", 0, false},
	}
	for _, tc := range cases {
		got, ok := parseGlyphSet(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("parseGlyphSet(%q)=%v,%v want %v,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
