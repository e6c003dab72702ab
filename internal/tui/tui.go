// Package tui is the interactive terminal front end: a Bubble Tea program
// with one page per route.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

func Run(opts Options) error {
	applyThemePreference()
	applyColorProfilePreference()
	applyGlyphPreference(opts.Config.Glyphs())
	m := newAppModel(opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
