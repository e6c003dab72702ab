package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// page is one routed screen. Pages own their form controllers and fetch
// watchers; the app model routes messages to the active page only, so
// results for a page that was navigated away from are dropped.
type page interface {
	init(m *appModel) tea.Cmd
	// update returns handled=false for keys the page does not use so global
	// bindings can act on them.
	update(m *appModel, msg tea.Msg) (cmd tea.Cmd, handled bool)
	view(m *appModel) string
	// capturesText reports whether plain runes go to a text input.
	capturesText() bool
}

// navigateMsg asks the app to change route from inside a command.
type navigateMsg struct{ path string }

func navigateTo(path string) tea.Cmd {
	return func() tea.Msg { return navigateMsg{path: path} }
}

type keyMap struct {
	Quit     key.Binding
	Back     key.Binding
	Help     key.Binding
	Home     key.Binding
	SignUp   key.Binding
	Login    key.Binding
	Profile  key.Binding
	Logout   key.Binding
	Language key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Help:     key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "help")),
		Home:     key.NewBinding(key.WithKeys("alt+h"), key.WithHelp("alt+h", "home")),
		SignUp:   key.NewBinding(key.WithKeys("alt+s"), key.WithHelp("alt+s", "sign up")),
		Login:    key.NewBinding(key.WithKeys("alt+l"), key.WithHelp("alt+l", "login")),
		Profile:  key.NewBinding(key.WithKeys("alt+p"), key.WithHelp("alt+p", "my profile")),
		Logout:   key.NewBinding(key.WithKeys("alt+o"), key.WithHelp("alt+o", "logout")),
		Language: key.NewBinding(key.WithKeys("alt+g"), key.WithHelp("alt+g", "language")),
	}
}
