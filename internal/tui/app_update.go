package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if r, ok := m.page.(interface{ resize(*appModel) }); ok {
			r.resize(&m)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case navigateMsg:
		return m, m.navigate(msg.path)

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	cmd, _ := m.page.update(&m, msg)
	return m, cmd
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.flash = ""
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.showHelp {
		if key.Matches(msg, m.keys.Help, m.keys.Back) || msg.String() == "q" {
			m.showHelp = false
		}
		return m, nil
	}

	loggedIn := m.auth.Get().LoggedIn()
	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.Language):
		m.toggleLanguage()
		return m, nil
	case key.Matches(msg, m.keys.Home):
		return m, m.navigate("/")
	case key.Matches(msg, m.keys.SignUp) && !loggedIn:
		return m, m.navigate("/signup")
	case key.Matches(msg, m.keys.Login) && !loggedIn:
		return m, m.navigate("/login")
	case key.Matches(msg, m.keys.Profile) && loggedIn:
		return m, m.navigate(m.profilePath())
	case key.Matches(msg, m.keys.Logout) && loggedIn:
		return m, m.logout()
	}

	if cmd, handled := m.page.update(&m, msg); handled {
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		return m, m.back()
	case msg.String() == "q" && !m.page.capturesText():
		return m, tea.Quit
	}
	return m, nil
}
