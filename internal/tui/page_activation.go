package tui

import (
	"strings"

	"userhub-cli/internal/api"
	"userhub-cli/internal/routefetch"

	tea "github.com/charmbracelet/bubbletea"
)

type activationPage struct {
	token string
	fetch *routefetch.Watcher[api.Message]
}

func newActivationPage(m *appModel, token string) *activationPage {
	return &activationPage{
		token: token,
		fetch: routefetch.New[api.Message](m.client.Activate,
			routefetch.WithGenericMessage(m.genericError),
			routefetch.WithTimeout(m.cfg.RequestTimeout())),
	}
}

func (p *activationPage) init(*appModel) tea.Cmd { return p.fetch.Observe(p.token) }

func (p *activationPage) capturesText() bool { return false }

func (p *activationPage) update(_ *appModel, msg tea.Msg) (tea.Cmd, bool) {
	return nil, p.fetch.Apply(msg)
}

func (p *activationPage) view(m *appModel) string {
	var b strings.Builder
	b.WriteString(styleTitle().Render(m.t("activation")))
	b.WriteString("\n\n")
	switch p.fetch.Status {
	case routefetch.Loading:
		b.WriteString(m.spinner.View() + " " + m.t("loading"))
	case routefetch.Success:
		b.WriteString(styleSuccess().Render(p.fetch.Data.Message))
	default:
		b.WriteString(styleError().Render(p.fetch.Error))
	}
	return b.String()
}
