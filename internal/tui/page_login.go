package tui

import (
	"context"
	"strings"

	"userhub-cli/internal/api"
	"userhub-cli/internal/auth"
	"userhub-cli/internal/form"
	"userhub-cli/internal/logging"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	loginButtonSubmit = iota
	loginButtonForgot
)

type loginPage struct {
	fields fieldSet
	ctrl   *form.Controller[api.User]
}

func newLoginPage(m *appModel) *loginPage {
	return &loginPage{
		fields: newFieldSet(2,
			newField("email", "email", false),
			newField("password", "password", true),
		),
		ctrl: form.New[api.User](form.WithGenericMessage(m.genericError), form.WithTimeout(m.cfg.RequestTimeout())),
	}
}

func (p *loginPage) init(*appModel) tea.Cmd { return nil }

func (p *loginPage) capturesText() bool { return true }

func (p *loginPage) valid() bool { return p.fields.filled("email", "password") }

func (p *loginPage) update(m *appModel, msg tea.Msg) (tea.Cmd, bool) {
	if p.ctrl.Apply(msg) {
		if p.ctrl.Status == form.Success {
			u := p.ctrl.Data
			if err := m.auth.Update(auth.Full(auth.State{ID: u.ID, Username: u.Username, Email: u.Email, Image: u.Image})); err != nil {
				logging.Errorf("store login: %v", err)
			}
			return m.navigate("/"), true
		}
		return nil, true
	}
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil, false
	}
	cmd, ev, handled := p.fields.update(km)
	if ev.touched != "" {
		p.ctrl.Touch(ev.touched)
	}
	switch ev.pressed {
	case loginButtonSubmit:
		return p.submit(m), true
	case loginButtonForgot:
		if p.ctrl.Pending() {
			return nil, true
		}
		return m.navigate("/password-reset/request"), true
	}
	return cmd, handled
}

func (p *loginPage) submit(m *appModel) tea.Cmd {
	if !p.ctrl.CanSubmit(p.valid()) {
		return nil
	}
	client := m.client
	creds := api.Credentials{
		Email:    strings.TrimSpace(p.fields.value("email")),
		Password: p.fields.value("password"),
	}
	cmd, _ := p.ctrl.Submit(func(ctx context.Context) (api.User, error) {
		return client.Login(ctx, creds)
	})
	return cmd
}

func (p *loginPage) view(m *appModel) string {
	var b strings.Builder
	b.WriteString(styleTitle().Render(m.t("login")))
	b.WriteString("\n\n")

	label := m.t("login")
	if p.ctrl.Pending() {
		label = m.spinner.View() + " " + label
	}
	b.WriteString(p.fields.view(modalBodyWidth(m.width), m.t, p.ctrl.FieldError,
		[]string{label, m.t("forgotPassword")},
		[]bool{p.ctrl.CanSubmit(p.valid()), !p.ctrl.Pending()}))
	if p.ctrl.GeneralError != "" {
		b.WriteString("\n\n" + styleError().Render(p.ctrl.GeneralError))
	}
	return b.String()
}
