package tui

import (
	"context"
	"strings"

	"userhub-cli/internal/api"
	"userhub-cli/internal/form"

	tea "github.com/charmbracelet/bubbletea"
)

type signUpPage struct {
	fields fieldSet
	ctrl   *form.Controller[api.Message]
}

func newSignUpPage(m *appModel) *signUpPage {
	return &signUpPage{
		fields: newFieldSet(1,
			newField("username", "username", false),
			newField("email", "email", false),
			newField("password", "password", true),
			newField("passwordRepeat", "passwordRepeat", true),
		),
		ctrl: form.New[api.Message](form.WithGenericMessage(m.genericError), form.WithTimeout(m.cfg.RequestTimeout())),
	}
}

func (p *signUpPage) init(*appModel) tea.Cmd { return nil }

func (p *signUpPage) capturesText() bool { return p.ctrl.Status != form.Success }

func (p *signUpPage) passwordMismatch() bool {
	repeat := p.fields.value("passwordRepeat")
	return repeat != "" && repeat != p.fields.value("password")
}

func (p *signUpPage) valid() bool {
	return p.fields.filled("username", "email", "password", "passwordRepeat") && !p.passwordMismatch()
}

func (p *signUpPage) update(m *appModel, msg tea.Msg) (tea.Cmd, bool) {
	if p.ctrl.Apply(msg) {
		return nil, true
	}
	km, ok := msg.(tea.KeyMsg)
	if !ok || p.ctrl.Status == form.Success {
		return nil, false
	}
	cmd, ev, handled := p.fields.update(km)
	if ev.touched != "" {
		p.ctrl.Touch(ev.touched)
	}
	if ev.pressed == 0 {
		return p.submit(m), true
	}
	return cmd, handled
}

func (p *signUpPage) submit(m *appModel) tea.Cmd {
	if !p.ctrl.CanSubmit(p.valid()) {
		return nil
	}
	client := m.client
	req := api.SignUpRequest{
		Username: strings.TrimSpace(p.fields.value("username")),
		Email:    strings.TrimSpace(p.fields.value("email")),
		Password: p.fields.value("password"),
	}
	cmd, _ := p.ctrl.Submit(func(ctx context.Context) (api.Message, error) {
		return client.SignUp(ctx, req)
	})
	return cmd
}

func (p *signUpPage) view(m *appModel) string {
	var b strings.Builder
	b.WriteString(styleTitle().Render(m.t("signUp")))
	b.WriteString("\n\n")

	if p.ctrl.Status == form.Success {
		b.WriteString(styleSuccess().Render(p.ctrl.Data.Message))
		return b.String()
	}

	errFor := func(name string) string {
		if name == "passwordRepeat" && p.passwordMismatch() {
			return m.t("passwordMismatch")
		}
		return p.ctrl.FieldError(name)
	}
	label := m.t("signUp")
	if p.ctrl.Pending() {
		label = m.spinner.View() + " " + label
	}
	b.WriteString(p.fields.view(modalBodyWidth(m.width), m.t, errFor, []string{label}, []bool{p.ctrl.CanSubmit(p.valid())}))
	if p.ctrl.GeneralError != "" {
		b.WriteString("\n\n" + styleError().Render(p.ctrl.GeneralError))
	}
	return b.String()
}
