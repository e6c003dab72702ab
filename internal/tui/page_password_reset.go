package tui

import (
	"context"
	"strings"

	"userhub-cli/internal/api"
	"userhub-cli/internal/form"

	tea "github.com/charmbracelet/bubbletea"
)

type passwordResetRequestPage struct {
	fields fieldSet
	ctrl   *form.Controller[api.Message]
}

func newPasswordResetRequestPage(m *appModel) *passwordResetRequestPage {
	return &passwordResetRequestPage{
		fields: newFieldSet(1, newField("email", "email", false)),
		ctrl:   form.New[api.Message](form.WithGenericMessage(m.genericError), form.WithTimeout(m.cfg.RequestTimeout())),
	}
}

func (p *passwordResetRequestPage) init(*appModel) tea.Cmd { return nil }

func (p *passwordResetRequestPage) capturesText() bool { return true }

func (p *passwordResetRequestPage) update(m *appModel, msg tea.Msg) (tea.Cmd, bool) {
	if p.ctrl.Apply(msg) {
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
	if ev.pressed == 0 {
		return p.submit(m), true
	}
	return cmd, handled
}

func (p *passwordResetRequestPage) submit(m *appModel) tea.Cmd {
	if !p.ctrl.CanSubmit(p.fields.filled("email")) {
		return nil
	}
	client := m.client
	email := strings.TrimSpace(p.fields.value("email"))
	cmd, _ := p.ctrl.Submit(func(ctx context.Context) (api.Message, error) {
		return client.RequestPasswordReset(ctx, email)
	})
	return cmd
}

func (p *passwordResetRequestPage) view(m *appModel) string {
	var b strings.Builder
	b.WriteString(styleTitle().Render(m.t("passwordResetRequest")))
	b.WriteString("\n\n")

	label := m.t("resetPassword")
	if p.ctrl.Pending() {
		label = m.spinner.View() + " " + label
	}
	b.WriteString(p.fields.view(modalBodyWidth(m.width), m.t, p.ctrl.FieldError,
		[]string{label}, []bool{p.ctrl.CanSubmit(p.fields.filled("email"))}))
	switch {
	case p.ctrl.Status == form.Success:
		b.WriteString("\n\n" + styleSuccess().Render(p.ctrl.Data.Message))
	case p.ctrl.GeneralError != "":
		b.WriteString("\n\n" + styleError().Render(p.ctrl.GeneralError))
	}
	return b.String()
}

// passwordResetSetPage is reached from the reset e-mail. Setting the new
// password is not part of the API yet, so the page only explains that.
type passwordResetSetPage struct{}

func (passwordResetSetPage) init(*appModel) tea.Cmd                    { return nil }
func (passwordResetSetPage) update(*appModel, tea.Msg) (tea.Cmd, bool) { return nil, false }
func (passwordResetSetPage) capturesText() bool                        { return false }

func (passwordResetSetPage) view(m *appModel) string {
	return styleTitle().Render(m.t("passwordResetSet")) + "\n\n" + styleMuted().Render(m.t("passwordResetSetPending"))
}

type notFoundPage struct{}

func (notFoundPage) init(*appModel) tea.Cmd                    { return nil }
func (notFoundPage) update(*appModel, tea.Msg) (tea.Cmd, bool) { return nil, false }
func (notFoundPage) capturesText() bool                        { return false }

func (notFoundPage) view(m *appModel) string {
	return styleTitle().Render(m.t("notFound")) + "\n\n" + styleMuted().Render(m.location.Path)
}
