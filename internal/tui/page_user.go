package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"userhub-cli/internal/api"
	"userhub-cli/internal/auth"
	"userhub-cli/internal/form"
	"userhub-cli/internal/logging"
	"userhub-cli/internal/routefetch"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	editButtonSave = iota
	editButtonCancel
)

type userPage struct {
	id    string
	fetch *routefetch.Watcher[api.User]

	editing bool
	fields  fieldSet
	save    *form.Controller[api.UserUpdate]
	// imageErr is a local failure reading the selected image file.
	imageErr string

	picking bool
	picker  filepicker.Model

	confirming   bool
	confirmFocus confirmModalFocus
	remove       *form.Controller[struct{}]
}

func newUserPage(m *appModel, id string) *userPage {
	opts := []form.Option{form.WithGenericMessage(m.genericError), form.WithTimeout(m.cfg.RequestTimeout())}
	return &userPage{
		id: id,
		fetch: routefetch.New[api.User](m.client.GetUser,
			routefetch.WithGenericMessage(m.genericError),
			routefetch.WithTimeout(m.cfg.RequestTimeout())),
		fields: newFieldSet(2,
			newField("username", "username", false),
			newField("image", "imagePath", false),
		),
		save:   form.New[api.UserUpdate](opts...),
		remove: form.New[struct{}](opts...),
	}
}

func (p *userPage) init(*appModel) tea.Cmd { return p.fetch.Observe(p.id) }

func (p *userPage) capturesText() bool { return p.editing && !p.picking }

func (p *userPage) owner(m *appModel) bool {
	return p.fetch.Status == routefetch.Success && m.auth.IsSelf(p.id)
}

func (p *userPage) update(m *appModel, msg tea.Msg) (tea.Cmd, bool) {
	if p.fetch.Apply(msg) {
		return nil, true
	}
	if p.save.Apply(msg) {
		if p.save.Status == form.Success {
			p.applySaved(m)
		}
		return nil, true
	}
	if p.remove.Apply(msg) {
		p.confirming = false
		if p.remove.Status == form.Success {
			return m.logout(), true
		}
		return nil, true
	}

	if p.picking {
		return p.updatePicker(msg)
	}
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil, false
	}
	switch {
	case p.confirming:
		return p.updateConfirm(m, km), true
	case p.editing:
		return p.updateEdit(m, km)
	}

	if !p.owner(m) {
		return nil, false
	}
	switch km.String() {
	case "e":
		p.startEdit()
		return nil, true
	case "d":
		p.confirming = true
		p.confirmFocus = confirmFocusCancel
		return nil, true
	}
	return nil, false
}

func (p *userPage) startEdit() {
	p.editing = true
	p.imageErr = ""
	p.save.Reset()
	p.fields.setValue("username", p.fetch.Data.Username)
	p.fields.setValue("image", "")
	p.fields.focusAt(0)
}

// cancelEdit restores the loaded username and drops any pending errors.
func (p *userPage) cancelEdit() {
	p.editing = false
	p.imageErr = ""
	p.save.Reset()
	p.fields.setValue("username", p.fetch.Data.Username)
	p.fields.setValue("image", "")
}

func (p *userPage) updateEdit(m *appModel, km tea.KeyMsg) (tea.Cmd, bool) {
	// A save in flight must land, so leaving edit mode waits for it.
	saving := p.save.Pending()
	switch km.String() {
	case "esc":
		if saving {
			return nil, true
		}
		p.cancelEdit()
		return nil, true
	case "ctrl+o":
		if saving {
			return nil, true
		}
		return p.openPicker(), true
	}
	cmd, ev, handled := p.fields.update(km)
	if ev.touched != "" {
		p.save.Touch(ev.touched)
		if ev.touched == "image" {
			p.imageErr = ""
		}
	}
	switch ev.pressed {
	case editButtonSave:
		return p.submitSave(m), true
	case editButtonCancel:
		if !saving {
			p.cancelEdit()
		}
		return nil, true
	}
	return cmd, handled
}

func (p *userPage) submitSave(m *appModel) tea.Cmd {
	username := strings.TrimSpace(p.fields.value("username"))
	if !p.save.CanSubmit(username != "") {
		return nil
	}
	var img []byte
	if path := strings.TrimSpace(p.fields.value("image")); path != "" {
		b, err := api.ReadImage(path)
		if err != nil {
			p.imageErr = err.Error()
			return nil
		}
		img = b
	}
	p.imageErr = ""
	client, id := m.client, p.id
	cmd, _ := p.save.Submit(func(ctx context.Context) (api.UserUpdate, error) {
		return client.UpdateUser(ctx, id, api.UpdateUserRequest{Username: username, Image: img})
	})
	return cmd
}

// applySaved leaves edit mode and copies the accepted values into the
// displayed user and the auth store.
func (p *userPage) applySaved(m *appModel) {
	res := p.save.Data
	p.editing = false
	p.fields.setValue("image", "")

	username := res.Username
	if username == "" {
		username = strings.TrimSpace(p.fields.value("username"))
	}
	p.fetch.Data.Username = username
	patch := auth.Patch{Username: &username}
	if res.Image != nil {
		img := *res.Image
		p.fetch.Data.Image = &img
		patch.Image = &img
	}
	if err := m.auth.Update(patch); err != nil {
		logging.Errorf("store profile update: %v", err)
	}
}

func (p *userPage) updateConfirm(m *appModel, km tea.KeyMsg) tea.Cmd {
	if p.remove.Pending() {
		return nil
	}
	switch km.String() {
	case "esc", "ctrl+g", "n":
		p.confirming = false
	case "tab", "shift+tab", "left", "right", "h", "l":
		p.confirmFocus = p.confirmFocus.toggle()
	case "y":
		p.confirmFocus = confirmFocusConfirm
		return p.submitDelete(m)
	case "enter":
		if p.confirmFocus == confirmFocusConfirm {
			return p.submitDelete(m)
		}
		p.confirming = false
	}
	return nil
}

func (p *userPage) submitDelete(m *appModel) tea.Cmd {
	client, id := m.client, p.id
	cmd, _ := p.remove.Submit(func(ctx context.Context) (struct{}, error) {
		return struct{}{}, client.DeleteUser(ctx, id)
	})
	return cmd
}

func (p *userPage) openPicker() tea.Cmd {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".png", ".jpg", ".jpeg"}
	fp.FileAllowed = true
	fp.DirAllowed = false
	fp.ShowHidden = false
	fp.ShowPermissions = false
	fp.ShowSize = true
	fp.AutoHeight = false
	fp.Height = 10
	fp.Cursor = glyphCursor()
	fp.KeyMap.Back = key.NewBinding(
		key.WithKeys("h", "backspace", "left"),
		key.WithHelp("h", "up"),
	)
	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(colorAccent)
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(colorAccent)
	fp.Styles.DisabledFile = styleMuted()

	start := "."
	if cur := strings.TrimSpace(p.fields.value("image")); cur != "" {
		start = filepath.Dir(cur)
	} else if home, err := os.UserHomeDir(); err == nil {
		start = home
	}
	fp.CurrentDirectory = start

	p.picker = fp
	p.picking = true
	return fp.Init()
}

func (p *userPage) updatePicker(msg tea.Msg) (tea.Cmd, bool) {
	if km, ok := msg.(tea.KeyMsg); ok && (km.String() == "esc" || km.String() == "ctrl+g") {
		p.picking = false
		return nil, true
	}
	var cmd tea.Cmd
	p.picker, cmd = p.picker.Update(msg)
	if ok, path := p.picker.DidSelectFile(msg); ok {
		p.fields.setValue("image", path)
		p.save.Touch("image")
		p.imageErr = ""
		p.picking = false
	}
	return cmd, true
}

func (p *userPage) view(m *appModel) string {
	var b strings.Builder
	b.WriteString(styleTitle().Render(m.t("userPage")))
	b.WriteString("\n\n")

	switch p.fetch.Status {
	case routefetch.Loading:
		b.WriteString(m.spinner.View() + " " + m.t("loading"))
		return b.String()
	case routefetch.Fail:
		b.WriteString(styleError().Render(p.fetch.Error))
		return b.String()
	}

	if p.picking {
		help := styleMuted().Render("enter: select   esc: cancel   h/backspace: up   l/right: open dir")
		return renderModalBox(m.width, m.t("selectImage"), p.picker.View()+"\n"+help)
	}

	u := p.fetch.Data
	b.WriteString(styleMuted().Render(m.auth.ImageURL(u.Image)))
	b.WriteString("\n")

	if p.editing {
		errFor := func(name string) string {
			if name == "image" && p.imageErr != "" {
				return p.imageErr
			}
			return p.save.FieldError(name)
		}
		save := m.t("save")
		if p.save.Pending() {
			save = m.spinner.View() + " " + save
		}
		b.WriteString("\n")
		b.WriteString(p.fields.view(modalBodyWidth(m.width), m.t, errFor,
			[]string{save, m.t("cancel")},
			[]bool{p.save.CanSubmit(strings.TrimSpace(p.fields.value("username")) != ""), !p.save.Pending()}))
		b.WriteString("\n" + styleMuted().Render(m.t("pickImageHint")))
		if p.save.GeneralError != "" {
			b.WriteString("\n\n" + styleError().Render(p.save.GeneralError))
		}
		return b.String()
	}

	b.WriteString(lipgloss.NewStyle().Bold(true).Render(u.Username))
	b.WriteString("\n")
	b.WriteString(u.Email)

	if p.owner(m) {
		b.WriteString("\n\n" + styleMuted().Render(m.t("profileHint")))
	}
	if p.remove.GeneralError != "" {
		b.WriteString("\n\n" + styleError().Render(p.remove.GeneralError))
	}
	if p.confirming {
		body := m.t("areYouSure")
		if p.remove.Pending() {
			body = m.spinner.View() + " " + body
		}
		b.WriteString("\n\n" + renderConfirmModal(m.width, m.t("delete"), body, m.t("yes"), m.t("no"), p.confirmFocus))
	}
	return b.String()
}
