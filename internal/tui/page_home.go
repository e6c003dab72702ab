package tui

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"userhub-cli/internal/api"
	"userhub-cli/internal/routefetch"
	"userhub-cli/internal/router"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

type userItem struct{ user api.User }

func (i userItem) FilterValue() string { return i.user.Username }
func (i userItem) Title() string       { return i.user.Username }

// userItemDelegate renders one user per line: username, then e-mail muted.
type userItemDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
}

func newUserItemDelegate() userItemDelegate {
	return userItemDelegate{
		normal:   lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true),
	}
}

func (d userItemDelegate) Height() int                             { return 1 }
func (d userItemDelegate) Spacing() int                            { return 0 }
func (d userItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d userItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(userItem)
	contentW := m.Width()
	if !ok || contentW < 4 {
		return
	}
	style := d.normal
	prefix := "  "
	if index == m.Index() {
		style = d.selected
		prefix = glyphCursor() + " "
	}
	line := prefix + it.user.Username + "  " + styleMuted().Render(it.user.Email)
	lineW := xansi.StringWidth(line)
	if lineW < contentW {
		line += strings.Repeat(" ", contentW-lineW)
	} else if lineW > contentW {
		line = xansi.Cut(line, 0, contentW)
	}
	fmt.Fprint(w, style.Render(line))
}

type homePage struct {
	pageNo int
	users  list.Model
	fetch  *routefetch.Watcher[api.UserPage]
}

func newHomePage(m *appModel) *homePage {
	client, size := m.client, m.pageSize()
	l := list.New(nil, newUserItemDelegate(), 40, size)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	l.KeyMap.Quit.SetKeys("q")

	return &homePage{
		users: l,
		fetch: routefetch.New[api.UserPage](func(ctx context.Context, param string) (api.UserPage, error) {
			n, _ := strconv.Atoi(param)
			return client.ListUsers(ctx, n, size)
		}, routefetch.WithGenericMessage(m.genericError), routefetch.WithTimeout(m.cfg.RequestTimeout())),
	}
}

func (p *homePage) init(m *appModel) tea.Cmd {
	return p.fetch.Observe(strconv.Itoa(p.pageNo))
}

func (p *homePage) capturesText() bool { return false }

func (p *homePage) resize(m *appModel) {
	w := m.width - 4
	if w < 20 {
		w = 20
	}
	p.users.SetSize(w, m.pageSize())
}

func (p *homePage) loaded() (api.UserPage, bool) {
	if p.fetch.Status != routefetch.Success {
		return api.UserPage{}, false
	}
	return p.fetch.Data, true
}

func (p *homePage) update(m *appModel, msg tea.Msg) (tea.Cmd, bool) {
	if p.fetch.Apply(msg) {
		if data, ok := p.loaded(); ok {
			items := make([]list.Item, 0, len(data.Content))
			for _, u := range data.Content {
				items = append(items, userItem{user: u})
			}
			p.users.SetItems(items)
			p.users.Select(0)
		}
		return nil, true
	}
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil, false
	}
	data, loaded := p.loaded()
	switch km.String() {
	case "enter":
		if it, ok := p.users.SelectedItem().(userItem); ok && loaded {
			return m.navigate(router.UserPath(strconv.FormatInt(it.user.ID, 10))), true
		}
		return nil, true
	case "n", "right", "pgdown":
		if loaded && data.Page+1 < data.TotalPages {
			p.pageNo = data.Page + 1
			return p.fetch.Observe(strconv.Itoa(p.pageNo)), true
		}
		return nil, true
	case "p", "left", "pgup":
		if loaded && data.Page > 0 {
			p.pageNo = data.Page - 1
			return p.fetch.Observe(strconv.Itoa(p.pageNo)), true
		}
		return nil, true
	case "r":
		return p.fetch.Reload(), true
	case "up", "down", "k", "j", "home", "end":
		var cmd tea.Cmd
		p.users, cmd = p.users.Update(msg)
		return cmd, true
	}
	return nil, false
}

func (p *homePage) view(m *appModel) string {
	var b strings.Builder
	b.WriteString(styleTitle().Render(m.t("userList")))
	b.WriteString("\n\n")

	switch p.fetch.Status {
	case routefetch.Loading:
		b.WriteString(m.spinner.View() + " " + m.t("loading"))
		return b.String()
	case routefetch.Fail:
		b.WriteString(styleError().Render(p.fetch.Error))
		return b.String()
	}

	data := p.fetch.Data
	if len(data.Content) == 0 {
		b.WriteString(styleMuted().Render(m.t("noUsers")))
		return b.String()
	}
	b.WriteString(p.users.View())
	b.WriteString("\n\n")

	var pager []string
	if data.Page > 0 {
		pager = append(pager, glyphPrev()+" "+m.t("previous"))
	}
	pager = append(pager, styleMuted().Render(m.tf("pageOf", map[string]any{"Page": data.Page + 1, "Total": data.TotalPages})))
	if data.Page+1 < data.TotalPages {
		pager = append(pager, m.t("next")+" "+glyphNext())
	}
	b.WriteString(strings.Join(pager, "   "))
	return b.String()
}
