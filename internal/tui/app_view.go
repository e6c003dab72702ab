package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

func (m appModel) View() string {
	w := m.width
	if w <= 0 {
		w = 80
	}
	nav := m.renderNav(w)
	footer := m.renderFooter(w)
	bodyH := m.height - lipgloss.Height(nav) - lipgloss.Height(footer) - 2
	if bodyH < 1 {
		bodyH = 1
	}

	var body string
	if m.showHelp {
		body = renderModalBox(w, m.t("help"), renderMarkdown(m.t("helpBody"), modalBodyWidth(w)))
	} else {
		body = lipgloss.NewStyle().Padding(1, 2, 0, 2).Render(m.page.view(&m))
	}
	return strings.Join([]string{nav, hrule(w), fitBlock(body, w, bodyH), hrule(w), footer}, "\n")
}

// renderNav shows the links valid for the current identity; logged-in users
// get "My Profile" and "Logout" instead of "Sign Up" and "Login".
func (m appModel) renderNav(w int) string {
	st := m.auth.Get()
	type link struct {
		label  string
		active bool
	}
	links := []link{{m.t("home"), m.location.Path == "/"}}
	if st.LoggedIn() {
		links = append(links,
			link{m.t("myProfile"), m.location.Path == m.profilePath()},
			link{m.t("logout"), false},
		)
	} else {
		links = append(links,
			link{m.t("signUp"), m.location.Path == "/signup"},
			link{m.t("login"), m.location.Path == "/login"},
		)
	}

	base := lipgloss.NewStyle().Padding(0, 1).Background(colorNavBg).Foreground(colorSurfaceFg)
	var parts []string
	for _, l := range links {
		s := base
		if l.active {
			s = s.Bold(true).Foreground(colorAccent)
		}
		parts = append(parts, s.Render(l.label))
	}
	left := lipgloss.JoinHorizontal(lipgloss.Top, parts...)

	who := m.t("notLoggedIn")
	if st.LoggedIn() {
		who = m.tf("loggedInAs", map[string]any{"Username": st.Username})
	}
	right := base.Render(who + " " + glyphSeparator() + " " + m.t("language") + ": " + strings.ToUpper(m.loc.Locale()))

	gap := w - xansi.StringWidth(left) - xansi.StringWidth(right)
	if gap < 1 {
		return fitBlock(left, w, 1)
	}
	fill := lipgloss.NewStyle().Background(colorNavBg).Render(strings.Repeat(" ", gap))
	return left + fill + right
}

func (m appModel) renderFooter(w int) string {
	if strings.TrimSpace(m.flash) != "" {
		return fitBlock(styleError().Render(m.flash), w, 1)
	}
	return fitBlock(styleMuted().Render(m.t("footerHint")), w, 1)
}
