package tui

import (
	"strconv"
	"strings"

	"userhub-cli/internal/api"
	"userhub-cli/internal/auth"
	"userhub-cli/internal/locale"
	"userhub-cli/internal/logging"
	"userhub-cli/internal/router"
	"userhub-cli/internal/store"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Options wires the TUI to the shared client, identity and locale.
type Options struct {
	Client    *api.Client
	Auth      *auth.Store
	Locale    *locale.Localizer
	Config    *store.Config
	StartPath string
}

type appModel struct {
	client *api.Client
	auth   *auth.Store
	loc    *locale.Localizer
	cfg    *store.Config

	router   *router.Router
	location router.Location
	page     page
	keys     keyMap
	spinner  spinner.Model

	width  int
	height int

	showHelp bool
	// flash is a one-line status shown in the footer until the next key.
	flash string
}

func newAppModel(opts Options) appModel {
	cfg := opts.Config
	if cfg == nil {
		cfg = &store.Config{}
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	if glyphs() == glyphSetASCII {
		sp.Spinner = spinner.Line
	}
	sp.Style = lipgloss.NewStyle().Foreground(colorAccent)

	m := appModel{
		client:  opts.Client,
		auth:    opts.Auth,
		loc:     opts.Locale,
		cfg:     cfg,
		router:  router.New(),
		keys:    defaultKeyMap(),
		spinner: sp,
		width:   80,
		height:  24,
	}
	start := strings.TrimSpace(opts.StartPath)
	if start == "" {
		start = "/"
	}
	m.location = m.router.Push(start)
	m.page = m.newPage(m.location)
	return m
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.page.init(&m))
}

func (m *appModel) t(id string) string { return m.loc.T(id) }

func (m *appModel) tf(id string, data map[string]any) string { return m.loc.T(id, data) }

func (m *appModel) pageSize() int { return m.cfg.PageSize() }

func (m *appModel) genericError() string { return m.loc.GenericError() }

// navigate pushes path onto the history and shows it.
func (m *appModel) navigate(path string) tea.Cmd {
	return m.show(m.router.Push(path))
}

func (m *appModel) back() tea.Cmd {
	loc, ok := m.router.Back()
	if !ok {
		return nil
	}
	return m.show(loc)
}

func (m *appModel) show(loc router.Location) tea.Cmd {
	logging.Infof("navigate %s (%s)", loc.Path, loc.Page)
	m.location = loc
	m.page = m.newPage(loc)
	m.showHelp = false
	return m.page.init(m)
}

func (m *appModel) newPage(loc router.Location) page {
	switch loc.Page {
	case router.PageHome:
		return newHomePage(m)
	case router.PageSignUp:
		return newSignUpPage(m)
	case router.PageLogin:
		return newLoginPage(m)
	case router.PageActivation:
		return newActivationPage(m, loc.Param("token"))
	case router.PagePasswordResetRequest:
		return newPasswordResetRequestPage(m)
	case router.PagePasswordResetSet:
		return passwordResetSetPage{}
	case router.PageUser:
		return newUserPage(m, loc.Param("id"))
	default:
		return notFoundPage{}
	}
}

// toggleLanguage switches to the next bundled locale and persists it.
func (m *appModel) toggleLanguage() {
	codes := m.loc.Supported()
	if len(codes) == 0 {
		return
	}
	next := codes[0]
	for i, c := range codes {
		if c == m.loc.Locale() {
			next = codes[(i+1)%len(codes)]
			break
		}
	}
	if err := m.loc.SetLocale(next); err != nil {
		logging.Errorf("persist locale %q: %v", next, err)
		m.flash = err.Error()
	}
}

func (m *appModel) logout() tea.Cmd {
	if err := m.auth.Logout(); err != nil {
		logging.Errorf("logout: %v", err)
		m.flash = err.Error()
	}
	return m.navigate("/")
}

func (m *appModel) profilePath() string {
	return router.UserPath(strconv.FormatInt(m.auth.Get().ID, 10))
}
