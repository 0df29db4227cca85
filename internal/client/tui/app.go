package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/staffvault/pdfportal/internal/client/api"
	"github.com/staffvault/pdfportal/internal/client/services"
	"github.com/staffvault/pdfportal/internal/client/session"
	"github.com/staffvault/pdfportal/internal/common"
	"github.com/staffvault/pdfportal/internal/logging"
)

// Deps bundles everything the screens draw on. The session is injected like
// any other dependency so tests can swap it for a fake.
type Deps struct {
	Session  *session.Session
	Users    services.UserService
	Groups   services.GroupService
	Files    services.FileService
	Viewer   *services.Viewer
	Importer services.ImportService
	Log      logging.Logger
}

// SessionExpiredMsg is injected from outside the event loop (via
// Program.Send) when the API rejects the bearer credential. The app drops
// to the login screen and remembers where the user was.
type SessionExpiredMsg struct{}

// App is the root bubbletea model: it owns the current route, applies the
// navigation guards, and delegates everything else to the active screen.
type App struct {
	deps  Deps
	theme Theme

	route   Route
	pending Route

	login     loginModel
	dashboard dashboardModel
	users     usersModel
	files     filesModel
	imports   importModel

	width  int
	height int
}

func NewApp(deps Deps) App {
	return App{
		deps:      deps,
		theme:     DefaultTheme,
		route:     RouteLogin,
		pending:   RouteDashboard,
		login:     newLoginModel(),
		dashboard: newDashboardModel(),
		users:     newUsersModel(),
		files:     newFilesModel(),
		imports:   newImportModel(),
	}
}

// navigateMsg asks the app to move to a route through the guards. Initial
// navigation goes through a message because Init runs on a model copy.
type navigateMsg struct {
	target Route
}

func (a App) Init() tea.Cmd {
	// A restored session skips the login screen.
	return func() tea.Msg { return navigateMsg{target: RouteDashboard} }
}

// navigate applies the guards and returns the model plus the new screen's
// entry command.
func (a App) navigate(target Route) (App, tea.Cmd) {
	actual, pending := ResolveRoute(target, a.deps.Session.IsAuthenticated(), a.deps.Session.IsAdmin())
	a.route = actual
	a.pending = pending
	return a, a.enterRoute(actual)
}

// enterRoute produces the initial fetch for a screen being shown.
func (a *App) enterRoute(route Route) tea.Cmd {
	switch route {
	case RouteLogin:
		a.login = newLoginModel()
		return a.login.focusCmd()
	case RouteDashboard:
		return a.dashboard.enter(a.deps)
	case RouteUsers:
		return a.users.enter(a.deps)
	case RouteFiles:
		return a.files.enter(a.deps)
	case RouteImport:
		a.imports = newImportModel()
		return a.imports.enter()
	default:
		return nil
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case navigateMsg:
		var navCmd tea.Cmd
		a, navCmd = a.navigate(msg.target)
		return a, navCmd

	case SessionExpiredMsg:
		// Credential already purged by the 401 hook; remember where the
		// user was so a re-login lands back there.
		wasAt := a.route
		a.route = RouteLogin
		a.pending = wasAt
		if a.pending == RouteLogin {
			a.pending = RouteDashboard
		}
		a.login = newLoginModel()
		a.login.errText = "Your session expired. Please sign in again."
		return a, a.login.focusCmd()

	case loginResultMsg:
		var cmd tea.Cmd
		a.login, cmd = a.login.update(msg, a.deps)
		if msg.err == nil {
			var navCmd tea.Cmd
			a, navCmd = a.navigate(a.pending)
			return a, navCmd
		}
		return a, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "ctrl+b":
			return a.tabTo(RouteDashboard)
		case "ctrl+u":
			return a.tabTo(RouteUsers)
		case "ctrl+f":
			return a.tabTo(RouteFiles)
		case "ctrl+o":
			return a.tabTo(RouteImport)
		case "ctrl+l":
			if a.deps.Session.IsAuthenticated() {
				return a, a.logoutCmd()
			}
		}

	case logoutDoneMsg:
		var navCmd tea.Cmd
		a, navCmd = a.navigate(RouteLogin)
		return a, navCmd
	}

	return a.updateScreen(msg)
}

// tabTo handles the global navigation chords; they are ignored on the
// login screen.
func (a App) tabTo(target Route) (tea.Model, tea.Cmd) {
	if !a.deps.Session.IsAuthenticated() {
		return a, nil
	}
	return a.navigate(target)
}

func (a App) updateScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.route {
	case RouteLogin:
		a.login, cmd = a.login.update(msg, a.deps)
	case RouteDashboard:
		a.dashboard, cmd = a.dashboard.update(msg, a.deps)
	case RouteUsers:
		a.users, cmd = a.users.update(msg, a.deps)
	case RouteFiles:
		a.files, cmd = a.files.update(msg, a.deps)
	case RouteImport:
		a.imports, cmd = a.imports.update(msg, a.deps)
	}
	return a, cmd
}

type logoutDoneMsg struct{}

func (a App) logoutCmd() tea.Cmd {
	deps := a.deps
	return func() tea.Msg {
		ctx := context.Background()
		if err := deps.Session.Logout(ctx); err != nil {
			deps.Log.Error(ctx, "logout failed", "error", err)
		}
		return logoutDoneMsg{}
	}
}

func (a App) View() string {
	var b strings.Builder
	b.WriteString(a.header())
	b.WriteString("\n\n")

	switch a.route {
	case RouteLogin:
		b.WriteString(a.login.view(a.theme))
	case RouteDashboard:
		b.WriteString(a.dashboard.view(a.theme))
	case RouteUsers:
		b.WriteString(a.users.view(a.theme))
	case RouteFiles:
		b.WriteString(a.files.view(a.theme))
	case RouteImport:
		b.WriteString(a.imports.view(a.theme))
	}

	b.WriteString("\n\n")
	b.WriteString(a.footer())
	return b.String()
}

func (a App) header() string {
	title := a.theme.Title.Render("Staff Vault")
	identity := a.deps.Session.Current()
	if identity == nil {
		return title
	}

	who := fmt.Sprintf("%s %s", identity.Firstname, identity.Lastname)
	role := ""
	if identity.IsAdmin() {
		role = " " + a.theme.Badge.Render("[admin]")
	}

	tabs := a.theme.Faint.Render("dashboard")
	if identity.IsAdmin() {
		tabs = a.theme.Faint.Render("^b dashboard  ^u users  ^f files  ^o import")
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		title, "   ", a.theme.Subtitle.Render(who), role, "   ", tabs)
}

func (a App) footer() string {
	if !a.deps.Session.IsAuthenticated() {
		return a.theme.Help.Render("enter submit · tab next field · ctrl+c quit")
	}
	return a.theme.Help.Render("ctrl+l logout · ctrl+c quit")
}

// friendlyError maps an operation error to the text shown to the user.
// Client-side validation failures show their own message; server errors go
// through the validation/message/fallback chain.
func friendlyError(err error, fallback string) string {
	for _, known := range []error{
		session.ErrBadBirthdate,
		common.ErrorGroupRequired,
		services.ErrNoFileChosen,
		services.ErrEmptyGroupName,
		services.ErrNoImportFile,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return api.UserMessage(err, fallback)
}
