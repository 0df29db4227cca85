package tui

// Route identifies a top-level screen.
type Route int

const (
	RouteLogin Route = iota
	RouteDashboard
	RouteUsers
	RouteFiles
	RouteImport
)

func (r Route) String() string {
	switch r {
	case RouteLogin:
		return "login"
	case RouteDashboard:
		return "dashboard"
	case RouteUsers:
		return "users"
	case RouteFiles:
		return "files"
	case RouteImport:
		return "import"
	default:
		return "unknown"
	}
}

// RequiresAuth reports whether the route needs an authenticated session.
func (r Route) RequiresAuth() bool {
	return r != RouteLogin
}

// RequiresAdmin reports whether the route is limited to administrators.
func (r Route) RequiresAdmin() bool {
	switch r {
	case RouteUsers, RouteFiles, RouteImport:
		return true
	default:
		return false
	}
}

// ResolveRoute applies the navigation guards to a requested route.
//
// An unauthenticated visitor asking for a protected route lands on the
// login screen, and the requested route comes back as the pending
// destination to restore after a successful login. An authenticated
// non-admin asking for an admin route is sent to the dashboard with no
// pending destination. An authenticated visitor asking for the login
// screen is sent to the dashboard.
func ResolveRoute(target Route, authenticated, admin bool) (actual, pending Route) {
	if !authenticated {
		if target.RequiresAuth() {
			return RouteLogin, target
		}
		return RouteLogin, RouteDashboard
	}
	if target == RouteLogin {
		return RouteDashboard, RouteDashboard
	}
	if target.RequiresAdmin() && !admin {
		return RouteDashboard, RouteDashboard
	}
	return target, target
}
