package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveRoute(t *testing.T) {
	tests := []struct {
		name          string
		target        Route
		authenticated bool
		admin         bool
		wantActual    Route
		wantPending   Route
	}{
		{name: "anonymous to login", target: RouteLogin, wantActual: RouteLogin, wantPending: RouteDashboard},
		{name: "anonymous to dashboard preserves destination", target: RouteDashboard, wantActual: RouteLogin, wantPending: RouteDashboard},
		{name: "anonymous to admin route preserves destination", target: RouteUsers, wantActual: RouteLogin, wantPending: RouteUsers},
		{name: "employee to dashboard", target: RouteDashboard, authenticated: true, wantActual: RouteDashboard, wantPending: RouteDashboard},
		{name: "employee to admin route falls back to dashboard", target: RouteFiles, authenticated: true, wantActual: RouteDashboard, wantPending: RouteDashboard},
		{name: "admin to admin route", target: RouteFiles, authenticated: true, admin: true, wantActual: RouteFiles, wantPending: RouteFiles},
		{name: "authenticated to login goes to dashboard", target: RouteLogin, authenticated: true, wantActual: RouteDashboard, wantPending: RouteDashboard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, pending := ResolveRoute(tt.target, tt.authenticated, tt.admin)
			assert.Equal(t, tt.wantActual, actual)
			assert.Equal(t, tt.wantPending, pending)
		})
	}
}

func TestRouteGuardFlags(t *testing.T) {
	assert.False(t, RouteLogin.RequiresAuth())
	assert.True(t, RouteDashboard.RequiresAuth())
	assert.False(t, RouteDashboard.RequiresAdmin())

	for _, r := range []Route{RouteUsers, RouteFiles, RouteImport} {
		assert.True(t, r.RequiresAuth(), r.String())
		assert.True(t, r.RequiresAdmin(), r.String())
	}
}
