// Package tui implements the terminal interface of the portal client.
// Built on bubbletea (Elm architecture): App is the root model, owns the
// current route and the navigation guards, and delegates events to the
// active screen.
//
// Server-side lists share listModel, which carries the pagination state,
// the debounced search input, and the fetch generation counter that keeps
// slow responses from overwriting newer ones. All network work runs inside
// tea.Cmd closures; screen state only changes on the event loop.
package tui
