// Package api wraps the portal's outbound REST calls. It exposes a Client
// interface consumed by the session store and the resource services, plus an
// HTTP implementation that attaches the bearer credential to every request,
// maps transport and status failures to sentinel errors, and decodes the
// paged {items,total} envelope (degrading to client-count pagination when
// the server returns a bare array).
package api
