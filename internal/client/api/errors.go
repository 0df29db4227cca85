package api

import (
	"errors"
	"strings"
)

var (
	// ErrUnavailable marks network-level failures: the request never
	// produced an HTTP response.
	ErrUnavailable = errors.New("server unavailable")

	// ErrUnauthorized marks rejected credentials (HTTP 401). The client
	// fires its unauthorized hook before returning this, so the session
	// is already purged by the time callers see it.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound marks HTTP 404 responses.
	ErrNotFound = errors.New("not found")
)

// FieldError is one entry of a server-side validation failure list.
type FieldError struct {
	Msg   string `json:"msg"`
	Param string `json:"param"`
}

// APIError is a non-2xx response decoded from the server's error body.
// Message carries the server's explicit error string when present;
// Validation carries field-level messages.
type APIError struct {
	Status     int
	Message    string
	Validation []FieldError
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if msgs := e.validationMessages(); msgs != "" {
		return msgs
	}
	return "request failed"
}

// Unwrap lets callers match well-known statuses with errors.Is while the
// server-supplied text stays available for display.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case 401:
		return ErrUnauthorized
	case 404:
		return ErrNotFound
	}
	return nil
}

func (e *APIError) validationMessages() string {
	parts := make([]string, 0, len(e.Validation))
	for _, fe := range e.Validation {
		switch {
		case fe.Msg != "":
			parts = append(parts, fe.Msg)
		case fe.Param != "":
			parts = append(parts, fe.Param)
		}
	}
	return strings.Join(parts, "; ")
}

// UserMessage converts err into the text shown to the user, with a fixed
// fallback order: the server's explicit error string, then field-level
// validation messages joined by "; ", then the generic fallback.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		if msgs := apiErr.validationMessages(); msgs != "" {
			return msgs
		}
	}
	return fallback
}
