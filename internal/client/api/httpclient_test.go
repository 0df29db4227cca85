package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffvault/pdfportal/internal/client/models"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func TestHTTPClient_AttachesBearerToken(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, WithTokenSource(staticToken("tok-123")))
	_, err := c.MyFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", got)
}

func TestHTTPClient_NoTokenNoHeader(t *testing.T) {
	var present bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, present = r.Header["Authorization"]
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, WithTokenSource(staticToken("")))
	_, err := c.MyFiles(context.Background())
	require.NoError(t, err)
	assert.False(t, present)
}

func TestHTTPClient_Login(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{"token":"t1","user":{"id":"u1","role":"admin","companyid":"E123"}}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	token, identity, err := c.Login(context.Background(), "E123", "1990-05-02")
	require.NoError(t, err)
	assert.Equal(t, "t1", token)
	require.NotNil(t, identity)
	assert.Equal(t, models.RoleAdmin, identity.Role)
}

func TestHTTPClient_UnauthorizedFiresHookAndMatchesSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"Invalid token"}`))
	}))
	defer srv.Close()

	var hookFired bool
	c := NewHTTPClient(srv.URL)
	c.SetUnauthorizedHandler(func() { hookFired = true })

	_, err := c.MyFiles(context.Background())
	require.Error(t, err)
	assert.True(t, hookFired)
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestHTTPClient_NotFoundKeepsServerText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"File not found"}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	_, err := c.DownloadFile(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "File not found", UserMessage(err, "Failed to open file"))
}

func TestHTTPClient_NetworkErrorIsUnavailable(t *testing.T) {
	c := NewHTTPClient("http://127.0.0.1:1")
	_, err := c.MyFiles(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestHTTPClient_ListUsersPagedEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "20", r.URL.Query().Get("limit"))
		assert.Equal(t, "smith", r.URL.Query().Get("q"))
		w.Write([]byte(`{"items":[{"firstname":"A","lastname":"B","role":"user","groups":["hr"]}],"total":57}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	page, err := c.ListUsers(context.Background(), ListParams{Page: 2, Limit: 20, Query: "smith"})
	require.NoError(t, err)
	assert.Equal(t, 57, page.Total)
	require.Len(t, page.Items, 1)
}

func TestHTTPClient_ListFilesBareArrayFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"_id":"f1","originalName":"a.pdf","filename":"s1.pdf","groups":[]}]`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	page, err := c.ListFiles(context.Background(), ListParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total, "bare array degrades to client-count pagination")
}

func TestHTTPClient_DeleteNonAdminUsers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/admin/users", r.URL.Path)
		w.Write([]byte(`{"deletedCount":7}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	count, err := c.DeleteNonAdminUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, count)
}

func TestHTTPClient_UploadFileMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, []string{"hr", "ops"}, r.MultipartForm.Value["groups"])
		assert.Equal(t, "August Statement", r.FormValue("displayName"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "statement.pdf", header.Filename)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	err := c.UploadFile(context.Background(), "statement.pdf", []byte("%PDF-1.4"), []string{"hr", "ops"}, "August Statement")
	require.NoError(t, err)
}

func TestUserMessage_FallbackChain(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "server message wins",
			err:  &APIError{Status: 400, Message: "Duplicate company id", Validation: []FieldError{{Msg: "x"}}},
			want: "Duplicate company id",
		},
		{
			name: "validation messages joined",
			err:  &APIError{Status: 400, Validation: []FieldError{{Msg: "firstname required"}, {Param: "birthdate"}}},
			want: "firstname required; birthdate",
		},
		{
			name: "generic fallback",
			err:  &APIError{Status: 500},
			want: "Failed to create user",
		},
		{
			name: "non-API error falls back",
			err:  errors.New("dial tcp: refused"),
			want: "Failed to create user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err, "Failed to create user"))
		})
	}
}
