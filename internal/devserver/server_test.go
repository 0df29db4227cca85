package devserver

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffvault/pdfportal/internal/client/api"
	"github.com/staffvault/pdfportal/internal/client/models"
	"github.com/staffvault/pdfportal/internal/logging"
)

// staticToken is a settable api.TokenSource for tests.
type staticToken struct {
	token string
}

func (t *staticToken) Token() string { return t.token }

// newTestClient spins up a seeded server and returns an API client wired to
// it plus the token source to authenticate with.
func newTestClient(t *testing.T) (*api.HTTPClient, *staticToken, *Server) {
	t.Helper()

	srv := NewServer(logging.NewTextLogger(io.Discard, slog.LevelError))
	srv.Seed()

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	tokens := &staticToken{}
	client := api.NewHTTPClient(ts.URL,
		api.WithHTTPClient(ts.Client()),
		api.WithTokenSource(tokens),
	)
	return client, tokens, srv
}

func loginAs(t *testing.T, client *api.HTTPClient, tokens *staticToken, companyID, birthdate string) *models.Identity {
	t.Helper()
	token, identity, err := client.Login(context.Background(), companyID, birthdate)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	tokens.token = token
	return identity
}

func TestLogin(t *testing.T) {
	client, tokens, _ := newTestClient(t)

	t.Run("admin", func(t *testing.T) {
		identity := loginAs(t, client, tokens, "admin0001", "1970-01-01")
		assert.True(t, identity.IsAdmin())
		assert.Equal(t, "Ada", identity.Firstname)
	})

	t.Run("employee", func(t *testing.T) {
		identity := loginAs(t, client, tokens, "emp0002", "1985-04-12")
		assert.False(t, identity.IsAdmin())
	})

	t.Run("wrong birthdate", func(t *testing.T) {
		_, _, err := client.Login(context.Background(), "admin0001", "1999-01-01")
		require.Error(t, err)
		assert.ErrorIs(t, err, api.ErrUnauthorized)
		assert.Equal(t, "Invalid credentials", api.UserMessage(err, "fallback"))
	})

	t.Run("missing fields surface validation messages", func(t *testing.T) {
		_, _, err := client.Login(context.Background(), "", "")
		require.Error(t, err)
		msg := api.UserMessage(err, "fallback")
		assert.Contains(t, msg, "company id is required")
		assert.Contains(t, msg, "birthdate is required")
	})
}

func TestAdminGateAndGroupVisibility(t *testing.T) {
	client, tokens, _ := newTestClient(t)

	admin := loginAs(t, client, tokens, "admin0001", "1970-01-01")
	require.True(t, admin.IsAdmin())

	err := client.UploadFile(context.Background(), "handbook.pdf", []byte("%PDF-1.4 hr"), []string{"hr"}, "HR Handbook")
	require.NoError(t, err)
	err = client.UploadFile(context.Background(), "oncall.pdf", []byte("%PDF-1.4 eng"), []string{"engineering"}, "")
	require.NoError(t, err)

	adminFiles, err := client.MyFiles(context.Background())
	require.NoError(t, err)
	assert.Len(t, adminFiles, 2, "admins see every file")

	// The HR employee sees only the HR file and cannot reach the admin API.
	loginAs(t, client, tokens, "emp0002", "1985-04-12")

	files, err := client.MyFiles(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "HR Handbook", files[0].Title())

	content, err := client.DownloadFile(context.Background(), files[0].ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4 hr"), content)

	_, err = client.ListUsers(context.Background(), api.ListParams{Page: 1, Limit: 10})
	require.Error(t, err, "non-admins must not reach the admin API")

	// The engineering file is invisible, and downloading it looks like 404.
	var all models.Page[models.FileSummary]
	loginAs(t, client, tokens, "admin0001", "1970-01-01")
	all, err = client.ListFiles(context.Background(), api.ListParams{Page: 1, Limit: 10})
	require.NoError(t, err)

	var engID string
	for _, f := range all.Items {
		if f.OriginalName == "oncall.pdf" {
			engID = f.ID
		}
	}
	require.NotEmpty(t, engID)

	loginAs(t, client, tokens, "emp0002", "1985-04-12")
	_, err = client.DownloadFile(context.Background(), engID)
	assert.ErrorIs(t, err, api.ErrNotFound)
	assert.Equal(t, "File not found", api.UserMessage(err, "fallback"))
}

func TestUserCRUDAndSearch(t *testing.T) {
	client, tokens, _ := newTestClient(t)
	loginAs(t, client, tokens, "admin0001", "1970-01-01")
	ctx := context.Background()

	err := client.CreateUser(ctx, models.User{
		Firstname: "Dara", Lastname: "Zent", Department: "Legal",
		Role: models.RoleUser, Birthdate: "1993-02-02", CompanyID: "emp0100",
		Groups: []string{"hr"},
	})
	require.NoError(t, err)

	page, err := client.ListUsers(ctx, api.ListParams{Page: 1, Limit: 10, Query: "legal"})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	created := page.Items[0]
	assert.Equal(t, "Zent", created.Lastname)

	created.Department = "Compliance"
	require.NoError(t, client.UpdateUser(ctx, created.ID, created))

	page, err = client.ListUsers(ctx, api.ListParams{Page: 1, Limit: 10, Query: "compliance"})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)

	require.NoError(t, client.DeleteUser(ctx, created.ID))

	page, err = client.ListUsers(ctx, api.ListParams{Page: 1, Limit: 10, Query: "compliance"})
	require.NoError(t, err)
	assert.Zero(t, page.Total)

	err = client.CreateUser(ctx, models.User{Firstname: "No", Lastname: "Groups", CompanyID: "x", Birthdate: "2000-01-01"})
	require.Error(t, err)
	assert.Contains(t, api.UserMessage(err, "fallback"), "at least one group")
}

func TestUsersPagination(t *testing.T) {
	client, tokens, srv := newTestClient(t)
	loginAs(t, client, tokens, "admin0001", "1970-01-01")

	for i := 0; i < 12; i++ {
		srv.Store().CreateUser(models.User{
			Firstname: "Emp", Lastname: string(rune('a' + i)),
			Role: models.RoleUser, Birthdate: "1990-01-01",
			CompanyID: "bulk" + string(rune('a'+i)), Groups: []string{"hr"},
		})
	}

	page, err := client.ListUsers(context.Background(), api.ListParams{Page: 2, Limit: 5, Query: "bulk"})
	require.NoError(t, err)
	assert.Equal(t, 12, page.Total)
	assert.Len(t, page.Items, 5)

	page, err = client.ListUsers(context.Background(), api.ListParams{Page: 3, Limit: 5, Query: "bulk"})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2, "the last page holds the remainder")
}

func TestDeleteNonAdminUsers(t *testing.T) {
	client, tokens, _ := newTestClient(t)
	loginAs(t, client, tokens, "admin0001", "1970-01-01")

	count, err := client.DeleteNonAdminUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count, "the seed holds two non-admins")

	page, err := client.ListUsers(context.Background(), api.ListParams{Page: 1, Limit: 50})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, models.RoleAdmin, page.Items[0].Role)
}

func TestGroupLifecycle(t *testing.T) {
	client, tokens, _ := newTestClient(t)
	loginAs(t, client, tokens, "admin0001", "1970-01-01")
	ctx := context.Background()

	require.NoError(t, client.CreateGroup(ctx, "finance"))

	err := client.CreateGroup(ctx, "finance")
	require.Error(t, err, "duplicate names are rejected")

	groups, err := client.ListGroups(ctx)
	require.NoError(t, err)
	names := make([]string, 0, len(groups))
	for _, g := range groups {
		names = append(names, g.Name)
	}
	assert.Contains(t, names, "finance")

	require.NoError(t, client.DeleteGroup(ctx, "finance"))

	// Deleting a group leaves member references alone.
	page, err := client.ListUsers(ctx, api.ListParams{Page: 1, Limit: 50, Query: "emp0002"})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, []string{"hr"}, page.Items[0].Groups)
}

func TestFileMetadataUpdate(t *testing.T) {
	client, tokens, _ := newTestClient(t)
	loginAs(t, client, tokens, "admin0001", "1970-01-01")
	ctx := context.Background()

	require.NoError(t, client.UploadFile(ctx, "q3.pdf", []byte("%PDF-1.4"), []string{"hr"}, ""))

	page, err := client.ListFiles(ctx, api.ListParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	id := page.Items[0].ID

	err = client.UpdateFile(ctx, id, models.FileUpdate{Groups: []string{"engineering"}, DisplayName: "Q3 Numbers"})
	require.NoError(t, err)

	page, err = client.ListFiles(ctx, api.ListParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, "Q3 Numbers", page.Items[0].DisplayName)
	assert.Equal(t, []string{"engineering"}, page.Items[0].Groups)

	err = client.UpdateFile(ctx, id, models.FileUpdate{DisplayName: "no groups"})
	require.Error(t, err, "an update clearing all groups is rejected")

	require.NoError(t, client.DeleteFile(ctx, id))
	page, err = client.ListFiles(ctx, api.ListParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}

func TestImportAndExportUsers(t *testing.T) {
	client, tokens, _ := newTestClient(t)
	loginAs(t, client, tokens, "admin0001", "1970-01-01")
	ctx := context.Background()

	csvData := strings.Join([]string{
		"firstname,lastname,department,birthdate,companyid,groups",
		"Nina,Frost,Legal,1992-05-05,emp0200,hr;engineering",
		"Bo,Fields,HR,1985-04-12,emp0002,hr",      // same company id as the seed
		"Cleo,Marsh,Sales,1999-01-01,emp0300,hr",  // name already taken
		"Olaf,Stone,Ops,1988-08-08,emp0400,",
	}, "\n")

	report, err := client.ImportUsers(ctx, "users.csv", []byte(csvData))
	require.NoError(t, err)
	assert.Equal(t, 2, report.Inserted)
	assert.Equal(t, 1, report.MatchedExisting)
	assert.Equal(t, 1, report.SkippedExistingName)

	exported, err := client.ExportUsers(ctx, "csv")
	require.NoError(t, err)
	text := string(exported)
	assert.Contains(t, text, "firstname,lastname")
	assert.Contains(t, text, "Nina,Frost")
	assert.Contains(t, text, "emp0400")
}

func TestRequestsWithoutTokenAreRejected(t *testing.T) {
	client, _, _ := newTestClient(t)

	_, err := client.MyFiles(context.Background())
	assert.ErrorIs(t, err, api.ErrUnauthorized)
}
