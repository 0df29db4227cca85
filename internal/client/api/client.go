package api

import (
	"context"

	"github.com/staffvault/pdfportal/internal/client/models"
)

// TokenSource supplies the current bearer credential. An empty string means
// "no credential"; the request goes out without an authorization header.
type TokenSource interface {
	Token() string
}

// ListParams are the query parameters shared by paginated admin endpoints.
type ListParams struct {
	Page  int
	Limit int
	Query string
}

// Client is the portal's view of the remote API. All methods honor context
// cancellation. Methods return sentinel errors (ErrUnauthorized,
// ErrUnavailable, ErrNotFound) for well-known conditions and *APIError for
// other server-reported failures.
type Client interface {
	// Login exchanges companyID+birthdate for a bearer token and identity.
	Login(ctx context.Context, companyID, birthdate string) (string, *models.Identity, error)

	// MyFiles lists the files visible to the calling identity. The server
	// filters by group membership for non-admins.
	MyFiles(ctx context.Context) ([]models.FileSummary, error)

	// DownloadFile fetches the binary PDF payload of one file.
	DownloadFile(ctx context.Context, id string) ([]byte, error)

	ListUsers(ctx context.Context, p ListParams) (models.Page[models.User], error)
	CreateUser(ctx context.Context, u models.User) error
	UpdateUser(ctx context.Context, id string, u models.User) error
	DeleteUser(ctx context.Context, id string) error

	// DeleteNonAdminUsers bulk-deletes every non-admin user and returns the
	// server-reported count.
	DeleteNonAdminUsers(ctx context.Context) (int, error)

	ListGroups(ctx context.Context) ([]models.Group, error)
	CreateGroup(ctx context.Context, name string) error
	DeleteGroup(ctx context.Context, name string) error

	ListFiles(ctx context.Context, p ListParams) (models.Page[models.FileSummary], error)
	UploadFile(ctx context.Context, filename string, content []byte, groups []string, displayName string) error
	UpdateFile(ctx context.Context, id string, upd models.FileUpdate) error
	DeleteFile(ctx context.Context, id string) error

	ImportUsers(ctx context.Context, filename string, content []byte) (models.ImportReport, error)
	ExportUsers(ctx context.Context, format string) ([]byte, error)
}
