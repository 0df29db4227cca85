package services

import (
	"context"
	"fmt"

	"github.com/staffvault/pdfportal/internal/client/api"
	"github.com/staffvault/pdfportal/internal/client/models"
	"github.com/staffvault/pdfportal/internal/common"
)

// UserService manages employee records on behalf of the admin screens.
//
// Contract:
//   - List: one page of users matching the current search.
//   - Save: create (empty editingID) or update (non-empty) a user; fails
//     with common.ErrorGroupRequired before any network call when the
//     draft has no groups.
//   - Delete: remove one user.
//   - DeleteAllNonAdmins: bulk-delete, returning the server's count.
type UserService interface {
	List(ctx context.Context, p api.ListParams) (models.Page[models.User], error)
	Save(ctx context.Context, draft models.User, editingID string) error
	Delete(ctx context.Context, id string) error
	DeleteAllNonAdmins(ctx context.Context) (int, error)
}

type userService struct {
	client api.Client
}

func NewUserService(client api.Client) UserService {
	return &userService{client: client}
}

func (s *userService) List(ctx context.Context, p api.ListParams) (models.Page[models.User], error) {
	page, err := s.client.ListUsers(ctx, p)
	if err != nil {
		return page, fmt.Errorf("list users: %w", err)
	}
	return page, nil
}

func (s *userService) Save(ctx context.Context, draft models.User, editingID string) error {
	if len(draft.Groups) == 0 {
		return common.ErrorGroupRequired
	}

	if editingID != "" {
		if err := s.client.UpdateUser(ctx, editingID, draft); err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		return nil
	}

	if err := s.client.CreateUser(ctx, draft); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *userService) Delete(ctx context.Context, id string) error {
	if err := s.client.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (s *userService) DeleteAllNonAdmins(ctx context.Context) (int, error) {
	count, err := s.client.DeleteNonAdminUsers(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete non-admin users: %w", err)
	}
	return count, nil
}
