package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/staffvault/pdfportal/internal/client/api"
	"github.com/staffvault/pdfportal/internal/client/models"
)

// ErrEmptyGroupName rejects group creation with a blank name before any
// network call.
var ErrEmptyGroupName = errors.New("group name must not be empty")

// GroupService manages the named tags that gate file visibility. Groups are
// referenced by name from users and files; deleting a group does not cascade
// into those references.
type GroupService interface {
	List(ctx context.Context) ([]models.Group, error)
	Create(ctx context.Context, name string) error
	Delete(ctx context.Context, name string) error
}

type groupService struct {
	client api.Client
}

func NewGroupService(client api.Client) GroupService {
	return &groupService{client: client}
}

func (s *groupService) List(ctx context.Context) ([]models.Group, error) {
	groups, err := s.client.ListGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}

func (s *groupService) Create(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyGroupName
	}
	if err := s.client.CreateGroup(ctx, name); err != nil {
		return fmt.Errorf("create group: %w", err)
	}
	return nil
}

func (s *groupService) Delete(ctx context.Context, name string) error {
	if err := s.client.DeleteGroup(ctx, name); err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	return nil
}
