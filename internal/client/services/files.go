package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/staffvault/pdfportal/internal/client/api"
	"github.com/staffvault/pdfportal/internal/client/models"
	"github.com/staffvault/pdfportal/internal/common"
)

// ErrNoFileChosen rejects an upload submission without a selected file.
var ErrNoFileChosen = errors.New("choose a PDF file to upload")

// FileService manages the admin side of file distribution: the paginated
// catalogue, uploads, group/display-name edits, and deletion.
//
// Upload and Update enforce the group precondition client-side; a draft
// without groups never reaches the network.
type FileService interface {
	List(ctx context.Context, p api.ListParams) (models.Page[models.FileSummary], error)
	Upload(ctx context.Context, path string, groups []string, displayName string) error
	Update(ctx context.Context, id string, upd models.FileUpdate) error
	Delete(ctx context.Context, id string) error
}

type fileService struct {
	client api.Client
}

func NewFileService(client api.Client) FileService {
	return &fileService{client: client}
}

func (s *fileService) List(ctx context.Context, p api.ListParams) (models.Page[models.FileSummary], error) {
	page, err := s.client.ListFiles(ctx, p)
	if err != nil {
		return page, fmt.Errorf("list files: %w", err)
	}
	return page, nil
}

func (s *fileService) Upload(ctx context.Context, path string, groups []string, displayName string) error {
	if path == "" {
		return ErrNoFileChosen
	}
	if len(groups) == 0 {
		return common.ErrorGroupRequired
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := s.client.UploadFile(ctx, filepath.Base(path), content, groups, displayName); err != nil {
		return fmt.Errorf("upload file: %w", err)
	}
	return nil
}

func (s *fileService) Update(ctx context.Context, id string, upd models.FileUpdate) error {
	if len(upd.Groups) == 0 {
		return common.ErrorGroupRequired
	}
	if err := s.client.UpdateFile(ctx, id, upd); err != nil {
		return fmt.Errorf("update file: %w", err)
	}
	return nil
}

func (s *fileService) Delete(ctx context.Context, id string) error {
	if err := s.client.DeleteFile(ctx, id); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}
