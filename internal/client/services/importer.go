package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/staffvault/pdfportal/internal/client/api"
	"github.com/staffvault/pdfportal/internal/client/models"
)

// ErrNoImportFile rejects an import submission without a chosen file.
var ErrNoImportFile = errors.New("choose a .xlsx or .csv file")

// ImportService handles bulk user import from a spreadsheet and the
// users export download. Spreadsheet parsing happens server-side; the
// client only ships bytes and renders the resulting report.
type ImportService interface {
	Import(ctx context.Context, path string) (models.ImportReport, error)

	// Export downloads the users spreadsheet and saves it into the
	// downloads directory, returning the saved path.
	Export(ctx context.Context, format string) (string, error)
}

type importService struct {
	client api.Client
	dir    string
}

func NewImportService(client api.Client, dir string) ImportService {
	return &importService{client: client, dir: dir}
}

func (s *importService) Import(ctx context.Context, path string) (models.ImportReport, error) {
	var report models.ImportReport
	if path == "" {
		return report, ErrNoImportFile
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return report, fmt.Errorf("read %s: %w", path, err)
	}

	report, err = s.client.ImportUsers(ctx, filepath.Base(path), content)
	if err != nil {
		return report, fmt.Errorf("import users: %w", err)
	}
	return report, nil
}

func (s *importService) Export(ctx context.Context, format string) (string, error) {
	data, err := s.client.ExportUsers(ctx, format)
	if err != nil {
		return "", fmt.Errorf("export users: %w", err)
	}

	path := filepath.Join(s.dir, "users."+format)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
