package tui

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffvault/pdfportal/internal/client/api"
	"github.com/staffvault/pdfportal/internal/client/models"
)

type fakeFileService struct {
	page       models.Page[models.FileSummary]
	err        error
	deletedIDs []string
	listCalls  int
	lastParams api.ListParams
}

func (s *fakeFileService) List(ctx context.Context, p api.ListParams) (models.Page[models.FileSummary], error) {
	s.listCalls++
	s.lastParams = p
	return s.page, s.err
}

func (s *fakeFileService) Upload(ctx context.Context, path string, groups []string, displayName string) error {
	return s.err
}

func (s *fakeFileService) Update(ctx context.Context, id string, upd models.FileUpdate) error {
	return s.err
}

func (s *fakeFileService) Delete(ctx context.Context, id string) error {
	s.deletedIDs = append(s.deletedIDs, id)
	return s.err
}

func TestFilesModel_IgnoresOtherListsDebounce(t *testing.T) {
	svc := &fakeFileService{}
	deps := Deps{Files: svc, Groups: &fakeGroupService{}}

	m := newFilesModel()
	m.list.Search.SetValue("report")
	m.list.QueueDebounce()

	m, cmd := m.update(debounceElapsedMsg{list: "users", gen: m.list.debounceGen}, deps)
	assert.Nil(t, cmd, "a debounce addressed to another list must be ignored")
	assert.Empty(t, m.list.Query())
}

func TestFilesModel_DeleteConfirmedReloads(t *testing.T) {
	svc := &fakeFileService{}
	deps := Deps{Files: svc, Groups: &fakeGroupService{}}

	m := newFilesModel()
	m.list.Items = []models.FileSummary{{ID: "f1", OriginalName: "a.pdf"}, {ID: "f2", OriginalName: "b.pdf"}}
	m.cursor = 1

	m, _ = m.update(key("d"), deps)
	require.Equal(t, filesConfirmDelete, m.mode)

	m, deleteCmd := m.update(key("y"), deps)
	require.NotNil(t, deleteCmd)

	m, reload := m.update(deleteCmd(), deps)
	assert.Equal(t, []string{"f2"}, svc.deletedIDs)
	assert.Equal(t, "File deleted.", m.status)
	assert.NotNil(t, reload)
}

func TestFilesModel_FetchErrorReplacesRows(t *testing.T) {
	svc := &fakeFileService{page: models.Page[models.FileSummary]{
		Items: []models.FileSummary{{ID: "f1", OriginalName: "a.pdf"}},
		Total: 1,
	}}
	deps := Deps{Files: svc, Groups: &fakeGroupService{}}

	m := newFilesModel()
	m, _ = m.update(m.fetchCmd(deps)(), deps)
	require.Len(t, m.list.Items, 1)

	svc.err = errors.New("connection refused")
	m, _ = m.update(m.fetchCmd(deps)(), deps)

	assert.Empty(t, m.list.Items, "a failed reload must not leave stale rows on screen")
	assert.NotEmpty(t, m.errText)
}

func TestFilesModel_DeleteDeclinedDoesNothing(t *testing.T) {
	svc := &fakeFileService{}
	deps := Deps{Files: svc, Groups: &fakeGroupService{}}

	m := newFilesModel()
	m.list.Items = []models.FileSummary{{ID: "f1"}}

	m, _ = m.update(key("d"), deps)
	m, cmd := m.update(key("esc"), deps)

	assert.Equal(t, filesBrowsing, m.mode)
	assert.Nil(t, cmd)
	assert.Empty(t, svc.deletedIDs)
}
