package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/staffvault/pdfportal/internal/client/models"
)

type filesMode int

const (
	filesBrowsing filesMode = iota
	filesSearching
	filesUploading
	filesEditing
	filesConfirmDelete
	filesGoTo
)

// filesModel is the admin document catalogue: paginated search over all
// uploaded PDFs, upload of new ones, and per-file group/display-name edits.
type filesModel struct {
	list   listModel[models.FileSummary]
	cursor int
	mode   filesMode

	form   fileForm
	groups []models.Group

	goToInput textinput.Model

	status  string
	errText string
}

// fileForm doubles as the upload form (path editable) and the edit form
// (path hidden, editingID set).
type fileForm struct {
	editingID   string
	path        textinput.Model
	displayName textinput.Model
	picker      groupPicker
	focus       int
}

const (
	filePath = iota
	fileDisplayName
	fileGroups
	fileFieldCount
)

type filesFetchedMsg struct {
	gen  int
	page models.Page[models.FileSummary]
	err  error
}

type fileGroupsMsg struct {
	groups []models.Group
	err    error
}

type fileSavedMsg struct{ err error }
type fileDeletedMsg struct{ err error }

func newFilesModel() filesModel {
	goToInput := textinput.New()
	goToInput.Placeholder = "page"
	goToInput.CharLimit = 6

	return filesModel{
		list:      newListModel[models.FileSummary]("files", "search file name"),
		goToInput: goToInput,
	}
}

func newFileForm() fileForm {
	path := textinput.New()
	path.Placeholder = "path to PDF file"
	path.CharLimit = 512

	displayName := textinput.New()
	displayName.Placeholder = "display name (optional)"
	displayName.CharLimit = 120

	return fileForm{path: path, displayName: displayName, picker: newGroupPicker()}
}

func (f *fileForm) loadFile(summary models.FileSummary) {
	f.editingID = summary.ID
	f.displayName.SetValue(summary.DisplayName)
	f.picker.SetSelected(summary.Groups)
	f.focus = fileDisplayName
}

func (m *filesModel) enter(deps Deps) tea.Cmd {
	m.mode = filesBrowsing
	m.status = ""
	m.errText = ""
	return tea.Batch(m.fetchCmd(deps), loadFileGroupsCmd(deps))
}

func (m *filesModel) fetchCmd(deps Deps) tea.Cmd {
	gen := m.list.BeginFetch()
	params := m.list.Params()
	return func() tea.Msg {
		page, err := deps.Files.List(context.Background(), params)
		return filesFetchedMsg{gen: gen, page: page, err: err}
	}
}

func loadFileGroupsCmd(deps Deps) tea.Cmd {
	return func() tea.Msg {
		groups, err := deps.Groups.List(context.Background())
		return fileGroupsMsg{groups: groups, err: err}
	}
}

func (m filesModel) update(msg tea.Msg, deps Deps) (filesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case filesFetchedMsg:
		if msg.err != nil {
			if m.list.FetchFailed(msg.gen) {
				// The error state replaces whatever rows were on screen.
				m.list.Items = nil
				m.cursor = 0
				m.errText = friendlyError(msg.err, "Could not load files.")
			}
			return m, nil
		}
		if !m.list.Accept(msg.gen, msg.page.Items, msg.page.Total) {
			return m, nil
		}
		m.errText = ""
		if m.list.ClampPage() {
			return m, m.fetchCmd(deps)
		}
		if m.cursor >= len(m.list.Items) {
			m.cursor = 0
		}
		return m, nil

	case fileGroupsMsg:
		if msg.err != nil {
			m.errText = friendlyError(msg.err, "Could not load groups.")
			return m, nil
		}
		m.groups = msg.groups
		m.form.picker.SetOptions(msg.groups)
		return m, nil

	case fileSavedMsg:
		if msg.err != nil {
			m.errText = friendlyError(msg.err, "Could not save the file.")
			return m, nil
		}
		m.mode = filesBrowsing
		m.status = "File saved."
		m.errText = ""
		return m, m.fetchCmd(deps)

	case fileDeletedMsg:
		m.mode = filesBrowsing
		if msg.err != nil {
			m.errText = friendlyError(msg.err, "Could not delete the file.")
			return m, nil
		}
		m.status = "File deleted."
		return m, m.fetchCmd(deps)

	case debounceElapsedMsg:
		if m.list.TakeDebounce(msg) {
			return m, m.fetchCmd(deps)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg, deps)
	}

	return m, nil
}

func (m filesModel) handleKey(msg tea.KeyMsg, deps Deps) (filesModel, tea.Cmd) {
	switch m.mode {
	case filesSearching:
		switch msg.String() {
		case "esc", "enter":
			m.mode = filesBrowsing
			m.list.Search.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		before := m.list.Search.Value()
		m.list.Search, cmd = m.list.Search.Update(msg)
		if m.list.Search.Value() != before {
			return m, tea.Batch(cmd, m.list.QueueDebounce())
		}
		return m, cmd

	case filesGoTo:
		switch msg.String() {
		case "esc":
			m.mode = filesBrowsing
			m.goToInput.Blur()
			return m, nil
		case "enter":
			m.mode = filesBrowsing
			m.goToInput.Blur()
			if m.list.GoToPage(strings.TrimSpace(m.goToInput.Value())) {
				return m, m.fetchCmd(deps)
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.goToInput, cmd = m.goToInput.Update(msg)
		return m, cmd

	case filesUploading, filesEditing:
		return m.handleFormKey(msg, deps)

	case filesConfirmDelete:
		switch msg.String() {
		case "y":
			id := m.selectedID()
			m.mode = filesBrowsing
			if id == "" {
				return m, nil
			}
			return m, func() tea.Msg {
				return fileDeletedMsg{err: deps.Files.Delete(context.Background(), id)}
			}
		case "n", "esc":
			m.mode = filesBrowsing
		}
		return m, nil
	}

	// Browsing.
	switch msg.String() {
	case "/":
		m.mode = filesSearching
		m.status = ""
		return m, m.list.Search.Focus()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.list.Items)-1 {
			m.cursor++
		}
	case "right", "n":
		if m.list.NextPage() {
			return m, m.fetchCmd(deps)
		}
	case "left", "p":
		if m.list.PrevPage() {
			return m, m.fetchCmd(deps)
		}
	case "s":
		m.list.CyclePageSize()
		return m, m.fetchCmd(deps)
	case "g":
		m.mode = filesGoTo
		m.goToInput.SetValue("")
		return m, m.goToInput.Focus()
	case "u", "a":
		m.mode = filesUploading
		m.form = newFileForm()
		m.form.picker.SetOptions(m.groups)
		m.status = ""
		m.errText = ""
		return m, m.form.path.Focus()
	case "e", "enter":
		if len(m.list.Items) == 0 {
			return m, nil
		}
		m.mode = filesEditing
		m.form = newFileForm()
		m.form.picker.SetOptions(m.groups)
		m.form.loadFile(m.list.Items[m.cursor])
		m.status = ""
		m.errText = ""
		return m, m.form.displayName.Focus()
	case "d":
		if len(m.list.Items) > 0 {
			m.mode = filesConfirmDelete
		}
	case "r":
		return m, m.fetchCmd(deps)
	}
	return m, nil
}

func (m filesModel) selectedID() string {
	if m.cursor >= len(m.list.Items) {
		return ""
	}
	return m.list.Items[m.cursor].ID
}

func (m filesModel) handleFormKey(msg tea.KeyMsg, deps Deps) (filesModel, tea.Cmd) {
	editing := m.mode == filesEditing

	switch msg.String() {
	case "esc":
		m.mode = filesBrowsing
		return m, nil

	case "tab", "shift+tab":
		delta := 1
		if msg.String() == "shift+tab" {
			delta = fileFieldCount - 1
		}
		m.form.focus = (m.form.focus + delta) % fileFieldCount
		if editing && m.form.focus == filePath {
			// The stored file cannot be replaced; only its metadata can.
			m.form.focus = (m.form.focus + delta) % fileFieldCount
		}
		m.form.path.Blur()
		m.form.displayName.Blur()
		switch m.form.focus {
		case filePath:
			return m, m.form.path.Focus()
		case fileDisplayName:
			return m, m.form.displayName.Focus()
		}
		return m, nil

	case "ctrl+s":
		m.errText = ""
		groups := m.form.picker.Selected()
		displayName := strings.TrimSpace(m.form.displayName.Value())
		if editing {
			id := m.form.editingID
			upd := models.FileUpdate{Groups: groups, DisplayName: displayName}
			return m, func() tea.Msg {
				return fileSavedMsg{err: deps.Files.Update(context.Background(), id, upd)}
			}
		}
		path := strings.TrimSpace(m.form.path.Value())
		return m, func() tea.Msg {
			return fileSavedMsg{err: deps.Files.Upload(context.Background(), path, groups, displayName)}
		}
	}

	if m.form.focus == fileGroups {
		switch msg.String() {
		case "up", "k":
			m.form.picker.MoveUp()
		case "down", "j":
			m.form.picker.MoveDown()
		case " ", "enter":
			m.form.picker.Toggle()
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.form.focus == filePath {
		m.form.path, cmd = m.form.path.Update(msg)
	} else {
		m.form.displayName, cmd = m.form.displayName.Update(msg)
	}
	return m, cmd
}

func (m filesModel) view(theme Theme) string {
	if m.mode == filesUploading || m.mode == filesEditing {
		return m.formView(theme)
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render("Files") + "\n\n")
	b.WriteString("  " + m.list.Search.View() + "\n\n")

	if m.list.Loading() && len(m.list.Items) == 0 {
		b.WriteString(theme.Faint.Render("  loading..."))
	} else if len(m.list.Items) == 0 {
		if m.errText == "" {
			b.WriteString(theme.Faint.Render("  No files match."))
		}
	} else {
		for i, f := range m.list.Items {
			line := fmt.Sprintf("  %s  %s", f.Title(),
				theme.Faint.Render(f.UploadDate+" · "+strings.Join(f.Groups, ",")))
			if i == m.cursor && m.mode == filesBrowsing {
				line = theme.Selected.Render("> "+f.Title()) + "  " +
					theme.Faint.Render(f.UploadDate+" · "+strings.Join(f.Groups, ","))
			}
			b.WriteString(line + "\n")
		}
	}

	b.WriteString("\n" + theme.Pager.Render(fmt.Sprintf("  page %d of %d · %d total · %d per page",
		m.list.Page(), m.list.TotalPages(), m.list.Total(), m.list.Limit())))

	switch m.mode {
	case filesGoTo:
		b.WriteString("\n  go to page: " + m.goToInput.View())
	case filesConfirmDelete:
		b.WriteString("\n" + theme.Danger.Render("  Delete this file? (y/n)"))
	}

	if m.status != "" {
		b.WriteString("\n" + theme.Success.Render("  "+m.status))
	}
	if m.errText != "" {
		b.WriteString("\n" + theme.Error.Render("  "+m.errText))
	}

	b.WriteString("\n\n" + theme.Help.Render("/ search · n/p page · s page size · g go to · u upload · e edit · d delete"))
	return b.String()
}

func (m filesModel) formView(theme Theme) string {
	title := "Upload file"
	if m.mode == filesEditing {
		title = "Edit file"
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render(title) + "\n\n")
	if m.mode == filesUploading {
		b.WriteString("  " + m.form.path.View() + "\n")
	}
	b.WriteString("  " + m.form.displayName.View() + "\n\n")

	b.WriteString(theme.Subtitle.Render("  groups (at least one required)") + "\n")
	b.WriteString(m.form.picker.View(theme, m.form.focus == fileGroups) + "\n")

	if m.errText != "" {
		b.WriteString("\n" + theme.Error.Render("  "+m.errText))
	}
	b.WriteString("\n" + theme.Help.Render("tab next field · ctrl+s save · esc cancel"))
	return b.String()
}
