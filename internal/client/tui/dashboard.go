package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/staffvault/pdfportal/internal/client/models"
)

// dashboardModel is the employee-facing screen: the files shared with the
// signed-in user's groups, opened in the system PDF viewer.
type dashboardModel struct {
	files   []models.FileSummary
	cursor  int
	busy    bool
	errText string
	notice  string
}

type myFilesLoadedMsg struct {
	files []models.FileSummary
	err   error
}

type fileOpenedMsg struct {
	title string
	err   error
}

func newDashboardModel() dashboardModel {
	return dashboardModel{}
}

func (m *dashboardModel) enter(deps Deps) tea.Cmd {
	m.busy = true
	m.errText = ""
	m.notice = ""
	return loadMyFilesCmd(deps)
}

func loadMyFilesCmd(deps Deps) tea.Cmd {
	return func() tea.Msg {
		files, err := deps.Viewer.List(context.Background())
		return myFilesLoadedMsg{files: files, err: err}
	}
}

func openFileCmd(deps Deps, f models.FileSummary) tea.Cmd {
	return func() tea.Msg {
		err := deps.Viewer.Open(context.Background(), f)
		return fileOpenedMsg{title: f.Title(), err: err}
	}
}

func (m dashboardModel) update(msg tea.Msg, deps Deps) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case myFilesLoadedMsg:
		m.busy = false
		if msg.err != nil {
			m.errText = friendlyError(msg.err, "Could not load your documents.")
			return m, nil
		}
		m.files = msg.files
		if m.cursor >= len(m.files) {
			m.cursor = 0
		}
		return m, nil

	case fileOpenedMsg:
		m.busy = false
		if msg.err != nil {
			m.errText = friendlyError(msg.err, "Could not open the document.")
			return m, nil
		}
		m.notice = fmt.Sprintf("Opened %q in your PDF viewer.", msg.title)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.files)-1 {
				m.cursor++
			}
		case "enter", "o":
			if m.busy || len(m.files) == 0 {
				return m, nil
			}
			m.errText = ""
			m.notice = ""
			return m, openFileCmd(deps, m.files[m.cursor])
		case "r":
			return m, m.enter(deps)
		}
	}
	return m, nil
}

func (m dashboardModel) view(theme Theme) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Your documents") + "\n\n")

	switch {
	case m.busy && len(m.files) == 0:
		b.WriteString(theme.Faint.Render("  loading..."))
	case len(m.files) == 0:
		b.WriteString(theme.Faint.Render("  No documents have been shared with you yet."))
	default:
		for i, f := range m.files {
			line := fmt.Sprintf("  %s  %s", f.Title(), theme.Faint.Render(f.UploadDate))
			if i == m.cursor {
				line = theme.Selected.Render("> " + f.Title() + "  " + f.UploadDate)
			}
			b.WriteString(line + "\n")
		}
	}

	if m.notice != "" {
		b.WriteString("\n" + theme.Success.Render("  "+m.notice))
	}
	if m.errText != "" {
		b.WriteString("\n" + theme.Error.Render("  "+m.errText))
	}
	b.WriteString("\n\n" + theme.Help.Render("enter open · r reload"))
	return b.String()
}
