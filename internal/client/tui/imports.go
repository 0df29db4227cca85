package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/staffvault/pdfportal/internal/client/models"
)

// importModel is the bulk user import/export screen. Import ships a
// spreadsheet to the server and renders the per-row outcome; export saves
// the server-generated users spreadsheet into the downloads directory.
type importModel struct {
	path textinput.Model
	busy bool

	report    *models.ImportReport
	savedPath string
	errText   string
}

type importDoneMsg struct {
	report models.ImportReport
	err    error
}

type exportDoneMsg struct {
	path string
	err  error
}

func newImportModel() importModel {
	path := textinput.New()
	path.Placeholder = "path to .xlsx or .csv file"
	path.CharLimit = 512
	return importModel{path: path}
}

func (m *importModel) enter() tea.Cmd {
	return m.path.Focus()
}

func (m importModel) update(msg tea.Msg, deps Deps) (importModel, tea.Cmd) {
	switch msg := msg.(type) {
	case importDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.errText = friendlyError(msg.err, "Import failed.")
			return m, nil
		}
		report := msg.report
		m.report = &report
		m.errText = ""
		return m, nil

	case exportDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.errText = friendlyError(msg.err, "Export failed.")
			return m, nil
		}
		m.savedPath = msg.path
		m.errText = ""
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "enter":
			m.busy = true
			m.errText = ""
			m.report = nil
			path := strings.TrimSpace(m.path.Value())
			return m, func() tea.Msg {
				report, err := deps.Importer.Import(context.Background(), path)
				return importDoneMsg{report: report, err: err}
			}
		case "ctrl+e":
			m.busy = true
			m.errText = ""
			m.savedPath = ""
			return m, func() tea.Msg {
				path, err := deps.Importer.Export(context.Background(), "xlsx")
				return exportDoneMsg{path: path, err: err}
			}
		}
	}

	var cmd tea.Cmd
	m.path, cmd = m.path.Update(msg)
	return m, cmd
}

func (m importModel) view(theme Theme) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Import users") + "\n\n")
	b.WriteString(theme.Subtitle.Render("  Rows are matched by company id; existing users are left untouched.") + "\n\n")
	b.WriteString("  " + m.path.View() + "\n")

	if m.busy {
		b.WriteString("\n" + theme.Faint.Render("  working..."))
	}
	if m.report != nil {
		b.WriteString("\n" + theme.Success.Render(fmt.Sprintf(
			"  Imported: %d new, %d already present, %d skipped (name taken).",
			m.report.Inserted, m.report.MatchedExisting, m.report.SkippedExistingName)))
	}
	if m.savedPath != "" {
		b.WriteString("\n" + theme.Success.Render("  Exported users to "+m.savedPath))
	}
	if m.errText != "" {
		b.WriteString("\n" + theme.Error.Render("  "+m.errText))
	}

	b.WriteString("\n\n" + theme.Help.Render("enter import · ctrl+e export users"))
	return b.String()
}
