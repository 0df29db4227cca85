package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/staffvault/pdfportal/internal/client/models"
)

// loginModel is the sign-in screen: company id plus birthdate, the same
// pair the server validates.
type loginModel struct {
	company textinput.Model
	birth   textinput.Model
	focus   int
	busy    bool
	errText string
}

type loginResultMsg struct {
	identity *models.Identity
	err      error
}

func newLoginModel() loginModel {
	company := textinput.New()
	company.Placeholder = "company id"
	company.CharLimit = 64

	birth := textinput.New()
	birth.Placeholder = "birthdate (YYYY-MM-DD)"
	birth.CharLimit = 10

	return loginModel{company: company, birth: birth}
}

func (m loginModel) focusCmd() tea.Cmd {
	return m.company.Focus()
}

func (m loginModel) update(msg tea.Msg, deps Deps) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		m.busy = false
		if msg.err != nil {
			m.errText = friendlyError(msg.err, "Login failed. Please try again.")
		}
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			m.focus = 1 - m.focus
			if m.focus == 0 {
				m.birth.Blur()
				return m, m.company.Focus()
			}
			m.company.Blur()
			return m, m.birth.Focus()

		case "enter":
			m.busy = true
			m.errText = ""
			companyID := strings.TrimSpace(m.company.Value())
			birthdate := strings.TrimSpace(m.birth.Value())
			return m, loginCmd(deps, companyID, birthdate)
		}
	}

	var cmd tea.Cmd
	if m.focus == 0 {
		m.company, cmd = m.company.Update(msg)
	} else {
		m.birth, cmd = m.birth.Update(msg)
	}
	return m, cmd
}

func loginCmd(deps Deps, companyID, birthdate string) tea.Cmd {
	return func() tea.Msg {
		identity, err := deps.Session.Login(context.Background(), companyID, birthdate)
		return loginResultMsg{identity: identity, err: err}
	}
}

func (m loginModel) view(theme Theme) string {
	var b strings.Builder
	b.WriteString(theme.Subtitle.Render("Sign in with your company id and birthdate.") + "\n\n")
	b.WriteString("  " + m.company.View() + "\n")
	b.WriteString("  " + m.birth.View() + "\n")

	if m.busy {
		b.WriteString("\n" + theme.Faint.Render("  signing in..."))
	}
	if m.errText != "" {
		b.WriteString("\n" + theme.Error.Render("  "+m.errText))
	}
	return b.String()
}
