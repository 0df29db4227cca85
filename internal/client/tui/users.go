package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/staffvault/pdfportal/internal/client/models"
)

type usersMode int

const (
	usersBrowsing usersMode = iota
	usersSearching
	usersEditing
	usersConfirmDelete
	usersConfirmPurge
	usersGroups
	usersConfirmGroupDelete
	usersGoTo
)

// usersModel is the admin user directory: a paginated, searchable list with
// inline create/edit, per-user delete, the bulk non-admin purge, and a
// group management panel.
type usersModel struct {
	list   listModel[models.User]
	cursor int
	mode   usersMode

	form   userForm
	groups []models.Group

	groupsCursor int
	groupInput   textinput.Model

	goToInput textinput.Model

	status  string
	errText string
}

// userForm holds the create/edit draft. An empty editingID means create.
type userForm struct {
	editingID string
	inputs    []textinput.Model
	role      models.Role
	picker    groupPicker
	focus     int
}

const (
	formFirstname = iota
	formLastname
	formDepartment
	formBirthdate
	formCompanyID
	formRole
	formGroups
	formFieldCount
)

type usersFetchedMsg struct {
	gen  int
	page models.Page[models.User]
	err  error
}

type userGroupsMsg struct {
	groups []models.Group
	err    error
}

type userSavedMsg struct{ err error }
type userDeletedMsg struct{ err error }

type usersPurgedMsg struct {
	count int
	err   error
}

type groupSavedMsg struct{ err error }
type groupRemovedMsg struct{ err error }

func newUsersModel() usersModel {
	groupInput := textinput.New()
	groupInput.Placeholder = "new group name"
	groupInput.CharLimit = 64

	goToInput := textinput.New()
	goToInput.Placeholder = "page"
	goToInput.CharLimit = 6

	return usersModel{
		list:       newListModel[models.User]("users", "search name, department, company id"),
		groupInput: groupInput,
		goToInput:  goToInput,
	}
}

func newUserForm() userForm {
	labels := []string{"firstname", "lastname", "department", "birthdate (YYYY-MM-DD)", "company id"}
	inputs := make([]textinput.Model, len(labels))
	for i, label := range labels {
		input := textinput.New()
		input.Placeholder = label
		input.CharLimit = 80
		inputs[i] = input
	}
	return userForm{inputs: inputs, role: models.RoleUser, picker: newGroupPicker()}
}

func (f *userForm) loadUser(u models.User) {
	f.editingID = u.ID
	f.inputs[formFirstname].SetValue(u.Firstname)
	f.inputs[formLastname].SetValue(u.Lastname)
	f.inputs[formDepartment].SetValue(u.Department)
	f.inputs[formBirthdate].SetValue(u.Birthdate)
	f.inputs[formCompanyID].SetValue(u.CompanyID)
	f.role = u.Role
	f.picker.SetSelected(u.Groups)
}

func (f *userForm) draft() models.User {
	return models.User{
		Firstname:  strings.TrimSpace(f.inputs[formFirstname].Value()),
		Lastname:   strings.TrimSpace(f.inputs[formLastname].Value()),
		Department: strings.TrimSpace(f.inputs[formDepartment].Value()),
		Birthdate:  strings.TrimSpace(f.inputs[formBirthdate].Value()),
		CompanyID:  strings.TrimSpace(f.inputs[formCompanyID].Value()),
		Role:       f.role,
		Groups:     f.picker.Selected(),
	}
}

func (m *usersModel) enter(deps Deps) tea.Cmd {
	m.mode = usersBrowsing
	m.status = ""
	m.errText = ""
	return tea.Batch(m.fetchCmd(deps), loadGroupsCmd(deps))
}

// fetchCmd starts a fetch for the current page state and stamps it with a
// generation so a stale response cannot clobber newer rows.
func (m *usersModel) fetchCmd(deps Deps) tea.Cmd {
	gen := m.list.BeginFetch()
	params := m.list.Params()
	return func() tea.Msg {
		page, err := deps.Users.List(context.Background(), params)
		return usersFetchedMsg{gen: gen, page: page, err: err}
	}
}

func loadGroupsCmd(deps Deps) tea.Cmd {
	return func() tea.Msg {
		groups, err := deps.Groups.List(context.Background())
		return userGroupsMsg{groups: groups, err: err}
	}
}

func (m usersModel) update(msg tea.Msg, deps Deps) (usersModel, tea.Cmd) {
	switch msg := msg.(type) {
	case usersFetchedMsg:
		if msg.err != nil {
			if m.list.FetchFailed(msg.gen) {
				// The error state replaces whatever rows were on screen.
				m.list.Items = nil
				m.cursor = 0
				m.errText = friendlyError(msg.err, "Could not load users.")
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

	case userGroupsMsg:
		if msg.err != nil {
			m.errText = friendlyError(msg.err, "Could not load groups.")
			return m, nil
		}
		m.groups = msg.groups
		m.form.picker.SetOptions(msg.groups)
		if m.groupsCursor >= len(m.groups) {
			m.groupsCursor = 0
		}
		return m, nil

	case userSavedMsg:
		if msg.err != nil {
			m.errText = friendlyError(msg.err, "Could not save the user.")
			return m, nil
		}
		m.mode = usersBrowsing
		m.status = "User saved."
		m.errText = ""
		return m, m.fetchCmd(deps)

	case userDeletedMsg:
		if msg.err != nil {
			m.errText = friendlyError(msg.err, "Could not delete the user.")
			m.mode = usersBrowsing
			return m, nil
		}
		m.mode = usersBrowsing
		m.status = "User deleted."
		return m, m.fetchCmd(deps)

	case usersPurgedMsg:
		m.mode = usersBrowsing
		if msg.err != nil {
			m.errText = friendlyError(msg.err, "Could not delete users.")
			return m, nil
		}
		m.status = fmt.Sprintf("Deleted %d user(s).", msg.count)
		m.list.ResetPage()
		return m, m.fetchCmd(deps)

	case groupSavedMsg:
		if msg.err != nil {
			m.errText = friendlyError(msg.err, "Could not create the group.")
			return m, nil
		}
		m.groupInput.SetValue("")
		return m, loadGroupsCmd(deps)

	case groupRemovedMsg:
		if msg.err != nil {
			m.errText = friendlyError(msg.err, "Could not delete the group.")
			return m, nil
		}
		return m, loadGroupsCmd(deps)

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

func (m usersModel) handleKey(msg tea.KeyMsg, deps Deps) (usersModel, tea.Cmd) {
	switch m.mode {
	case usersSearching:
		switch msg.String() {
		case "esc", "enter":
			m.mode = usersBrowsing
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

	case usersGoTo:
		switch msg.String() {
		case "esc":
			m.mode = usersBrowsing
			m.goToInput.Blur()
			return m, nil
		case "enter":
			m.mode = usersBrowsing
			m.goToInput.Blur()
			if m.list.GoToPage(strings.TrimSpace(m.goToInput.Value())) {
				return m, m.fetchCmd(deps)
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.goToInput, cmd = m.goToInput.Update(msg)
		return m, cmd

	case usersEditing:
		return m.handleFormKey(msg, deps)

	case usersConfirmDelete:
		switch msg.String() {
		case "y":
			id := m.selectedID()
			m.mode = usersBrowsing
			if id == "" {
				return m, nil
			}
			return m, func() tea.Msg {
				return userDeletedMsg{err: deps.Users.Delete(context.Background(), id)}
			}
		case "n", "esc":
			m.mode = usersBrowsing
		}
		return m, nil

	case usersConfirmPurge:
		switch msg.String() {
		case "y":
			return m, func() tea.Msg {
				count, err := deps.Users.DeleteAllNonAdmins(context.Background())
				return usersPurgedMsg{count: count, err: err}
			}
		case "n", "esc":
			m.mode = usersBrowsing
		}
		return m, nil

	case usersGroups:
		return m.handleGroupsKey(msg, deps)

	case usersConfirmGroupDelete:
		switch msg.String() {
		case "y":
			m.mode = usersGroups
			if m.groupsCursor >= len(m.groups) {
				return m, nil
			}
			name := m.groups[m.groupsCursor].Name
			return m, func() tea.Msg {
				return groupRemovedMsg{err: deps.Groups.Delete(context.Background(), name)}
			}
		case "n", "esc":
			m.mode = usersGroups
		}
		return m, nil
	}

	// Browsing.
	switch msg.String() {
	case "/":
		m.mode = usersSearching
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
		m.mode = usersGoTo
		m.goToInput.SetValue("")
		return m, m.goToInput.Focus()
	case "a":
		m.mode = usersEditing
		m.form = newUserForm()
		m.form.picker.SetOptions(m.groups)
		m.status = ""
		m.errText = ""
		return m, m.form.inputs[formFirstname].Focus()
	case "e", "enter":
		if len(m.list.Items) == 0 {
			return m, nil
		}
		m.mode = usersEditing
		m.form = newUserForm()
		m.form.picker.SetOptions(m.groups)
		m.form.loadUser(m.list.Items[m.cursor])
		m.status = ""
		m.errText = ""
		return m, m.form.inputs[formFirstname].Focus()
	case "d":
		if len(m.list.Items) > 0 {
			m.mode = usersConfirmDelete
		}
	case "D":
		m.mode = usersConfirmPurge
	case "m":
		m.mode = usersGroups
		m.errText = ""
		return m, m.groupInput.Focus()
	case "r":
		return m, m.fetchCmd(deps)
	}
	return m, nil
}

func (m usersModel) selectedID() string {
	if m.cursor >= len(m.list.Items) {
		return ""
	}
	return m.list.Items[m.cursor].ID
}

func (m usersModel) handleFormKey(msg tea.KeyMsg, deps Deps) (usersModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = usersBrowsing
		return m, nil

	case "tab", "shift+tab":
		delta := 1
		if msg.String() == "shift+tab" {
			delta = formFieldCount - 1
		}
		m.form.focus = (m.form.focus + delta) % formFieldCount
		var cmd tea.Cmd
		for i := range m.form.inputs {
			if i == m.form.focus {
				cmd = m.form.inputs[i].Focus()
			} else {
				m.form.inputs[i].Blur()
			}
		}
		return m, cmd

	case "ctrl+s":
		draft := m.form.draft()
		editingID := m.form.editingID
		m.errText = ""
		return m, func() tea.Msg {
			return userSavedMsg{err: deps.Users.Save(context.Background(), draft, editingID)}
		}
	}

	switch m.form.focus {
	case formRole:
		switch msg.String() {
		case " ", "enter", "left", "right":
			if m.form.role == models.RoleAdmin {
				m.form.role = models.RoleUser
			} else {
				m.form.role = models.RoleAdmin
			}
		}
		return m, nil

	case formGroups:
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
	m.form.inputs[m.form.focus], cmd = m.form.inputs[m.form.focus].Update(msg)
	return m, cmd
}

func (m usersModel) handleGroupsKey(msg tea.KeyMsg, deps Deps) (usersModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = usersBrowsing
		m.groupInput.Blur()
		return m, nil

	case "enter":
		name := m.groupInput.Value()
		return m, func() tea.Msg {
			return groupSavedMsg{err: deps.Groups.Create(context.Background(), name)}
		}

	case "up":
		if m.groupsCursor > 0 {
			m.groupsCursor--
		}
		return m, nil

	case "down":
		if m.groupsCursor < len(m.groups)-1 {
			m.groupsCursor++
		}
		return m, nil

	case "ctrl+d":
		if len(m.groups) > 0 {
			m.mode = usersConfirmGroupDelete
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.groupInput, cmd = m.groupInput.Update(msg)
	return m, cmd
}

func (m usersModel) view(theme Theme) string {
	switch m.mode {
	case usersEditing:
		return m.formView(theme)
	case usersGroups, usersConfirmGroupDelete:
		return m.groupsView(theme)
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render("Users") + "\n\n")
	b.WriteString("  " + m.list.Search.View() + "\n\n")

	if m.list.Loading() && len(m.list.Items) == 0 {
		b.WriteString(theme.Faint.Render("  loading..."))
	} else if len(m.list.Items) == 0 {
		if m.errText == "" {
			b.WriteString(theme.Faint.Render("  No users match."))
		}
	} else {
		for i, u := range m.list.Items {
			role := ""
			if u.Role == models.RoleAdmin {
				role = " " + theme.Badge.Render("[admin]")
			}
			line := fmt.Sprintf("  %s %s%s  %s", u.Firstname, u.Lastname, role,
				theme.Faint.Render(u.Department+" · "+u.CompanyID+" · "+strings.Join(u.Groups, ",")))
			if i == m.cursor && m.mode == usersBrowsing {
				line = theme.Selected.Render(fmt.Sprintf("> %s %s", u.Firstname, u.Lastname)) + " " +
					theme.Faint.Render(u.Department+" · "+u.CompanyID)
			}
			b.WriteString(line + "\n")
		}
	}

	b.WriteString("\n" + theme.Pager.Render(fmt.Sprintf("  page %d of %d · %d total · %d per page",
		m.list.Page(), m.list.TotalPages(), m.list.Total(), m.list.Limit())))

	switch m.mode {
	case usersGoTo:
		b.WriteString("\n  go to page: " + m.goToInput.View())
	case usersConfirmDelete:
		b.WriteString("\n" + theme.Danger.Render("  Delete this user? (y/n)"))
	case usersConfirmPurge:
		b.WriteString("\n" + theme.Danger.Render("  Delete ALL non-admin users? This cannot be undone. (y/n)"))
	}

	if m.status != "" {
		b.WriteString("\n" + theme.Success.Render("  "+m.status))
	}
	if m.errText != "" {
		b.WriteString("\n" + theme.Error.Render("  "+m.errText))
	}

	b.WriteString("\n\n" + theme.Help.Render("/ search · n/p page · s page size · g go to · a add · e edit · d delete · D purge · m groups"))
	return b.String()
}

func (m usersModel) formView(theme Theme) string {
	title := "New user"
	if m.form.editingID != "" {
		title = "Edit user"
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render(title) + "\n\n")
	for _, input := range m.form.inputs {
		b.WriteString("  " + input.View() + "\n")
	}

	roleLine := "  role: " + string(m.form.role)
	if m.form.focus == formRole {
		roleLine = theme.Selected.Render(roleLine + "  (space toggles)")
	}
	b.WriteString(roleLine + "\n\n")

	b.WriteString(theme.Subtitle.Render("  groups (at least one required)") + "\n")
	b.WriteString(m.form.picker.View(theme, m.form.focus == formGroups) + "\n")

	if m.errText != "" {
		b.WriteString("\n" + theme.Error.Render("  "+m.errText))
	}
	b.WriteString("\n" + theme.Help.Render("tab next field · ctrl+s save · esc cancel"))
	return b.String()
}

func (m usersModel) groupsView(theme Theme) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Groups") + "\n\n")

	if len(m.groups) == 0 {
		b.WriteString(theme.Faint.Render("  no groups yet") + "\n")
	}
	for i, g := range m.groups {
		line := "  " + g.Name
		if i == m.groupsCursor {
			line = theme.Selected.Render("> " + g.Name)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n  " + m.groupInput.View() + "\n")
	if m.mode == usersConfirmGroupDelete && m.groupsCursor < len(m.groups) {
		b.WriteString("\n" + theme.Danger.Render(
			fmt.Sprintf("  Delete group '%s'? (y/n)", m.groups[m.groupsCursor].Name)))
	}
	if m.errText != "" {
		b.WriteString("\n" + theme.Error.Render("  "+m.errText))
	}
	b.WriteString("\n" + theme.Help.Render("enter create · ctrl+d delete selected · esc back"))
	return b.String()
}
