package tui

import (
	"strings"

	"github.com/staffvault/pdfportal/internal/client/models"
)

// groupPicker is a multi-select over the known group names, shared by the
// user form, the upload form, and the file edit form. Selection is by name
// because users and files reference groups by name, not by id.
type groupPicker struct {
	options  []models.Group
	selected map[string]bool
	cursor   int
}

func newGroupPicker() groupPicker {
	return groupPicker{selected: make(map[string]bool)}
}

// SetOptions replaces the selectable groups, keeping selections that still
// exist.
func (p *groupPicker) SetOptions(groups []models.Group) {
	p.options = groups
	kept := make(map[string]bool, len(p.selected))
	for _, g := range groups {
		if p.selected[g.Name] {
			kept[g.Name] = true
		}
	}
	p.selected = kept
	if p.cursor >= len(groups) {
		p.cursor = 0
	}
}

// SetSelected replaces the selection, used when editing an existing record.
func (p *groupPicker) SetSelected(names []string) {
	p.selected = make(map[string]bool, len(names))
	for _, name := range names {
		p.selected[name] = true
	}
}

func (p *groupPicker) MoveUp() {
	if p.cursor > 0 {
		p.cursor--
	}
}

func (p *groupPicker) MoveDown() {
	if p.cursor < len(p.options)-1 {
		p.cursor++
	}
}

// Toggle flips the selection under the cursor.
func (p *groupPicker) Toggle() {
	if len(p.options) == 0 {
		return
	}
	name := p.options[p.cursor].Name
	if p.selected[name] {
		delete(p.selected, name)
	} else {
		p.selected[name] = true
	}
}

// Selected returns the chosen group names in option order.
func (p *groupPicker) Selected() []string {
	var names []string
	for _, g := range p.options {
		if p.selected[g.Name] {
			names = append(names, g.Name)
		}
	}
	return names
}

// View renders the picker; focused controls whether the cursor shows.
func (p *groupPicker) View(theme Theme, focused bool) string {
	if len(p.options) == 0 {
		return theme.Faint.Render("  no groups defined yet")
	}

	var b strings.Builder
	for i, g := range p.options {
		mark := "[ ]"
		if p.selected[g.Name] {
			mark = "[x]"
		}
		line := "  " + mark + " " + g.Name
		if focused && i == p.cursor {
			line = theme.Selected.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
