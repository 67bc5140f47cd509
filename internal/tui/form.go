package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/TriAzz/showcase/internal/model"
)

// Form field indexes. Category and status are enum fields cycled with the
// arrow keys; everything else is free text.
const (
	fieldTitle = iota
	fieldDescription
	fieldCategory
	fieldStatus
	fieldTechnologies
	fieldTags
	fieldGitHub
	fieldLiveSite
	fieldCount
)

// projectForm is the create/edit form state. A non-empty editingID means
// the form updates an existing project.
type projectForm struct {
	editingID string
	inputs    []textinput.Model
	focus     int

	categoryIdx int
	statusIdx   int
}

func fieldLabels() []string {
	return []string{"Title", "Description", "Category", "Status", "Tools", "Tags", "GitHub", "Live site"}
}

// newProjectForm builds a blank form, or one pre-filled from an existing
// project.
func newProjectForm(existing *model.Project) projectForm {
	f := projectForm{inputs: make([]textinput.Model, fieldCount)}

	placeholders := []string{
		"project title", "what it does", "", "", "comma-separated tools",
		"comma-separated tags", "https://github.com/...", "https://...",
	}
	for i := range f.inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.CharLimit = 500
		f.inputs[i] = in
	}
	// Status defaults to the first lifecycle stage on new projects
	f.statusIdx = 0

	if existing != nil {
		f.editingID = existing.Key()
		f.inputs[fieldTitle].SetValue(existing.Title)
		f.inputs[fieldDescription].SetValue(existing.Description)
		f.inputs[fieldTechnologies].SetValue(strings.Join(existing.Technologies, ", "))
		f.inputs[fieldTags].SetValue(strings.Join(existing.Tags, ", "))
		f.inputs[fieldGitHub].SetValue(existing.GitHubLink)
		f.inputs[fieldLiveSite].SetValue(existing.LiveSiteURL)
		f.categoryIdx = indexOf(model.Categories(), existing.Category)
		f.statusIdx = indexOf(model.Statuses(), existing.Status)
	}

	f.inputs[fieldTitle].Focus()
	return f
}

func indexOf(list []string, value string) int {
	for i, item := range list {
		if item == value {
			return i
		}
	}
	return 0
}

func (f *projectForm) isEnumField(i int) bool {
	return i == fieldCategory || i == fieldStatus
}

func (f *projectForm) focusNext() {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + 1) % fieldCount
	f.inputs[f.focus].Focus()
}

func (f *projectForm) focusPrev() {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + fieldCount - 1) % fieldCount
	f.inputs[f.focus].Focus()
}

// cycleCurrent advances the focused enum field and reports whether the key
// was consumed.
func (f *projectForm) cycleCurrent(forward bool) bool {
	step := 1
	if !forward {
		step = -1
	}
	switch f.focus {
	case fieldCategory:
		n := len(model.Categories())
		f.categoryIdx = (f.categoryIdx + step + n) % n
		return true
	case fieldStatus:
		n := len(model.Statuses())
		f.statusIdx = (f.statusIdx + step + n) % n
		return true
	}
	return false
}

func (f projectForm) update(msg tea.KeyMsg) (projectForm, tea.Cmd) {
	if f.isEnumField(f.focus) {
		return f, nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

// draft assembles the wire payload from the form state.
func (f *projectForm) draft() model.ProjectDraft {
	return model.ProjectDraft{
		Title:        strings.TrimSpace(f.inputs[fieldTitle].Value()),
		Description:  strings.TrimSpace(f.inputs[fieldDescription].Value()),
		Category:     model.Categories()[f.categoryIdx],
		Status:       model.Statuses()[f.statusIdx],
		Technologies: splitList(f.inputs[fieldTechnologies].Value()),
		Tags:         splitList(f.inputs[fieldTags].Value()),
		GitHubLink:   strings.TrimSpace(f.inputs[fieldGitHub].Value()),
		LiveSiteURL:  strings.TrimSpace(f.inputs[fieldLiveSite].Value()),
	}
}

// currentValue returns the display value for a field.
func (f *projectForm) currentValue(i int) string {
	switch i {
	case fieldCategory:
		return model.Categories()[f.categoryIdx]
	case fieldStatus:
		return model.Statuses()[f.statusIdx]
	default:
		return f.inputs[i].View()
	}
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
