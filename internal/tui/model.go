// Package tui implements the interactive dashboard: sign-in, the filtered
// project list, project detail with comments, and the create/edit form.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/TriAzz/showcase/internal/auth"
	"github.com/TriAzz/showcase/internal/comments"
	"github.com/TriAzz/showcase/internal/config"
	errs "github.com/TriAzz/showcase/internal/errors"
	"github.com/TriAzz/showcase/internal/logging"
	"github.com/TriAzz/showcase/internal/model"
	"github.com/TriAzz/showcase/internal/projects"
	"github.com/TriAzz/showcase/internal/tui/keymap"
	"github.com/TriAzz/showcase/internal/tui/styles"
)

type view int

const (
	viewSignIn view = iota
	viewList
	viewDetail
	viewForm
	viewComments
)

func (v view) keymapView() keymap.View {
	switch v {
	case viewSignIn:
		return keymap.ViewSignIn
	case viewDetail:
		return keymap.ViewDetail
	case viewForm:
		return keymap.ViewForm
	case viewComments:
		return keymap.ViewComments
	default:
		return keymap.ViewList
	}
}

// Deps carries the wired client components the dashboard runs against.
type Deps struct {
	Config   *config.Config
	Session  *auth.Session
	Projects *projects.Store
	Comments *comments.Store
	Log      *logging.Logger
}

// Model is the dashboard's bubbletea model.
type Model struct {
	deps  Deps
	theme *styles.Theme
	keys  keymap.Map

	view view
	// gen increments on every view change; async results stamped with an
	// older generation are discarded so an abandoned view cannot clobber
	// the current one.
	gen int

	width    int
	height   int
	pageSize int

	spinner spinner.Model
	loading bool
	status  string
	lastErr string

	// sign-in
	emailInput    textinput.Model
	passwordInput textinput.Model
	signInFocus   int

	// list
	list        []model.Project
	cursor      int
	page        int
	searchInput textinput.Model
	searching   bool
	statusIdx   int // index into statusCycle

	// detail
	detail   *model.Project
	detailVP viewport.Model

	// form
	form projectForm

	// comments
	comments      []model.Comment
	commentCursor int
	commentInput  textinput.Model
	commenting    bool
}

// statusCycle is the filter rotation for the list view: everything, then
// each lifecycle status.
func statusCycle() []string {
	return append([]string{""}, model.Statuses()...)
}

// NewModel builds the dashboard model. The starting view depends on whether
// a session was restored.
func NewModel(deps Deps) Model {
	if deps.Log == nil {
		deps.Log = logging.NopLogger()
	}

	theme := styles.ForName(deps.Config.TUI.Theme)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	email := textinput.New()
	email.Placeholder = "email"
	email.Focus()
	email.CharLimit = 120

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 120

	search := textinput.New()
	search.Placeholder = "search projects"
	search.CharLimit = 120

	comment := textinput.New()
	comment.Placeholder = "write a comment"
	comment.CharLimit = 500

	m := Model{
		deps:          deps,
		theme:         theme,
		keys:          keymap.Default(),
		pageSize:      deps.Config.TUI.PageSize,
		spinner:       sp,
		emailInput:    email,
		passwordInput: password,
		searchInput:   search,
		commentInput:  comment,
		view:          viewSignIn,
	}
	if deps.Session.Authenticated() {
		m.view = viewList
		m.list = deps.Projects.Projects()
	}
	return m
}

// Init starts the spinner and, when signed in, the first listing fetch.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	if m.view == viewList {
		cmds = append(cmds, m.fetchCmd(false))
		m.loading = true
	}
	return tea.Batch(cmds...)
}

// switchView moves to another view and invalidates in-flight async results.
func (m *Model) switchView(v view) {
	m.view = v
	m.gen++
	m.status = ""
	m.lastErr = ""
}

// fetchCmd fetches the listing under the current generation.
func (m *Model) fetchCmd(force bool) tea.Cmd {
	gen := m.gen
	store := m.deps.Projects
	return func() tea.Msg {
		list, err := store.Fetch(context.Background(), force)
		if err != nil {
			return fetchFailedMsg{gen: gen, err: err}
		}
		return projectsLoadedMsg{gen: gen, projects: list}
	}
}

func (m *Model) loadDetailCmd(id string) tea.Cmd {
	gen := m.gen
	store := m.deps.Projects
	return func() tea.Msg {
		p, err := store.Get(context.Background(), id)
		if err != nil {
			return fetchFailedMsg{gen: gen, err: err}
		}
		return detailLoadedMsg{gen: gen, project: p}
	}
}

func (m *Model) loadCommentsCmd(projectID string) tea.Cmd {
	gen := m.gen
	store := m.deps.Comments
	return func() tea.Msg {
		list, err := store.ListByProject(context.Background(), projectID)
		if err != nil {
			return fetchFailedMsg{gen: gen, err: err}
		}
		return commentsLoadedMsg{gen: gen, comments: list}
	}
}

func (m *Model) signInCmd(email, password string) tea.Cmd {
	session := m.deps.Session
	return func() tea.Msg {
		return signInResultMsg{err: session.Login(context.Background(), email, password)}
	}
}

func (m *Model) saveProjectCmd(editingID string, draft model.ProjectDraft) tea.Cmd {
	gen := m.gen
	store := m.deps.Projects
	return func() tea.Msg {
		var p *model.Project
		var err error
		if editingID == "" {
			p, err = store.Add(context.Background(), draft)
		} else {
			p, err = store.Update(context.Background(), editingID, draft)
		}
		return projectSavedMsg{gen: gen, project: p, err: err}
	}
}

func (m *Model) deleteProjectCmd(id string) tea.Cmd {
	gen := m.gen
	store := m.deps.Projects
	return func() tea.Msg {
		return projectDeletedMsg{gen: gen, id: id, err: store.Delete(context.Background(), id)}
	}
}

func (m *Model) postCommentCmd(projectID, content string) tea.Cmd {
	gen := m.gen
	store := m.deps.Comments
	return func() tea.Msg {
		_, err := store.Add(context.Background(), projectID, content)
		return commentPostedMsg{gen: gen, err: err}
	}
}

func (m *Model) errorText(err error) string {
	return errs.UserMessage(err, "something went wrong; check the logs for details")
}

// visiblePage returns the slice of the listing shown on the current page.
func (m *Model) visiblePage() []model.Project {
	if m.pageSize <= 0 {
		return m.list
	}
	start := m.page * m.pageSize
	if start >= len(m.list) {
		return nil
	}
	end := start + m.pageSize
	if end > len(m.list) {
		end = len(m.list)
	}
	return m.list[start:end]
}

func (m *Model) pageCount() int {
	if m.pageSize <= 0 || len(m.list) == 0 {
		return 1
	}
	return (len(m.list) + m.pageSize - 1) / m.pageSize
}

func projectFilterSearch(s string) projects.FilterUpdate {
	return projects.FilterUpdate{Search: &s}
}

func projectFilterStatus(s string) projects.FilterUpdate {
	return projects.FilterUpdate{Status: &s}
}

// selected returns the project under the cursor, or nil.
func (m *Model) selected() *model.Project {
	page := m.visiblePage()
	if m.cursor < 0 || m.cursor >= len(page) {
		return nil
	}
	return &page[m.cursor]
}
