package tui

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TriAzz/showcase/internal/auth"
	"github.com/TriAzz/showcase/internal/comments"
	"github.com/TriAzz/showcase/internal/config"
	"github.com/TriAzz/showcase/internal/model"
	"github.com/TriAzz/showcase/internal/projects"
	"github.com/TriAzz/showcase/internal/storage"
	"github.com/TriAzz/showcase/internal/testutil"
)

type fixture struct {
	server  *testutil.FakeServer
	files   *storage.FileStore
	session *auth.Session
	store   *projects.Store
	deps    Deps
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	server := testutil.NewFakeServer(t)
	client := server.Client()
	files := testutil.NewFileStore(t)
	session := auth.New(client, files, nil)
	store := projects.New(client, session, files, config.Default(), nil)

	return &fixture{
		server:  server,
		files:   files,
		session: session,
		store:   store,
		deps: Deps{
			Config:   config.Default(),
			Session:  session,
			Projects: store,
			Comments: comments.New(client, session, nil),
		},
	}
}

// signIn seeds a restored session without touching the network.
func (f *fixture) signIn(t *testing.T) {
	t.Helper()
	require.NoError(t, f.files.SaveJSON(storage.KeyUser, testutil.SampleUser()))
	require.NoError(t, f.files.Save(storage.KeyToken, []byte("token-abc")))
	require.NoError(t, f.session.Restore())
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func press(m Model, s string) (Model, tea.Cmd) {
	updated, cmd := m.Update(key(s))
	return updated.(Model), cmd
}

func deliver(m Model, msg tea.Msg) Model {
	updated, _ := m.Update(msg)
	return updated.(Model)
}

func sampleProjects(n int) []model.Project {
	list := make([]model.Project, n)
	for i := range list {
		p := testutil.SampleProject()
		p.ObjectID = fmt.Sprintf("64f0c2a1b5e8d900123456%02d", i)
		p.Title = fmt.Sprintf("Project %02d", i)
		list[i] = p
	}
	return list
}

func TestStartsAtSignInWithoutSession(t *testing.T) {
	f := newFixture(t)

	m := NewModel(f.deps)

	assert.Equal(t, viewSignIn, m.view)
}

func TestStartsAtListWithRestoredSession(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)

	m := NewModel(f.deps)

	assert.Equal(t, viewList, m.view)
}

func TestStaleListingResultDiscardedAfterViewChange(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	f.server.RespondJSON("GET", "/projects", sampleProjects(2))

	m := NewModel(f.deps)
	cmd := m.fetchCmd(false)

	// The user abandons the list view while the fetch is in flight.
	m.switchView(viewForm)
	m = deliver(m, cmd())

	assert.Equal(t, viewForm, m.view)
	assert.Empty(t, m.list)
}

func TestListingResultAppliedForCurrentGeneration(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	f.server.RespondJSON("GET", "/projects", sampleProjects(3))

	m := NewModel(f.deps)
	m.loading = true
	cmd := m.fetchCmd(false)
	m = deliver(m, cmd())

	assert.False(t, m.loading)
	assert.Len(t, m.list, 3)
	assert.Empty(t, m.lastErr)
}

func TestStaleDetailResultDiscarded(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	p := testutil.SampleProject()
	f.server.RespondJSON("GET", "/projects/"+p.ObjectID, p)

	m := NewModel(f.deps)
	m.switchView(viewDetail)
	cmd := m.loadDetailCmd(p.ObjectID)

	// Back out before the detail arrives.
	m.switchView(viewList)
	m = deliver(m, cmd())

	assert.Equal(t, viewList, m.view)
	assert.Nil(t, m.detail)
}

func TestSignInSuccessSwitchesToList(t *testing.T) {
	f := newFixture(t)
	f.server.Handle("POST", "/auth/login", func(w http.ResponseWriter, r *http.Request) {
		f.server.WriteJSON(w, map[string]any{
			"token": "tok-123",
			"user":  testutil.SampleUser(),
		})
	})

	m := NewModel(f.deps)
	m.emailInput.SetValue("jess@example.com")
	m.passwordInput.SetValue("hunter22")

	result := m.signInCmd(m.emailInput.Value(), m.passwordInput.Value())()
	m = deliver(m, result)

	assert.Equal(t, viewList, m.view)
	assert.True(t, m.loading)
	assert.True(t, f.session.Authenticated())
}

func TestSignInFailureStaysOnSignIn(t *testing.T) {
	f := newFixture(t)

	m := NewModel(f.deps)
	m = deliver(m, signInResultMsg{err: errors.New("boom")})

	assert.Equal(t, viewSignIn, m.view)
	assert.NotEmpty(t, m.lastErr)
	assert.False(t, f.session.Authenticated())
}

func TestListPaginationAndCursorBounds(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)

	m := NewModel(f.deps)
	m.list = sampleProjects(25)

	assert.Equal(t, 3, m.pageCount())
	assert.Len(t, m.visiblePage(), 10)

	m, _ = press(m, "right")
	assert.Equal(t, 1, m.page)
	assert.Equal(t, 0, m.cursor)

	m, _ = press(m, "right")
	m, _ = press(m, "right") // already on the last page
	assert.Equal(t, 2, m.page)
	assert.Len(t, m.visiblePage(), 5)

	m, _ = press(m, "down")
	m, _ = press(m, "down")
	assert.Equal(t, 2, m.cursor)
	for range 10 {
		m, _ = press(m, "down")
	}
	assert.Equal(t, 4, m.cursor, "cursor stops at the last row")

	m, _ = press(m, "left")
	assert.Equal(t, 1, m.page)
	assert.Equal(t, 0, m.cursor)
}

func TestStatusFilterCycleTriggersRefetch(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)

	m := NewModel(f.deps)
	m, cmd := press(m, "f")

	assert.Equal(t, 1, m.statusIdx)
	assert.True(t, m.loading)
	assert.NotNil(t, cmd)

	// Cycling all the way around lands back on "no filter", which is a
	// change again from the last status.
	for range len(statusCycle()) - 1 {
		m, cmd = press(m, "f")
	}
	assert.Equal(t, 0, m.statusIdx)
	assert.NotNil(t, cmd)
}

func TestSearchSubmitUpdatesFilterOnce(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)

	m := NewModel(f.deps)
	m, _ = press(m, "/")
	require.True(t, m.searching)

	m.searchInput.SetValue("genome")
	m, cmd := press(m, "enter")

	assert.False(t, m.searching)
	assert.True(t, m.loading)
	assert.NotNil(t, cmd)

	// Re-submitting the same term changes nothing and skips the fetch.
	m.loading = false
	m, _ = press(m, "/")
	m, cmd = press(m, "enter")
	assert.False(t, m.loading)
	assert.Nil(t, cmd)
}

func TestSignOutReturnsToSignIn(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	f.server.Handle("GET", "/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		f.server.WriteJSON(w, map[string]any{"success": true})
	})

	m := NewModel(f.deps)
	m.list = sampleProjects(3)
	m, _ = press(m, "s")

	assert.Equal(t, viewSignIn, m.view)
	assert.Empty(t, m.list)
	assert.False(t, f.session.Authenticated())
	assert.Empty(t, m.emailInput.Value())
}

func TestEditRequiresOwnership(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)

	stranger := testutil.SampleAdmin() // someone else's project
	p := testutil.SampleProject()
	p.Creator = stranger

	m := NewModel(f.deps)
	m.switchView(viewDetail)
	m.detail = &p

	m, _ = press(m, "e")
	assert.Equal(t, viewDetail, m.view)
	assert.NotEmpty(t, m.lastErr)

	own := testutil.SampleProject()
	m.detail = &own
	m.lastErr = ""
	m, _ = press(m, "e")
	assert.Equal(t, viewForm, m.view)
	assert.Equal(t, own.ObjectID, m.form.editingID)
}

func TestConfigReloadAppliesThemeAndPageSize(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)

	m := NewModel(f.deps)
	m.list = sampleProjects(25)
	m.page = 2

	cfg := config.Default()
	cfg.TUI.Theme = "light"
	cfg.TUI.PageSize = 5
	m = deliver(m, configReloadedMsg{cfg: cfg})

	assert.Equal(t, "light", m.theme.Name)
	assert.Equal(t, 5, m.pageSize)
	assert.Equal(t, 0, m.page)
	assert.Len(t, m.visiblePage(), 5)
}

func TestFormDraftAssembly(t *testing.T) {
	form := newProjectForm(nil)
	form.inputs[fieldTitle].SetValue("  Habit Tracker  ")
	form.inputs[fieldDescription].SetValue("Daily habit streaks")
	form.inputs[fieldTechnologies].SetValue("Cursor, Replit , ")
	form.inputs[fieldTags].SetValue("habits")
	form.inputs[fieldGitHub].SetValue("https://github.com/jess/habits")

	// Cycle status forward twice: Not Started -> In Progress -> Completed.
	form.focus = fieldStatus
	require.True(t, form.cycleCurrent(true))
	require.True(t, form.cycleCurrent(true))

	draft := form.draft()
	assert.Equal(t, "Habit Tracker", draft.Title)
	assert.Equal(t, "Completed", draft.Status)
	assert.Equal(t, model.Categories()[0], draft.Category)
	assert.Equal(t, []string{"Cursor", "Replit"}, draft.Technologies)
	assert.Equal(t, []string{"habits"}, draft.Tags)
	assert.Equal(t, "https://github.com/jess/habits", draft.GitHubLink)
	assert.Empty(t, draft.LiveSiteURL)
}

func TestFormPrefilledForEdit(t *testing.T) {
	p := testutil.SampleProject()
	p.Status = "Completed"

	form := newProjectForm(&p)

	assert.Equal(t, p.ObjectID, form.editingID)
	assert.Equal(t, p.Title, form.inputs[fieldTitle].Value())
	assert.Equal(t, "Completed", form.draft().Status)
	assert.Equal(t, p.Category, form.draft().Category)

	// Cycling backwards wraps within the status list.
	form.focus = fieldStatus
	require.True(t, form.cycleCurrent(false))
	assert.Equal(t, "In Progress", form.draft().Status)
}

func TestCycleIgnoredOnTextFields(t *testing.T) {
	form := newProjectForm(nil)
	form.focus = fieldTitle

	assert.False(t, form.cycleCurrent(true))
}

func TestProjectSavedReturnsToList(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)

	m := NewModel(f.deps)
	m.switchView(viewForm)
	p := testutil.SampleProject()
	m = deliver(m, projectSavedMsg{gen: m.gen, project: &p})

	assert.Equal(t, viewList, m.view)
	assert.Contains(t, m.status, p.Title)
}

func TestCommentingRequiresSession(t *testing.T) {
	f := newFixture(t)

	m := NewModel(f.deps)
	m.switchView(viewComments)
	p := testutil.SampleProject()
	m.detail = &p

	m, _ = press(m, "a")
	assert.False(t, m.commenting)
	assert.NotEmpty(t, m.lastErr)
}
