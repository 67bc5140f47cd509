package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/TriAzz/showcase/internal/model"
	"github.com/TriAzz/showcase/internal/tui/keymap"
	"github.com/TriAzz/showcase/internal/tui/styles"
)

// Update is the dashboard's message loop.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.detailVP.Width = msg.Width - 4
		m.detailVP.Height = msg.Height - 8
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case configReloadedMsg:
		m.theme = styles.ForName(msg.cfg.TUI.Theme)
		m.pageSize = msg.cfg.TUI.PageSize
		m.page = 0
		m.status = "configuration reloaded"
		return m, nil

	case projectsLoadedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.loading = false
		m.lastErr = ""
		m.list = msg.projects
		if m.page >= m.pageCount() {
			m.page = m.pageCount() - 1
		}
		if m.cursor >= len(m.visiblePage()) {
			m.cursor = 0
		}
		return m, nil

	case fetchFailedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.loading = false
		m.lastErr = m.errorText(msg.err)
		if !m.deps.Session.Authenticated() {
			// The fetch exhausted its retries and the session is gone
			m.switchView(viewSignIn)
		}
		return m, nil

	case detailLoadedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.loading = false
		m.detail = msg.project
		m.detailVP.SetContent(m.renderDetailContent())
		m.detailVP.GotoTop()
		return m, nil

	case commentsLoadedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.loading = false
		m.comments = msg.comments
		if m.commentCursor >= len(m.comments) {
			m.commentCursor = 0
		}
		return m, nil

	case signInResultMsg:
		m.loading = false
		if msg.err != nil {
			m.lastErr = m.errorText(msg.err)
			return m, nil
		}
		m.switchView(viewList)
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.fetchCmd(false))

	case projectSavedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.lastErr = m.errorText(msg.err)
			return m, nil
		}
		m.switchView(viewList)
		m.list = m.deps.Projects.Projects()
		m.status = "saved " + msg.project.Title
		return m, nil

	case projectDeletedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.lastErr = m.errorText(msg.err)
			return m, nil
		}
		m.switchView(viewList)
		m.list = m.deps.Projects.Projects()
		m.status = "project deleted"
		return m, nil

	case commentPostedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if msg.err != nil {
			m.loading = false
			m.lastErr = m.errorText(msg.err)
			return m, nil
		}
		m.status = "comment posted; pending approval"
		if m.detail != nil {
			return m, m.loadCommentsCmd(m.detail.Key())
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// ctrl+c quits from anywhere
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.view {
	case viewSignIn:
		return m.updateSignIn(msg)
	case viewList:
		return m.updateList(msg)
	case viewDetail:
		return m.updateDetail(msg)
	case viewForm:
		return m.updateForm(msg)
	case viewComments:
		return m.updateComments(msg)
	}
	return m, nil
}

func (m Model) updateSignIn(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cmd, ok := m.keys.Lookup(keymap.ViewSignIn, msg.String())
	if ok {
		switch cmd {
		case keymap.CmdQuit:
			return m, tea.Quit
		case keymap.CmdNextField, keymap.CmdPrevField:
			m.signInFocus = 1 - m.signInFocus
			if m.signInFocus == 0 {
				m.emailInput.Focus()
				m.passwordInput.Blur()
			} else {
				m.emailInput.Blur()
				m.passwordInput.Focus()
			}
			return m, nil
		case keymap.CmdSubmit:
			email := m.emailInput.Value()
			password := m.passwordInput.Value()
			m.lastErr = ""
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.signInCmd(email, password))
		}
	}

	var c tea.Cmd
	if m.signInFocus == 0 {
		m.emailInput, c = m.emailInput.Update(msg)
	} else {
		m.passwordInput, c = m.passwordInput.Update(msg)
	}
	return m, c
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While typing a search, keys go to the input until enter/esc
	if m.searching {
		switch msg.String() {
		case "enter":
			m.searching = false
			m.searchInput.Blur()
			search := m.searchInput.Value()
			if m.deps.Projects.UpdateFilters(projectFilterSearch(search)) {
				m.loading = true
				m.page = 0
				m.cursor = 0
				return m, tea.Batch(m.spinner.Tick, m.fetchCmd(false))
			}
			return m, nil
		case "esc":
			m.searching = false
			m.searchInput.Blur()
			return m, nil
		}
		var c tea.Cmd
		m.searchInput, c = m.searchInput.Update(msg)
		return m, c
	}

	cmd, ok := m.keys.Lookup(keymap.ViewList, msg.String())
	if !ok {
		return m, nil
	}

	switch cmd {
	case keymap.CmdQuit:
		return m, tea.Quit

	case keymap.CmdUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case keymap.CmdDown:
		if m.cursor < len(m.visiblePage())-1 {
			m.cursor++
		}
	case keymap.CmdNextPage:
		if m.page < m.pageCount()-1 {
			m.page++
			m.cursor = 0
		}
	case keymap.CmdPrevPage:
		if m.page > 0 {
			m.page--
			m.cursor = 0
		}

	case keymap.CmdOpen:
		if p := m.selected(); p != nil {
			m.switchView(viewDetail)
			m.detail = nil
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.loadDetailCmd(p.Key()))
		}

	case keymap.CmdSearch:
		m.searching = true
		m.searchInput.Focus()
		return m, textinput.Blink

	case keymap.CmdFilter:
		cycle := statusCycle()
		m.statusIdx = (m.statusIdx + 1) % len(cycle)
		if m.deps.Projects.UpdateFilters(projectFilterStatus(cycle[m.statusIdx])) {
			m.loading = true
			m.page = 0
			m.cursor = 0
			return m, tea.Batch(m.spinner.Tick, m.fetchCmd(false))
		}

	case keymap.CmdRefresh:
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.fetchCmd(true))

	case keymap.CmdNew:
		m.switchView(viewForm)
		m.form = newProjectForm(nil)
		return m, textinput.Blink

	case keymap.CmdSignOut:
		m.deps.Session.Logout(context.Background())
		m.switchView(viewSignIn)
		m.list = nil
		m.emailInput.SetValue("")
		m.passwordInput.SetValue("")
		m.signInFocus = 0
		m.emailInput.Focus()
		m.passwordInput.Blur()
	}
	return m, nil
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cmd, ok := m.keys.Lookup(keymap.ViewDetail, msg.String())
	if !ok {
		return m, nil
	}

	switch cmd {
	case keymap.CmdQuit:
		return m, tea.Quit
	case keymap.CmdBack:
		m.switchView(viewList)
	case keymap.CmdUp:
		m.detailVP.ScrollUp(1)
	case keymap.CmdDown:
		m.detailVP.ScrollDown(1)

	case keymap.CmdComments:
		if m.detail != nil {
			id := m.detail.Key()
			m.switchView(viewComments)
			m.comments = nil
			m.commentCursor = 0
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.loadCommentsCmd(id))
		}

	case keymap.CmdEdit:
		if m.detail != nil && model.CanModify(m.detail, m.deps.Session.CurrentUser()) {
			detail := m.detail
			m.switchView(viewForm)
			m.form = newProjectForm(detail)
			return m, textinput.Blink
		}
		m.lastErr = "only the creator, a team member, or an admin can edit this project"

	case keymap.CmdDelete:
		if m.detail != nil && model.CanModify(m.detail, m.deps.Session.CurrentUser()) {
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.deleteProjectCmd(m.detail.Key()))
		}
		m.lastErr = "only the creator, a team member, or an admin can delete this project"
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cmd, ok := m.keys.Lookup(keymap.ViewForm, msg.String())
	if ok {
		switch cmd {
		case keymap.CmdQuit:
			return m, tea.Quit
		case keymap.CmdBack:
			m.switchView(viewList)
			return m, nil
		case keymap.CmdNextField:
			m.form.focusNext()
			return m, textinput.Blink
		case keymap.CmdPrevField:
			m.form.focusPrev()
			return m, textinput.Blink
		case keymap.CmdCycleValue:
			if m.form.cycleCurrent(msg.String() == "right") {
				return m, nil
			}
			// Not an enum field: fall through to text editing
		case keymap.CmdSubmit:
			draft := m.form.draft()
			m.lastErr = ""
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.saveProjectCmd(m.form.editingID, draft))
		}
	}

	var c tea.Cmd
	m.form, c = m.form.update(msg)
	return m, c
}

func (m Model) updateComments(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.commenting {
		switch msg.String() {
		case "enter":
			content := m.commentInput.Value()
			m.commenting = false
			m.commentInput.Blur()
			m.commentInput.SetValue("")
			if content != "" && m.detail != nil {
				return m, m.postCommentCmd(m.detail.Key(), content)
			}
			return m, nil
		case "esc":
			m.commenting = false
			m.commentInput.Blur()
			return m, nil
		}
		var c tea.Cmd
		m.commentInput, c = m.commentInput.Update(msg)
		return m, c
	}

	cmd, ok := m.keys.Lookup(keymap.ViewComments, msg.String())
	if !ok {
		return m, nil
	}

	switch cmd {
	case keymap.CmdQuit:
		return m, tea.Quit
	case keymap.CmdBack:
		id := ""
		if m.detail != nil {
			id = m.detail.Key()
		}
		m.switchView(viewDetail)
		if id != "" {
			return m, m.loadDetailCmd(id)
		}
	case keymap.CmdUp:
		if m.commentCursor > 0 {
			m.commentCursor--
		}
	case keymap.CmdDown:
		if m.commentCursor < len(m.comments)-1 {
			m.commentCursor++
		}
	case keymap.CmdNew:
		if m.deps.Session.Authenticated() {
			m.commenting = true
			m.commentInput.Focus()
			return m, textinput.Blink
		}
		m.lastErr = "sign in to comment"
	}
	return m, nil
}
