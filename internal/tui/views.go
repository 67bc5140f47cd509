package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/TriAzz/showcase/internal/model"
	"github.com/TriAzz/showcase/internal/tui/styles"
	"github.com/TriAzz/showcase/internal/util"
)

// View renders the current screen.
func (m Model) View() string {
	var body string
	switch m.view {
	case viewSignIn:
		body = m.viewSignIn()
	case viewList:
		body = m.viewList()
	case viewDetail:
		body = m.viewDetail()
	case viewForm:
		body = m.viewForm()
	case viewComments:
		body = m.viewComments()
	}

	var footer []string
	if m.loading && m.deps.Config.TUI.ShowSpinner {
		footer = append(footer, m.spinner.View()+" loading…")
	}
	if m.lastErr != "" {
		footer = append(footer, m.theme.ErrorText.Render(m.lastErr))
	}
	if m.status != "" {
		footer = append(footer, m.theme.StatusLine.Render(m.status))
	}
	footer = append(footer, m.theme.Help.Render(m.keys.HelpLine(m.view.keymapView())))

	return body + "\n\n" + strings.Join(footer, "\n")
}

func (m Model) viewSignIn() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Showcase"))
	b.WriteString("\n")
	b.WriteString(m.theme.Subtitle.Render("Sign in to browse projects"))
	b.WriteString("\n\n")
	b.WriteString(m.theme.FieldLabel.Render("Email") + "\n")
	b.WriteString(m.emailInput.View() + "\n\n")
	b.WriteString(m.theme.FieldLabel.Render("Password") + "\n")
	b.WriteString(m.passwordInput.View())
	return m.theme.Panel.Render(b.String())
}

func (m Model) viewList() string {
	var b strings.Builder

	title := "Projects"
	if user := m.deps.Session.CurrentUser(); user != nil {
		title = fmt.Sprintf("Projects · %s", user.DisplayName())
	}
	b.WriteString(m.theme.Title.Render(title))
	b.WriteString("\n")

	filters := m.deps.Projects.Filters()
	tag := func(label, v string) string {
		if v == "" {
			return ""
		}
		return label + ": " + v
	}
	if active := util.JoinNonEmpty("  ",
		tag("search", filters.Search),
		tag("status", filters.Status),
		tag("category", filters.Category),
		tag("tool", filters.Technology),
	); active != "" {
		b.WriteString(m.theme.Subtitle.Render(active) + "\n")
	}
	if m.searching {
		b.WriteString(m.searchInput.View() + "\n")
	}
	b.WriteString("\n")

	page := m.visiblePage()
	if len(page) == 0 && !m.loading {
		b.WriteString(m.theme.Help.Render("No projects match the current filters."))
		return b.String()
	}

	for i, p := range page {
		line := fmt.Sprintf("%-30s %s %s",
			util.TruncateANSI(p.Title, 30), styles.StatusBadge(p.Status), m.theme.Help.Render(p.Category))
		if i == m.cursor {
			line = m.theme.Selected.Render("▸ " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}

	if m.pageCount() > 1 {
		b.WriteString("\n" + m.theme.Help.Render(
			fmt.Sprintf("page %d/%d", m.page+1, m.pageCount())))
	}
	return b.String()
}

func (m Model) viewDetail() string {
	if m.detail == nil {
		return m.theme.Help.Render("Loading project…")
	}
	header := m.theme.Title.Render(m.detail.Title) + "\n" + styles.StatusBadge(m.detail.Status)
	return header + "\n\n" + m.detailVP.View()
}

// renderDetailContent fills the detail viewport.
func (m Model) renderDetailContent() string {
	p := m.detail
	if p == nil {
		return ""
	}

	var b strings.Builder
	row := func(label, value string) {
		if value != "" {
			b.WriteString(m.theme.FieldLabel.Render(label+": ") + value + "\n")
		}
	}

	row("Category", p.Category)
	row("Tools", strings.Join(p.Technologies, ", "))
	row("Tags", strings.Join(p.Tags, ", "))
	row("GitHub", p.GitHubLink)
	row("Live site", p.LiveSiteURL)
	if p.Creator != nil {
		row("Creator", p.Creator.DisplayName())
	}
	if len(p.TeamMembers) > 0 {
		names := make([]string, len(p.TeamMembers))
		for i := range p.TeamMembers {
			names[i] = p.TeamMembers[i].DisplayName()
		}
		row("Team", strings.Join(names, ", "))
	}
	if p.Deadline != nil {
		row("Deadline", p.Deadline.Format("2006-01-02"))
	}

	b.WriteString("\n" + p.Description + "\n")

	if model.CanModify(p, m.deps.Session.CurrentUser()) {
		b.WriteString("\n" + m.theme.Subtitle.Render("You can edit this project."))
	}
	return lipgloss.NewStyle().Width(m.detailVP.Width).Render(b.String())
}

func (m Model) viewForm() string {
	var b strings.Builder
	if m.form.editingID == "" {
		b.WriteString(m.theme.Title.Render("New project"))
	} else {
		b.WriteString(m.theme.Title.Render("Edit project"))
	}
	b.WriteString("\n\n")

	labels := fieldLabels()
	for i := 0; i < fieldCount; i++ {
		label := labels[i]
		if i == m.form.focus {
			label = m.theme.Selected.Render(label)
		} else {
			label = m.theme.FieldLabel.Render(label)
		}
		value := m.form.currentValue(i)
		if m.form.isEnumField(i) {
			value = "◂ " + value + " ▸"
			if i != m.form.focus {
				value = "  " + m.form.currentValue(i)
			}
		}
		b.WriteString(fmt.Sprintf("%s\n%s\n\n", label, value))
	}
	return m.theme.Panel.Render(b.String())
}

func (m Model) viewComments() string {
	var b strings.Builder
	title := "Comments"
	if m.detail != nil {
		title = "Comments · " + m.detail.Title
	}
	b.WriteString(m.theme.Title.Render(title))
	b.WriteString("\n\n")

	if len(m.comments) == 0 && !m.loading {
		b.WriteString(m.theme.Help.Render("No comments yet.") + "\n")
	}

	for i, c := range m.comments {
		author := "anonymous"
		if c.Author != nil {
			author = c.Author.DisplayName()
		}
		head := m.theme.FieldLabel.Render(author) + " " +
			m.theme.Help.Render(c.CreatedAt.Format(time.RFC822))
		if !c.Approved {
			head += m.theme.Subtitle.Render("  pending approval")
		}
		prefix := "  "
		if i == m.commentCursor {
			prefix = m.theme.Selected.Render("▸") + " "
		}
		b.WriteString(prefix + head + "\n    " + c.Content + "\n")
	}

	if m.commenting {
		b.WriteString("\n" + m.commentInput.View())
	}
	return b.String()
}
