package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TriAzz/showcase/internal/model"
	"github.com/TriAzz/showcase/internal/projects"
	"github.com/TriAzz/showcase/internal/util"
)

var projectsCmd = &cobra.Command{
	Use:     "projects",
	Aliases: []string{"project"},
	Short:   "Browse and manage showcase projects",
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects, optionally filtered",
	RunE:  runProjectsList,
}

var projectsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one project in full",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectsShow,
}

var projectsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new project",
	Args:  cobra.NoArgs,
	RunE:  runProjectsCreate,
}

var projectsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update an existing project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectsUpdate,
}

var projectsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectsDelete,
}

var projectsTeamCmd = &cobra.Command{
	Use:   "team",
	Short: "Manage a project's team",
}

var projectsTeamAddCmd = &cobra.Command{
	Use:   "add <id> <email>",
	Short: "Add a user to a project's team",
	Args:  cobra.ExactArgs(2),
	RunE:  runProjectsTeamAdd,
}

func init() {
	projectsListCmd.Flags().String("search", "", "free-text search")
	projectsListCmd.Flags().String("category", "", "filter by category")
	projectsListCmd.Flags().String("status", "", "filter by lifecycle status")
	projectsListCmd.Flags().String("technology", "", "filter by tool")
	projectsListCmd.Flags().Bool("refresh", false, "bypass caches and force a fresh fetch")

	addProjectFlags(projectsCreateCmd)
	addProjectFlags(projectsUpdateCmd)

	projectsDeleteCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")

	projectsTeamCmd.AddCommand(projectsTeamAddCmd)
	projectsCmd.AddCommand(projectsListCmd, projectsShowCmd, projectsCreateCmd,
		projectsUpdateCmd, projectsDeleteCmd, projectsTeamCmd)
	rootCmd.AddCommand(projectsCmd)
}

func addProjectFlags(cmd *cobra.Command) {
	cmd.Flags().String("title", "", "project title")
	cmd.Flags().String("description", "", "project description")
	cmd.Flags().String("category", "", "category ("+strings.Join(model.Categories(), ", ")+")")
	cmd.Flags().String("status", "", "lifecycle status ("+strings.Join(model.Statuses(), ", ")+")")
	cmd.Flags().StringSlice("technology", nil, "tool used (repeatable)")
	cmd.Flags().StringSlice("tag", nil, "tag (repeatable)")
	cmd.Flags().String("github", "", "GitHub repository URL")
	cmd.Flags().String("live-site", "", "live site URL")
}

func draftFromFlags(cmd *cobra.Command) model.ProjectDraft {
	title, _ := cmd.Flags().GetString("title")
	description, _ := cmd.Flags().GetString("description")
	category, _ := cmd.Flags().GetString("category")
	status, _ := cmd.Flags().GetString("status")
	technologies, _ := cmd.Flags().GetStringSlice("technology")
	tags, _ := cmd.Flags().GetStringSlice("tag")
	github, _ := cmd.Flags().GetString("github")
	liveSite, _ := cmd.Flags().GetString("live-site")

	return model.ProjectDraft{
		Title:        title,
		Description:  description,
		Category:     category,
		Status:       status,
		Technologies: technologies,
		Tags:         tags,
		GitHubLink:   github,
		LiveSiteURL:  liveSite,
	}
}

func runProjectsList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	search, _ := cmd.Flags().GetString("search")
	category, _ := cmd.Flags().GetString("category")
	status, _ := cmd.Flags().GetString("status")
	technology, _ := cmd.Flags().GetString("technology")
	refresh, _ := cmd.Flags().GetBool("refresh")

	a.projects.UpdateFilters(projects.FilterUpdate{
		Search:     &search,
		Category:   &category,
		Status:     &status,
		Technology: &technology,
	})

	list, err := a.projects.Fetch(cmd.Context(), refresh)
	if err != nil {
		return fmt.Errorf("%s", renderError(err))
	}

	if !a.session.Authenticated() {
		fmt.Println(dimStyle.Render("Not signed in; run `showcase login` to see projects."))
		return nil
	}
	if len(list) == 0 {
		fmt.Println(dimStyle.Render("No projects match the current filters."))
		return nil
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("%d project(s)", len(list))))
	for _, p := range list {
		line := fmt.Sprintf("%-26s  %-14s  %-22s  %s",
			util.TruncateString(p.Title, 26), p.Status, p.Category, dimStyle.Render(p.Key()))
		fmt.Println(line)
	}
	return nil
}

func runProjectsShow(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	p, err := a.projects.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	fmt.Println(headerStyle.Render(p.Title))
	printField("ID", p.Key())
	printField("Status", p.Status)
	printField("Category", p.Category)
	printField("Tools", strings.Join(p.Technologies, ", "))
	printField("Tags", strings.Join(p.Tags, ", "))
	printField("GitHub", p.GitHubLink)
	printField("Live site", p.LiveSiteURL)
	if p.Creator != nil {
		printField("Creator", p.Creator.DisplayName())
	}
	if len(p.TeamMembers) > 0 {
		names := make([]string, len(p.TeamMembers))
		for i := range p.TeamMembers {
			names[i] = p.TeamMembers[i].DisplayName()
		}
		printField("Team", strings.Join(names, ", "))
	}
	if p.Deadline != nil {
		printField("Deadline", p.Deadline.Format("2006-01-02"))
	}
	fmt.Println()
	fmt.Println(p.Description)

	if user := a.session.CurrentUser(); model.CanModify(p, user) {
		fmt.Println()
		fmt.Println(dimStyle.Render("You can edit this project."))
	}
	return nil
}

func runProjectsCreate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.requireSession(); err != nil {
		return err
	}

	p, err := a.projects.Add(cmd.Context(), draftFromFlags(cmd))
	if err != nil {
		return err
	}
	printSuccess("Created %q (%s)", p.Title, p.Key())
	return nil
}

func runProjectsUpdate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.requireSession(); err != nil {
		return err
	}

	id := args[0]
	current, err := a.projects.Get(cmd.Context(), id)
	if err != nil {
		return err
	}

	if user := a.session.CurrentUser(); !model.CanModify(current, user) {
		return errors.New("only the creator, a team member, or an admin can modify this project")
	}

	// Unset flags keep the current values
	draft := model.ProjectDraft{
		Title:        current.Title,
		Description:  current.Description,
		Category:     current.Category,
		Status:       current.Status,
		Technologies: current.Technologies,
		Tags:         current.Tags,
		GitHubLink:   current.GitHubLink,
		LiveSiteURL:  current.LiveSiteURL,
		Deadline:     current.Deadline,
	}
	flags := draftFromFlags(cmd)
	if cmd.Flags().Changed("title") {
		draft.Title = flags.Title
	}
	if cmd.Flags().Changed("description") {
		draft.Description = flags.Description
	}
	if cmd.Flags().Changed("category") {
		draft.Category = flags.Category
	}
	if cmd.Flags().Changed("status") {
		draft.Status = flags.Status
	}
	if cmd.Flags().Changed("technology") {
		draft.Technologies = flags.Technologies
	}
	if cmd.Flags().Changed("tag") {
		draft.Tags = flags.Tags
	}
	if cmd.Flags().Changed("github") {
		draft.GitHubLink = flags.GitHubLink
	}
	if cmd.Flags().Changed("live-site") {
		draft.LiveSiteURL = flags.LiveSiteURL
	}

	p, err := a.projects.Update(cmd.Context(), id, draft)
	if err != nil {
		return err
	}
	printSuccess("Updated %q", p.Title)
	return nil
}

func runProjectsDelete(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.requireSession(); err != nil {
		return err
	}

	id := args[0]
	skipConfirm, _ := cmd.Flags().GetBool("yes")
	if !skipConfirm {
		p, err := a.projects.Get(cmd.Context(), id)
		if err != nil {
			return err
		}
		if !confirm(fmt.Sprintf("Delete %q? This cannot be undone.", p.Title)) {
			fmt.Println(dimStyle.Render("Aborted."))
			return nil
		}
	}

	if err := a.projects.Delete(cmd.Context(), id); err != nil {
		return err
	}
	printSuccess("Deleted project %s", id)
	return nil
}

func runProjectsTeamAdd(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.requireSession(); err != nil {
		return err
	}

	id, email := args[0], args[1]
	if err := model.ValidateEmail(email); err != nil {
		return err
	}

	p, err := a.projects.AddTeamMember(cmd.Context(), id, email)
	if err != nil {
		return err
	}
	printSuccess("Added %s to %q (%d team member(s))", email, p.Title, len(p.TeamMembers))
	return nil
}
