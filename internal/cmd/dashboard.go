package cmd

import (
	"github.com/spf13/cobra"

	"github.com/TriAzz/showcase/internal/tui"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Launch the interactive dashboard",
	Long: `Launch the interactive dashboard for browsing projects, reading
comments, and managing your own work without leaving the terminal.`,
	Args: cobra.NoArgs,
	RunE: runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	app := tui.New(tui.Deps{
		Config:   a.cfg,
		Session:  a.session,
		Projects: a.projects,
		Comments: a.comments,
		Log:      a.log,
	})
	return app.Run()
}
