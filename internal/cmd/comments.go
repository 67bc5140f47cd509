package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var commentsCmd = &cobra.Command{
	Use:     "comments",
	Aliases: []string{"comment"},
	Short:   "Read and moderate project comments",
}

var commentsListCmd = &cobra.Command{
	Use:   "list <project-id>",
	Short: "List the comments on a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runCommentsList,
}

var commentsAddCmd = &cobra.Command{
	Use:   "add <project-id> <content>...",
	Short: "Comment on a project",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runCommentsAdd,
}

var commentsApproveCmd = &cobra.Command{
	Use:   "approve <comment-id>",
	Short: "Approve a pending comment",
	Args:  cobra.ExactArgs(1),
	RunE:  runCommentsApprove,
}

var commentsDeleteCmd = &cobra.Command{
	Use:   "delete <comment-id>",
	Short: "Delete a comment",
	Args:  cobra.ExactArgs(1),
	RunE:  runCommentsDelete,
}

func init() {
	commentsCmd.AddCommand(commentsListCmd, commentsAddCmd, commentsApproveCmd, commentsDeleteCmd)
	rootCmd.AddCommand(commentsCmd)
}

func runCommentsList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	list, err := a.comments.ListByProject(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println(dimStyle.Render("No comments yet."))
		return nil
	}

	for _, c := range list {
		author := "anonymous"
		if c.Author != nil {
			author = c.Author.DisplayName()
		}
		status := ""
		if !c.Approved {
			status = dimStyle.Render(" (pending approval)")
		}
		fmt.Printf("%s %s%s\n", labelStyle.Render(author),
			dimStyle.Render(c.CreatedAt.Format(time.RFC822)), status)
		fmt.Println("  " + c.Content)
		fmt.Println(dimStyle.Render("  id: " + c.Key()))
	}
	return nil
}

func runCommentsAdd(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.requireSession(); err != nil {
		return err
	}

	content := strings.Join(args[1:], " ")
	c, err := a.comments.Add(cmd.Context(), args[0], content)
	if err != nil {
		return err
	}

	if c.Approved {
		printSuccess("Comment posted")
	} else {
		printSuccess("Comment posted; it will appear once approved")
	}
	return nil
}

func runCommentsApprove(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.requireSession(); err != nil {
		return err
	}

	c, err := a.comments.Approve(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	printSuccess("Approved comment %s", c.Key())
	return nil
}

func runCommentsDelete(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.requireSession(); err != nil {
		return err
	}

	if err := a.comments.Remove(cmd.Context(), args[0]); err != nil {
		return err
	}
	printSuccess("Deleted comment %s", args[0])
	return nil
}
