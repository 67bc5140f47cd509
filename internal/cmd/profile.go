package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/TriAzz/showcase/internal/model"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage the signed-in user's profile",
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update profile fields",
	Args:  cobra.NoArgs,
	RunE:  runProfileUpdate,
}

var profilePasswordCmd = &cobra.Command{
	Use:   "password",
	Short: "Change the account password",
	Args:  cobra.NoArgs,
	RunE:  runProfilePassword,
}

func init() {
	profileUpdateCmd.Flags().String("name", "", "display name")
	profileUpdateCmd.Flags().String("first-name", "", "first name")
	profileUpdateCmd.Flags().String("last-name", "", "last name")
	profileUpdateCmd.Flags().String("description", "", "profile description")

	profileCmd.AddCommand(profileUpdateCmd, profilePasswordCmd)
	rootCmd.AddCommand(profileCmd)
}

func runProfileUpdate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.requireSession(); err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString("name")
	firstName, _ := cmd.Flags().GetString("first-name")
	lastName, _ := cmd.Flags().GetString("last-name")
	description, _ := cmd.Flags().GetString("description")

	if name == "" && firstName == "" && lastName == "" && !cmd.Flags().Changed("description") {
		return errors.New("nothing to update; pass at least one of --name, --first-name, --last-name, --description")
	}

	update := model.ProfileUpdate{
		Name:        name,
		FirstName:   firstName,
		LastName:    lastName,
		Description: description,
	}
	if err := a.session.UpdateProfile(cmd.Context(), update); err != nil {
		return err
	}

	printSuccess("Profile updated for %s", a.session.CurrentUser().DisplayName())
	return nil
}

func runProfilePassword(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.requireSession(); err != nil {
		return err
	}

	current, err := promptSecret("Current password")
	if err != nil {
		return err
	}
	next, err := promptSecret("New password")
	if err != nil {
		return err
	}
	confirmNext, err := promptSecret("Confirm new password")
	if err != nil {
		return err
	}
	if next != confirmNext {
		return errors.New("passwords do not match")
	}

	update := model.PasswordUpdate{CurrentPassword: current, NewPassword: next}
	if err := a.session.UpdatePassword(cmd.Context(), update); err != nil {
		return err
	}

	printSuccess("Password changed")
	return nil
}
