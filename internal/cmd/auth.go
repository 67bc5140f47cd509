package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/TriAzz/showcase/internal/api"
	errs "github.com/TriAzz/showcase/internal/errors"
	"github.com/TriAzz/showcase/internal/model"
)

var loginCmd = &cobra.Command{
	Use:   "login [email]",
	Short: "Sign in to the showcase backend",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear local session state",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account and sign in",
	Args:  cobra.NoArgs,
	RunE:  runRegister,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user and token expiry",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create the initial administrator account",
	Long: `Create the initial administrator account on a fresh backend.
Refuses to run when any account already exists.`,
	Args: cobra.NoArgs,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(loginCmd, logoutCmd, registerCmd, whoamiCmd, setupCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	email := ""
	if len(args) > 0 {
		email = args[0]
	} else {
		if email, err = prompt("Email"); err != nil {
			return err
		}
	}

	password, err := promptSecret("Password")
	if err != nil {
		return err
	}

	if err := a.session.Login(cmd.Context(), email, password); err != nil {
		if errs.IsAuthFailure(err) {
			return errors.New("invalid email or password")
		}
		return err
	}

	printSuccess("Signed in as %s", a.session.CurrentUser().DisplayName())
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	a.session.Logout(cmd.Context())
	printSuccess("Signed out")
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	req := model.RegisterRequest{}
	if req.Name, err = prompt("Name"); err != nil {
		return err
	}
	if req.Email, err = prompt("Email"); err != nil {
		return err
	}
	if req.Password, err = promptSecret("Password"); err != nil {
		return err
	}
	confirmPassword, err := promptSecret("Confirm password")
	if err != nil {
		return err
	}
	if req.Password != confirmPassword {
		return errors.New("passwords do not match")
	}
	if req.Description, err = prompt("Description (optional)"); err != nil {
		return err
	}

	if err := a.session.Register(cmd.Context(), req); err != nil {
		return err
	}

	printSuccess("Account created; signed in as %s", a.session.CurrentUser().DisplayName())
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	user := a.session.CurrentUser()
	if user == nil {
		fmt.Println(dimStyle.Render("Not signed in"))
		return nil
	}

	printField("Name", user.DisplayName())
	printField("Email", user.Email)
	printField("Role", user.Role)

	if claims, err := a.session.TokenClaims(); err == nil && claims.ExpiresAt != nil {
		remaining := time.Until(*claims.ExpiresAt).Round(time.Minute)
		if remaining <= 0 {
			fmt.Println(dimStyle.Render("Token expired; sign in again"))
		} else {
			printField("Token expires", fmt.Sprintf("%s (%s)",
				claims.ExpiresAt.Local().Format(time.RFC822), remaining))
		}
	}
	return nil
}

func runSetup(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if a.client.AdminExists(cmd.Context()) {
		return errors.New("an account already exists; use `showcase register` instead")
	}

	req := api.AdminSetupRequest{}
	if req.FirstName, err = prompt("First name"); err != nil {
		return err
	}
	if req.LastName, err = prompt("Last name"); err != nil {
		return err
	}
	if req.Email, err = prompt("Email"); err != nil {
		return err
	}
	if err := model.ValidateEmail(req.Email); err != nil {
		return err
	}
	if req.Password, err = promptSecret("Password"); err != nil {
		return err
	}
	confirmPassword, err := promptSecret("Confirm password")
	if err != nil {
		return err
	}
	if req.Password != confirmPassword {
		return errors.New("passwords do not match")
	}
	if len(req.Password) < model.MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", model.MinPasswordLength)
	}

	admin, err := a.client.SetupAdmin(cmd.Context(), req)
	if err != nil {
		return err
	}

	printSuccess("Administrator %s created; sign in with `showcase login %s`",
		admin.DisplayName(), admin.Email)
	return nil
}
