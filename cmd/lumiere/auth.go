package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/lumiere/internal/display"
	"github.com/hammamikhairi/lumiere/internal/domain"
)

func newLoginCmd(a *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to your Lumière account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := fillCredentials(nil, &email, &password); err != nil {
				return err
			}
			u, err := a.sessions.SignIn(cmd.Context(), strings.TrimSpace(email), password)
			if err != nil {
				return err
			}
			return a.emit(u, fmt.Sprintf("Signed in as %s <%s>", u.Name, u.Email))
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")
	return cmd
}

func newRegisterCmd(a *app) *cobra.Command {
	var name, email, password string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a Lumière account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := fillCredentials(&name, &email, &password); err != nil {
				return err
			}
			u, err := a.sessions.Register(cmd.Context(), strings.TrimSpace(name), strings.TrimSpace(email), password)
			if err != nil {
				return err
			}
			return a.emit(u, fmt.Sprintf("Welcome, %s. You are signed in.", u.Name))
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "your name")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")
	return cmd
}

// fillCredentials prompts for missing values on a terminal and fails
// otherwise.
func fillCredentials(name, email, password *string) error {
	missing := *email == "" || *password == "" || (name != nil && *name == "")
	if !missing {
		return nil
	}
	if !interactive() {
		flags := "--email and --password"
		if name != nil {
			flags = "--name, --email and --password"
		}
		return fmt.Errorf("%w: %s are required when not running in a terminal", domain.ErrInvalidInput, flags)
	}
	return credentialsForm(name, email, password)
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			was := a.sessions.User()
			a.sessions.SignOut(cmd.Context())
			if was == nil {
				return a.emit(map[string]bool{"signedOut": true}, "Not signed in.")
			}
			return a.emit(map[string]bool{"signedOut": true}, "Signed out. À bientôt, "+was.Name+".")
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.requireUser(cmd.Context())
			if err != nil {
				return err
			}
			return a.emit(u, display.RenderUser(u))
		},
	}
}
