package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"companion/pkg/session"
)

var (
	flagEmail    string
	flagPassword string
	flagName     string
)

func init() {
	loginCmd.Flags().StringVar(&flagEmail, "email", "", "account email")
	loginCmd.Flags().StringVar(&flagPassword, "password", "", "account password")
	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("password")

	registerCmd.Flags().StringVar(&flagName, "name", "", "display name")
	registerCmd.Flags().StringVar(&flagEmail, "email", "", "account email")
	registerCmd.Flags().StringVar(&flagPassword, "password", "", "account password")
	_ = registerCmd.MarkFlagRequired("email")
	_ = registerCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd)
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate and persist the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()
		u, err := a.Client.Login(cmd.Context(), flagEmail, flagPassword)
		if err != nil {
			return err
		}
		if err := session.Save(a.Store, session.FromUser(u)); err != nil {
			return fmt.Errorf("persist session: %w", err)
		}
		fmt.Printf("Logged in as %s (user %d)\n", u.Email, u.UserID)
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and persist the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()
		u, err := a.Client.Register(cmd.Context(), flagName, flagEmail, flagPassword)
		if err != nil {
			return err
		}
		if err := session.Save(a.Store, session.FromUser(u)); err != nil {
			return fmt.Errorf("persist session: %w", err)
		}
		fmt.Printf("Registered %s (user %d)\n", u.Email, u.UserID)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the persisted session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()
		if err := session.Clear(a.Store); err != nil {
			return err
		}
		fmt.Println("Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the persisted session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, sess, err := requireSession()
		if err != nil {
			return err
		}
		defer a.Close()
		fmt.Printf("User %d", sess.UserID)
		if sess.Name != "" {
			fmt.Printf(" (%s)", sess.Name)
		}
		if sess.Email != "" {
			fmt.Printf(" <%s>", sess.Email)
		}
		fmt.Println()
		return nil
	},
}
