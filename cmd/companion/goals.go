package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"companion/pkg/validation"
)

func init() {
	goalsCmd.AddCommand(goalsListCmd, goalsAddCmd, goalsToggleCmd, goalsRmCmd)
	rootCmd.AddCommand(goalsCmd)
}

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Manage goals",
}

var goalsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List goals",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, sess, err := requireSession()
		if err != nil {
			return err
		}
		defer a.Close()
		goals, err := a.Client.Goals(cmd.Context(), sess.UserID)
		if err != nil {
			return err
		}
		for _, g := range goals {
			mark := " "
			if g.Completed {
				mark = "x"
			}
			fmt.Printf("[%s] %d  %s\n", mark, g.GoalID, g.Description)
		}
		return nil
	},
}

var goalsAddCmd = &cobra.Command{
	Use:   "add <description>",
	Short: "Create a goal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validation.Description("goal", args[0]); err != nil {
			return err
		}
		a, sess, err := requireSession()
		if err != nil {
			return err
		}
		defer a.Close()
		return a.Client.CreateGoal(cmd.Context(), sess.UserID, args[0])
	},
}

var goalsToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Flip a goal's completion flag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid goal id %q", args[0])
		}
		a, sess, err := requireSession()
		if err != nil {
			return err
		}
		defer a.Close()
		goals, err := a.Client.Goals(cmd.Context(), sess.UserID)
		if err != nil {
			return err
		}
		for _, g := range goals {
			if g.GoalID == id {
				return a.Client.UpdateGoal(cmd.Context(), sess.UserID, id, g.Description, !g.Completed)
			}
		}
		return fmt.Errorf("goal %d not found", id)
	},
}

var goalsRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a goal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid goal id %q", args[0])
		}
		a, sess, err := requireSession()
		if err != nil {
			return err
		}
		defer a.Close()
		return a.Client.DeleteGoal(cmd.Context(), sess.UserID, id)
	},
}
