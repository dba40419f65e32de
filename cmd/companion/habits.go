package main

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"companion/pkg/validation"
)

func init() {
	habitsCmd.AddCommand(habitsListCmd, habitsAddCmd, habitsEditCmd, habitsRmCmd, habitsDoneCmd)
	rootCmd.AddCommand(habitsCmd)
}

var habitsCmd = &cobra.Command{
	Use:   "habits",
	Short: "Manage daily habits",
}

var habitsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List habits, marking the ones completed today",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, sess, err := requireSession()
		if err != nil {
			return err
		}
		defer a.Close()
		habits, err := a.Client.Habits(cmd.Context(), sess.UserID)
		if err != nil {
			return err
		}
		done, _ := a.Store.CompletedHabits(sess.UserID, today())
		for _, h := range habits {
			mark := " "
			if slices.Contains(done, h.HabitID) {
				mark = "x"
			}
			fmt.Printf("[%s] %d  %s\n", mark, h.HabitID, h.Description)
		}
		return nil
	},
}

var habitsAddCmd = &cobra.Command{
	Use:   "add <description>",
	Short: "Create a habit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validation.Description("habit", args[0]); err != nil {
			return err
		}
		a, sess, err := requireSession()
		if err != nil {
			return err
		}
		defer a.Close()
		return a.Client.CreateHabit(cmd.Context(), sess.UserID, args[0])
	},
}

var habitsEditCmd = &cobra.Command{
	Use:   "edit <id> <description>",
	Short: "Rewrite a habit's description",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid habit id %q", args[0])
		}
		if err := validation.Description("habit", args[1]); err != nil {
			return err
		}
		a, sess, err := requireSession()
		if err != nil {
			return err
		}
		defer a.Close()
		return a.Client.UpdateHabit(cmd.Context(), sess.UserID, id, args[1])
	},
}

var habitsRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a habit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid habit id %q", args[0])
		}
		a, sess, err := requireSession()
		if err != nil {
			return err
		}
		defer a.Close()
		return a.Client.DeleteHabit(cmd.Context(), sess.UserID, id)
	},
}

var habitsDoneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Toggle a habit's completion for today (stored locally)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid habit id %q", args[0])
		}
		a, sess, err := requireSession()
		if err != nil {
			return err
		}
		defer a.Close()
		date := today()
		done, _ := a.Store.CompletedHabits(sess.UserID, date)
		if i := slices.Index(done, id); i >= 0 {
			done = slices.Delete(done, i, i+1)
			fmt.Printf("Habit %d unchecked for %s\n", id, date)
		} else {
			done = append(done, id)
			fmt.Printf("Habit %d checked for %s\n", id, date)
		}
		return a.Store.PutCompletedHabits(sess.UserID, date, done)
	},
}

func today() string {
	return time.Now().Format("2006-01-02")
}
