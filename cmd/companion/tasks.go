package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"companion/pkg/validation"
)

func init() {
	tasksCmd.AddCommand(tasksListCmd, tasksAddCmd, tasksEditCmd, tasksRmCmd)
	rootCmd.AddCommand(tasksCmd)
}

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Manage the to-do list",
}

var tasksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List to-do items",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, sess, err := requireSession()
		if err != nil {
			return err
		}
		defer a.Close()
		tasks, err := a.Client.Tasks(cmd.Context(), sess.UserID)
		if err != nil {
			return err
		}
		for _, t := range tasks {
			fmt.Printf("%d  %s\n", t.TaskID, t.Description)
		}
		return nil
	},
}

var tasksAddCmd = &cobra.Command{
	Use:   "add <description>",
	Short: "Add a to-do item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validation.Description("task", args[0]); err != nil {
			return err
		}
		a, sess, err := requireSession()
		if err != nil {
			return err
		}
		defer a.Close()
		t, err := a.Client.CreateTask(cmd.Context(), sess.UserID, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Added task %d\n", t.TaskID)
		return nil
	},
}

var tasksEditCmd = &cobra.Command{
	Use:   "edit <id> <description>",
	Short: "Rewrite a to-do item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid task id %q", args[0])
		}
		if err := validation.Description("task", args[1]); err != nil {
			return err
		}
		a, sess, err := requireSession()
		if err != nil {
			return err
		}
		defer a.Close()
		_, err = a.Client.UpdateTask(cmd.Context(), sess.UserID, id, args[1])
		return err
	},
}

var tasksRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a to-do item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid task id %q", args[0])
		}
		a, sess, err := requireSession()
		if err != nil {
			return err
		}
		defer a.Close()
		return a.Client.DeleteTask(cmd.Context(), sess.UserID, id)
	},
}
