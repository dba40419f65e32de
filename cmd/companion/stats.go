package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show usage statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, sess, err := requireSession()
		if err != nil {
			return err
		}
		defer a.Close()
		st, err := a.Client.Statistics(cmd.Context(), sess.UserID)
		if err != nil {
			return err
		}
		fmt.Printf("Tasks:  %d/%d completed\n", st.TasksCompleted, st.TasksTotal)
		fmt.Printf("Goals:  %d/%d completed\n", st.GoalsCompleted, st.GoalsTotal)
		fmt.Printf("Habits: %d tracked\n", st.HabitsTotal)
		fmt.Printf("Events: %d scheduled\n", st.EventsTotal)
		return nil
	},
}
