package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"companion/pkg/validation"
)

var (
	flagActivity  string
	flagDate      string
	flagTimeFrame string
)

func init() {
	schedulesAddCmd.Flags().StringVar(&flagActivity, "activity", "", "what the event is")
	schedulesAddCmd.Flags().StringVar(&flagDate, "date", "", "event date, YYYY-MM-DD")
	schedulesAddCmd.Flags().StringVar(&flagTimeFrame, "time", "", "time frame, HH:MM or HH:MM-HH:MM")
	_ = schedulesAddCmd.MarkFlagRequired("activity")
	_ = schedulesAddCmd.MarkFlagRequired("date")
	_ = schedulesAddCmd.MarkFlagRequired("time")

	schedulesCmd.AddCommand(schedulesListCmd, schedulesAddCmd, schedulesRmCmd)
	rootCmd.AddCommand(schedulesCmd)
}

var schedulesCmd = &cobra.Command{
	Use:     "schedules",
	Aliases: []string{"calendar"},
	Short:   "Manage calendar events",
}

var schedulesListCmd = &cobra.Command{
	Use:   "list [date]",
	Short: "List events, optionally for one YYYY-MM-DD date",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, sess, err := requireSession()
		if err != nil {
			return err
		}
		defer a.Close()
		items, err := a.Client.Schedules(cmd.Context(), sess.UserID)
		if err != nil {
			// degrade to the cached calendar
			items, err = a.Store.Schedules(sess.UserID)
			if err != nil || items == nil {
				return fmt.Errorf("no calendar available: %w", err)
			}
			fmt.Println("(backend unreachable, showing cached calendar)")
		} else if err := a.Store.PutSchedules(sess.UserID, items); err != nil {
			fmt.Println("(warning: calendar cache not updated)")
		}
		for _, s := range items {
			if len(args) == 1 && s.Date != args[0] {
				continue
			}
			start, end := s.Times()
			fmt.Printf("%d  %s %s-%s  %s\n", s.ScheduleID, s.Date, start, end, s.Activity)
		}
		return nil
	},
}

var schedulesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an event",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validation.Description("event", flagActivity); err != nil {
			return err
		}
		if err := validation.Date(flagDate); err != nil {
			return err
		}
		if err := validation.TimeFrame(flagTimeFrame); err != nil {
			return err
		}
		a, sess, err := requireSession()
		if err != nil {
			return err
		}
		defer a.Close()
		return a.Client.CreateSchedule(cmd.Context(), sess.UserID, flagActivity, flagDate, flagTimeFrame)
	},
}

var schedulesRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete an event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid schedule id %q", args[0])
		}
		a, sess, err := requireSession()
		if err != nil {
			return err
		}
		defer a.Close()
		return a.Client.DeleteSchedule(cmd.Context(), sess.UserID, id)
	},
}
