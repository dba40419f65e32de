package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"companion/pkg/models"
	"companion/pkg/validation"
)

var (
	flagTaskTimes   string
	flagEventOffset int
)

func init() {
	notifySettingsCmd.Flags().StringVar(&flagTaskTimes, "task-times", "", "comma-separated HH:MM daily task reminder times")
	notifySettingsCmd.Flags().IntVar(&flagEventOffset, "event-offset", 0, "minutes before an event its reminder fires")

	notificationsCmd.AddCommand(notifyListCmd, notifyStopCmd, notifyDailyCmd, notifySettingsCmd)
	rootCmd.AddCommand(notificationsCmd)
}

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "Manage reminders and notification settings",
}

var notifyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List running repeated notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, sess, err := requireSession()
		if err != nil {
			return err
		}
		defer a.Close()
		notifs, err := a.Client.ActiveRepeatedNotifications(cmd.Context(), sess.UserID)
		if err != nil {
			return err
		}
		if len(notifs) == 0 {
			fmt.Println("No active repeated notifications")
			return nil
		}
		for _, n := range notifs {
			line := fmt.Sprintf("#%d  %s", n.ID, n.Message)
			if n.Cron != "" {
				line += "  [" + n.Cron + "]"
			}
			fmt.Println(line)
		}
		return nil
	},
}

var notifyStopCmd = &cobra.Command{
	Use:   "stop <id>",
	Short: "Stop a repeated notification",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid notification id %q", args[0])
		}
		a, _, err := requireSession()
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.Client.StopRepeated(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Printf("Stopped repeated notification #%d\n", id)
		return nil
	},
}

var notifyDailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "List server-managed daily notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, sess, err := requireSession()
		if err != nil {
			return err
		}
		defer a.Close()
		notifs, err := a.Client.DailyNotifications(cmd.Context(), sess.UserID)
		if err != nil {
			return err
		}
		for _, n := range notifs {
			state := "off"
			if n.Enabled {
				state = "on"
			}
			fmt.Printf("#%d  %s  %s  [%s]\n", n.ID, n.Time, n.Message, state)
		}
		return nil
	},
}

var notifySettingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or update local reminder preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, sess, err := requireSession()
		if err != nil {
			return err
		}
		defer a.Close()

		if flagTaskTimes == "" && flagEventOffset == 0 {
			saved, _ := a.Store.NotificationSettings(sess.UserID)
			if saved == nil {
				fmt.Println("No saved preferences (using config defaults)")
				return nil
			}
			fmt.Printf("Task reminder times: %s\n", strings.Join(saved.TaskTimes, ", "))
			fmt.Printf("Event reminder offset: %d minutes\n", saved.EventOffsetMinutes)
			return nil
		}

		saved, _ := a.Store.NotificationSettings(sess.UserID)
		ns := models.NotificationSettings{EventOffsetMinutes: models.DefaultEventOffsetMinutes}
		if saved != nil {
			ns = *saved
		}
		if flagTaskTimes != "" {
			ns.TaskTimes = nil
			for _, t := range strings.Split(flagTaskTimes, ",") {
				ns.TaskTimes = append(ns.TaskTimes, strings.TrimSpace(t))
			}
		}
		if flagEventOffset > 0 {
			ns.EventOffsetMinutes = flagEventOffset
		}
		if err := validation.Settings(ns); err != nil {
			return err
		}
		if err := a.Store.PutNotificationSettings(sess.UserID, ns); err != nil {
			return err
		}
		fmt.Println("Preferences saved")
		return nil
	},
}
