package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"companion/internal/agent"
)

var flagDebugAddr string

func init() {
	agentCmd.Flags().StringVar(&flagDebugAddr, "debug-addr", "", "address for the metrics/health listener (overrides config)")
	rootCmd.AddCommand(agentCmd)
}

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Run the background sync and reminder loop",
	Long:  "Periodically syncs the calendar and active notifications, plans local reminders and logs the due ones. Stops cleanly on SIGINT/SIGTERM.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, sess, err := requireSession()
		if err != nil {
			return err
		}
		defer a.Close()
		if flagDebugAddr != "" {
			a.Cfg.Agent.DebugAddr = flagDebugAddr
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return agent.Run(ctx, a, sess)
	},
}
