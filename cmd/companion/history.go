package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"companion/pkg/models"
)

var (
	flagHistoryAll     bool
	flagHistoryOffline bool
)

func init() {
	historyCmd.Flags().BoolVar(&flagHistoryAll, "all", false, "page backward until the history is exhausted")
	historyCmd.Flags().BoolVar(&flagHistoryOffline, "offline", false, "print the cached conversation without contacting the backend")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the conversation, syncing it from the backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, sess, err := requireSession()
		if err != nil {
			return err
		}
		defer a.Close()

		conv := a.Conversation(sess)
		defer conv.Close()
		conv.Hydrate()

		if !flagHistoryOffline {
			if err := conv.LoadInitial(cmd.Context()); err != nil {
				// degrade to the cached view, matching the app's
				// non-blocking error indicator
				fmt.Println("(backend unreachable, showing cached history)")
			}
			for flagHistoryAll && conv.HasMore() {
				if err := conv.LoadEarlier(cmd.Context()); err != nil {
					break
				}
			}
		}

		for _, m := range conv.Messages() {
			printMessage(m)
		}
		if conv.HasMore() && !flagHistoryOffline {
			fmt.Println("(older messages remain; rerun with --all)")
		}
		return nil
	},
}

func printMessage(m models.Message) {
	who := "you"
	if m.Sender == models.SenderAssistant {
		who = "assistant"
	}
	fmt.Printf("[%s] %-9s %s\n", m.CreatedAt.Format("2006-01-02 15:04"), who, m.Text)
	if m.Custom != nil {
		for _, n := range m.Custom.RepeatedNotifications {
			fmt.Printf("    · repeated notification #%d %s\n", n.ID, n.Message)
		}
	}
}
