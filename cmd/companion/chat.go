package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(chatCmd)
}

var chatCmd = &cobra.Command{
	Use:   "chat <text>...",
	Short: "Send a message to the assistant and print the reply",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, sess, err := requireSession()
		if err != nil {
			return err
		}
		defer a.Close()

		conv := a.Conversation(sess)
		defer conv.Close()
		conv.Hydrate()

		reply, err := conv.Send(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Println(reply.Text)

		// surface running repeated notifications the way the app does
		// after each exchange
		if msg, err := conv.PullActiveNotifications(cmd.Context()); err == nil && msg != nil {
			fmt.Println(msg.Text)
			for _, n := range msg.Custom.RepeatedNotifications {
				fmt.Printf("  #%d %s (stop with `companion notifications stop %d`)\n", n.ID, n.Message, n.ID)
			}
		}
		return nil
	},
}
