package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/steuerklar/steuerklar/internal/messages"
	"github.com/steuerklar/steuerklar/internal/tui/styles"
)

var (
	messageYear  int
	messageTopic string
)

var messageCmd = &cobra.Command{
	Use:   "message <text...>",
	Short: "Send a message to the tax advisor",
	Long: `Send a message through the configured sink (messages.sink: file or
redis). Messages are append-only.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := currentIdentity(cmd.Context())
		if err != nil {
			return err
		}
		year := messageYear
		if year == 0 {
			year = defaultYear()
		}

		msg, err := messages.NewMessage(year, id.DisplayName(), messageTopic, strings.Join(args, " "))
		if err != nil {
			return err
		}

		sink, err := openSink()
		if err != nil {
			return err
		}
		defer sink.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()
		if err := sink.Send(ctx, msg); err != nil {
			return fmt.Errorf("sending message: %w", err)
		}

		logger.Debug("message sent", "id", msg.ID, "sink", cfg.Messages.Sink)
		fmt.Fprintln(cmd.OutOrStdout(), styles.Green("Gesendet")+"  "+styles.Dim(msg.ID))
		return nil
	},
}

func init() {
	messageCmd.Flags().IntVar(&messageYear, "year", 0, "tax year the message is about (default: first configured year)")
	messageCmd.Flags().StringVar(&messageTopic, "topic", "", "topic address the message refers to")
	rootCmd.AddCommand(messageCmd)
}
