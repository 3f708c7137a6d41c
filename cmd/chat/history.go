package main

import (
	"github.com/spf13/cobra"

	"blackgpt-backend/internal/client"
)

var historyCmd = &cobra.Command{
	Use:   "history <conversation-id>",
	Short: "Print the stored messages of a conversation",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	server, _ := cmd.Flags().GetString("server")

	msgs, err := client.NewAPIClient(server).Messages(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	for _, m := range msgs {
		printMessage(cmd.OutOrStdout(), m)
	}
	return nil
}
