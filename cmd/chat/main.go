// Command chat is a terminal front end for the Black.GPT server. It keeps the
// same client-side state a browser tab would: history, conversation id and
// the free message allowance.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "chat",
	Short:         "Chat with Black.GPT from the terminal",
	Long:          `Open an interactive conversation with a running Black.GPT server.`,
	RunE:          runChat,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("server", envOr("BLACKGPT_SERVER", "http://localhost:5000"), "Base URL of the chat server")
	rootCmd.Flags().String("conversation", "", "Resume an existing conversation id")
	rootCmd.Flags().Int("free-limit", 3, "Exchanges allowed before sign in is required")
	rootCmd.Flags().Duration("redirect-delay", 0, "Delay before the sign-in redirect (default 2s)")
	rootCmd.Flags().Bool("verbose", false, "Log client diagnostics to stderr")

	rootCmd.AddCommand(historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
