package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "checkin",
	Short: "WhatsApp check-in webhook",
	Long: `checkin receives AM/PM check-in messages from a WhatsApp relay webhook,
stores them as rows in a tabular data store and replies to the sender.
Configuration is read from the environment and an optional config.yaml.`,
	SilenceUsage: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config-dir", "", "Directory containing an optional config.yaml")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(parseCmd)
}
