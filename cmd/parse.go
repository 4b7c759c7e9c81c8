package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/coreybb/checkin/config"
	"github.com/coreybb/checkin/ingestion"
	"github.com/coreybb/checkin/models"
)

var parseCmd = &cobra.Command{
	Use:   "parse <message>",
	Short: "Print the record a check-in message would produce",
	Long: `parse runs a message through the AM/PM grammar and prints the record
that the webhook would store, dated today in the configured time zone.
Nothing is stored and no reply is sent.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return printRecord(cmd.OutOrStdout(), strings.Join(args, " "), time.Now(), cfg.Location)
}

func printRecord(out io.Writer, message string, now time.Time, loc *time.Location) error {
	entry, err := ingestion.Parse(strings.TrimSpace(message))
	if err != nil {
		return err
	}
	record := entry.Record(ingestion.Today(now, loc), models.SourceWhatsApp)

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding JSON: %w", err)
	}
	fmt.Fprintln(out, string(data))
	return nil
}
