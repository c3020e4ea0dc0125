package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/pagesift/core/pipeline"
)

var (
	flagInstruction string
	flagParseUser   string
)

var parseCmd = &cobra.Command{
	Use:   "parse <url>",
	Short: "Scrape a page and apply an instruction to its text",
	Long: `Parse scrapes a page, splits its text into chunks, and asks the configured
backend to apply the instruction to each chunk. Answers are printed in
chunk order.

Examples:
  pagesift parse https://example.com --instruction "list every email address"
  pagesift parse https://example.com --instruction "summarize" --config pagesift.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVar(&flagInstruction, "instruction", "", "What to extract from the page (required)")
	parseCmd.Flags().StringVar(&flagParseUser, "user", "", "Record the scrape in this user's history")
	_ = parseCmd.MarkFlagRequired("instruction")
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg.Log, os.Stderr)
	if err != nil {
		return err
	}

	history, closeHistory, err := openHistory(cfg.Store, flagParseUser != "")
	if err != nil {
		return err
	}
	defer closeHistory()

	p, err := buildPipeline(cfg, history, log)
	if err != nil {
		return err
	}

	_, answer, err := p.ScrapeAndParse(cmd.Context(),
		pipeline.ScrapeRequest{User: flagParseUser, URL: args[0]}, flagInstruction)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), answer)
	return nil
}
