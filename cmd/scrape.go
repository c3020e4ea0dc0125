package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/pagesift/core/output"
	"github.com/gaurav-prasanna/pagesift/core/pipeline"
	"github.com/gaurav-prasanna/pagesift/core/render"
)

var (
	flagFormat    string
	flagOutputDir string
	flagUser      string
	flagStdout    bool
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape <url>",
	Short: "Scrape a page and write its text or another artifact",
	Long: `Scrape fetches a web page, extracts its visible body, normalizes the text,
and writes the result in the chosen format.

Examples:
  pagesift scrape https://example.com
  pagesift scrape https://example.com --format markdown --output_dir ./out
  pagesift scrape https://example.com --format raw --stdout
  pagesift scrape https://example.com --user alice`,
	Args: cobra.ExactArgs(1),
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().StringVar(&flagFormat, "format", render.FormatText, fmt.Sprintf("Output format %v", render.Formats()))
	scrapeCmd.Flags().StringVar(&flagOutputDir, "output_dir", "", "Output directory (default: current directory)")
	scrapeCmd.Flags().StringVar(&flagUser, "user", "", "Record the scrape in this user's history")
	scrapeCmd.Flags().BoolVar(&flagStdout, "stdout", false, "Print the artifact instead of writing a file")
}

func runScrape(cmd *cobra.Command, args []string) error {
	rawURL := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg.Log, os.Stderr)
	if err != nil {
		return err
	}

	renderer, err := render.ForFormat(flagFormat, cfg.Chunk.MaxLength)
	if err != nil {
		return err
	}

	history, closeHistory, err := openHistory(cfg.Store, flagUser != "")
	if err != nil {
		return err
	}
	defer closeHistory()

	p, err := buildPipeline(cfg, history, log)
	if err != nil {
		return err
	}

	page, err := p.Scrape(cmd.Context(), pipeline.ScrapeRequest{User: flagUser, URL: rawURL})
	if err != nil {
		return err
	}

	data, err := renderer.Render(page)
	if err != nil {
		return err
	}

	if flagStdout {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	writer, err := output.New(flagOutputDir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}
	path, err := writer.Write(rawURL, data, renderer.Extension())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Written: %s\n", path)
	return nil
}
