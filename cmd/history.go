package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/pagesift/store"
)

var (
	flagHistoryUser  string
	flagHistoryLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show a user's most recent scrapes",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVar(&flagHistoryUser, "user", "", "User whose history to show (required)")
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", store.DefaultRecentLimit, "Number of entries to show")
	_ = historyCmd.MarkFlagRequired("user")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	history, closeHistory, err := openHistory(cfg.Store, true)
	if err != nil {
		return err
	}
	defer closeHistory()

	entries, err := history.Recent(cmd.Context(), flagHistoryUser, flagHistoryLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No history for %s\n", flagHistoryUser)
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", e.SearchedAt.Local().Format(time.DateTime), e.URL)
	}
	return nil
}
