package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"xfollower/pkg/auth"
	"xfollower/pkg/ledger"
	"xfollower/pkg/ui"
)

var (
	// Status command flags
	statusAccount string
	statusRecent  int
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show quotas and ledger history",
	Long: `Show the configured rate limits and the processing history recorded in
the account's ledger.`,
	Example: `  # Show status for the default account
  xfollower status

  # Show the last 25 ledger entries for a specific account
  xfollower status --account myaccount --recent 25`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStatus()
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVarP(&statusAccount, "account", "a", "", "show status for specific stored account")
	statusCmd.Flags().IntVar(&statusRecent, "recent", 10, "number of recent ledger entries to show")
}

func runStatus() error {
	cfg := loadConfig(nil)

	accountUser := statusAccount
	if accountUser == "" {
		if manager, err := auth.NewManager(); err == nil {
			if account, err := manager.RetrieveDefault(); err == nil {
				accountUser = account.Username
			}
		}
	}
	if accountUser == "" {
		accountUser = "default"
	}

	ui.PrintHighlight("Rate Limits")
	fmt.Println()
	fmt.Printf("  Follows per minute: %d\n", cfg.Following.RateLimits.FollowsPerMinute)
	fmt.Printf("  Follows per day:    %d\n", cfg.Following.RateLimits.FollowsPerDay)
	fmt.Printf("  Delay between:      %s\n", cfg.Following.RateLimits.DelayBetweenFollows)
	fmt.Printf("  Jitter:             %s\n", cfg.Following.RateLimits.Jitter)
	fmt.Println()

	ledgerMgr, err := ledger.NewManager(accountUser)
	if err != nil {
		ui.PrintError("Failed to open ledger", err.Error())
		os.Exit(1)
	}

	if !ledgerMgr.Exists() {
		ui.PrintInfo("Ledger", fmt.Sprintf("No history for account '%s'", accountUser))
		return nil
	}

	led, err := ledgerMgr.Load()
	if err != nil {
		ui.PrintError("Failed to load ledger", err.Error())
		os.Exit(1)
	}

	ui.PrintHighlight(fmt.Sprintf("Ledger for %s", accountUser))
	fmt.Println()
	fmt.Printf("  File: %s\n", ledgerMgr.Path())

	summary := led.Summary()
	keys := make([]string, 0, len(summary))
	for key := range summary {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("  %-20s %d\n", key+":", summary[key])
	}

	if statusRecent > 0 {
		entries := led.RecentEntries(statusRecent)
		if len(entries) > 0 {
			fmt.Println()
			ui.PrintHighlight("Recent Activity")
			fmt.Println()
			for _, entry := range entries {
				fmt.Printf("  %s  %-8s %-20s %s\n",
					entry.ProcessedAt.Format("2006-01-02 15:04"),
					entry.Kind,
					entry.Handle,
					entry.Outcome)
			}
		}
	}
	return nil
}
