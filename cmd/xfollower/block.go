package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"xfollower/pkg/accounts"
	"xfollower/pkg/ledger"
	"xfollower/pkg/scheduler"
	"xfollower/pkg/ui"
)

var (
	// Block command flags
	blockAccount  string
	blockMax      int
	blockDryRun   bool
	blocklistFile string
)

// blockCmd represents the block command
var blockCmd = &cobra.Command{
	Use:   "block",
	Short: "Block accounts from the blocklist file",
	Long: `Block the accounts listed in the blocklist file.

Block actions share the follow rate limits: the same per-minute and per-day
quotas and the same jittered spacing apply. Already blocked handles recorded
in the ledger are skipped.`,
	Example: `  # Block everything in the blocklist
  xfollower block

  # Block at most 20 accounts this run
  xfollower block --max 20`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBlock()
	},
}

func init() {
	rootCmd.AddCommand(blockCmd)

	blockCmd.Flags().StringVarP(&blockAccount, "account", "a", "", "use specific stored account")
	blockCmd.Flags().IntVar(&blockMax, "max", 0, "maximum number of successful blocks (0 = no cap)")
	blockCmd.Flags().BoolVar(&blockDryRun, "dry-run", false, "log actions without calling the API")
	blockCmd.Flags().StringVar(&blocklistFile, "blocklist-file", "", "path to the blocklist file")
}

func runBlock() error {
	cfg := loadConfig(nil)
	if blocklistFile != "" {
		cfg.Blocking.BlocklistFile = blocklistFile
	}

	accountUser := resolveCredentials(cfg, blockAccount)
	client := newAPIClient(cfg)

	// The blocklist uses the same file format as the candidates file
	list, err := accounts.LoadCandidates(cfg.Blocking.BlocklistFile)
	if err != nil {
		ui.PrintError("Failed to load blocklist", err.Error())
		os.Exit(1)
	}

	ledgerMgr, err := ledger.NewManager(accountUser)
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}
	led, err := ledgerMgr.LoadOrCreate(accountUser)
	if err != nil {
		return fmt.Errorf("failed to load ledger: %w", err)
	}
	candidates := accounts.ExcludeProcessed(list.Accounts, led)

	if len(candidates) == 0 {
		ui.PrintInfo("Nothing to do", "No unprocessed handles in the blocklist")
		return nil
	}

	if !quiet {
		ui.PrintInfo("Accounts to block", fmt.Sprintf("%d", len(candidates)))
		ui.PrintHighlight("[STARTING BLOCK BATCH]")
	}

	requests := accounts.ToRequests(candidates, scheduler.ActionBlock)
	return runBatch(cfg, client, ledgerMgr, led, requests, blockMax, blockDryRun)
}
