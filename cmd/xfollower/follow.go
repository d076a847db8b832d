package main

import (
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"xfollower/pkg/accounts"
	"xfollower/pkg/ledger"
	"xfollower/pkg/scheduler"
	"xfollower/pkg/ui"
)

var (
	// Follow command flags
	followAccount  string
	followMax      int
	followStrategy string
	followPriority string
	followCategory string
	followDryRun   bool
	accountsFile   string
	followsPerMin  int
	followsPerDay  int
	followDelay    time.Duration
)

// followCmd represents the follow command
var followCmd = &cobra.Command{
	Use:   "follow",
	Short: "Follow accounts from the candidates file",
	Long: `Follow the accounts listed in the candidates file, respecting the
configured per-minute and per-day quotas with jittered spacing between
actions.

Accounts already recorded in the ledger are skipped, so repeated runs never
follow the same account twice. Only successful follows consume quota.`,
	Example: `  # Follow candidates using default settings
  xfollower follow

  # Follow at most 50 accounts, highest priority first
  xfollower follow --max 50 --strategy smart

  # Follow only the "tech" category candidates
  xfollower follow --category tech

  # Preview what would happen without touching the API
  xfollower follow --dry-run`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFollow()
	},
}

func init() {
	rootCmd.AddCommand(followCmd)

	followCmd.Flags().StringVarP(&followAccount, "account", "a", "", "use specific stored account")
	followCmd.Flags().IntVar(&followMax, "max", 0, "maximum number of successful follows (0 = no cap)")
	followCmd.Flags().StringVar(&followStrategy, "strategy", "smart", "candidate ordering: smart, random, none")
	followCmd.Flags().StringVar(&followPriority, "priority", "", "only follow candidates with this priority (high, medium, low)")
	followCmd.Flags().StringVar(&followCategory, "category", "", "only follow candidates in this category")
	followCmd.Flags().BoolVar(&followDryRun, "dry-run", false, "log actions without calling the API")
	followCmd.Flags().StringVar(&accountsFile, "accounts-file", "", "path to the candidates file")
	followCmd.Flags().IntVar(&followsPerMin, "follows-per-minute", 0, "override per-minute quota")
	followCmd.Flags().IntVar(&followsPerDay, "follows-per-day", 0, "override per-day quota")
	followCmd.Flags().DurationVar(&followDelay, "delay", -1, "override minimum delay between actions")
}

func runFollow() error {
	flags := make(map[string]interface{})
	if accountsFile != "" {
		flags["accounts-file"] = accountsFile
	}
	if followsPerMin > 0 {
		flags["follows-per-minute"] = followsPerMin
	}
	if followsPerDay > 0 {
		flags["follows-per-day"] = followsPerDay
	}
	if followDelay >= 0 {
		flags["delay"] = followDelay
	}

	cfg := loadConfig(flags)
	accountUser := resolveCredentials(cfg, followAccount)
	client := newAPIClient(cfg)

	list, err := accounts.LoadCandidates(cfg.Following.AccountsFile)
	if err != nil {
		ui.PrintError("Failed to load candidates", err.Error())
		os.Exit(1)
	}

	candidates := selectCandidates(list)

	ledgerMgr, err := ledger.NewManager(accountUser)
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}
	led, err := ledgerMgr.LoadOrCreate(accountUser)
	if err != nil {
		return fmt.Errorf("failed to load ledger: %w", err)
	}
	before := len(candidates)
	candidates = accounts.ExcludeProcessed(candidates, led)
	if skipped := before - len(candidates); skipped > 0 && !quiet {
		ui.PrintInfo("Already processed", fmt.Sprintf("%d candidates skipped", skipped))
	}

	if len(candidates) == 0 {
		ui.PrintInfo("Nothing to do", "No unprocessed candidates match the selection")
		return nil
	}

	if !quiet {
		ui.PrintInfo("Candidates to follow", fmt.Sprintf("%d", len(candidates)))
		ui.PrintHighlight("[STARTING FOLLOW BATCH]")
	}

	requests := accounts.ToRequests(candidates, scheduler.ActionFollow)
	return runBatch(cfg, client, ledgerMgr, led, requests, followMax, followDryRun)
}

// selectCandidates applies the filter and ordering flags to the loaded list
func selectCandidates(list *accounts.CandidateList) []accounts.Candidate {
	var candidates []accounts.Candidate
	switch {
	case followPriority != "":
		candidates = list.FilterByPriority(followPriority)
	case followCategory != "":
		candidates = list.FilterByCategory(followCategory)
	default:
		candidates = append(candidates, list.Accounts...)
	}

	switch strings.ToLower(followStrategy) {
	case "smart":
		candidates = accounts.SmartOrder(candidates)
	case "random":
		accounts.Shuffle(candidates, rand.New(rand.NewSource(time.Now().UnixNano())))
	}
	return candidates
}
