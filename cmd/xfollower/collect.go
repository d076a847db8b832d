package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"xfollower/internal/collector"
	"xfollower/pkg/accounts"
	"xfollower/pkg/logger"
	"xfollower/pkg/ui"
)

var (
	// Collect command flags
	collectAccount  string
	collectWorkers  int
	collectCategory string
	collectPriority string
	targetsFile     string
	collectOutFile  string
)

// collectCmd represents the collect command
var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Harvest follow candidates from target accounts",
	Long: `Harvest follow candidates by paging through the follower lists of the
accounts in the targets file.

Each target is processed by a worker pool. Followers that pass the target's
eligibility filters (minimum followers, maximum following, verified-only,
not protected, not already followed) are merged into the candidates file,
deduplicated against what is already there.`,
	Example: `  # Collect candidates from all configured targets
  xfollower collect

  # Use more workers and tag the harvest with a category
  xfollower collect --workers 4 --category tech`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCollect()
	},
}

func init() {
	rootCmd.AddCommand(collectCmd)

	collectCmd.Flags().StringVarP(&collectAccount, "account", "a", "", "use specific stored account")
	collectCmd.Flags().IntVar(&collectWorkers, "workers", 2, "number of concurrent harvest workers")
	collectCmd.Flags().StringVar(&collectCategory, "category", "", "category to tag harvested candidates with")
	collectCmd.Flags().StringVar(&collectPriority, "priority", "", "priority to tag harvested candidates with (high, medium, low)")
	collectCmd.Flags().StringVar(&targetsFile, "targets-file", "", "path to the targets file")
	collectCmd.Flags().StringVar(&collectOutFile, "accounts-file", "", "candidates file to merge results into")
}

func runCollect() error {
	cfg := loadConfig(nil)
	if targetsFile != "" {
		cfg.Following.TargetsFile = targetsFile
	}
	if collectOutFile != "" {
		cfg.Following.AccountsFile = collectOutFile
	}

	_ = resolveCredentials(cfg, collectAccount)
	client := newAPIClient(cfg)
	log := logger.GetLogger()

	targets, err := accounts.LoadTargets(cfg.Following.TargetsFile)
	if err != nil {
		ui.PrintError("Failed to load targets", err.Error())
		os.Exit(1)
	}
	if len(targets.Targets) == 0 {
		ui.PrintInfo("Nothing to do", "Targets file has no entries: "+cfg.Following.TargetsFile)
		return nil
	}

	if !quiet {
		ui.PrintInfo("Targets", fmt.Sprintf("%d", len(targets.Targets)))
		ui.PrintHighlight("[STARTING CANDIDATE HARVEST]")
	}

	pool := collector.NewWorkerPool(collectWorkers, client, log)
	pool.Start()

	go func() {
		for _, target := range targets.Targets {
			if err := pool.Submit(collector.Job{Target: target}); err != nil {
				log.WithError(err).WithField("target", target.Handle).Warn("failed to submit target")
			}
		}
		pool.Stop()
	}()

	var harvested []accounts.Candidate
	var failures int
	for result := range pool.Results() {
		if result.Error != nil {
			failures++
			ui.PrintWarning("Harvest incomplete", fmt.Sprintf("%s: %v", result.Job.Target.Handle, result.Error))
		}
		for _, candidate := range result.Candidates {
			if collectCategory != "" {
				candidate.Category = collectCategory
			}
			if collectPriority != "" {
				candidate.Priority = collectPriority
			}
			harvested = append(harvested, candidate)
		}
		if !quiet {
			ui.PrintInfo(result.Job.Target.Handle, fmt.Sprintf("%d candidates in %s", len(result.Candidates), result.Duration.Round(time.Millisecond)))
		}
	}

	list, err := accounts.LoadCandidates(cfg.Following.AccountsFile)
	if err != nil {
		return fmt.Errorf("failed to load candidates file: %w", err)
	}
	added := list.Merge(harvested)
	if err := accounts.SaveCandidates(cfg.Following.AccountsFile, list); err != nil {
		return fmt.Errorf("failed to save candidates file: %w", err)
	}

	log.InfoWithFields("harvest completed", map[string]interface{}{
		"harvested": len(harvested),
		"added":     added,
		"failures":  failures,
	})
	ui.PrintSuccess(fmt.Sprintf("Harvest complete: %d new candidates added (%d total in file)", added, len(list.Accounts)))

	if cfg.Notifications.Enabled && notifications && cfg.Notifications.OnComplete {
		ui.NewNotifier().SendSuccess("xfollower", fmt.Sprintf("Harvest done: %d new candidates", added))
	}
	return nil
}
