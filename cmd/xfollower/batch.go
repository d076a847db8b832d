package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"xfollower/pkg/config"
	"xfollower/pkg/ledger"
	"xfollower/pkg/logger"
	"xfollower/pkg/retry"
	"xfollower/pkg/scheduler"
	"xfollower/pkg/twitter"
	"xfollower/pkg/ui"
)

// runBatch drives a batch of follow/block requests through the scheduler
// and records every attempted request in the account's ledger. Both the
// follow and block commands funnel through here; only the action invoked by
// the performer differs by request kind.
func runBatch(cfg *config.Config, client *twitter.Client, ledgerMgr *ledger.Manager, led *ledger.Ledger, requests []scheduler.Request, max int, dryRun bool) error {
	log := logger.GetLogger()

	quotas := scheduler.Quotas{
		PerMinute: cfg.Following.RateLimits.FollowsPerMinute,
		PerDay:    cfg.Following.RateLimits.FollowsPerDay,
		MinDelay:  cfg.Following.RateLimits.DelayBetweenFollows,
		Jitter:    cfg.Following.RateLimits.Jitter,
	}

	sched, err := scheduler.New(quotas, scheduler.NewSystemClock(), log)
	if err != nil {
		return fmt.Errorf("failed to build scheduler: %w", err)
	}

	tracker := ui.NewStatusTracker()

	perform := func(ctx context.Context, req scheduler.Request) error {
		if dryRun {
			log.InfoWithFields("dry run, skipping API call", map[string]interface{}{
				"handle": req.Handle,
				"kind":   string(req.Kind),
			})
			return nil
		}
		var actionErr error
		switch req.Kind {
		case scheduler.ActionBlock:
			_, actionErr = client.BlockUser(ctx, req.Handle)
		default:
			_, actionErr = client.FollowUser(ctx, req.Handle)
		}
		return actionErr
	}
	perform = retry.WrapPerformer(perform, cfg.Retry, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, batchErr := sched.RunBatch(ctx, requests, perform, max)

	// Everything attempted gets a ledger entry, even on interrupted runs.
	// Skipped requests stay out so they remain eligible next time.
	for _, detail := range result.Details {
		switch detail.Outcome.Status {
		case scheduler.Succeeded:
			tracker.RecordSuccess()
			if !quiet {
				tracker.PrintProgress(detail.Request.Handle)
			}
		case scheduler.Failed:
			tracker.RecordFailure()
		case scheduler.SkippedRateLimited:
			tracker.RecordSkip()
			continue
		}
		if dryRun {
			continue
		}
		if err := ledgerMgr.Record(led, detail.Request.Handle, string(detail.Request.Kind), string(detail.Outcome.Status)); err != nil {
			log.WithError(err).WithField("handle", detail.Request.Handle).Warn("failed to record ledger entry")
		}
	}

	kind := "follow"
	if len(requests) > 0 && requests[0].Kind == scheduler.ActionBlock {
		kind = "block"
	}
	if !quiet {
		tracker.PrintSummary(kind)
	}
	logger.LogBatchSummary(kind, result.Succeeded, result.Failed, result.Skipped, tracker.GetElapsedTime())

	if cfg.Notifications.Enabled && notifications && cfg.Notifications.OnComplete {
		notifier := ui.NewNotifier()
		notifier.SendSuccess("xfollower", fmt.Sprintf("%s batch done: %d succeeded, %d failed, %d skipped",
			kind, result.Succeeded, result.Failed, result.Skipped))
	}

	if batchErr != nil {
		if batchErr == context.Canceled || ctx.Err() != nil {
			ui.PrintWarning("Batch interrupted", fmt.Sprintf("%d actions completed before interrupt", result.Succeeded))
			return nil
		}
		return batchErr
	}
	return nil
}
