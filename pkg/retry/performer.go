package retry

import (
	"context"

	"xfollower/pkg/config"
	"xfollower/pkg/logger"
	"xfollower/pkg/scheduler"
)

// WrapPerformer decorates a scheduler performer with retry logic. The
// scheduler itself never retries; a request it hands out is attempted up
// to MaxAttempts times here, with a fixed delay between attempts, before
// the failure is reported back. Non-retryable errors (auth, not found)
// fail immediately.
func WrapPerformer(perform scheduler.Performer, cfg config.RetryConfig, log logger.Logger) scheduler.Performer {
	if cfg.MaxAttempts <= 1 {
		return perform
	}

	retryCfg := &Config{
		MaxAttempts: cfg.MaxAttempts,
		Backoff:     &ConstantBackoff{Delay: cfg.DelayOnError},
		RetryIf:     DefaultRetryIf,
		Logger:      log,
	}

	return func(ctx context.Context, req scheduler.Request) error {
		return Do(ctx, func(ctx context.Context) error {
			return perform(ctx, req)
		}, retryCfg)
	}
}
