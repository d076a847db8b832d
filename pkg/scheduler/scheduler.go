package scheduler

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"xfollower/pkg/logger"
)

// minuteWaitBuffer is added on top of the computed wait so the window has
// definitely rolled over when the check re-runs.
const minuteWaitBuffer = time.Second

// ActionKind identifies the kind of action a request represents
type ActionKind string

const (
	ActionFollow ActionKind = "follow"
	ActionBlock  ActionKind = "block"
)

// Request is a single unit of work: an account handle and what to do with it.
// Requests are immutable once created; the scheduler only reads them.
type Request struct {
	Handle string
	Kind   ActionKind
}

// OutcomeStatus classifies the result of attempting one request
type OutcomeStatus string

const (
	// Succeeded means the performer completed the action
	Succeeded OutcomeStatus = "succeeded"
	// Failed means the performer reported an error; failed attempts do not
	// consume quota
	Failed OutcomeStatus = "failed"
	// SkippedRateLimited means the request was never attempted because the
	// daily quota was exhausted
	SkippedRateLimited OutcomeStatus = "skipped_rate_limited"
)

// Outcome is the result of attempting one request
type Outcome struct {
	Status OutcomeStatus
	Err    error
}

// RequestOutcome pairs a request with its outcome for batch reporting.
// Callers use these records to persist which handles have been processed.
type RequestOutcome struct {
	Request Request
	Outcome Outcome
}

// BatchResult is the aggregate accounting for one RunBatch invocation
type BatchResult struct {
	Succeeded int
	Failed    int
	Skipped   int
	Details   []RequestOutcome
}

// Performer executes the actual follow/block action for one request. It is
// opaque to the scheduler: it may take seconds to minutes and may fail for
// network, authentication or target-not-found reasons. Retry on failure is
// the performer's own business (see the retry package), never the
// scheduler's.
type Performer func(ctx context.Context, req Request) error

// Quotas holds the static rate limit configuration for a scheduler instance
type Quotas struct {
	// PerMinute is the maximum number of successful actions per minute window
	PerMinute int
	// PerDay is the maximum number of successful actions per calendar day
	PerDay int
	// MinDelay is the minimum spacing between consecutive actions
	MinDelay time.Duration
	// Jitter is the upper bound of the random addition to MinDelay. Jitter
	// is not cosmetic: a fixed delay is trivially fingerprinted by
	// anti-automation defenses.
	Jitter time.Duration
}

// Validate checks the quota configuration. Running with broken throttling
// parameters risks violating the target service's limits, so this fails
// instead of defaulting.
func (q Quotas) Validate() error {
	var errs []error

	if q.PerMinute <= 0 {
		errs = append(errs, errors.New("per-minute quota must be positive"))
	}
	if q.PerDay <= 0 {
		errs = append(errs, errors.New("per-day quota must be positive"))
	}
	if q.MinDelay < 0 {
		errs = append(errs, errors.New("minimum delay cannot be negative"))
	}
	if q.Jitter < 0 {
		errs = append(errs, errors.New("jitter cannot be negative"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// windowState tracks consumption against the quotas. Counters reset when
// their window rolls over; only successful actions are counted.
type windowState struct {
	actionsToday      int
	actionsThisMinute int
	dayWindowEnd      time.Time
	minuteWindowEnd   time.Time
	lastActionAt      time.Time
}

// Snapshot is a read-only view of the scheduler's current state
type Snapshot struct {
	ActionsToday      int
	ActionsThisMinute int
	DayWindowEnd      time.Time
	MinuteWindowEnd   time.Time
	LastActionAt      time.Time
	Quotas            Quotas
}

// Scheduler throttles a stream of follow/block actions against the
// configured quotas. Actions are strictly serialized: the underlying
// performer is assumed to drive a single shared session that cannot handle
// concurrent calls.
//
// A Scheduler is constructed explicitly and passed to its callers; there is
// no package-level instance.
type Scheduler struct {
	quotas Quotas
	clock  Clock
	rng    *rand.Rand
	log    logger.Logger

	mu    sync.Mutex
	state windowState
}

// New creates a scheduler with the given quotas. A nil clock selects the
// system clock; a nil log selects the global logger.
func New(quotas Quotas, clock Clock, log logger.Logger) (*Scheduler, error) {
	if err := quotas.Validate(); err != nil {
		return nil, fmt.Errorf("invalid quota configuration: %w", err)
	}

	if clock == nil {
		clock = NewSystemClock()
	}
	if log == nil {
		log = logger.GetLogger()
	}

	return &Scheduler{
		quotas: quotas,
		clock:  clock,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		log:    log,
	}, nil
}

// RunBatch attempts each request in order, waiting out rate-limit windows
// and spacing delays between actions. maxToProcess caps the number of
// *successful* actions; zero or negative means unbounded.
//
// Individual action failures never abort the batch: they are recorded in
// the result and the batch moves on. The batch ends early only when the
// success cap is reached, the daily quota is exhausted (remaining requests
// are reported as skipped, without waiting), or the context is cancelled.
func (s *Scheduler) RunBatch(ctx context.Context, requests []Request, perform Performer, maxToProcess int) (BatchResult, error) {
	var result BatchResult
	if len(requests) == 0 {
		return result, nil
	}
	if perform == nil {
		return result, errors.New("performer is required")
	}

	s.log.InfoWithFields("starting batch", map[string]interface{}{
		"requests":       len(requests),
		"max_to_process": maxToProcess,
	})

	for i, req := range requests {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		admitted, err := s.waitForAdmission(ctx)
		if err != nil {
			return result, err
		}
		if !admitted {
			// Daily cap is a hard stop: everything left is skipped,
			// with no waiting attempted.
			s.log.WarnWithFields("daily quota exhausted", map[string]interface{}{
				"limit": s.quotas.PerDay,
			})
			for _, skipped := range requests[i:] {
				result.Skipped++
				result.Details = append(result.Details, RequestOutcome{
					Request: skipped,
					Outcome: Outcome{Status: SkippedRateLimited},
				})
			}
			break
		}

		if err := s.waitSpacing(ctx); err != nil {
			return result, err
		}

		actionErr := perform(ctx, req)
		if actionErr != nil {
			result.Failed++
			result.Details = append(result.Details, RequestOutcome{
				Request: req,
				Outcome: Outcome{Status: Failed, Err: actionErr},
			})
			s.log.WarnWithFields("action failed", map[string]interface{}{
				"handle": req.Handle,
				"kind":   string(req.Kind),
				"error":  actionErr.Error(),
			})
			continue
		}

		s.recordSuccess()
		result.Succeeded++
		result.Details = append(result.Details, RequestOutcome{
			Request: req,
			Outcome: Outcome{Status: Succeeded},
		})
		s.log.InfoWithFields("action completed", map[string]interface{}{
			"handle": req.Handle,
			"kind":   string(req.Kind),
		})

		if maxToProcess > 0 && result.Succeeded >= maxToProcess {
			s.log.InfoWithFields("success cap reached", map[string]interface{}{
				"max_to_process": maxToProcess,
			})
			break
		}
	}

	return result, nil
}

// waitForAdmission blocks until an action may proceed without violating a
// quota. It returns false when the daily quota is exhausted, which is
// terminal for the run. The minute-window wait re-checks in a loop rather
// than recursing: windows may roll over while waiting.
func (s *Scheduler) waitForAdmission(ctx context.Context) (bool, error) {
	for {
		s.mu.Lock()
		now := s.clock.Now()
		s.rollWindows(now)

		if s.state.actionsToday >= s.quotas.PerDay {
			s.mu.Unlock()
			return false, nil
		}

		if s.state.actionsThisMinute >= s.quotas.PerMinute {
			wait := s.state.minuteWindowEnd.Sub(now) + minuteWaitBuffer
			s.mu.Unlock()

			s.log.InfoWithFields("rate limit window full, waiting", map[string]interface{}{
				"scope":        "minute",
				"wait_seconds": wait.Seconds(),
			})
			if err := s.clock.Sleep(ctx, wait); err != nil {
				return false, err
			}
			continue
		}

		s.mu.Unlock()
		return true, nil
	}
}

// rollWindows resets counters whose windows have elapsed. The daily window
// ends at the next local midnight; the minute window ends 60 seconds after
// it opens. Callers must hold s.mu.
func (s *Scheduler) rollWindows(now time.Time) {
	if s.state.dayWindowEnd.IsZero() || !now.Before(s.state.dayWindowEnd) {
		s.state.actionsToday = 0
		year, month, day := now.Date()
		s.state.dayWindowEnd = time.Date(year, month, day+1, 0, 0, 0, 0, now.Location())
	}

	if s.state.minuteWindowEnd.IsZero() || !now.Before(s.state.minuteWindowEnd) {
		s.state.actionsThisMinute = 0
		s.state.minuteWindowEnd = now.Add(time.Minute)
	}
}

// waitSpacing enforces the minimum delay, plus jitter, since the previous
// successful action.
func (s *Scheduler) waitSpacing(ctx context.Context) error {
	s.mu.Lock()
	last := s.state.lastActionAt
	s.mu.Unlock()

	if last.IsZero() {
		return nil
	}

	target := s.quotas.MinDelay
	if s.quotas.Jitter > 0 {
		target += time.Duration(s.rng.Float64() * float64(s.quotas.Jitter))
	}

	elapsed := s.clock.Now().Sub(last)
	if elapsed >= target {
		return nil
	}

	wait := target - elapsed
	s.log.DebugWithFields("waiting before next action", map[string]interface{}{
		"wait_seconds": wait.Seconds(),
	})
	return s.clock.Sleep(ctx, wait)
}

// recordSuccess advances the quota counters. Only called after the
// performer succeeded: failures must not consume quota.
func (s *Scheduler) recordSuccess() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.actionsToday++
	s.state.actionsThisMinute++
	s.state.lastActionAt = s.clock.Now()
}

// Status returns a snapshot of the current counters and the static quota
// configuration. Pure read; calling it repeatedly with no intervening
// action returns identical snapshots.
func (s *Scheduler) Status() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		ActionsToday:      s.state.actionsToday,
		ActionsThisMinute: s.state.actionsThisMinute,
		DayWindowEnd:      s.state.dayWindowEnd,
		MinuteWindowEnd:   s.state.minuteWindowEnd,
		LastActionAt:      s.state.lastActionAt,
		Quotas:            s.quotas,
	}
}
