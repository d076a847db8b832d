package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"xfollower/pkg/accounts"
	"xfollower/pkg/logger"
	"xfollower/pkg/twitter"
)

// Job is one target account whose followers should be harvested
type Job struct {
	Target accounts.Target
}

// Result holds the eligible candidates harvested from one target
type Result struct {
	Job        Job
	Candidates []accounts.Candidate
	Error      error
	Duration   time.Duration
}

// FollowerFetcher fetches follower pages for a target account
type FollowerFetcher interface {
	GetFollowers(ctx context.Context, screenName, cursor string, limit int) (*twitter.FollowersPage, error)
}

// WorkerPool harvests followers from several target accounts concurrently.
// Harvesting is read traffic and does not go through the action scheduler;
// each worker fetches, filters and emits candidates for one target at a
// time.
type WorkerPool struct {
	numWorkers  int
	jobQueue    chan Job
	resultQueue chan Result
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	fetcher     FollowerFetcher
	logger      logger.Logger
}

// NewWorkerPool creates a new follower collection pool
func NewWorkerPool(numWorkers int, fetcher FollowerFetcher, log logger.Logger) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())

	if numWorkers <= 0 {
		numWorkers = 2
	}
	if log == nil {
		log = logger.GetLogger()
	}

	return &WorkerPool{
		numWorkers:  numWorkers,
		jobQueue:    make(chan Job, numWorkers*2),
		resultQueue: make(chan Result, numWorkers),
		ctx:         ctx,
		cancel:      cancel,
		fetcher:     fetcher,
		logger:      log,
	}
}

// Start initializes and starts all workers
func (wp *WorkerPool) Start() {
	wp.logger.InfoWithFields("starting collector pool", map[string]interface{}{
		"num_workers": wp.numWorkers,
	})

	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop gracefully shuts down the pool after all submitted jobs finish
func (wp *WorkerPool) Stop() {
	close(wp.jobQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
	wp.cancel()

	wp.logger.Info("collector pool stopped")
}

// Submit adds a target to the harvest queue
func (wp *WorkerPool) Submit(job Job) error {
	select {
	case wp.jobQueue <- job:
		wp.logger.DebugWithFields("target submitted", map[string]interface{}{
			"target": job.Target.Handle,
		})
		return nil
	case <-wp.ctx.Done():
		return fmt.Errorf("collector pool is shutting down")
	}
}

// Results returns the result channel for consuming harvested candidates
func (wp *WorkerPool) Results() <-chan Result {
	return wp.resultQueue
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for job := range wp.jobQueue {
		select {
		case <-wp.ctx.Done():
			return
		default:
		}

		result := wp.processJob(job, id)

		select {
		case wp.resultQueue <- result:
		case <-wp.ctx.Done():
			return
		}
	}
}

// processJob pages through a target's followers until MaxFollowers
// candidates pass the eligibility filters or the listing is exhausted.
func (wp *WorkerPool) processJob(job Job, workerID int) Result {
	start := time.Now()
	target := job.Target
	result := Result{Job: job}

	wp.logger.DebugWithFields("harvesting followers", map[string]interface{}{
		"worker_id": workerID,
		"target":    target.Handle,
		"max":       target.MaxFollowers,
	})

	cursor := ""
	for len(result.Candidates) < target.MaxFollowers {
		page, err := wp.fetcher.GetFollowers(wp.ctx, target.Handle, cursor, twitter.DefaultFollowersLimit)
		if err != nil {
			// Keep what was harvested before the error.
			result.Error = fmt.Errorf("fetching followers of @%s: %w", target.Handle, err)
			break
		}

		for _, user := range page.Users {
			if !Eligible(user, target) {
				continue
			}
			result.Candidates = append(result.Candidates, accounts.Candidate{
				Handle:         user.ScreenName,
				Name:           user.Name,
				SourceAccount:  target.Handle,
				FollowersCount: user.FollowersCount,
				FollowingCount: user.FriendsCount,
				Verified:       user.IsVerified(),
			})
			if len(result.Candidates) >= target.MaxFollowers {
				break
			}
		}

		if !page.HasMore() {
			break
		}
		cursor = page.NextCursorStr
	}

	result.Duration = time.Since(start)

	wp.logger.InfoWithFields("target harvested", map[string]interface{}{
		"worker_id":  workerID,
		"target":     target.Handle,
		"candidates": len(result.Candidates),
		"duration":   result.Duration,
	})

	return result
}

// Eligible applies a target's candidate filters to a follower. Protected
// accounts are always skipped: follow requests to them need approval and
// linger as pending.
func Eligible(user twitter.User, target accounts.Target) bool {
	if user.Protected {
		return false
	}
	if user.Following {
		return false
	}
	if target.VerifiedOnly && !user.IsVerified() {
		return false
	}
	if user.FollowersCount < target.MinFollowersCount {
		return false
	}
	if user.FriendsCount > target.MaxFollowingCount {
		return false
	}
	return true
}
