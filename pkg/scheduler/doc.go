// Package scheduler throttles follow and block actions against per-minute
// and per-day quotas with jittered spacing between actions.
//
// The scheduler decides WHEN an action may run; what the action does is
// supplied by the caller as a Performer. Only successful actions consume
// quota. When the per-minute quota is full the scheduler waits for the
// window to roll over; when the per-day quota is exhausted the remaining
// requests of the batch are skipped without waiting.
//
// Time is abstracted behind the Clock interface so tests can drive batches
// through simulated hours without real sleeping.
package scheduler
