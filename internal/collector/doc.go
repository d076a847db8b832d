// Package collector harvests follower lists from target accounts with a
// small worker pool and filters them into follow candidates.
package collector
