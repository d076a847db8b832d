// Package retry provides configurable retry logic with pluggable backoff
// strategies. WrapPerformer decorates an action performer so transient
// failures are retried with a fixed delay before they count as failures.
package retry
