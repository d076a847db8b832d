// Package twitter implements a minimal X API client for the follow, block
// and follower-listing endpoints, authenticated with session cookies.
package twitter
