package twitter

import (
	"fmt"
	"net/url"
)

const (
	// BaseURL is the base URL for the X API
	BaseURL = "https://api.x.com"

	// FollowEndpoint creates a friendship with a user
	FollowEndpoint = "/1.1/friendships/create.json"

	// UnfollowEndpoint destroys a friendship with a user
	UnfollowEndpoint = "/1.1/friendships/destroy.json"

	// BlockEndpoint blocks a user
	BlockEndpoint = "/1.1/blocks/create.json"

	// FollowersEndpoint lists a user's followers
	FollowersEndpoint = "/1.1/followers/list.json"

	// DefaultFollowersLimit is the default page size for follower listings
	DefaultFollowersLimit = 100

	// MaxFollowersLimit is the maximum page size the API accepts
	MaxFollowersLimit = 200
)

// GetFollowURL constructs the URL for following a user
func GetFollowURL(screenName string) string {
	params := url.Values{}
	params.Set("screen_name", screenName)
	params.Set("follow", "true")

	return fmt.Sprintf("%s%s?%s", BaseURL, FollowEndpoint, params.Encode())
}

// GetUnfollowURL constructs the URL for unfollowing a user
func GetUnfollowURL(screenName string) string {
	params := url.Values{}
	params.Set("screen_name", screenName)

	return fmt.Sprintf("%s%s?%s", BaseURL, UnfollowEndpoint, params.Encode())
}

// GetBlockURL constructs the URL for blocking a user
func GetBlockURL(screenName string) string {
	params := url.Values{}
	params.Set("screen_name", screenName)

	return fmt.Sprintf("%s%s?%s", BaseURL, BlockEndpoint, params.Encode())
}

// GetFollowersURL constructs the URL for listing a user's followers with
// cursor pagination
func GetFollowersURL(screenName, cursor string, limit int) string {
	if limit <= 0 {
		limit = DefaultFollowersLimit
	} else if limit > MaxFollowersLimit {
		limit = MaxFollowersLimit
	}

	params := url.Values{}
	params.Set("screen_name", screenName)
	params.Set("count", fmt.Sprintf("%d", limit))
	params.Set("skip_status", "true")
	params.Set("include_user_entities", "false")
	if cursor != "" {
		params.Set("cursor", cursor)
	}

	return fmt.Sprintf("%s%s?%s", BaseURL, FollowersEndpoint, params.Encode())
}
