package twitter

import (
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetFollowURL(t *testing.T) {
	tests := []struct {
		name       string
		screenName string
	}{
		{
			name:       "simple handle",
			screenName: "someuser",
		},
		{
			name:       "handle with underscore",
			screenName: "some_user",
		},
		{
			name:       "handle with digits",
			screenName: "user1234",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GetFollowURL(tt.screenName)
			expected := fmt.Sprintf("%s%s?follow=true&screen_name=%s", BaseURL, FollowEndpoint, tt.screenName)
			assert.Equal(t, expected, result)

			parsed, err := url.Parse(result)
			assert.NoError(t, err)
			assert.Equal(t, tt.screenName, parsed.Query().Get("screen_name"))
		})
	}
}

func TestGetUnfollowURL(t *testing.T) {
	result := GetUnfollowURL("someuser")
	expected := fmt.Sprintf("%s%s?screen_name=someuser", BaseURL, UnfollowEndpoint)
	assert.Equal(t, expected, result)
}

func TestGetBlockURL(t *testing.T) {
	result := GetBlockURL("spammer")
	expected := fmt.Sprintf("%s%s?screen_name=spammer", BaseURL, BlockEndpoint)
	assert.Equal(t, expected, result)
}

func TestGetFollowersURL(t *testing.T) {
	tests := []struct {
		name          string
		screenName    string
		cursor        string
		limit         int
		expectedCount string
		expectCursor  bool
	}{
		{
			name:          "first page with default limit",
			screenName:    "someuser",
			cursor:        "",
			limit:         0,
			expectedCount: "100",
			expectCursor:  false,
		},
		{
			name:          "explicit limit",
			screenName:    "someuser",
			cursor:        "",
			limit:         50,
			expectedCount: "50",
			expectCursor:  false,
		},
		{
			name:          "limit clamped to maximum",
			screenName:    "someuser",
			cursor:        "",
			limit:         500,
			expectedCount: "200",
			expectCursor:  false,
		},
		{
			name:          "subsequent page with cursor",
			screenName:    "someuser",
			cursor:        "1234567890",
			limit:         100,
			expectedCount: "100",
			expectCursor:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GetFollowersURL(tt.screenName, tt.cursor, tt.limit)

			parsed, err := url.Parse(result)
			assert.NoError(t, err)

			query := parsed.Query()
			assert.Equal(t, tt.screenName, query.Get("screen_name"))
			assert.Equal(t, tt.expectedCount, query.Get("count"))
			assert.Equal(t, "true", query.Get("skip_status"))
			assert.Equal(t, "false", query.Get("include_user_entities"))
			if tt.expectCursor {
				assert.Equal(t, tt.cursor, query.Get("cursor"))
			} else {
				assert.Empty(t, query.Get("cursor"))
			}
		})
	}
}

func TestFollowersPageHasMore(t *testing.T) {
	tests := []struct {
		name   string
		cursor string
		want   bool
	}{
		{"more pages", "1234567890", true},
		{"terminal cursor", "0", false},
		{"empty cursor", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := &FollowersPage{NextCursorStr: tt.cursor}
			assert.Equal(t, tt.want, page.HasMore())
		})
	}
}
