package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"xfollower/pkg/errors"
	"xfollower/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRoundTripper allows us to intercept HTTP requests
type mockRoundTripper struct {
	handler func(req *http.Request) (*http.Response, error)
}

func (m *mockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := m.handler(req)
	if resp != nil && resp.Request == nil {
		// The real http.Transport sets Response.Request; mirror that so
		// code reading resp.Request does not see nil.
		resp.Request = req
	}
	return resp, err
}

func newResponse(statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
	}
}

// newTestClient creates a client whose transport serves canned responses
// keyed by URL path.
func newTestClient(t *testing.T, handler func(req *http.Request) (*http.Response, error)) *Client {
	t.Helper()

	client := NewClient(30*time.Second, logger.NewTestLogger())
	client.httpClient = &http.Client{
		Transport: &mockRoundTripper{handler: handler},
		Timeout:   30 * time.Second,
	}
	return client
}

func TestSetCredentials(t *testing.T) {
	var captured *http.Request
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		captured = req
		body, _ := json.Marshal(User{ScreenName: "alice"})
		return newResponse(http.StatusOK, string(body)), nil
	})
	client.SetCredentials("tok123", "csrf456", "TestAgent/1.0")

	_, err := client.FollowUser(context.Background(), "alice")
	require.NoError(t, err)
	require.NotNil(t, captured)

	assert.Contains(t, captured.Header.Get("Cookie"), "auth_token=tok123")
	assert.Contains(t, captured.Header.Get("Cookie"), "ct0=csrf456")
	assert.Equal(t, "csrf456", captured.Header.Get("x-csrf-token"))
	assert.Equal(t, "TestAgent/1.0", captured.Header.Get("User-Agent"))
}

func TestFollowUser(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, http.MethodPost, req.Method)
			assert.Contains(t, req.URL.Path, FollowEndpoint)
			assert.Equal(t, "alice", req.URL.Query().Get("screen_name"))

			body, _ := json.Marshal(User{ScreenName: "alice", Following: true})
			return newResponse(http.StatusOK, string(body)), nil
		})

		user, err := client.FollowUser(context.Background(), "alice")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.ScreenName)
		assert.True(t, user.Following)
	})

	t.Run("rate limited", func(t *testing.T) {
		client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
			return newResponse(http.StatusTooManyRequests, `{"errors":[{"code":88}]}`), nil
		})

		_, err := client.FollowUser(context.Background(), "alice")
		require.Error(t, err)

		apiErr, ok := err.(*errors.Error)
		require.True(t, ok)
		assert.Equal(t, errors.ErrorTypeRateLimit, apiErr.Type)
		assert.Equal(t, http.StatusTooManyRequests, apiErr.Code)
	})

	t.Run("auth failure", func(t *testing.T) {
		client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
			return newResponse(http.StatusUnauthorized, `{}`), nil
		})

		_, err := client.FollowUser(context.Background(), "alice")
		require.Error(t, err)

		apiErr, ok := err.(*errors.Error)
		require.True(t, ok)
		assert.Equal(t, errors.ErrorTypeAuth, apiErr.Type)
	})

	t.Run("user not found", func(t *testing.T) {
		client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
			return newResponse(http.StatusNotFound, `{}`), nil
		})

		_, err := client.FollowUser(context.Background(), "ghost")
		require.Error(t, err)

		apiErr, ok := err.(*errors.Error)
		require.True(t, ok)
		assert.Equal(t, errors.ErrorTypeNotFound, apiErr.Type)
		assert.False(t, errors.IsRetryable(apiErr.Type))
	})
}

func TestBlockUser(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, http.MethodPost, req.Method)
		assert.Contains(t, req.URL.Path, BlockEndpoint)

		body, _ := json.Marshal(User{ScreenName: "spammer"})
		return newResponse(http.StatusOK, string(body)), nil
	})

	user, err := client.BlockUser(context.Background(), "spammer")
	require.NoError(t, err)
	assert.Equal(t, "spammer", user.ScreenName)
}

func TestUnfollowUser(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, http.MethodPost, req.Method)
		assert.Contains(t, req.URL.Path, UnfollowEndpoint)

		body, _ := json.Marshal(User{ScreenName: "alice", Following: false})
		return newResponse(http.StatusOK, string(body)), nil
	})

	user, err := client.UnfollowUser(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.ScreenName)
	assert.False(t, user.Following)
}

func TestGetFollowers(t *testing.T) {
	t.Run("single page", func(t *testing.T) {
		client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, http.MethodGet, req.Method)
			assert.Contains(t, req.URL.Path, FollowersEndpoint)
			assert.Equal(t, "target", req.URL.Query().Get("screen_name"))

			page := FollowersPage{
				Users: []User{
					{ScreenName: "f1", FollowersCount: 100},
					{ScreenName: "f2", FollowersCount: 5},
				},
				NextCursorStr: "0",
			}
			body, _ := json.Marshal(page)
			return newResponse(http.StatusOK, string(body)), nil
		})

		page, err := client.GetFollowers(context.Background(), "target", "", 100)
		require.NoError(t, err)
		assert.Len(t, page.Users, 2)
		assert.False(t, page.HasMore())
	})

	t.Run("cursor forwarded", func(t *testing.T) {
		client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "1655...", req.URL.Query().Get("cursor"))
			body, _ := json.Marshal(FollowersPage{NextCursorStr: "999"})
			return newResponse(http.StatusOK, string(body)), nil
		})

		page, err := client.GetFollowers(context.Background(), "target", "1655...", 100)
		require.NoError(t, err)
		assert.True(t, page.HasMore())
	})

	t.Run("malformed response", func(t *testing.T) {
		client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
			return newResponse(http.StatusOK, "<html>sign in</html>"), nil
		})

		_, err := client.GetFollowers(context.Background(), "target", "", 100)
		require.Error(t, err)

		apiErr, ok := err.(*errors.Error)
		require.True(t, ok)
		assert.Equal(t, errors.ErrorTypeParsing, apiErr.Type)
	})
}

func TestContextCancellation(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		<-req.Context().Done()
		return nil, req.Context().Err()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := client.FollowUser(ctx, "alice")
	require.Error(t, err)

	apiErr, ok := err.(*errors.Error)
	require.True(t, ok)
	assert.Equal(t, errors.ErrorTypeNetwork, apiErr.Type)
	assert.True(t, strings.Contains(apiErr.Message, "network error"))
}
