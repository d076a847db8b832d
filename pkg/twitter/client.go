package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"xfollower/pkg/errors"
	"xfollower/pkg/logger"
)

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36"

// Client is an X API client authenticated with session cookies. All
// requests take a context; a single client drives one logged-in session
// and is safe for serialized use.
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	baseURL    string
	logger     logger.Logger
}

// NewClient creates a new X API client
func NewClient(timeout time.Duration, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		headers: map[string]string{
			"User-Agent":      defaultUserAgent,
			"Accept":          "application/json",
			"Accept-Language": "en-US,en;q=0.9",
			"Cache-Control":   "no-cache",
			"Pragma":          "no-cache",
		},
		baseURL: BaseURL,
		logger:  log,
	}
}

// SetCredentials installs the session cookies and CSRF header for an
// authenticated session. The ct0 cookie value must match the
// x-csrf-token header or the API rejects the request.
func (c *Client) SetCredentials(authToken, csrfToken, userAgent string) {
	c.headers["Cookie"] = fmt.Sprintf("auth_token=%s; ct0=%s", authToken, csrfToken)
	c.headers["x-csrf-token"] = csrfToken
	if userAgent != "" {
		c.headers["User-Agent"] = userAgent
	}
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// doRequest performs an HTTP request with the configured headers
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, errors.New(errors.ErrorTypeNetwork, fmt.Sprintf("network error: %v", err), 0)
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":   req.Method,
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}

// getJSON performs a GET request and decodes the JSON response
func (c *Client) getJSON(ctx context.Context, url string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.New(errors.ErrorTypeUnknown, fmt.Sprintf("failed to create request: %v", err), 0)
	}

	resp, err := c.doRequest(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.New(errors.ErrorTypeNetwork, fmt.Sprintf("failed to read response body: %v", err), resp.StatusCode)
	}

	if err := json.Unmarshal(body, target); err != nil {
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}

		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          url,
			"status":       resp.StatusCode,
			"error":        err.Error(),
			"body_preview": bodyPreview,
		})
		return errors.New(errors.ErrorTypeParsing, fmt.Sprintf("failed to parse JSON: %v", err), resp.StatusCode)
	}

	return nil
}

// postJSON performs a POST request and decodes the JSON response
func (c *Client) postJSON(ctx context.Context, url string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return errors.New(errors.ErrorTypeUnknown, fmt.Sprintf("failed to create request: %v", err), 0)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.doRequest(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		return err
	}

	if target == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return errors.New(errors.ErrorTypeParsing, fmt.Sprintf("failed to parse JSON: %v", err), resp.StatusCode)
	}

	return nil
}

// checkResponseStatus maps HTTP status codes to typed errors
func (c *Client) checkResponseStatus(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized, http.StatusForbidden:
		c.logger.WarnWithFields("authentication error", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return errors.New(errors.ErrorTypeAuth, "authentication required", resp.StatusCode)
	case http.StatusNotFound:
		c.logger.WarnWithFields("resource not found", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return errors.New(errors.ErrorTypeNotFound, "resource not found", resp.StatusCode)
	case http.StatusTooManyRequests:
		c.logger.WarnWithFields("rate limit exceeded", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return errors.New(errors.ErrorTypeRateLimit, "rate limit exceeded", resp.StatusCode)
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		c.logger.ErrorWithFields("server error", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return errors.New(errors.ErrorTypeServerError, "server error", resp.StatusCode)
	default:
		if resp.StatusCode >= 400 {
			c.logger.ErrorWithFields("unexpected API error", map[string]interface{}{
				"status": resp.StatusCode,
				"url":    resp.Request.URL.String(),
			})
			return errors.New(errors.ErrorTypeUnknown, fmt.Sprintf("unexpected status code: %d", resp.StatusCode), resp.StatusCode)
		}
		return nil
	}
}

// FollowUser follows the given account
func (c *Client) FollowUser(ctx context.Context, screenName string) (*User, error) {
	c.logger.DebugWithFields("following user", map[string]interface{}{
		"screen_name": screenName,
	})

	var user User
	if err := c.postJSON(ctx, GetFollowURL(screenName), &user); err != nil {
		c.logger.ErrorWithFields("failed to follow user", map[string]interface{}{
			"screen_name": screenName,
			"error":       err.Error(),
		})
		return nil, err
	}

	return &user, nil
}

// UnfollowUser unfollows the given account
func (c *Client) UnfollowUser(ctx context.Context, screenName string) (*User, error) {
	c.logger.DebugWithFields("unfollowing user", map[string]interface{}{
		"screen_name": screenName,
	})

	var user User
	if err := c.postJSON(ctx, GetUnfollowURL(screenName), &user); err != nil {
		c.logger.ErrorWithFields("failed to unfollow user", map[string]interface{}{
			"screen_name": screenName,
			"error":       err.Error(),
		})
		return nil, err
	}

	return &user, nil
}

// BlockUser blocks the given account
func (c *Client) BlockUser(ctx context.Context, screenName string) (*User, error) {
	c.logger.DebugWithFields("blocking user", map[string]interface{}{
		"screen_name": screenName,
	})

	var user User
	if err := c.postJSON(ctx, GetBlockURL(screenName), &user); err != nil {
		c.logger.ErrorWithFields("failed to block user", map[string]interface{}{
			"screen_name": screenName,
			"error":       err.Error(),
		})
		return nil, err
	}

	return &user, nil
}

// GetFollowers fetches one page of an account's followers
func (c *Client) GetFollowers(ctx context.Context, screenName, cursor string, limit int) (*FollowersPage, error) {
	url := GetFollowersURL(screenName, cursor, limit)

	c.logger.DebugWithFields("fetching followers", map[string]interface{}{
		"screen_name": screenName,
		"cursor":      cursor,
	})

	var page FollowersPage
	if err := c.getJSON(ctx, url, &page); err != nil {
		c.logger.ErrorWithFields("failed to fetch followers", map[string]interface{}{
			"screen_name": screenName,
			"cursor":      cursor,
			"error":       err.Error(),
		})
		return nil, err
	}

	c.logger.DebugWithFields("fetched followers page", map[string]interface{}{
		"screen_name": screenName,
		"users":       len(page.Users),
		"next_cursor": page.NextCursorStr,
	})

	return &page, nil
}
