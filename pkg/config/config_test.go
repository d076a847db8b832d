package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	// Test default values
	if config.Following.RateLimits.FollowsPerMinute != 15 {
		t.Errorf("Expected default follows per minute to be 15, got %d", config.Following.RateLimits.FollowsPerMinute)
	}

	if config.Following.RateLimits.FollowsPerDay != 400 {
		t.Errorf("Expected default follows per day to be 400, got %d", config.Following.RateLimits.FollowsPerDay)
	}

	if config.Following.RateLimits.DelayBetweenFollows != 4*time.Second {
		t.Errorf("Expected default delay to be 4s, got %s", config.Following.RateLimits.DelayBetweenFollows)
	}

	if config.Following.AccountsFile != "./accounts_to_follow.json" {
		t.Errorf("Expected default accounts file to be ./accounts_to_follow.json, got %s", config.Following.AccountsFile)
	}

	if config.Retry.MaxAttempts != 3 {
		t.Errorf("Expected default max attempts to be 3, got %d", config.Retry.MaxAttempts)
	}
}

func TestLoadFromEnv(t *testing.T) {
	// Set test environment variables
	os.Setenv("XFOLLOWER_AUTH_TOKEN", "test-auth-token")
	os.Setenv("XFOLLOWER_CSRF_TOKEN", "test-csrf-token")
	os.Setenv("XFOLLOWER_FOLLOWS_PER_MINUTE", "5")
	os.Setenv("XFOLLOWER_FOLLOWS_PER_DAY", "100")
	os.Setenv("XFOLLOWER_DELAY_BETWEEN_FOLLOWS", "10s")
	os.Setenv("XFOLLOWER_ACCOUNTS_FILE", "/tmp/test-candidates.json")
	os.Setenv("XFOLLOWER_NOTIFICATIONS_ENABLED", "false")
	os.Setenv("XFOLLOWER_LOG_LEVEL", "debug")

	defer func() {
		// Clean up environment variables
		os.Unsetenv("XFOLLOWER_AUTH_TOKEN")
		os.Unsetenv("XFOLLOWER_CSRF_TOKEN")
		os.Unsetenv("XFOLLOWER_FOLLOWS_PER_MINUTE")
		os.Unsetenv("XFOLLOWER_FOLLOWS_PER_DAY")
		os.Unsetenv("XFOLLOWER_DELAY_BETWEEN_FOLLOWS")
		os.Unsetenv("XFOLLOWER_ACCOUNTS_FILE")
		os.Unsetenv("XFOLLOWER_NOTIFICATIONS_ENABLED")
		os.Unsetenv("XFOLLOWER_LOG_LEVEL")
	}()

	config := DefaultConfig()
	err := config.LoadFromEnv()
	if err != nil {
		t.Fatalf("Failed to load from environment: %v", err)
	}

	// Test loaded values
	if config.Twitter.AuthToken != "test-auth-token" {
		t.Errorf("Expected auth token to be test-auth-token, got %s", config.Twitter.AuthToken)
	}

	if config.Twitter.CSRFToken != "test-csrf-token" {
		t.Errorf("Expected CSRF token to be test-csrf-token, got %s", config.Twitter.CSRFToken)
	}

	if config.Following.RateLimits.FollowsPerMinute != 5 {
		t.Errorf("Expected follows per minute to be 5, got %d", config.Following.RateLimits.FollowsPerMinute)
	}

	if config.Following.RateLimits.FollowsPerDay != 100 {
		t.Errorf("Expected follows per day to be 100, got %d", config.Following.RateLimits.FollowsPerDay)
	}

	if config.Following.RateLimits.DelayBetweenFollows != 10*time.Second {
		t.Errorf("Expected delay to be 10s, got %s", config.Following.RateLimits.DelayBetweenFollows)
	}

	if config.Following.AccountsFile != "/tmp/test-candidates.json" {
		t.Errorf("Expected accounts file to be /tmp/test-candidates.json, got %s", config.Following.AccountsFile)
	}

	if config.Notifications.Enabled != false {
		t.Errorf("Expected notifications to be disabled, got %v", config.Notifications.Enabled)
	}

	if config.Logging.Level != "debug" {
		t.Errorf("Expected log level to be debug, got %s", config.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `twitter:
  auth_token: "file-auth-token"
  csrf_token: "file-csrf-token"
following:
  rate_limits:
    follows_per_minute: 7
    follows_per_day: 200
    delay_between_follows: 6s
    jitter: 3s
  accounts_file: "./my_candidates.json"
retry:
  max_attempts: 5
  delay_on_error: 20s
logging:
  level: "warn"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	config := DefaultConfig()
	if err := config.LoadFromFile(configPath); err != nil {
		t.Fatalf("Failed to load config file: %v", err)
	}

	if config.Twitter.AuthToken != "file-auth-token" {
		t.Errorf("Expected auth token from file, got %s", config.Twitter.AuthToken)
	}
	if config.Following.RateLimits.FollowsPerMinute != 7 {
		t.Errorf("Expected follows per minute to be 7, got %d", config.Following.RateLimits.FollowsPerMinute)
	}
	if config.Following.RateLimits.Jitter != 3*time.Second {
		t.Errorf("Expected jitter to be 3s, got %s", config.Following.RateLimits.Jitter)
	}
	if config.Retry.MaxAttempts != 5 {
		t.Errorf("Expected max attempts to be 5, got %d", config.Retry.MaxAttempts)
	}
	if config.Logging.Level != "warn" {
		t.Errorf("Expected log level to be warn, got %s", config.Logging.Level)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	config := DefaultConfig()
	err := config.LoadFromFile(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err == nil {
		t.Error("Expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "zero follows per minute",
			modify:  func(c *Config) { c.Following.RateLimits.FollowsPerMinute = 0 },
			wantErr: true,
		},
		{
			name:    "zero follows per day",
			modify:  func(c *Config) { c.Following.RateLimits.FollowsPerDay = 0 },
			wantErr: true,
		},
		{
			name: "daily quota below minute quota",
			modify: func(c *Config) {
				c.Following.RateLimits.FollowsPerMinute = 20
				c.Following.RateLimits.FollowsPerDay = 10
			},
			wantErr: true,
		},
		{
			name:    "negative delay",
			modify:  func(c *Config) { c.Following.RateLimits.DelayBetweenFollows = -time.Second },
			wantErr: true,
		},
		{
			name:    "negative jitter",
			modify:  func(c *Config) { c.Following.RateLimits.Jitter = -time.Second },
			wantErr: true,
		},
		{
			name:    "empty accounts file",
			modify:  func(c *Config) { c.Following.AccountsFile = "" },
			wantErr: true,
		},
		{
			name:    "invalid log level",
			modify:  func(c *Config) { c.Logging.Level = "loud" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.modify(config)
			err := config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMergeCommandLineFlags(t *testing.T) {
	config := DefaultConfig()

	flags := map[string]interface{}{
		"auth-token":         "flag-auth-token",
		"follows-per-minute": 3,
		"follows-per-day":    50,
		"delay":              8 * time.Second,
		"max-attempts":       2,
		"log-level":          "error",
	}

	config.MergeCommandLineFlags(flags)

	if config.Twitter.AuthToken != "flag-auth-token" {
		t.Errorf("Expected auth token from flags, got %s", config.Twitter.AuthToken)
	}
	if config.Following.RateLimits.FollowsPerMinute != 3 {
		t.Errorf("Expected follows per minute to be 3, got %d", config.Following.RateLimits.FollowsPerMinute)
	}
	if config.Following.RateLimits.FollowsPerDay != 50 {
		t.Errorf("Expected follows per day to be 50, got %d", config.Following.RateLimits.FollowsPerDay)
	}
	if config.Following.RateLimits.DelayBetweenFollows != 8*time.Second {
		t.Errorf("Expected delay to be 8s, got %s", config.Following.RateLimits.DelayBetweenFollows)
	}
	if config.Retry.MaxAttempts != 2 {
		t.Errorf("Expected max attempts to be 2, got %d", config.Retry.MaxAttempts)
	}
	if config.Logging.Level != "error" {
		t.Errorf("Expected log level to be error, got %s", config.Logging.Level)
	}
}

func TestSaveAndReload(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "saved", "config.yaml")

	original := DefaultConfig()
	original.Following.RateLimits.FollowsPerMinute = 9
	original.Following.TargetsFile = "./custom_targets.json"

	if err := original.Save(configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	reloaded := DefaultConfig()
	if err := reloaded.LoadFromFile(configPath); err != nil {
		t.Fatalf("Failed to reload config: %v", err)
	}

	if reloaded.Following.RateLimits.FollowsPerMinute != 9 {
		t.Errorf("Expected reloaded follows per minute to be 9, got %d", reloaded.Following.RateLimits.FollowsPerMinute)
	}
	if reloaded.Following.TargetsFile != "./custom_targets.json" {
		t.Errorf("Expected reloaded targets file to be ./custom_targets.json, got %s", reloaded.Following.TargetsFile)
	}
}
