package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the follower automation tool
type Config struct {
	// Twitter credentials
	Twitter TwitterConfig `yaml:"twitter" json:"twitter"`

	// Following configuration (quotas, candidate files)
	Following FollowingConfig `yaml:"following" json:"following"`

	// Blocking configuration
	Blocking BlockingConfig `yaml:"blocking" json:"blocking"`

	// Retry behavior for individual follow/block actions
	Retry RetryConfig `yaml:"retry" json:"retry"`

	// Notification preferences
	Notifications NotificationConfig `yaml:"notifications" json:"notifications"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// TwitterConfig holds Twitter-specific configuration
type TwitterConfig struct {
	AuthToken string `yaml:"auth_token" json:"auth_token"`
	CSRFToken string `yaml:"csrf_token" json:"csrf_token"`
	UserAgent string `yaml:"user_agent" json:"user_agent"`
}

// RateLimitConfig holds the client-side rate limits for follow/block actions.
// These are deliberately conservative: exceeding the platform's real limits
// risks account suspension.
type RateLimitConfig struct {
	FollowsPerMinute    int           `yaml:"follows_per_minute" json:"follows_per_minute"`
	FollowsPerDay       int           `yaml:"follows_per_day" json:"follows_per_day"`
	DelayBetweenFollows time.Duration `yaml:"delay_between_follows" json:"delay_between_follows"`
	Jitter              time.Duration `yaml:"jitter" json:"jitter"`
}

// FollowingConfig holds candidate sources and rate limits for following
type FollowingConfig struct {
	RateLimits   RateLimitConfig `yaml:"rate_limits" json:"rate_limits"`
	AccountsFile string          `yaml:"accounts_file" json:"accounts_file"`
	TargetsFile  string          `yaml:"targets_file" json:"targets_file"`
}

// BlockingConfig holds the blocklist source; block actions share the
// following rate limits
type BlockingConfig struct {
	BlocklistFile string `yaml:"blocklist_file" json:"blocklist_file"`
}

// RetryConfig holds retry configuration for individual actions
type RetryConfig struct {
	MaxAttempts  int           `yaml:"max_attempts" json:"max_attempts"`
	DelayOnError time.Duration `yaml:"delay_on_error" json:"delay_on_error"`
}

// NotificationConfig holds notification preferences
type NotificationConfig struct {
	Enabled     bool `yaml:"enabled" json:"enabled"`
	OnComplete  bool `yaml:"on_complete" json:"on_complete"`
	OnError     bool `yaml:"on_error" json:"on_error"`
	OnRateLimit bool `yaml:"on_rate_limit" json:"on_rate_limit"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Twitter: TwitterConfig{
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
		},
		Following: FollowingConfig{
			RateLimits: RateLimitConfig{
				FollowsPerMinute:    15,
				FollowsPerDay:       400,
				DelayBetweenFollows: 4 * time.Second,
				Jitter:              2 * time.Second,
			},
			AccountsFile: "./accounts_to_follow.json",
			TargetsFile:  "./target_accounts.json",
		},
		Blocking: BlockingConfig{
			BlocklistFile: "./accounts_to_block.json",
		},
		Retry: RetryConfig{
			MaxAttempts:  3,
			DelayOnError: 10 * time.Second,
		},
		Notifications: NotificationConfig{
			Enabled:     true,
			OnComplete:  true,
			OnError:     true,
			OnRateLimit: true,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	// Twitter credentials
	if authToken := os.Getenv("XFOLLOWER_AUTH_TOKEN"); authToken != "" {
		c.Twitter.AuthToken = authToken
	}
	if csrfToken := os.Getenv("XFOLLOWER_CSRF_TOKEN"); csrfToken != "" {
		c.Twitter.CSRFToken = csrfToken
	}
	if userAgent := os.Getenv("XFOLLOWER_USER_AGENT"); userAgent != "" {
		c.Twitter.UserAgent = userAgent
	}

	// Rate limiting
	if fpm := os.Getenv("XFOLLOWER_FOLLOWS_PER_MINUTE"); fpm != "" {
		var val int
		fmt.Sscanf(fpm, "%d", &val)
		if val > 0 {
			c.Following.RateLimits.FollowsPerMinute = val
		}
	}
	if fpd := os.Getenv("XFOLLOWER_FOLLOWS_PER_DAY"); fpd != "" {
		var val int
		fmt.Sscanf(fpd, "%d", &val)
		if val > 0 {
			c.Following.RateLimits.FollowsPerDay = val
		}
	}
	if delay := os.Getenv("XFOLLOWER_DELAY_BETWEEN_FOLLOWS"); delay != "" {
		if d, err := time.ParseDuration(delay); err == nil && d >= 0 {
			c.Following.RateLimits.DelayBetweenFollows = d
		}
	}

	// Candidate files
	if accountsFile := os.Getenv("XFOLLOWER_ACCOUNTS_FILE"); accountsFile != "" {
		c.Following.AccountsFile = accountsFile
	}
	if targetsFile := os.Getenv("XFOLLOWER_TARGETS_FILE"); targetsFile != "" {
		c.Following.TargetsFile = targetsFile
	}

	// Notifications
	if notifEnabled := os.Getenv("XFOLLOWER_NOTIFICATIONS_ENABLED"); notifEnabled != "" {
		c.Notifications.Enabled = strings.ToLower(notifEnabled) == "true"
	}

	// Logging level
	if logLevel := os.Getenv("XFOLLOWER_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	// Check in order of precedence
	locations := []string{
		".xfollower.yaml",
		".xfollower.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "xfollower", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "xfollower", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".xfollower.yaml"),
		filepath.Join(os.Getenv("HOME"), ".xfollower.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid. Rate-limit validation is
// strict on purpose: running with broken throttling parameters is worse than
// not running at all.
func (c *Config) Validate() error {
	var errs []error

	// Validate rate limiting
	rl := c.Following.RateLimits
	if rl.FollowsPerMinute <= 0 {
		errs = append(errs, errors.New("follows per minute must be positive"))
	}
	if rl.FollowsPerDay <= 0 {
		errs = append(errs, errors.New("follows per day must be positive"))
	}
	if rl.FollowsPerDay < rl.FollowsPerMinute {
		errs = append(errs, errors.New("follows per day cannot be lower than follows per minute"))
	}
	if rl.DelayBetweenFollows < 0 {
		errs = append(errs, errors.New("delay between follows cannot be negative"))
	}
	if rl.Jitter < 0 {
		errs = append(errs, errors.New("jitter cannot be negative"))
	}

	// Validate retry settings
	if c.Retry.MaxAttempts < 0 {
		errs = append(errs, errors.New("max attempts cannot be negative"))
	}
	if c.Retry.DelayOnError < 0 {
		errs = append(errs, errors.New("delay on error cannot be negative"))
	}

	// Validate candidate files
	if c.Following.AccountsFile == "" {
		errs = append(errs, errors.New("accounts file is required"))
	}

	// Validate logging
	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if authToken, ok := flags["auth-token"].(string); ok && authToken != "" {
		c.Twitter.AuthToken = authToken
	}
	if csrfToken, ok := flags["csrf-token"].(string); ok && csrfToken != "" {
		c.Twitter.CSRFToken = csrfToken
	}
	if accountsFile, ok := flags["accounts-file"].(string); ok && accountsFile != "" {
		c.Following.AccountsFile = accountsFile
	}
	if fpm, ok := flags["follows-per-minute"].(int); ok && fpm > 0 {
		c.Following.RateLimits.FollowsPerMinute = fpm
	}
	if fpd, ok := flags["follows-per-day"].(int); ok && fpd > 0 {
		c.Following.RateLimits.FollowsPerDay = fpd
	}
	if delay, ok := flags["delay"].(time.Duration); ok && delay >= 0 {
		c.Following.RateLimits.DelayBetweenFollows = delay
	}
	if maxAttempts, ok := flags["max-attempts"].(int); ok && maxAttempts > 0 {
		c.Retry.MaxAttempts = maxAttempts
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".env"))
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".xfollower.env"))

	// Start with defaults
	config := DefaultConfig()

	// Load from config file
	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Override with command line flags
	config.MergeCommandLineFlags(flags)

	// Validate final configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
