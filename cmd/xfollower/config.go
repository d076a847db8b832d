package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"xfollower/pkg/config"
	"xfollower/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage xfollower configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables
  - Configuration file
  - Default values (lowest priority)`,
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file will be created in the current directory as 'xfollower.yaml'
unless a different path is specified with the --config flag.`,
	Run: runConfigInit,
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the current configuration including values from all sources:
  - Command line flags
  - Environment variables
  - Configuration file
  - Default values

Sensitive values like credentials will be masked for security.`,
	Run: runConfigShow,
}

// configValidateCmd represents the config validate command
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate a configuration file for syntax errors and invalid values.

This command checks:
  - YAML syntax
  - Required fields
  - Value types and ranges
  - Path accessibility`,
	Run: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) {
	configPath := configFile
	if configPath == "" {
		configPath = "xfollower.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		ui.PrintError("Configuration file already exists", configPath)
		fmt.Println("\nTo overwrite, first remove the existing file:")
		fmt.Printf("  rm %s\n", configPath)
		os.Exit(1)
	}

	exampleConfig := `# xfollower Configuration File
#
# This file contains all available configuration options.
# You can also use environment variables prefixed with XFOLLOWER_
# For example: XFOLLOWER_AUTH_TOKEN, XFOLLOWER_CSRF_TOKEN

# X credentials
# Prefer 'xfollower auth login' over putting credentials in this file.
twitter:
  # Auth token from the auth_token cookie (optional here)
  auth_token: ""

  # CSRF token from the ct0 cookie (optional here)
  csrf_token: ""

  # User agent string (optional)
  # Leave empty to use default
  user_agent: ""

# Following configuration
following:
  # Client-side rate limits for follow/block actions.
  # Keep these conservative: the platform's real limits are not published
  # and exceeding them risks account suspension.
  rate_limits:
    # Successful actions allowed per minute
    follows_per_minute: 15

    # Successful actions allowed per calendar day
    follows_per_day: 400

    # Minimum spacing between consecutive actions
    delay_between_follows: 4s

    # Random addition to the delay, uniform in [0, jitter)
    jitter: 2s

  # Candidates file produced by 'xfollower collect'
  accounts_file: "./accounts_to_follow.json"

  # Targets file listing whose followers to harvest
  targets_file: "./target_accounts.json"

# Blocking configuration
blocking:
  # Blocklist file, same format as the candidates file
  blocklist_file: "./accounts_to_block.json"

# Retry configuration for individual actions
retry:
  # Maximum attempts per action (1 = no retry)
  max_attempts: 3

  # Delay between attempts
  delay_on_error: 10s

# Notification preferences
notifications:
  enabled: true
  on_complete: true
  on_error: true
  on_rate_limit: true

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: "info"

  # Log file path (optional)
  # Leave empty to log to stderr only
  file: ""
`

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0644); err != nil {
		ui.PrintError("Failed to create configuration file", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Run 'xfollower auth login' to store your X credentials")
	fmt.Println("2. Run 'xfollower config validate' to check the configuration")
	fmt.Println("3. Harvest candidates with 'xfollower collect'")
	fmt.Println("4. Start following with 'xfollower follow'")
}

func runConfigShow(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	// Create a sanitized version for display
	displayCfg := *cfg
	displayCfg.Twitter.AuthToken = maskValue(displayCfg.Twitter.AuthToken)
	displayCfg.Twitter.CSRFToken = maskValue(displayCfg.Twitter.CSRFToken)

	data, err := yaml.Marshal(&displayCfg)
	if err != nil {
		ui.PrintError("Failed to format configuration", err.Error())
		os.Exit(1)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Println()
	fmt.Print(string(data))

	fmt.Println("\nConfiguration sources (in order of priority):")
	fmt.Println("1. Command line flags")
	fmt.Println("2. Environment variables (XFOLLOWER_*)")
	if configFile != "" {
		fmt.Printf("3. Configuration file: %s\n", configFile)
	} else {
		fmt.Println("3. Configuration file: (not specified)")
	}
	fmt.Println("4. Default values")
}

func runConfigValidate(cmd *cobra.Command, args []string) {
	if configFile == "" {
		// Try to find config file in common locations
		possiblePaths := []string{
			"xfollower.yaml",
			"xfollower.yml",
			".xfollower.yaml",
			".xfollower.yml",
			filepath.Join(os.Getenv("HOME"), ".xfollower.yaml"),
			filepath.Join(os.Getenv("HOME"), ".config", "xfollower", "config.yaml"),
		}

		for _, path := range possiblePaths {
			if _, err := os.Stat(path); err == nil {
				configFile = path
				break
			}
		}

		if configFile == "" {
			ui.PrintError("No configuration file found", "Specify a file with --config flag")
			os.Exit(1)
		}
	}

	ui.PrintInfo("Validating configuration", configFile)

	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Configuration validation failed", err.Error())
		os.Exit(1)
	}

	warnings := []string{}
	errors := []string{}

	if cfg.Twitter.AuthToken == "" {
		warnings = append(warnings, "auth token not configured (stored credentials will be used if present)")
	}
	if cfg.Twitter.CSRFToken == "" {
		warnings = append(warnings, "CSRF token not configured (stored credentials will be used if present)")
	}

	if cfg.Logging.File != "" {
		dir := filepath.Dir(cfg.Logging.File)
		if err := os.MkdirAll(dir, 0755); err != nil {
			errors = append(errors, fmt.Sprintf("Cannot create log directory: %v", err))
		}
	}

	if cfg.Following.RateLimits.FollowsPerMinute < 1 || cfg.Following.RateLimits.FollowsPerMinute > 60 {
		errors = append(errors, "follows_per_minute must be between 1 and 60")
	}
	if cfg.Following.RateLimits.FollowsPerDay < 1 || cfg.Following.RateLimits.FollowsPerDay > 1000 {
		errors = append(errors, "follows_per_day must be between 1 and 1000")
	}
	if cfg.Retry.MaxAttempts < 1 || cfg.Retry.MaxAttempts > 10 {
		errors = append(errors, "max_attempts must be between 1 and 10")
	}

	if len(errors) > 0 {
		ui.PrintError("Configuration has errors:", "")
		for _, err := range errors {
			fmt.Printf("  - %s\n", err)
		}
		os.Exit(1)
	}

	if len(warnings) > 0 {
		ui.PrintWarning("Configuration warnings:", "")
		for _, warn := range warnings {
			fmt.Printf("  - %s\n", warn)
		}
		fmt.Println()
	}

	ui.PrintSuccess("Configuration is valid")

	fmt.Println("\nConfiguration summary:")
	fmt.Printf("  Follows per minute: %d\n", cfg.Following.RateLimits.FollowsPerMinute)
	fmt.Printf("  Follows per day: %d\n", cfg.Following.RateLimits.FollowsPerDay)
	fmt.Printf("  Delay between follows: %s\n", cfg.Following.RateLimits.DelayBetweenFollows)
	fmt.Printf("  Max retries: %d\n", cfg.Retry.MaxAttempts)
	fmt.Printf("  Log level: %s\n", cfg.Logging.Level)
}

func maskValue(s string) string {
	if s == "" {
		return s
	}
	if len(s) > 8 {
		return s[:4] + "..." + s[len(s)-4:]
	}
	return "***"
}
