package main

import (
	"os"
	"time"

	"xfollower/pkg/auth"
	"xfollower/pkg/config"
	"xfollower/pkg/logger"
	"xfollower/pkg/twitter"
	"xfollower/pkg/ui"
)

// loadConfig loads configuration and initializes the global logger. Exits
// on failure since no command can proceed without a valid config.
func loadConfig(flags map[string]interface{}) *config.Config {
	if flags == nil {
		flags = make(map[string]interface{})
	}
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		ui.PrintError("Failed to initialize logger", err.Error())
		os.Exit(1)
	}

	return cfg
}

// resolveCredentials fills cfg.Twitter from the credential store unless
// credentials are already present from config, env or flags. It returns the
// account username the run should be attributed to.
func resolveCredentials(cfg *config.Config, accountName string) string {
	credManager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	var account *auth.Account

	if accountName != "" {
		account, err = credManager.Retrieve(accountName)
		if err != nil {
			ui.PrintError("Account not found", accountName)
			ui.PrintInfo("Available accounts", "Use 'xfollower auth list' to see stored accounts")
			os.Exit(1)
		}
	} else if cfg.Twitter.AuthToken != "" && cfg.Twitter.CSRFToken != "" {
		// Credentials from config/env take precedence over stored accounts
		logger.Info("Using credentials from configuration")
		return "default"
	} else {
		account, err = credManager.RetrieveDefault()
		if err != nil {
			logger.Error("No credentials found")
			ui.PrintError("No X credentials found", "")
			ui.PrintInfo("To store credentials securely, run", "xfollower auth login")
			ui.PrintInfo("Or set environment variables", "XFOLLOWER_AUTH_TOKEN and XFOLLOWER_CSRF_TOKEN")
			os.Exit(1)
		}
	}

	cfg.Twitter.AuthToken = account.AuthToken
	cfg.Twitter.CSRFToken = account.CSRFToken
	if account.UserAgent != "" {
		cfg.Twitter.UserAgent = account.UserAgent
	}
	logger.WithField("account", account.Username).Info("Using stored credentials")
	if !quiet {
		ui.PrintInfo("Using account", account.Username)
	}
	return account.Username
}

// newAPIClient builds an authenticated API client from the resolved config
func newAPIClient(cfg *config.Config) *twitter.Client {
	client := twitter.NewClient(30*time.Second, logger.GetLogger())
	client.SetCredentials(cfg.Twitter.AuthToken, cfg.Twitter.CSRFToken, cfg.Twitter.UserAgent)
	return client
}
