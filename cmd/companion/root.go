package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"companion/internal/app"
	"companion/pkg/config"
	"companion/pkg/logger"
	"companion/pkg/session"
)

var (
	flagConfig   string
	flagAPI      string
	flagCache    string
	flagLogLevel string

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:           "companion",
	Short:         "Command-line client for the personal assistant backend",
	Long:          "companion talks to the personal-productivity assistant backend: chat, habits, tasks, calendar, goals and notification settings, with a local cache for instant offline reads.",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load(".env")
		var err error
		cfg, err = config.Load(flagConfig)
		if err != nil {
			return err
		}
		// flags win over config/env
		if flagAPI != "" {
			cfg.API.BaseURL = flagAPI
		}
		if flagCache != "" {
			cfg.Storage.CachePath = flagCache
		}
		if flagLogLevel != "" {
			cfg.Logging.Level = flagLogLevel
		}
		logger.InitWithLevel(cfg.Logging.Level)
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "path to YAML config file")
	pf.StringVar(&flagAPI, "api", "", "backend base URL (overrides config)")
	pf.StringVar(&flagCache, "cache", "", "local cache path (overrides config)")
	pf.StringVar(&flagLogLevel, "log-level", "", "log level: debug|info|warn|error")
}

// openApp opens the cache and API client; the caller must Close it.
func openApp() (*app.App, error) {
	return app.New(cfg)
}

// requireSession opens the app and loads the persisted login, failing with
// a friendly hint when logged out.
func requireSession() (*app.App, session.UserSession, error) {
	a, err := openApp()
	if err != nil {
		return nil, session.UserSession{}, err
	}
	sess, err := a.Session()
	if err != nil {
		_ = a.Close()
		return nil, session.UserSession{}, fmt.Errorf("no session: %w (run `companion login` first)", err)
	}
	return a, sess, nil
}
