package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied when neither the file nor the environment provides a
// value. The cache lives under the user's home so repeated invocations of
// the CLI share state.
const (
	DefaultBaseURL  = "http://localhost:3000"
	DefaultPageSize = 50
)

// Load reads the YAML config at path (optional), then applies environment
// overrides and defaults. Environment always wins over the file.
func Load(path string) (Config, error) {
	var cfg Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	applyDefaults(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("COMPANION_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("COMPANION_API_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.API.Timeout = Duration(d)
		}
	}
	if v := os.Getenv("COMPANION_CACHE_PATH"); v != "" {
		cfg.Storage.CachePath = v
	}
	if v := os.Getenv("COMPANION_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("COMPANION_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Chat.PageSize = n
		}
	}
	if v := os.Getenv("COMPANION_AGENT_DEBUG_ADDR"); v != "" {
		cfg.Agent.DebugAddr = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = DefaultBaseURL
	}
	if cfg.API.Timeout == 0 {
		cfg.API.Timeout = Duration(15 * time.Second)
	}
	if cfg.API.RateLimit.RPS <= 0 {
		cfg.API.RateLimit.RPS = 5
	}
	if cfg.API.RateLimit.Burst <= 0 {
		cfg.API.RateLimit.Burst = 10
	}
	if cfg.Storage.CachePath == "" {
		cfg.Storage.CachePath = defaultCachePath()
	}
	if cfg.Chat.PageSize <= 0 {
		cfg.Chat.PageSize = DefaultPageSize
	}
	if cfg.Notifications.EventOffsetMinutes <= 0 {
		cfg.Notifications.EventOffsetMinutes = 5
	}
	if cfg.Agent.SyncInterval == 0 {
		cfg.Agent.SyncInterval = Duration(5 * time.Minute)
	}
}

func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".companion/cache"
	}
	return home + "/.companion/cache"
}
