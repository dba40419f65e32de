// Package app wires the client components together for the CLI: config,
// logger, local cache and API client share one lifecycle here.
package app

import (
	"companion/pkg/api"
	"companion/pkg/cache"
	"companion/pkg/chat"
	"companion/pkg/config"
	"companion/pkg/logger"
	"companion/pkg/session"
)

// App bundles the opened client components.
type App struct {
	Cfg    config.Config
	Store  *cache.Store
	Client *api.Client
}

// New opens the cache and builds the API client from cfg. The logger must
// already be initialized by the caller.
func New(cfg config.Config) (*App, error) {
	store, err := cache.Open(cfg.Storage.CachePath)
	if err != nil {
		return nil, err
	}
	client := api.New(cfg.API.BaseURL, api.Options{
		Timeout: cfg.API.Timeout.Duration(),
		RPS:     cfg.API.RateLimit.RPS,
		Burst:   cfg.API.RateLimit.Burst,
	})
	logger.Debug("app_ready", "api", cfg.API.BaseURL, "cache", cfg.Storage.CachePath)
	return &App{Cfg: cfg, Store: store, Client: client}, nil
}

// Close releases the cache.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	return a.Store.Close()
}

// Session loads the persisted login.
func (a *App) Session() (session.UserSession, error) {
	return session.Load(a.Store)
}

// Conversation builds the chat engine for sess using the app's client and
// cache.
func (a *App) Conversation(sess session.UserSession) *chat.Conversation {
	return chat.NewConversation(sess, a.Client, a.Store, a.Cfg.Chat.PageSize)
}
