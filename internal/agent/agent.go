// Package agent is the long-running mode of the client: it periodically
// refreshes the local caches from the backend, plans upcoming reminders and
// fires the due ones as log events. A debug listener can expose the client
// metrics while the loop runs.
package agent

import (
	"context"
	"errors"
	"net/http"
	"time"

	"companion/internal/app"
	"companion/pkg/logger"
	"companion/pkg/models"
	"companion/pkg/notify"
	"companion/pkg/session"
	"companion/pkg/telemetry"
)

// Run blocks until ctx is cancelled, syncing every cfg.Agent.SyncInterval.
func Run(ctx context.Context, a *app.App, sess session.UserSession) error {
	if addr := a.Cfg.Agent.DebugAddr; addr != "" {
		go serveDebug(ctx, addr)
	}
	interval := a.Cfg.Agent.SyncInterval.Duration()
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	logger.Info("agent_started", "user", sess.UserID, "interval", interval)

	for {
		triggers := refresh(ctx, a, sess)
		wake := nextWake(triggers, interval)
		select {
		case <-ctx.Done():
			logger.Info("agent_stopped")
			return nil
		case <-time.After(wake):
			fireDue(triggers)
		}
	}
}

// refresh pulls fresh schedules and repeated notifications, updates the
// cache, and plans the next triggers. Fetch failures degrade to whatever is
// cached; the loop never aborts on them.
func refresh(ctx context.Context, a *app.App, sess session.UserSession) []notify.Trigger {
	schedules, err := a.Client.Schedules(ctx, sess.UserID)
	if err != nil {
		logger.Warn("schedule_sync_failed", "error", err)
		schedules, _ = a.Store.Schedules(sess.UserID)
	} else if err := a.Store.PutSchedules(sess.UserID, schedules); err != nil {
		logger.Warn("schedule_cache_write_failed", "error", err)
	}

	repeated, err := a.Client.ActiveRepeatedNotifications(ctx, sess.UserID)
	if err != nil {
		logger.Warn("repeated_sync_failed", "error", err)
	}

	settings := models.NotificationSettings{
		TaskTimes:          a.Cfg.Notifications.TaskTimes,
		EventOffsetMinutes: a.Cfg.Notifications.EventOffsetMinutes,
	}
	if saved, err := a.Store.NotificationSettings(sess.UserID); err == nil && saved != nil {
		settings = *saved
	}

	triggers := notify.Plan(time.Now(), settings, schedules, repeated)
	if len(triggers) > 0 {
		logger.Info("plan_updated", "triggers", len(triggers), "next", triggers[0].At)
	}
	return triggers
}

// nextWake returns how long to sleep: until the soonest trigger, capped at
// the sync interval.
func nextWake(triggers []notify.Trigger, interval time.Duration) time.Duration {
	wake := interval
	if len(triggers) > 0 {
		if d := time.Until(triggers[0].At); d < wake {
			wake = d
		}
	}
	if wake < time.Second {
		wake = time.Second
	}
	return wake
}

// fireDue logs every trigger whose time has passed. Delivery is a log
// event; platform notification mechanics stay out of the client.
func fireDue(triggers []notify.Trigger) {
	now := time.Now()
	for _, t := range triggers {
		if t.At.After(now) {
			break
		}
		logger.Info("reminder_due", "kind", string(t.Kind), "label", t.Label, "at", t.At)
	}
}

// serveDebug exposes /metrics and /healthz until ctx is cancelled.
func serveDebug(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", telemetry.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutCtx)
	}()
	logger.Info("debug_listener_started", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("debug_listener_failed", "error", err)
	}
}
