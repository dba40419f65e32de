// Package notify computes upcoming local reminder triggers from the user's
// saved preferences, calendar and repeated notifications. It only plans;
// firing is delegated to whatever runs the agent loop, and there are no
// delivery guarantees.
package notify

import (
	"fmt"
	"sort"
	"time"

	"github.com/adhocore/gronx"

	"companion/pkg/logger"
	"companion/pkg/models"
	"companion/pkg/telemetry"
)

// TriggerKind classifies what a reminder is for.
type TriggerKind string

const (
	KindTask     TriggerKind = "task"
	KindEvent    TriggerKind = "event"
	KindRepeated TriggerKind = "repeated"
)

// Trigger is one upcoming reminder.
type Trigger struct {
	At    time.Time
	Kind  TriggerKind
	Label string
}

// Plan returns the upcoming triggers after now, soonest first:
//
//   - one daily task reminder per configured "HH:MM" time (today or
//     tomorrow, whichever is next);
//   - one reminder per calendar event, offset minutes before its start,
//     for events that have not started yet;
//   - the next tick of every repeated notification that carries a cron
//     expression.
//
// Malformed inputs are skipped with a log line; they never fail the plan.
func Plan(now time.Time, settings models.NotificationSettings, schedules []models.Schedule, repeated []models.RepeatedNotification) []Trigger {
	var out []Trigger

	for _, hhmm := range settings.TaskTimes {
		at, err := nextDaily(now, hhmm)
		if err != nil {
			logger.Warn("task_time_skipped", "value", hhmm, "error", err)
			continue
		}
		out = append(out, Trigger{At: at, Kind: KindTask, Label: "daily tasks"})
	}

	offset := settings.EventOffsetMinutes
	if offset <= 0 {
		offset = models.DefaultEventOffsetMinutes
	}
	for _, s := range schedules {
		start, _ := s.Times()
		at, err := time.ParseInLocation("2006-01-02 15:04", s.Date+" "+start, now.Location())
		if err != nil {
			logger.Warn("event_skipped", "schedule", s.ScheduleID, "error", err)
			continue
		}
		at = at.Add(-time.Duration(offset) * time.Minute)
		if !at.After(now) {
			continue
		}
		out = append(out, Trigger{At: at, Kind: KindEvent, Label: s.Activity})
	}

	for _, n := range repeated {
		if n.Cron == "" {
			continue
		}
		next, err := gronx.NextTickAfter(n.Cron, now, false)
		if err != nil {
			logger.Warn("repeated_skipped", "id", n.ID, "cron", n.Cron, "error", err)
			continue
		}
		label := n.Message
		if label == "" {
			label = fmt.Sprintf("repeated #%d", n.ID)
		}
		out = append(out, Trigger{At: next, Kind: KindRepeated, Label: label})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	telemetry.RemindersPlanned.Add(float64(len(out)))
	return out
}

// nextDaily returns the next occurrence of the "HH:MM" wall-clock time
// strictly after now.
func nextDaily(now time.Time, hhmm string) (time.Time, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: want HH:MM", hhmm)
	}
	at := time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, now.Location())
	if !at.After(now) {
		at = at.AddDate(0, 0, 1)
	}
	return at, nil
}
