package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/adhocore/gronx"

	"companion/pkg/models"
)

// Client-side input checks applied before a request leaves the process, so
// obviously broken input never reaches the backend or the cache.

const maxDescriptionLen = 500

// Description checks a habit/task/goal description.
func Description(kind, s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%s description is required", kind)
	}
	if len(s) > maxDescriptionLen {
		return fmt.Errorf("%s description exceeds %d characters", kind, maxDescriptionLen)
	}
	return nil
}

// ReminderTime checks a "HH:MM" wall-clock value.
func ReminderTime(v string) error {
	if _, err := time.Parse("15:04", v); err != nil {
		return fmt.Errorf("invalid reminder time %q: want HH:MM", v)
	}
	return nil
}

// Date checks a "YYYY-MM-DD" calendar date.
func Date(v string) error {
	if _, err := time.Parse("2006-01-02", v); err != nil {
		return fmt.Errorf("invalid date %q: want YYYY-MM-DD", v)
	}
	return nil
}

// TimeFrame checks a schedule time frame: "HH:MM" or "HH:MM-HH:MM".
func TimeFrame(v string) error {
	parts := strings.SplitN(v, "-", 2)
	for _, p := range parts {
		if err := ReminderTime(strings.TrimSpace(p)); err != nil {
			return fmt.Errorf("invalid time frame %q: want HH:MM or HH:MM-HH:MM", v)
		}
	}
	return nil
}

// Cron checks a repeated-notification schedule expression.
func Cron(expr string) error {
	if !gronx.IsValid(expr) {
		return fmt.Errorf("invalid cron expression %q", expr)
	}
	return nil
}

// Settings checks the whole reminder preferences value; all problems are
// reported at once.
func Settings(ns models.NotificationSettings) error {
	var errs []string
	for _, t := range ns.TaskTimes {
		if err := ReminderTime(t); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if ns.EventOffsetMinutes < 0 {
		errs = append(errs, "event offset must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid settings: %s", strings.Join(errs, "; "))
	}
	return nil
}
