package models

// NotificationSettings holds the locally persisted reminder preferences.
type NotificationSettings struct {
	// TaskTimes are "HH:MM" wall-clock times for the daily task reminder.
	TaskTimes []string `json:"task_times"`
	// EventOffsetMinutes is how long before an event its reminder fires.
	EventOffsetMinutes int `json:"event_offset_minutes"`
}

// DefaultEventOffsetMinutes is used when no offset has been saved.
const DefaultEventOffsetMinutes = 5

// DailyNotification is a server-managed daily notification setting.
type DailyNotification struct {
	ID      int64  `json:"id"`
	Time    string `json:"time"`
	Message string `json:"message,omitempty"`
	Enabled bool   `json:"enabled"`
}
