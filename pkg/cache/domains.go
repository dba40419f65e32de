package cache

import (
	"encoding/json"
	"fmt"

	"companion/pkg/models"
)

// Key namespaces. Every key is scoped to a user id so switching accounts on
// the same machine never leaks another user's data.
func historyKey(userID int64) string  { return fmt.Sprintf("chat:%d", userID) }
func habitsKey(userID int64, date string) string {
	return fmt.Sprintf("habitdone:%d:%s", userID, date)
}
func calendarKey(userID int64) string { return fmt.Sprintf("calendar:%d", userID) }
func notifyKey(userID int64) string   { return fmt.Sprintf("notify:%d", userID) }

const sessionKey = "session:current"

// History returns the cached conversation for userID, oldest first. A
// missing or unreadable entry yields an empty slice.
func (s *Store) History(userID int64) ([]models.Message, error) {
	return getJSON[[]models.Message](s, historyKey(userID))
}

// PutHistory replaces the cached conversation for userID.
func (s *Store) PutHistory(userID int64, msgs []models.Message) error {
	return putJSON(s, historyKey(userID), msgs)
}

// CompletedHabits returns the habit ids checked off on date ("YYYY-MM-DD").
func (s *Store) CompletedHabits(userID int64, date string) ([]int64, error) {
	return getJSON[[]int64](s, habitsKey(userID, date))
}

// PutCompletedHabits replaces the checked-off habit ids for date.
func (s *Store) PutCompletedHabits(userID int64, date string, ids []int64) error {
	return putJSON(s, habitsKey(userID, date), ids)
}

// Schedules returns the cached calendar events for userID.
func (s *Store) Schedules(userID int64) ([]models.Schedule, error) {
	return getJSON[[]models.Schedule](s, calendarKey(userID))
}

// PutSchedules replaces the cached calendar events for userID.
func (s *Store) PutSchedules(userID int64, items []models.Schedule) error {
	return putJSON(s, calendarKey(userID), items)
}

// NotificationSettings returns the saved reminder preferences, or nil when
// none have been saved.
func (s *Store) NotificationSettings(userID int64) (*models.NotificationSettings, error) {
	return getJSONPtr[models.NotificationSettings](s, notifyKey(userID))
}

// PutNotificationSettings replaces the saved reminder preferences.
func (s *Store) PutNotificationSettings(userID int64, ns models.NotificationSettings) error {
	return putJSON(s, notifyKey(userID), ns)
}

// Session returns the persisted logged-in user, or nil when logged out.
func (s *Store) Session() (*models.User, error) {
	return getJSONPtr[models.User](s, sessionKey)
}

// PutSession persists the logged-in user.
func (s *Store) PutSession(u models.User) error {
	return putJSON(s, sessionKey, u)
}

// ClearSession removes the persisted user on logout.
func (s *Store) ClearSession() error {
	return s.delete(sessionKey)
}

func getJSON[T any](s *Store, key string) (T, error) {
	var zero T
	b, err := s.get(key)
	if err != nil || b == nil {
		return zero, err
	}
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		return zero, &Error{Op: "decode", Key: key, Err: err}
	}
	return out, nil
}

func getJSONPtr[T any](s *Store, key string) (*T, error) {
	b, err := s.get(key)
	if err != nil || b == nil {
		return nil, err
	}
	out := new(T)
	if err := json.Unmarshal(b, out); err != nil {
		return nil, &Error{Op: "decode", Key: key, Err: err}
	}
	return out, nil
}

func putJSON(s *Store, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return &Error{Op: "encode", Key: key, Err: err}
	}
	return s.set(key, b)
}
