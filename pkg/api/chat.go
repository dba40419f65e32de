package api

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"companion/pkg/models"
	"companion/pkg/telemetry"
)

// History fetches one page of chat history, newest first. With beforeID
// empty it returns the most recent limit records; otherwise up to limit
// records strictly older than beforeID. A short page means the history is
// exhausted; an empty page with beforeID set is definitive end-of-history.
func (c *Client) History(ctx context.Context, userID int64, limit int, beforeID string) ([]RawMessage, error) {
	q := url.Values{}
	q.Set("userId", strconv.FormatInt(userID, 10))
	q.Set("limit", strconv.Itoa(limit))
	if beforeID != "" {
		q.Set("beforeId", beforeID)
	}
	var out []RawMessage
	if err := c.do(ctx, "chat", "GET", "/chat/history-paged", q, nil, &out); err != nil {
		return nil, err
	}
	telemetry.PagesFetched.Inc()
	return out, nil
}

// SendChat submits the user's text and returns the assistant's reply text.
func (c *Client) SendChat(ctx context.Context, userID int64, text string) (string, error) {
	body := map[string]any{
		"messages": []map[string]string{{"role": "user", "content": text}},
		"userId":   userID,
	}
	var raw json.RawMessage
	if err := c.do(ctx, "chat", "POST", "/chat", nil, body, &raw); err != nil {
		return "", err
	}
	telemetry.MessagesSent.Inc()
	// the reply is normally a JSON string; tolerate older deployments that
	// return the bare text
	var reply string
	if err := json.Unmarshal(raw, &reply); err != nil {
		reply = strings.TrimSpace(string(raw))
	}
	return reply, nil
}

// ActiveRepeatedNotifications lists the user's running repeated
// notifications.
func (c *Client) ActiveRepeatedNotifications(ctx context.Context, userID int64) ([]models.RepeatedNotification, error) {
	q := url.Values{}
	q.Set("user_id", strconv.FormatInt(userID, 10))
	var out struct {
		Notifications []models.RepeatedNotification `json:"notifications"`
	}
	if err := c.do(ctx, "notifications", "GET", "/notifications/active-repeated-notifications", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Notifications, nil
}

// StopRepeated cancels one repeated notification setting.
func (c *Client) StopRepeated(ctx context.Context, settingID int64) error {
	body := map[string]int64{"repeated_setting_id": settingID}
	return c.do(ctx, "notifications", "POST", "/notifications/stop", nil, body, nil)
}

// DailyNotifications lists the server-managed daily notification settings.
func (c *Client) DailyNotifications(ctx context.Context, userID int64) ([]models.DailyNotification, error) {
	q := url.Values{}
	q.Set("user_id", strconv.FormatInt(userID, 10))
	var out struct {
		Notifications []models.DailyNotification `json:"notifications"`
	}
	if err := c.do(ctx, "notifications", "GET", "/notifications/daily-notifications", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Notifications, nil
}

// SaveDailyNotification creates or updates a daily notification setting.
func (c *Client) SaveDailyNotification(ctx context.Context, userID int64, n models.DailyNotification) error {
	body := map[string]any{
		"user_id": userID,
		"time":    n.Time,
		"message": n.Message,
		"enabled": n.Enabled,
	}
	if n.ID != 0 {
		body["id"] = n.ID
	}
	return c.do(ctx, "notifications", "POST", "/notifications/daily-notifications", nil, body, nil)
}
