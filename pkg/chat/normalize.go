package chat

import (
	"encoding/json"
	"fmt"
	"time"

	"companion/pkg/api"
	"companion/pkg/logger"
	"companion/pkg/models"
	"companion/pkg/telemetry"
)

// Normalize converts one raw history record into the canonical message.
// It is a pure per-record transform: record order is never altered here.
//
// Rules: the id may live under "_id" or "id" and arrive as number or string;
// the sender may be a role string, a numeric identity tag, or a user object;
// an unparseable or absent createdAt falls back to the current time rather
// than failing the record. An unknown sender identity is the only hard
// failure — the record is dropped rather than displayed malformed.
func Normalize(raw api.RawMessage) (models.Message, error) {
	id := raw.ID.String()
	if id == "" {
		id = raw.AltID.String()
	}
	if id == "" {
		return models.Message{}, &NormalizationError{Reason: "missing id"}
	}
	sender, err := resolveSender(raw)
	if err != nil {
		return models.Message{}, err
	}
	m := models.Message{
		ID:        id,
		Text:      raw.Text,
		Sender:    sender,
		CreatedAt: parseCreatedAt(raw.CreatedAt),
	}
	if raw.Custom != nil && len(raw.Custom.RepeatedNotifications) > 0 {
		m.Custom = &models.Custom{RepeatedNotifications: raw.Custom.RepeatedNotifications}
	}
	return m, nil
}

// NormalizeAll converts a batch, dropping records that fail with a log line
// and a telemetry tick. Output order follows input order.
func NormalizeAll(raws []api.RawMessage) []models.Message {
	out := make([]models.Message, 0, len(raws))
	for _, r := range raws {
		m, err := Normalize(r)
		if err != nil {
			telemetry.RecordsDropped.Inc()
			logger.Warn("record_dropped", "id", r.ID.String(), "error", err)
			continue
		}
		out = append(out, m)
	}
	return out
}

func resolveSender(raw api.RawMessage) (models.Sender, error) {
	if raw.User != nil {
		return senderFromTag(raw.User.ID.String())
	}
	if len(raw.Sender) > 0 {
		var s string
		if err := json.Unmarshal(raw.Sender, &s); err == nil {
			return senderFromTag(s)
		}
		var n int
		if err := json.Unmarshal(raw.Sender, &n); err == nil {
			return senderFromTag(fmt.Sprintf("%d", n))
		}
		return 0, &NormalizationError{Reason: fmt.Sprintf("unreadable sender %s", string(raw.Sender))}
	}
	return 0, &NormalizationError{Reason: "missing sender"}
}

func senderFromTag(tag string) (models.Sender, error) {
	switch tag {
	case "1", "user", "You":
		return models.SenderUser, nil
	case "2", "assistant", "GPT":
		return models.SenderAssistant, nil
	}
	return 0, &NormalizationError{Reason: fmt.Sprintf("unknown sender identity %q", tag)}
}

func parseCreatedAt(raw json.RawMessage) time.Time {
	if len(raw) == 0 || string(raw) == "null" {
		return time.Now()
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t
		}
		logger.Debug("created_at_unparseable", "value", s)
		return time.Now()
	}
	// epoch milliseconds, the Date-serialized variant
	var ms int64
	if err := json.Unmarshal(raw, &ms); err == nil && ms > 0 {
		return time.UnixMilli(ms)
	}
	return time.Now()
}
