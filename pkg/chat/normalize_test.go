package chat

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"companion/pkg/api"
	"companion/pkg/models"
)

func rawFromJSON(t *testing.T, s string) api.RawMessage {
	t.Helper()
	var r api.RawMessage
	if err := json.Unmarshal([]byte(s), &r); err != nil {
		t.Fatalf("unmarshal raw: %v", err)
	}
	return r
}

func TestNormalizeSenderVariants(t *testing.T) {
	cases := []struct {
		name string
		json string
		want models.Sender
	}{
		{"user object numeric", `{"_id":"m1","text":"hi","user":{"_id":1,"name":"You"}}`, models.SenderUser},
		{"user object string id", `{"_id":"m2","text":"hi","user":{"_id":"2","name":"GPT"}}`, models.SenderAssistant},
		{"role string", `{"id":"m3","text":"hi","sender":"assistant"}`, models.SenderAssistant},
		{"numeric tag", `{"id":"m4","text":"hi","sender":1}`, models.SenderUser},
		{"numeric tag string", `{"id":"m5","text":"hi","sender":"2"}`, models.SenderAssistant},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := Normalize(rawFromJSON(t, tc.json))
			if err != nil {
				t.Fatalf("Normalize: %v", err)
			}
			if m.Sender != tc.want {
				t.Fatalf("sender = %v; want %v", m.Sender, tc.want)
			}
		})
	}
}

func TestNormalizeUnknownSenderDropped(t *testing.T) {
	raws := []api.RawMessage{
		rawFromJSON(t, `{"_id":"ok","text":"a","sender":"user"}`),
		rawFromJSON(t, `{"_id":"bad","text":"b","sender":"moderator"}`),
		rawFromJSON(t, `{"_id":"bad2","text":"c","user":{"_id":99}}`),
	}
	out := NormalizeAll(raws)
	if len(out) != 1 || out[0].ID != "ok" {
		t.Fatalf("expected only the recognized record to survive; got %+v", out)
	}
}

func TestNormalizeMissingSender(t *testing.T) {
	_, err := Normalize(rawFromJSON(t, `{"_id":"m1","text":"hi"}`))
	var ne *NormalizationError
	if err == nil {
		t.Fatalf("expected error for missing sender")
	}
	if !errors.As(err, &ne) {
		t.Fatalf("expected NormalizationError; got %T", err)
	}
}

func TestNormalizeMissingID(t *testing.T) {
	if _, err := Normalize(rawFromJSON(t, `{"text":"hi","sender":"user"}`)); err == nil {
		t.Fatalf("expected error for missing id")
	}
}

func TestNormalizeIDForms(t *testing.T) {
	m, err := Normalize(rawFromJSON(t, `{"_id":42,"text":"hi","sender":"user"}`))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if m.ID != "42" {
		t.Fatalf("numeric _id: got %q", m.ID)
	}
	m, err = Normalize(rawFromJSON(t, `{"id":"abc","text":"hi","sender":"user"}`))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if m.ID != "abc" {
		t.Fatalf("alt id: got %q", m.ID)
	}
}

func TestNormalizeCreatedAt(t *testing.T) {
	ts := "2025-02-07T10:30:00Z"
	m, err := Normalize(rawFromJSON(t, `{"_id":"m1","text":"hi","sender":"user","createdAt":"`+ts+`"}`))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	want, _ := time.Parse(time.RFC3339, ts)
	if !m.CreatedAt.Equal(want) {
		t.Fatalf("createdAt = %v; want %v", m.CreatedAt, want)
	}

	// epoch milliseconds variant
	m, err = Normalize(rawFromJSON(t, `{"_id":"m2","text":"hi","sender":"user","createdAt":1738924200000}`))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if m.CreatedAt.UnixMilli() != 1738924200000 {
		t.Fatalf("epoch createdAt = %v", m.CreatedAt)
	}
}

func TestNormalizeMalformedCreatedAtFallsBackToNow(t *testing.T) {
	before := time.Now()
	m, err := Normalize(rawFromJSON(t, `{"_id":"m1","text":"hi","sender":"user","createdAt":"not-a-date"}`))
	if err != nil {
		t.Fatalf("malformed createdAt must not fail the record: %v", err)
	}
	if m.CreatedAt.Before(before) || m.CreatedAt.After(time.Now().Add(time.Second)) {
		t.Fatalf("createdAt not a current-time value: %v", m.CreatedAt)
	}
}

func TestNormalizeCustomPayload(t *testing.T) {
	m, err := Normalize(rawFromJSON(t, `{"_id":"m1","text":"Active notifications:","user":{"_id":2,"name":"GPT"},"custom":{"repeatedNotifications":[{"id":7,"message":"drink water"}]}}`))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if m.Custom == nil || len(m.Custom.RepeatedNotifications) != 1 {
		t.Fatalf("custom payload lost: %+v", m.Custom)
	}
	if m.Custom.RepeatedNotifications[0].ID != 7 {
		t.Fatalf("notification id = %d", m.Custom.RepeatedNotifications[0].ID)
	}
}
