package api

import (
	"encoding/json"
	"strconv"

	"companion/pkg/models"
)

// RawMessage is the wire shape of one history record. The backend has
// shipped several generations of this payload: ids arrive as numbers or
// strings under "id" or "_id", the sender is a role string, a numeric
// identity tag, or a {_id, name} object under "user", and createdAt may be
// an ISO string, an epoch-milliseconds number, or absent. RawMessage keeps
// the ambiguous fields raw; the chat normalizer is the single place that
// resolves them.
type RawMessage struct {
	ID        FlexID          `json:"_id"`
	AltID     FlexID          `json:"id"`
	Text      string          `json:"text"`
	Sender    json.RawMessage `json:"sender,omitempty"`
	User      *RawUser        `json:"user,omitempty"`
	CreatedAt json.RawMessage `json:"createdAt,omitempty"`
	Custom    *RawCustom      `json:"custom,omitempty"`
}

// RawUser is the sender-identity object variant.
type RawUser struct {
	ID   FlexID `json:"_id"`
	Name string `json:"name,omitempty"`
}

// RawCustom mirrors the wire casing of the side-channel payload.
type RawCustom struct {
	RepeatedNotifications []models.RepeatedNotification `json:"repeatedNotifications,omitempty"`
}

// FlexID decodes a JSON string or number into its string form.
type FlexID string

func (f *FlexID) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexID(n.String())
	return nil
}

func (f FlexID) MarshalJSON() ([]byte, error) {
	// preserve numeric form when the id is numeric
	if _, err := strconv.ParseInt(string(f), 10, 64); err == nil {
		return []byte(f), nil
	}
	return json.Marshal(string(f))
}

func (f FlexID) String() string { return string(f) }
