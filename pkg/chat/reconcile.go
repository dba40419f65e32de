package chat

import "companion/pkg/models"

// MergeMode selects where an incoming batch lands relative to the existing
// conversation.
type MergeMode int

const (
	// PrependOlder inserts a historical page before the existing messages.
	PrependOlder MergeMode = iota
	// AppendNewer appends server-confirmed newer messages.
	AppendNewer
	// AppendOptimistic appends a locally authored, not yet confirmed message.
	AppendOptimistic
)

// Merge combines incoming into existing without duplication. Conversations
// are kept oldest first. Duplicates are detected solely by id equality and
// the copy already present wins, which makes re-merging the same page a
// no-op and guards sends against double-submit. Relative order inside each
// batch is preserved; nothing is ever re-sorted.
func Merge(existing, incoming []models.Message, mode MergeMode) []models.Message {
	seen := make(map[string]struct{}, len(existing))
	for _, m := range existing {
		seen[m.ID] = struct{}{}
	}
	fresh := make([]models.Message, 0, len(incoming))
	for _, m := range incoming {
		if _, dup := seen[m.ID]; dup {
			continue
		}
		seen[m.ID] = struct{}{}
		fresh = append(fresh, m)
	}
	if len(fresh) == 0 {
		return existing
	}
	out := make([]models.Message, 0, len(existing)+len(fresh))
	if mode == PrependOlder {
		out = append(out, fresh...)
		out = append(out, existing...)
	} else {
		out = append(out, existing...)
		out = append(out, fresh...)
	}
	return out
}
