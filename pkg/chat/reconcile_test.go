package chat

import (
	"testing"

	"companion/pkg/models"
)

func msgs(ids ...string) []models.Message {
	out := make([]models.Message, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.Message{ID: id, Text: "t-" + id, Sender: models.SenderUser})
	}
	return out
}

func ids(list []models.Message) []string {
	out := make([]string, 0, len(list))
	for _, m := range list {
		out = append(out, m.ID)
	}
	return out
}

func equalIDs(a []string, b ...string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestMergePrependOlder(t *testing.T) {
	existing := msgs("c", "d")
	merged := Merge(existing, msgs("a", "b"), PrependOlder)
	if !equalIDs(ids(merged), "a", "b", "c", "d") {
		t.Fatalf("got %v", ids(merged))
	}
}

func TestMergeIdempotentPrepend(t *testing.T) {
	existing := msgs("c", "d")
	page := msgs("a", "b")
	once := Merge(existing, page, PrependOlder)
	twice := Merge(once, page, PrependOlder)
	if len(twice) != len(once) {
		t.Fatalf("re-merging the same page grew the list: %d -> %d", len(once), len(twice))
	}
}

func TestMergeBoundaryDuplicateKeepsFirstOccurrence(t *testing.T) {
	existing := []models.Message{
		{ID: "b", Text: "kept"},
		{ID: "c", Text: "c"},
	}
	incoming := []models.Message{
		{ID: "a", Text: "a"},
		{ID: "b", Text: "overlapped"},
	}
	merged := Merge(existing, incoming, PrependOlder)
	if !equalIDs(ids(merged), "a", "b", "c") {
		t.Fatalf("got %v", ids(merged))
	}
	for _, m := range merged {
		if m.ID == "b" && m.Text != "kept" {
			t.Fatalf("duplicate resolution replaced the existing copy")
		}
	}
}

func TestMergeAppendModes(t *testing.T) {
	existing := msgs("a", "b")
	merged := Merge(existing, msgs("c"), AppendNewer)
	merged = Merge(merged, msgs("d"), AppendOptimistic)
	if !equalIDs(ids(merged), "a", "b", "c", "d") {
		t.Fatalf("got %v", ids(merged))
	}
}

func TestMergeGuardsDoubleSubmit(t *testing.T) {
	existing := msgs("a")
	merged := Merge(existing, msgs("x"), AppendOptimistic)
	merged = Merge(merged, msgs("x"), AppendOptimistic)
	if !equalIDs(ids(merged), "a", "x") {
		t.Fatalf("double submit not collapsed: %v", ids(merged))
	}
}

func TestMergeEmptyIncoming(t *testing.T) {
	existing := msgs("a", "b")
	merged := Merge(existing, nil, AppendNewer)
	if !equalIDs(ids(merged), "a", "b") {
		t.Fatalf("got %v", ids(merged))
	}
}

func TestMergeIncomingInternalDuplicates(t *testing.T) {
	merged := Merge(nil, msgs("a", "a", "b"), AppendNewer)
	if !equalIDs(ids(merged), "a", "b") {
		t.Fatalf("got %v", ids(merged))
	}
}
