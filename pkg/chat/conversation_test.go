package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"companion/pkg/api"
	"companion/pkg/cache"
	"companion/pkg/models"
	"companion/pkg/session"
)

// fakeBackend serves canned wire pages keyed by the beforeId cursor. The
// optional gate blocks History until released, for tests that race a fetch
// against other operations.
type fakeBackend struct {
	mu      sync.Mutex
	pages   map[string][]api.RawMessage
	histErr error
	gate    chan struct{}

	reply   string
	sendErr error

	notifs  []models.RepeatedNotification
	stopped []int64
}

func (f *fakeBackend) History(ctx context.Context, userID int64, limit int, beforeID string) ([]api.RawMessage, error) {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.histErr != nil {
		return nil, f.histErr
	}
	return f.pages[beforeID], nil
}

func (f *fakeBackend) SendChat(ctx context.Context, userID int64, text string) (string, error) {
	if f.sendErr != nil {
		return "", f.sendErr
	}
	return f.reply, nil
}

func (f *fakeBackend) ActiveRepeatedNotifications(ctx context.Context, userID int64) ([]models.RepeatedNotification, error) {
	return f.notifs, nil
}

func (f *fakeBackend) StopRepeated(ctx context.Context, settingID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = append(f.stopped, settingID)
	return nil
}

// wire builds a wire-shaped record the way the backend emits them.
func wire(t *testing.T, id, text, role string) api.RawMessage {
	t.Helper()
	return rawFromJSON(t, fmt.Sprintf(`{"_id":%q,"text":%q,"sender":%q}`, id, text, role))
}

func newTestConversation(t *testing.T, fb *fakeBackend, pageSize int) (*Conversation, *cache.Store) {
	t.Helper()
	store, err := cache.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	sess := session.UserSession{UserID: 7, Name: "tester"}
	return NewConversation(sess, fb, store, pageSize), store
}

func TestLoadInitialOverHydratedCache(t *testing.T) {
	fb := &fakeBackend{pages: map[string][]api.RawMessage{
		// newest first on the wire
		"": {wire(t, "m3", "hi there", "assistant"), wire(t, "m2", "hello", "user")},
	}}
	conv, store := newTestConversation(t, fb, 3)
	if err := store.PutHistory(7, []models.Message{
		{ID: "m1", Text: "earlier", Sender: models.SenderUser},
		{ID: "m2", Text: "hello", Sender: models.SenderUser},
	}); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	conv.Hydrate()
	if got := conv.Messages(); len(got) != 2 {
		t.Fatalf("hydrated %d messages; want 2", len(got))
	}
	if err := conv.LoadInitial(context.Background()); err != nil {
		t.Fatalf("LoadInitial: %v", err)
	}
	got := conv.Messages()
	if !equalIDs(ids(got), "m1", "m2", "m3") {
		t.Fatalf("merged order %v", ids(got))
	}
	if conv.HasMore() {
		t.Fatalf("short page should end pagination")
	}
}

func TestLoadInitialFailurePreservesState(t *testing.T) {
	fb := &fakeBackend{histErr: errors.New("boom")}
	conv, store := newTestConversation(t, fb, 3)
	if err := store.PutHistory(7, msgs("m1")); err != nil {
		t.Fatalf("seed cache: %v", err)
	}
	conv.Hydrate()

	if err := conv.LoadInitial(context.Background()); err == nil {
		t.Fatalf("expected fetch error")
	}
	if got := conv.Messages(); !equalIDs(ids(got), "m1") {
		t.Fatalf("state changed on failed fetch: %v", ids(got))
	}
	if !conv.HasMore() {
		t.Fatalf("failed fetch must not end pagination")
	}
}

func TestLoadEarlierUntilExhausted(t *testing.T) {
	fb := &fakeBackend{pages: map[string][]api.RawMessage{
		"":   {wire(t, "m4", "d", "assistant"), wire(t, "m3", "c", "user")},
		"m3": {wire(t, "m2", "b", "assistant"), wire(t, "m1", "a", "user")},
		"m1": {},
	}}
	conv, _ := newTestConversation(t, fb, 2)
	ctx := context.Background()
	if err := conv.LoadInitial(ctx); err != nil {
		t.Fatalf("LoadInitial: %v", err)
	}
	if err := conv.LoadEarlier(ctx); err != nil {
		t.Fatalf("LoadEarlier: %v", err)
	}
	if !equalIDs(ids(conv.Messages()), "m1", "m2", "m3", "m4") {
		t.Fatalf("order %v", ids(conv.Messages()))
	}
	if !conv.HasMore() {
		t.Fatalf("full page should keep pagination open")
	}
	if err := conv.LoadEarlier(ctx); err != nil {
		t.Fatalf("LoadEarlier at end: %v", err)
	}
	if conv.HasMore() {
		t.Fatalf("empty page is definitive end of history")
	}
	// further calls are no-ops, not requests
	fb.mu.Lock()
	fb.histErr = errors.New("must not be called")
	fb.mu.Unlock()
	if err := conv.LoadEarlier(ctx); err != nil {
		t.Fatalf("LoadEarlier after end: %v", err)
	}
}

func TestLoadEarlierBoundaryOverlap(t *testing.T) {
	fb := &fakeBackend{pages: map[string][]api.RawMessage{
		"": {wire(t, "m3", "c", "user"), wire(t, "m2", "b", "user")},
		// overlapping page: server re-sends m2 alongside the older m1
		"m2": {wire(t, "m2", "b", "user"), wire(t, "m1", "a", "user")},
	}}
	conv, _ := newTestConversation(t, fb, 2)
	ctx := context.Background()
	if err := conv.LoadInitial(ctx); err != nil {
		t.Fatalf("LoadInitial: %v", err)
	}
	if err := conv.LoadEarlier(ctx); err != nil {
		t.Fatalf("LoadEarlier: %v", err)
	}
	if !equalIDs(ids(conv.Messages()), "m1", "m2", "m3") {
		t.Fatalf("overlap not collapsed: %v", ids(conv.Messages()))
	}
}

func TestSendAppendsOptimisticAndReply(t *testing.T) {
	fb := &fakeBackend{reply: "hi there"}
	conv, store := newTestConversation(t, fb, 3)

	reply, err := conv.Send(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	got := conv.Messages()
	if len(got) != 2 {
		t.Fatalf("expected optimistic + reply; got %d", len(got))
	}
	if got[0].Sender != models.SenderUser || got[0].Text != "hello" {
		t.Fatalf("optimistic message wrong: %+v", got[0])
	}
	if got[1].Sender != models.SenderAssistant || got[1].Text != "hi there" {
		t.Fatalf("reply wrong: %+v", got[1])
	}
	if got[0].ID == "" || got[1].ID == "" || got[0].ID == got[1].ID {
		t.Fatalf("client ids must be distinct and non-empty: %q %q", got[0].ID, got[1].ID)
	}
	if reply.ID != got[1].ID {
		t.Fatalf("returned reply does not match the appended one")
	}

	cached, err := store.History(7)
	if err != nil {
		t.Fatalf("cache read: %v", err)
	}
	if len(cached) != 2 {
		t.Fatalf("conversation not persisted: %d entries", len(cached))
	}
}

func TestSendFailureKeepsOptimistic(t *testing.T) {
	fb := &fakeBackend{sendErr: errors.New("backend down")}
	conv, _ := newTestConversation(t, fb, 3)

	if _, err := conv.Send(context.Background(), "hello"); err == nil {
		t.Fatalf("expected send error")
	}
	got := conv.Messages()
	if len(got) != 1 || got[0].Text != "hello" {
		t.Fatalf("optimistic message must survive a failed send: %+v", got)
	}
}

func TestCloseDiscardsInFlightFetch(t *testing.T) {
	fb := &fakeBackend{
		pages: map[string][]api.RawMessage{"": {wire(t, "m1", "a", "user")}},
		gate:  make(chan struct{}),
	}
	conv, _ := newTestConversation(t, fb, 3)

	done := make(chan error, 1)
	go func() { done <- conv.LoadInitial(context.Background()) }()

	conv.Close()
	close(fb.gate)
	if err := <-done; err != nil {
		t.Fatalf("stale resolve must be silent: %v", err)
	}
	if got := conv.Messages(); len(got) != 0 {
		t.Fatalf("stale page merged after Close: %v", ids(got))
	}
}

func TestClosedConversationRefusesWork(t *testing.T) {
	conv, _ := newTestConversation(t, &fakeBackend{}, 3)
	conv.Close()
	if err := conv.LoadInitial(context.Background()); !errors.Is(err, ErrClosed) {
		t.Fatalf("LoadInitial on closed: %v", err)
	}
	if _, err := conv.Send(context.Background(), "hi"); !errors.Is(err, ErrClosed) {
		t.Fatalf("Send on closed: %v", err)
	}
}

func TestOverlappingEarlierAndSend(t *testing.T) {
	fb := &fakeBackend{
		pages: map[string][]api.RawMessage{
			"m2": {wire(t, "m1", "a", "user")},
		},
		reply: "ack",
	}
	conv, _ := newTestConversation(t, fb, 3)
	conv.mu.Lock()
	conv.msgs = msgs("m2", "m3")
	conv.oldestID = "m2"
	conv.mu.Unlock()

	fb.gate = make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- conv.LoadEarlier(context.Background()) }()

	// the send resolves while the older page is still in flight
	if _, err := conv.Send(context.Background(), "typed meanwhile"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	close(fb.gate)
	if err := <-done; err != nil {
		t.Fatalf("LoadEarlier: %v", err)
	}

	got := ids(conv.Messages())
	if got[0] != "m1" {
		t.Fatalf("older page must land at the front: %v", got)
	}
	if len(got) != 5 {
		t.Fatalf("expected page + existing + send pair; got %v", got)
	}
}

func TestPullAndStopRepeatedNotifications(t *testing.T) {
	fb := &fakeBackend{notifs: []models.RepeatedNotification{
		{ID: 7, Message: "drink water", Cron: "0 * * * *"},
		{ID: 9, Message: "stretch", Cron: "30 * * * *"},
	}}
	conv, _ := newTestConversation(t, fb, 3)
	ctx := context.Background()

	msg, err := conv.PullActiveNotifications(ctx)
	if err != nil {
		t.Fatalf("PullActiveNotifications: %v", err)
	}
	if msg == nil || msg.Custom == nil || len(msg.Custom.RepeatedNotifications) != 2 {
		t.Fatalf("notification message malformed: %+v", msg)
	}

	if err := conv.StopRepeated(ctx, 7, msg.ID); err != nil {
		t.Fatalf("StopRepeated: %v", err)
	}
	if len(fb.stopped) != 1 || fb.stopped[0] != 7 {
		t.Fatalf("backend cancel not issued: %v", fb.stopped)
	}
	got := conv.Messages()
	carrier := got[len(got)-1]
	if carrier.Custom == nil || len(carrier.Custom.RepeatedNotifications) != 1 {
		t.Fatalf("reference not stripped: %+v", carrier.Custom)
	}
	if carrier.Custom.RepeatedNotifications[0].ID != 9 {
		t.Fatalf("wrong reference stripped: %+v", carrier.Custom)
	}

	if err := conv.StopRepeated(ctx, 9, msg.ID); err != nil {
		t.Fatalf("StopRepeated: %v", err)
	}
	got = conv.Messages()
	if got[len(got)-1].Custom != nil {
		t.Fatalf("empty custom payload should be cleared")
	}
}

func TestPullActiveNotificationsEmpty(t *testing.T) {
	conv, _ := newTestConversation(t, &fakeBackend{}, 3)
	msg, err := conv.PullActiveNotifications(context.Background())
	if err != nil {
		t.Fatalf("PullActiveNotifications: %v", err)
	}
	if msg != nil {
		t.Fatalf("no notifications should append nothing: %+v", msg)
	}
	if len(conv.Messages()) != 0 {
		t.Fatalf("conversation grew with no notifications")
	}
}
