package chat

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"companion/pkg/api"
	"companion/pkg/cache"
	"companion/pkg/logger"
	"companion/pkg/models"
	"companion/pkg/session"
)

// Backend is the slice of the API client the conversation engine needs.
type Backend interface {
	History(ctx context.Context, userID int64, limit int, beforeID string) ([]api.RawMessage, error)
	SendChat(ctx context.Context, userID int64, text string) (string, error)
	ActiveRepeatedNotifications(ctx context.Context, userID int64) ([]models.RepeatedNotification, error)
	StopRepeated(ctx context.Context, settingID int64) error
}

// Conversation owns the in-memory message list for one user and reconciles
// it with the backend and the local cache. Messages are held oldest first.
//
// All state mutations happen under the mutex as each call resolves, so
// overlapping fetches and sends are safe: merges of disjoint id sets
// commute, and the final list is the same whichever resolves first. Every
// network operation snapshots a generation counter; Close bumps it, and a
// fetch that resolves against a stale generation is discarded without
// merging.
type Conversation struct {
	sess    session.UserSession
	backend Backend
	store   *cache.Store

	mu       sync.Mutex
	msgs     []models.Message
	hasMore  bool
	oldestID string
	gen      uint64
	closed   bool

	pageSize int
}

// NewConversation builds an engine for the given user. The session is
// threaded explicitly; the engine holds no global identity state.
func NewConversation(sess session.UserSession, backend Backend, store *cache.Store, pageSize int) *Conversation {
	if pageSize <= 0 {
		pageSize = 50
	}
	return &Conversation{
		sess:     sess,
		backend:  backend,
		store:    store,
		hasMore:  true,
		pageSize: pageSize,
	}
}

// Hydrate loads the cached conversation so the caller can render instantly
// before any network round-trip. Cache failures degrade to an empty list.
func (c *Conversation) Hydrate() {
	msgs, err := c.store.History(c.sess.UserID)
	if err != nil {
		logger.Warn("history_cache_read_failed", "user", c.sess.UserID, "error", err)
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = msgs
	if len(msgs) > 0 {
		c.oldestID = msgs[0].ID
	}
}

// LoadInitial fetches the most recent page and merges it over the hydrated
// state. On failure the existing state is left untouched.
func (c *Conversation) LoadInitial(ctx context.Context) error {
	gen, err := c.snapshot()
	if err != nil {
		return err
	}
	raws, err := c.backend.History(ctx, c.sess.UserID, c.pageSize, "")
	if err != nil {
		return err
	}
	page := reverse(NormalizeAll(raws))

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stale(gen) {
		logger.Debug("initial_page_discarded", "user", c.sess.UserID)
		return nil
	}
	c.msgs = Merge(c.msgs, page, AppendNewer)
	if len(page) > 0 {
		c.oldestID = page[0].ID
	}
	if len(raws) < c.pageSize {
		c.hasMore = false
	}
	c.persistLocked()
	return nil
}

// LoadEarlier fetches the page before the current oldest message. An empty
// page is definitive end-of-history.
func (c *Conversation) LoadEarlier(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if !c.hasMore || c.oldestID == "" {
		c.mu.Unlock()
		return nil
	}
	gen, before := c.gen, c.oldestID
	c.mu.Unlock()

	raws, err := c.backend.History(ctx, c.sess.UserID, c.pageSize, before)
	if err != nil {
		return err
	}
	page := reverse(NormalizeAll(raws))

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stale(gen) {
		logger.Debug("earlier_page_discarded", "user", c.sess.UserID)
		return nil
	}
	if len(raws) == 0 {
		c.hasMore = false
		return nil
	}
	c.msgs = Merge(c.msgs, page, PrependOlder)
	c.oldestID = c.msgs[0].ID
	if len(raws) < c.pageSize {
		c.hasMore = false
	}
	c.persistLocked()
	return nil
}

// Send appends the text optimistically, submits it, and merges the
// assistant's reply on success. The optimistic message keeps its
// client-generated id forever and is never rolled back on failure.
func (c *Conversation) Send(ctx context.Context, text string) (models.Message, error) {
	gen, err := c.snapshot()
	if err != nil {
		return models.Message{}, err
	}
	optimistic := models.Message{
		ID:        uuid.NewString(),
		Text:      text,
		Sender:    models.SenderUser,
		CreatedAt: time.Now(),
	}
	c.mu.Lock()
	c.msgs = Merge(c.msgs, []models.Message{optimistic}, AppendOptimistic)
	c.persistLocked()
	c.mu.Unlock()

	replyText, err := c.backend.SendChat(ctx, c.sess.UserID, text)
	if err != nil {
		logger.Error("send_failed", "user", c.sess.UserID, "error", err)
		return models.Message{}, err
	}
	reply := models.Message{
		ID:        uuid.NewString(),
		Text:      replyText,
		Sender:    models.SenderAssistant,
		CreatedAt: time.Now(),
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stale(gen) {
		logger.Debug("reply_discarded", "user", c.sess.UserID)
		return reply, nil
	}
	c.msgs = Merge(c.msgs, []models.Message{reply}, AppendNewer)
	c.persistLocked()
	return reply, nil
}

// PullActiveNotifications asks the backend for running repeated
// notifications and, when there are any, appends an assistant message
// carrying cancellable references to them. It returns the appended message,
// or nil when there was nothing to show.
func (c *Conversation) PullActiveNotifications(ctx context.Context) (*models.Message, error) {
	gen, err := c.snapshot()
	if err != nil {
		return nil, err
	}
	notifs, err := c.backend.ActiveRepeatedNotifications(ctx, c.sess.UserID)
	if err != nil {
		return nil, err
	}
	if len(notifs) == 0 {
		return nil, nil
	}
	msg := models.Message{
		ID:        uuid.NewString(),
		Text:      "Active notifications:",
		Sender:    models.SenderAssistant,
		CreatedAt: time.Now(),
		Custom:    &models.Custom{RepeatedNotifications: notifs},
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stale(gen) {
		return nil, nil
	}
	c.msgs = Merge(c.msgs, []models.Message{msg}, AppendNewer)
	c.persistLocked()
	return &msg, nil
}

// StopRepeated cancels one repeated notification setting on the backend and
// strips its reference from the message that carries it, so the cancel
// affordance disappears from the conversation.
func (c *Conversation) StopRepeated(ctx context.Context, settingID int64, messageID string) error {
	if _, err := c.snapshot(); err != nil {
		return err
	}
	if err := c.backend.StopRepeated(ctx, settingID); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.msgs {
		m := &c.msgs[i]
		if m.ID != messageID || m.Custom == nil {
			continue
		}
		kept := m.Custom.RepeatedNotifications[:0]
		for _, n := range m.Custom.RepeatedNotifications {
			if n.ID != settingID {
				kept = append(kept, n)
			}
		}
		if len(kept) == 0 {
			m.Custom = nil
		} else {
			m.Custom = &models.Custom{RepeatedNotifications: kept}
		}
		break
	}
	c.persistLocked()
	return nil
}

// Messages returns a copy of the conversation, oldest first.
func (c *Conversation) Messages() []models.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Message, len(c.msgs))
	copy(out, c.msgs)
	return out
}

// HasMore reports whether older history may remain on the server.
func (c *Conversation) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasMore
}

// Close invalidates in-flight fetches; their results are dropped when they
// resolve. The engine must not be used afterwards.
func (c *Conversation) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.gen++
}

// snapshot records the current generation, refusing to start work on a
// closed conversation.
func (c *Conversation) snapshot() (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, ErrClosed
	}
	return c.gen, nil
}

// stale reports whether a resolved operation's generation is no longer
// current. Callers must hold the mutex.
func (c *Conversation) stale(gen uint64) bool {
	return c.closed || c.gen != gen
}

// persistLocked writes the current list to the cache. Failures are logged
// and never roll back the in-memory merge. Callers must hold the mutex.
func (c *Conversation) persistLocked() {
	if err := c.store.PutHistory(c.sess.UserID, c.msgs); err != nil {
		logger.Warn("history_cache_write_failed", "user", c.sess.UserID, "error", err)
	}
}

// reverse flips a wire-ordered page (newest first) into storage order
// (oldest first).
func reverse(msgs []models.Message) []models.Message {
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs
}
