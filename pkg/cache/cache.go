package cache

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"

	"companion/pkg/logger"
	"companion/pkg/telemetry"
)

// Store is the local cache: a Pebble database holding one serialized value
// per namespaced key. Every domain (chat history, completed habits, calendar
// items, notification settings, session) writes whole-value replacements;
// there are no partial updates.
//
// The cache is best-effort by design: callers treat read failures as "empty"
// and write failures as logged no-ops. It must never block or roll back
// in-memory state.
type Store struct {
	db   *pebble.DB
	path string
}

// Error describes a failed cache operation.
type Error struct {
	Op  string
	Key string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("cache %s %s: %v", e.Op, e.Key, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// Open opens (or creates) the Pebble database at path.
func Open(path string) (*Store, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		logger.Error("cache_open_failed", "path", path, "error", err)
		return nil, err
	}
	logger.Info("cache_opened", "path", path)
	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Path returns the on-disk location of the cache.
func (s *Store) Path() string { return s.path }

// get returns the raw value for key, or nil when the key is absent.
func (s *Store) get(key string) ([]byte, error) {
	if s == nil || s.db == nil {
		return nil, &Error{Op: "get", Key: key, Err: errors.New("cache not opened")}
	}
	v, closer, err := s.db.Get([]byte(key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, nil
		}
		telemetry.CacheErrors.WithLabelValues("get").Inc()
		return nil, &Error{Op: "get", Key: key, Err: err}
	}
	defer closer.Close()
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// set stores the raw value under key, replacing any previous value.
func (s *Store) set(key string, val []byte) error {
	if s == nil || s.db == nil {
		return &Error{Op: "set", Key: key, Err: errors.New("cache not opened")}
	}
	if err := s.db.Set([]byte(key), val, pebble.Sync); err != nil {
		telemetry.CacheErrors.WithLabelValues("set").Inc()
		return &Error{Op: "set", Key: key, Err: err}
	}
	return nil
}

// delete removes key; missing keys are not an error.
func (s *Store) delete(key string) error {
	if s == nil || s.db == nil {
		return &Error{Op: "delete", Key: key, Err: errors.New("cache not opened")}
	}
	if err := s.db.Delete([]byte(key), pebble.Sync); err != nil {
		telemetry.CacheErrors.WithLabelValues("delete").Inc()
		return &Error{Op: "delete", Key: key, Err: err}
	}
	return nil
}
