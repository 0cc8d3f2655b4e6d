package store

import (
	"errors"
	"log/slog"
	"slices"
	"sync"

	gocache "github.com/patrickmn/go-cache"

	"github.com/saylorsolutions/hooter/order"
	"github.com/saylorsolutions/hooter/syncx"
	"github.com/saylorsolutions/hooter/wildcard"
)

// Lookups are cached under separate key spaces, so no needle can alias the "all" query.
const (
	allKey      = "all"
	matchPrefix = "match:"
)

var (
	ErrNilMatcher = errors.New("nil matcher")
	ErrNilLogger  = errors.New("nil logger")
)

// Entry is something that can be stored, matched by key, and ordered.
type Entry interface {
	comparable
	order.Item
	Key() string
}

// MatchFunc reports whether an entry key should be returned for a needle.
type MatchFunc func(key, needle string) bool

type config struct {
	match  MatchFunc
	logger *slog.Logger
}

// Option configures a [Store].
type Option func(*config) error

// WithMatcher overrides how entry keys are compared with needles.
// The default is [wildcard.Overlaps].
func WithMatcher(match MatchFunc) Option {
	return func(c *config) error {
		if match == nil {
			return ErrNilMatcher
		}
		c.match = match
		return nil
	}
}

// WithLogger sets the logger for cache and ordering diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) error {
		if logger == nil {
			return ErrNilLogger
		}
		c.logger = logger
		return nil
	}
}

// Store is a concurrency safe registry of entries.
type Store[T Entry] struct {
	mux     sync.RWMutex
	entries []T
	cache   *gocache.Cache
	match   MatchFunc
	logger  *slog.Logger
}

// New creates an empty [Store].
func New[T Entry](opts ...Option) (*Store[T], error) {
	conf := &config{
		match:  wildcard.Overlaps,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if err := opt(conf); err != nil {
			return nil, err
		}
	}
	return &Store[T]{
		cache:  gocache.New(gocache.NoExpiration, 0),
		match:  conf.match,
		logger: conf.logger,
	}, nil
}

// Add appends an entry.
// Adding the same entry twice stores it twice.
func (s *Store[T]) Add(entry T) {
	syncx.LockFunc(&s.mux, func() {
		s.entries = append(s.entries, entry)
		s.cache.Flush()
	})
}

// All returns every entry in dependency order.
func (s *Store[T]) All() ([]T, error) {
	return s.lookup(allKey, func(T) bool { return true })
}

// Match returns the entries with a key matching needle, in dependency order.
func (s *Store[T]) Match(needle string) ([]T, error) {
	return s.lookup(matchPrefix+needle, func(entry T) bool {
		return s.match(entry.Key(), needle)
	})
}

// Has reports whether entry is currently stored.
func (s *Store[T]) Has(entry T) bool {
	return syncx.RLockFuncT(&s.mux, func() bool {
		return slices.Contains(s.entries, entry)
	})
}

// Len returns the number of stored entries.
func (s *Store[T]) Len() int {
	return syncx.RLockFuncT(&s.mux, func() int {
		return len(s.entries)
	})
}

// Cached returns the number of needles with a cached result.
func (s *Store[T]) Cached() int {
	return s.cache.ItemCount()
}

// Remove removes the first occurrence of entry, and reports whether it was found.
func (s *Store[T]) Remove(entry T) bool {
	return syncx.LockFuncT(&s.mux, func() bool {
		i := slices.Index(s.entries, entry)
		if i < 0 {
			return false
		}
		s.entries = slices.Delete(s.entries, i, i+1)
		s.cache.Flush()
		return true
	})
}

// RemoveMatching removes every entry matching needle, and returns how many were removed.
func (s *Store[T]) RemoveMatching(needle string) int {
	return syncx.LockFuncT(&s.mux, func() int {
		before := len(s.entries)
		s.entries = slices.DeleteFunc(s.entries, func(entry T) bool {
			return s.match(entry.Key(), needle)
		})
		removed := before - len(s.entries)
		if removed > 0 {
			s.cache.Flush()
		}
		return removed
	})
}

// Clear removes all entries, and returns how many were removed.
func (s *Store[T]) Clear() int {
	return syncx.LockFuncT(&s.mux, func() int {
		removed := len(s.entries)
		s.entries = nil
		s.cache.Flush()
		return removed
	})
}

func (s *Store[T]) lookup(key string, filter func(T) bool) ([]T, error) {
	if cached, ok := syncx.RLockFuncTOk(&s.mux, func() ([]T, bool) {
		return s.cached(key)
	}); ok {
		return slices.Clone(cached), nil
	}

	s.mux.Lock()
	defer s.mux.Unlock()
	// Another caller may have filled it while we waited for the lock.
	if cached, ok := s.cached(key); ok {
		return slices.Clone(cached), nil
	}
	matched := make([]T, 0, len(s.entries))
	for _, entry := range s.entries {
		if filter(entry) {
			matched = append(matched, entry)
		}
	}
	sorted, err := order.Sort(matched)
	if err != nil {
		s.logger.Warn("Failed to order entries", "needle", key, "error", err)
		return nil, err
	}
	s.cache.Set(key, sorted, gocache.NoExpiration)
	s.logger.Debug("Cached lookup", "needle", key, "count", len(sorted))
	return slices.Clone(sorted), nil
}

func (s *Store[T]) cached(key string) ([]T, bool) {
	val, found := s.cache.Get(key)
	if !found {
		return nil, false
	}
	entries, ok := val.([]T)
	if !ok {
		s.logger.Error("Unexpected cached value type", "needle", key)
		return nil, false
	}
	return entries, true
}
