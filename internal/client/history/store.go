// Package history keeps the ordered, pinnable list of generated identifiers.
//
// The whole history is one JSON array stored under a single key of a
// kv.Repository. Stored order is insertion order; readers always get the
// entries sorted newest first.
//
// Storage failures never reach the caller as a crash: they are logged,
// counted, and the operation degrades to its safe default (empty list,
// skipped write). SetPinned is the only operation with a negative result,
// distinguishing common.ErrorNotFound from common.ErrorStorage.
package history

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrijs2005/oibkeeper/internal/client/models"
	"github.com/dmitrijs2005/oibkeeper/internal/client/repositories/kv"
	"github.com/dmitrijs2005/oibkeeper/internal/common"
	"github.com/dmitrijs2005/oibkeeper/internal/logging"
	"github.com/dmitrijs2005/oibkeeper/internal/metrics"
)

// DefaultKey is the storage key holding the history array.
const DefaultKey = "oibHistory"

const (
	opAdd           = "add"
	opList          = "list"
	opSetPinned     = "set_pinned"
	opClearUnpinned = "clear_unpinned"
	opClearAll      = "clear_all"
)

// Store keeps the generated-identifier history as one record under key in repo.
type Store struct {
	repo    kv.Repository
	key     string
	log     logging.Logger
	metrics *metrics.Metrics
	mu      sync.Mutex
}

// NewStore returns a Store persisting under key (DefaultKey when empty).
// m may be nil.
func NewStore(repo kv.Repository, key string, log logging.Logger, m *metrics.Metrics) *Store {
	if key == "" {
		key = DefaultKey
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Store{repo: repo, key: key, log: log.With("key", key), metrics: m}
}

// Add appends an unpinned entry and returns it. value is recorded as given.
// If the stored history cannot be read or decoded it is left untouched.
func (s *Store) Add(ctx context.Context, value string, createdAt int64) models.Entry {
	e := models.NewEntry(value, createdAt)

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.repo.Update(ctx, s.key, func(old []byte) ([]byte, error) {
		entries, err := decode(old)
		if err != nil {
			return nil, err
		}
		return encode(append(entries, e))
	})
	s.done(ctx, opAdd, err, "value", value)
	return e
}

// List returns the history sorted by CreatedAt, newest first. Entries with
// equal timestamps keep their stored order. Any read failure yields an
// empty, non-nil slice.
func (s *Store) List(ctx context.Context) []models.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read(ctx)
	s.done(ctx, opList, err)
	if err != nil {
		return []models.Entry{}
	}
	return sorted(entries)
}

// SetPinned sets the pinned flag of the first stored entry with value and
// returns the updated, sorted history. When no entry matches, nothing is
// written and common.ErrorNotFound is returned.
func (s *Store) SetPinned(ctx context.Context, value string, pinned bool) ([]models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updated []models.Entry
	err := s.repo.Update(ctx, s.key, func(old []byte) ([]byte, error) {
		entries, err := decode(old)
		if err != nil {
			return nil, err
		}
		i := slices.IndexFunc(entries, func(e models.Entry) bool { return e.Value == value })
		if i < 0 {
			return nil, common.ErrorNotFound
		}
		entries[i].Pinned = pinned
		updated = entries
		return encode(entries)
	})
	s.done(ctx, opSetPinned, err, "value", value, "pinned", pinned)

	switch {
	case err == nil:
		return sorted(updated), nil
	case errors.Is(err, common.ErrorNotFound):
		return nil, common.ErrorNotFound
	default:
		return nil, common.ErrorStorage
	}
}

// ClearUnpinned drops every entry that is not pinned. Pinned entries keep
// their stored order.
func (s *Store) ClearUnpinned(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.repo.Update(ctx, s.key, func(old []byte) ([]byte, error) {
		entries, err := decode(old)
		if err != nil {
			return nil, err
		}
		return encode(slices.DeleteFunc(entries, func(e models.Entry) bool { return !e.Pinned }))
	})
	s.done(ctx, opClearUnpinned, err)
}

// ClearAll removes the history key, pinned entries included.
func (s *Store) ClearAll(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.repo.Delete(ctx, s.key)
	s.done(ctx, opClearAll, err)
}

func (s *Store) read(ctx context.Context) ([]models.Entry, error) {
	data, err := s.repo.Get(ctx, s.key)
	if err != nil {
		return nil, err
	}
	return decode(data)
}

func (s *Store) done(ctx context.Context, op string, err error, args ...any) {
	s.metrics.StoreOp(op, err)

	args = append(args, "op", op)
	switch {
	case err == nil:
		s.log.Debug(ctx, "history updated", args...)
	case errors.Is(err, common.ErrorNotFound):
		s.log.Warn(ctx, "history entry not found", args...)
	default:
		s.log.Error(ctx, "history storage failed", append(args, "err", err)...)
	}
}

func decode(data []byte) ([]models.Entry, error) {
	entries := []models.Entry{}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	if entries == nil {
		entries = []models.Entry{}
	}
	return entries, nil
}

func encode(entries []models.Entry) ([]byte, error) {
	if entries == nil {
		entries = []models.Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("encode history: %w", err)
	}
	return data, nil
}

func sorted(entries []models.Entry) []models.Entry {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, func(a, b models.Entry) int {
		return cmp.Compare(b.CreatedAt, a.CreatedAt)
	})
	return out
}

// Filter returns the entries whose value contains term, ignoring case. An
// empty term matches everything.
func Filter(entries []models.Entry, term string) []models.Entry {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]models.Entry, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Value), term) {
			out = append(out, e)
		}
	}
	return out
}

// Split separates pinned entries from the rest, preserving order in both.
func Split(entries []models.Entry) (pinned, rest []models.Entry) {
	for _, e := range entries {
		if e.Pinned {
			pinned = append(pinned, e)
		} else {
			rest = append(rest, e)
		}
	}
	return pinned, rest
}
