package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"bookvault/internal/isbn"
	"bookvault/internal/vault"
)

// ErrNotFound is returned by Update when no record carries the identifier.
var ErrNotFound = errors.New("record not found")

// cacheEntry pairs a parsed collection with the backing blob's modification
// time at parse time. Owned exclusively by the store; never handed out.
type cacheEntry struct {
	collection *RecordCollection
	modTime    time.Time
	cachedAt   time.Time
}

// Store is a cached view over record collections in a vault. One Store owns
// its cache map; construct once and share by reference rather than keeping
// hidden process-wide state.
type Store struct {
	vault vault.Vault
	log   *slog.Logger

	mu    sync.RWMutex
	cache map[string]*cacheEntry
	locks map[string]*sync.Mutex
}

// New creates a store over the given vault.
func New(v vault.Vault, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		vault: v,
		log:   logger.With("component", "store"),
		cache: make(map[string]*cacheEntry),
		locks: make(map[string]*sync.Mutex),
	}
}

// sourceLock returns the mutex serializing load-merge-persist cycles for one
// source identity. Without it two concurrent updates race and one is lost.
func (s *Store) sourceLock(source string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.locks[source]
	if !ok {
		m = &sync.Mutex{}
		s.locks[source] = m
	}
	return m
}

// EnsureExists creates an empty, schema-valid collection at source if none is
// present. Idempotent.
func (s *Store) EnsureExists(ctx context.Context, source string) error {
	lock := s.sourceLock(source)
	lock.Lock()
	defer lock.Unlock()
	return s.ensureExistsLocked(ctx, source)
}

func (s *Store) ensureExistsLocked(ctx context.Context, source string) error {
	exists, err := s.vault.Exists(ctx, source)
	if err != nil {
		return fmt.Errorf("check source %s: %w", source, err)
	}
	if exists {
		return nil
	}
	s.log.Info("creating collection", "source", source)
	return s.persistLocked(ctx, source, emptyCollection())
}

// Add appends a record unless its identifier is already present. Returns
// false without mutating anything for a duplicate.
func (s *Store) Add(ctx context.Context, source string, rec BookRecord) (bool, error) {
	if rec.ISBN.IsZero() {
		return false, fmt.Errorf("record has no validated identifier")
	}
	lock := s.sourceLock(source)
	lock.Lock()
	defer lock.Unlock()

	if err := s.ensureExistsLocked(ctx, source); err != nil {
		return false, err
	}
	col, err := s.loadLocked(ctx, source)
	if err != nil {
		return false, err
	}
	if col.find(rec.ISBN) >= 0 {
		s.log.Debug("duplicate record", "source", source, "isbn", rec.ISBN.String())
		return false, nil
	}
	col.Records = append(col.Records, rec)
	if err := s.persistLocked(ctx, source, col); err != nil {
		return false, err
	}
	return true, nil
}

// Update merges a partial patch over the record with the given identifier.
// Returns ErrNotFound when the identifier is absent; the collection and the
// backing blob are left untouched in that case.
func (s *Store) Update(ctx context.Context, source string, id isbn.ISBN, patch FieldPatch) error {
	lock := s.sourceLock(source)
	lock.Lock()
	defer lock.Unlock()

	col, err := s.loadLocked(ctx, source)
	if err != nil {
		return err
	}
	i := col.find(id)
	if i < 0 {
		return fmt.Errorf("update %s in %s: %w", id.String(), source, ErrNotFound)
	}
	if patch.empty() {
		return nil
	}
	patch.apply(&col.Records[i])
	return s.persistLocked(ctx, source, col)
}

// Get returns the record with the given identifier, or ok=false when absent.
// Never mutates; the returned record is a copy.
func (s *Store) Get(ctx context.Context, source string, id isbn.ISBN) (BookRecord, bool, error) {
	col, err := s.load(ctx, source)
	if err != nil {
		return BookRecord{}, false, err
	}
	i := col.find(id)
	if i < 0 {
		return BookRecord{}, false, nil
	}
	return col.Records[i], true, nil
}

// List returns all records at source in insertion order, as a copy.
func (s *Store) List(ctx context.Context, source string) ([]BookRecord, error) {
	col, err := s.load(ctx, source)
	if err != nil {
		return nil, err
	}
	return col.Records, nil
}

// load is the caching read path: return the cached collection while its
// recorded modification time is current, otherwise re-read through the safe
// decoder. Always returns a copy the caller may mutate.
func (s *Store) load(ctx context.Context, source string) (*RecordCollection, error) {
	lock := s.sourceLock(source)
	lock.Lock()
	defer lock.Unlock()
	return s.loadLocked(ctx, source)
}

func (s *Store) loadLocked(ctx context.Context, source string) (*RecordCollection, error) {
	modTime, err := s.vault.ModTime(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("stat source %s: %w", source, err)
	}

	s.mu.RLock()
	entry, ok := s.cache[source]
	s.mu.RUnlock()
	if ok && !entry.modTime.Before(modTime) {
		return entry.collection.deepCopy(), nil
	}

	text, err := s.vault.Read(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("read source %s: %w", source, err)
	}
	col, derr := decodeCollection(text)
	if derr != nil {
		return nil, fmt.Errorf("decode source %s: %w", source, derr)
	}

	s.mu.Lock()
	s.cache[source] = &cacheEntry{collection: col, modTime: modTime, cachedAt: time.Now()}
	s.mu.Unlock()
	s.log.Debug("cache refreshed", "source", source, "records", len(col.Records))
	return col.deepCopy(), nil
}

// persistLocked writes the whole collection back and refreshes the cache with
// the post-write modification time. The cache is only touched after a
// successful write, so a failed persist never poisons it.
func (s *Store) persistLocked(ctx context.Context, source string, col *RecordCollection) error {
	text, err := encodeCollection(col)
	if err != nil {
		return err
	}
	if err := s.vault.Write(ctx, source, text); err != nil {
		return fmt.Errorf("persist source %s: %w", source, err)
	}
	modTime, err := s.vault.ModTime(ctx, source)
	if err != nil {
		return fmt.Errorf("stat source %s after write: %w", source, err)
	}

	s.mu.Lock()
	s.cache[source] = &cacheEntry{collection: col.deepCopy(), modTime: modTime, cachedAt: time.Now()}
	s.mu.Unlock()
	return nil
}

// Clear drops cache entries for the given sources, or all entries when none
// are named. The backing blobs are untouched.
func (s *Store) Clear(sources ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(sources) == 0 {
		s.cache = make(map[string]*cacheEntry)
		return
	}
	for _, src := range sources {
		delete(s.cache, src)
	}
}

// Sweep drops cache entries older than maxAge. The read path already
// revalidates against modification time, so this only bounds memory for
// sources that are written once and never read again.
func (s *Store) Sweep(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)
	s.mu.Lock()
	defer s.mu.Unlock()
	dropped := 0
	for src, entry := range s.cache {
		if entry.cachedAt.Before(cutoff) {
			delete(s.cache, src)
			dropped++
		}
	}
	return dropped
}

// CachedSources returns the identities currently held in the cache.
func (s *Store) CachedSources() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.cache))
	for src := range s.cache {
		out = append(out, src)
	}
	return out
}
