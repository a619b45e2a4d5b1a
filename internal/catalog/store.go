package catalog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"precos-materiais-api/internal/metrics"
)

// Store owns the current catalog snapshot and refreshes it on demand.
// Loads are serialized; readers always observe either the previous
// complete snapshot or the new one, never a partial state.
type Store struct {
	loader *Loader
	ttl    time.Duration
	logger *slog.Logger

	// loadMu serializes load attempts so concurrent triggering requests
	// do not fetch the sheet twice.
	loadMu sync.Mutex

	// mu guards only the snapshot pointer and timestamp; readers are not
	// blocked while a reload is in flight.
	mu       sync.RWMutex
	current  *Catalog
	loadedAt time.Time
}

// NewStore builds a Store around the loader. A ttl of zero (or below)
// means "reload only when no usable catalog exists".
func NewStore(loader *Loader, ttl time.Duration, logger *slog.Logger) *Store {
	return &Store{
		loader: loader,
		ttl:    ttl,
		logger: logger,
	}
}

// Current returns the latest snapshot, if any load ever succeeded.
func (s *Store) Current() (*Catalog, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, false
	}
	return s.current, true
}

// EnsureFresh reloads the catalog when it is absent, empty, or older than
// the TTL. On failure the previous snapshot stays current and the error
// is returned to the triggering caller.
func (s *Store) EnsureFresh(ctx context.Context) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	if !s.stale(time.Now()) {
		return nil
	}
	return s.reload(ctx)
}

// ForceReload always attempts a fresh load, bypassing the TTL check.
func (s *Store) ForceReload(ctx context.Context) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	return s.reload(ctx)
}

func (s *Store) stale(now time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil || s.current.Len() == 0 {
		return true
	}
	if s.ttl <= 0 {
		return false
	}
	return now.Sub(s.loadedAt) > s.ttl
}

// reload runs with loadMu held.
func (s *Store) reload(ctx context.Context) error {
	cat, err := s.loader.Load(ctx)
	if err != nil {
		metrics.CatalogReloads.WithLabelValues("error").Inc()
		if s.logger != nil {
			s.logger.Warn("catalog reload failed", slog.String("error", err.Error()))
		}
		return err
	}

	s.mu.Lock()
	s.current = cat
	s.loadedAt = time.Now()
	s.mu.Unlock()

	metrics.CatalogReloads.WithLabelValues("success").Inc()
	metrics.CatalogMaterials.Set(float64(cat.Len()))
	if s.logger != nil {
		s.logger.Info("catalog reloaded", slog.Int("materials", cat.Len()))
	}
	return nil
}
