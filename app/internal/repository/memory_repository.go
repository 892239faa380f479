package repository

import (
	"sync"

	"github.com/closetly/edge-gateway/app/domain/entities"
)

// MemoryRepository is an in-memory implementation of the Repository interface.
type MemoryRepository struct {
	stats map[string]*entities.RouteStats
	mu    sync.RWMutex
}

// NewMemoryRepository creates a new MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		stats: make(map[string]*entities.RouteStats),
	}
}

// Init initializes the memory repository (no-op for memory repository).
func (r *MemoryRepository) Init() error {
	return nil
}

// Close closes the memory repository (no-op for memory repository).
func (r *MemoryRepository) Close() error {
	return nil
}

// GetStats retrieves accumulated statistics for a given route prefix.
func (r *MemoryRepository) GetStats(prefix string) (*entities.RouteStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	st, exists := r.stats[prefix]
	if !exists {
		return nil, entities.ErrStatsNotFound
	}
	// Return a copy to prevent modification outside of repository methods
	stCopy := *st
	return &stCopy, nil
}

// RecordRequest folds one request outcome into the counters for a prefix,
// creating the entry on first use.
func (r *MemoryRepository) RecordRequest(prefix string, outcome entities.RouteOutcome) (*entities.RouteStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, exists := r.stats[prefix]
	if !exists {
		st = &entities.RouteStats{Prefix: prefix}
		r.stats[prefix] = st
	}

	st.RequestCount++
	if outcome.UpstreamError {
		st.UpstreamErrorCount++
	}
	if outcome.Timeout {
		st.TimeoutCount++
	}
	st.LastStatusCode = outcome.StatusCode

	stCopy := *st
	return &stCopy, nil
}

// ListStats returns all route statistics.
func (r *MemoryRepository) ListStats() (map[string]*entities.RouteStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]*entities.RouteStats, len(r.stats))
	for k, v := range r.stats {
		vCopy := *v
		result[k] = &vCopy
	}
	return result, nil
}
