package stats

import (
	"github.com/closetly/edge-gateway/app/domain/entities"
)

type Repository interface {
	Init() error
	Close() error
	GetStats(prefix string) (*entities.RouteStats, error)
	RecordRequest(prefix string, outcome entities.RouteOutcome) (*entities.RouteStats, error)
	ListStats() (map[string]*entities.RouteStats, error)
}

// Manager accumulates per-route traffic statistics through a repository.
type Manager struct {
	repository Repository
}

// NewManager creates a new Manager with the provided repository.
func NewManager(repo Repository) *Manager {
	return &Manager{
		repository: repo,
	}
}

// Close closes the underlying repository connection if applicable.
func (m *Manager) Close() error {
	if m.repository != nil {
		return m.repository.Close()
	}
	return nil
}

// Record folds one request outcome into the counters for a route prefix.
func (m *Manager) Record(prefix string, outcome entities.RouteOutcome) (*entities.RouteStats, error) {
	return m.repository.RecordRequest(prefix, outcome)
}

// GetStats retrieves accumulated statistics for a route prefix.
func (m *Manager) GetStats(prefix string) (*entities.RouteStats, error) {
	return m.repository.GetStats(prefix)
}

// ListStats returns all route statistics (for debugging/monitoring).
func (m *Manager) ListStats() (map[string]*entities.RouteStats, error) {
	return m.repository.ListStats()
}
