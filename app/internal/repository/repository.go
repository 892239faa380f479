package repository

import (
	"github.com/closetly/edge-gateway/app/domain/entities"
)

// Repository defines the interface for route statistics storage.
// This allows for different storage backends (e.g., in-memory, SQLite).
type Repository interface {
	// Init performs any necessary initialization for the repository (e.g., DB connection, table creation).
	Init() error
	// Close performs cleanup tasks (e.g., closing DB connection).
	Close() error

	GetStats(prefix string) (*entities.RouteStats, error)
	RecordRequest(prefix string, outcome entities.RouteOutcome) (*entities.RouteStats, error)
	ListStats() (map[string]*entities.RouteStats, error)
}
