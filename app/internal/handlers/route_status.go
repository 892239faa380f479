package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/closetly/edge-gateway/app/domain/entities"
)

type StatsManager interface {
	GetStats(prefix string) (*entities.RouteStats, error)
	ListStats() (map[string]*entities.RouteStats, error)
}

// RouteStatusHandler handles requests to get per-route traffic statistics
type RouteStatusHandler struct {
	statsManager StatsManager
}

// NewRouteStatusHandler creates a new RouteStatusHandler with injected dependencies
func NewRouteStatusHandler(statsManager StatsManager) *RouteStatusHandler {
	return &RouteStatusHandler{
		statsManager: statsManager,
	}
}

// HandleList handles the /routes/status endpoint to list all route statistics
func (rsh *RouteStatusHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	allStats, errList := rsh.statsManager.ListStats()
	if errList != nil {
		log.Printf("Error listing route stats: %v", errList)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(allStats); err != nil {
		log.Printf("Error encoding route stats: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
}
