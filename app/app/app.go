package app

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/closetly/edge-gateway/app/domain/entities"
	"github.com/closetly/edge-gateway/app/internal/config"
	"github.com/closetly/edge-gateway/app/internal/handlers"
	"github.com/closetly/edge-gateway/app/internal/metrics"
	"github.com/closetly/edge-gateway/app/internal/proxy"
	"github.com/closetly/edge-gateway/app/internal/repository"
	"github.com/closetly/edge-gateway/app/internal/routing"
	"github.com/closetly/edge-gateway/app/internal/stats"

	_ "github.com/mattn/go-sqlite3"
)

// App holds all application dependencies
type App struct {
	Config       *config.Config
	Repository   repository.Repository
	StatsManager *stats.Manager
	Table        *routing.Table
	Router       *handlers.Router
}

// NewApp creates and initializes all application dependencies
func NewApp() (*App, error) {
	cfg := config.GetConfig()

	var repo repository.Repository
	var err error

	log.Printf("Initializing stats repository with type: %s", cfg.Repository.Type)

	switch cfg.Repository.Type {
	case "sqlite":
		repo, err = repository.NewSQLiteRepository(cfg.Repository.SQLiteDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
	case "memory":
		fallthrough
	default:
		repo = repository.NewMemoryRepository()
	}

	if err := repo.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize repository: %w", err)
	}

	statsManager := stats.NewManager(repo)

	rules, err := routeRules(cfg)
	if err != nil {
		return nil, err
	}
	table := routing.NewTable(rules)

	metrics.InitMetrics()

	forwarder := proxy.NewForwarder(time.Duration(cfg.Proxy.UpstreamTimeoutSec) * time.Second)
	statusHandler := handlers.NewRouteStatusHandler(statsManager)
	router := handlers.NewRouter(table, forwarder, statsManager, statusHandler)

	return &App{
		Config:       cfg,
		Repository:   repo,
		StatsManager: statsManager,
		Table:        table,
		Router:       router,
	}, nil
}

// routeRules builds the route table: either the built-in table pointed at
// the configured upstreams, or the YAML routes file when one is named.
func routeRules(cfg *config.Config) ([]entities.RouteRule, error) {
	if cfg.Routes.File != "" {
		rules, err := routing.LoadFile(cfg.Routes.File)
		if err != nil {
			return nil, fmt.Errorf("failed to load routes file: %w", err)
		}
		return rules, nil
	}

	defaults := []struct {
		prefix   string
		strip    string
		upstream string
	}{
		{"/api/", "/api", cfg.Upstreams.API},
		{"/ai/", "/ai", cfg.Upstreams.AI},
		{"/media/", "/media", cfg.Upstreams.Media},
	}

	rules := make([]entities.RouteRule, 0, len(defaults))
	for _, d := range defaults {
		host, port, err := routing.ParseUpstream(d.upstream)
		if err != nil {
			return nil, fmt.Errorf("failed to parse upstream for %s: %w", d.prefix, err)
		}
		rules = append(rules, entities.RouteRule{
			Prefix:       d.prefix,
			StripPrefix:  d.strip,
			UpstreamHost: host,
			UpstreamPort: port,
		})
	}
	return rules, nil
}

// Close cleans up all dependencies
func (a *App) Close() error {
	if a.StatsManager != nil {
		if err := a.StatsManager.Close(); err != nil {
			return fmt.Errorf("failed to close stats manager: %w", err)
		}
	}
	return nil
}

// Run starts the gateway listener and blocks until it fails.
func (a *App) Run() error {
	addr := fmt.Sprintf(":%d", a.Config.HTTP.Port)
	log.Printf("Starting gateway on %s", addr)
	log.Printf("Routes:")
	for _, rule := range a.Table.Rules() {
		log.Printf("  - %s -> %s (strip %s)", rule.Prefix, rule.UpstreamAddr(), rule.StripPrefix)
	}
	log.Printf("Local endpoints: /health, /metrics, /routes/status, / (shop page)")

	if err := http.ListenAndServe(addr, a.Router); err != nil {
		return fmt.Errorf("gateway listener failed: %w", err)
	}
	return nil
}
