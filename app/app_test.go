package app_test

import (
	"os"
	"testing"

	"github.com/closetly/edge-gateway/app/app"
	"github.com/closetly/edge-gateway/app/internal/repository"
)

func TestNewApp_DefaultConfig(t *testing.T) {
	// Default is memory repository, so no DSN is needed.
	os.Setenv("REPOSITORY_TYPE", "memory")

	a, err := app.NewApp()
	if err != nil {
		t.Fatalf("NewApp() failed: %v", err)
	}
	if a == nil {
		t.Fatal("NewApp() returned nil app")
	}
	defer a.Close()

	if a.Config == nil {
		t.Error("App.Config is nil")
	}
	if a.Repository == nil {
		t.Error("App.Repository is nil")
	}
	if _, ok := a.Repository.(*repository.MemoryRepository); !ok {
		t.Errorf("Expected Repository to be *MemoryRepository, got %T", a.Repository)
	}
	if a.StatsManager == nil {
		t.Error("App.StatsManager is nil")
	}
	if a.Table == nil {
		t.Error("App.Table is nil")
	}
	if a.Router == nil {
		t.Error("App.Router is nil")
	}

	rules := a.Table.Rules()
	if len(rules) != 3 {
		t.Fatalf("Table has %d rules, want 3", len(rules))
	}
	if rules[0].Prefix != "/api/" || rules[0].UpstreamAddr() != "api:8001" {
		t.Errorf("first rule = %+v, want /api/ -> api:8001", rules[0])
	}
}

func TestApp_Close(t *testing.T) {
	os.Setenv("REPOSITORY_TYPE", "memory")

	a, err := app.NewApp()
	if err != nil {
		t.Fatalf("NewApp() failed: %v", err)
	}

	err = a.Close()
	if err != nil {
		t.Errorf("App.Close() failed: %v", err)
	}

	// Test double close
	err = a.Close()
	if err != nil {
		t.Errorf("App.Close() on already closed app failed: %v", err)
	}
}

// Note: Testing NewApp with the SQLite repository type is tricky due to the
// config singleton. SQLiteRepository is tested independently.
// Run() is not unit tested here as it starts an HTTP server. Integration tests would cover it.
