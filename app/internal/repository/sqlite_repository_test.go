package repository_test

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/closetly/edge-gateway/app/domain/entities"
	"github.com/closetly/edge-gateway/app/internal/repository"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

func setupTestDB(t *testing.T) (*repository.SQLiteRepository, func()) {
	t.Helper()
	tempDir := t.TempDir()
	dsn := filepath.Join(tempDir, "test_routestats.db")

	repo, err := repository.NewSQLiteRepository(dsn)
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}

	if err := repo.Init(); err != nil {
		t.Fatalf("repo.Init() error = %v", err)
	}

	cleanup := func() {
		repo.Close()
	}
	return repo, cleanup
}

func TestSQLiteRepository_InitClose(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	// Init is called in setupTestDB
	if err := repo.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestSQLiteRepository_GetNonExistentStats(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetStats("/unknown/")
	if !errors.Is(err, entities.ErrStatsNotFound) {
		t.Errorf("GetStats() for non-existent prefix error = %v, want %v", err, entities.ErrStatsNotFound)
	}
}

func TestSQLiteRepository_RecordRequest(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	prefix := "/api/"

	st, err := repo.RecordRequest(prefix, entities.RouteOutcome{StatusCode: 200})
	if err != nil {
		t.Fatalf("RecordRequest() error = %v", err)
	}
	expected := &entities.RouteStats{
		Prefix:         prefix,
		RequestCount:   1,
		LastStatusCode: 200,
	}
	if !reflect.DeepEqual(st, expected) {
		t.Errorf("RecordRequest() first record = %+v, want %+v", st, expected)
	}

	st, err = repo.RecordRequest(prefix, entities.RouteOutcome{StatusCode: 504, UpstreamError: true, Timeout: true})
	if err != nil {
		t.Fatalf("RecordRequest() second record error = %v", err)
	}
	expected.RequestCount = 2
	expected.UpstreamErrorCount = 1
	expected.TimeoutCount = 1
	expected.LastStatusCode = 504
	if !reflect.DeepEqual(st, expected) {
		t.Errorf("RecordRequest() second record = %+v, want %+v", st, expected)
	}

	retrieved, err := repo.GetStats(prefix)
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if !reflect.DeepEqual(retrieved, expected) {
		t.Errorf("GetStats() = %+v, want %+v", retrieved, expected)
	}
}

func TestSQLiteRepository_ListStats(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	repo.RecordRequest("/api/", entities.RouteOutcome{StatusCode: 200})
	repo.RecordRequest("/ai/", entities.RouteOutcome{StatusCode: 502, UpstreamError: true})

	all, err := repo.ListStats()
	if err != nil {
		t.Fatalf("ListStats() error = %v", err)
	}
	if len(all) != 2 {
		t.Errorf("ListStats() len = %d, want 2", len(all))
	}
	if all["/api/"].RequestCount != 1 {
		t.Errorf("ListStats() '/api/' RequestCount = %d, want 1", all["/api/"].RequestCount)
	}
	if all["/ai/"].UpstreamErrorCount != 1 {
		t.Errorf("ListStats() '/ai/' UpstreamErrorCount = %d, want 1", all["/ai/"].UpstreamErrorCount)
	}
}
