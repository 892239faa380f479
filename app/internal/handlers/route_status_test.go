package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/closetly/edge-gateway/app/domain/entities"
)

func TestRouteStatusHandler_HandleList(t *testing.T) {
	tests := []struct {
		name               string
		method             string
		listStatsFunc      func() (map[string]*entities.RouteStats, error)
		expectedStatusCode int
		wantPrefixes       []string
	}{
		{
			name:   "lists all route stats",
			method: http.MethodGet,
			listStatsFunc: func() (map[string]*entities.RouteStats, error) {
				return map[string]*entities.RouteStats{
					"/api/": {Prefix: "/api/", RequestCount: 12, LastStatusCode: 200},
					"/ai/":  {Prefix: "/ai/", RequestCount: 3, TimeoutCount: 1, UpstreamErrorCount: 1, LastStatusCode: 504},
				}, nil
			},
			expectedStatusCode: http.StatusOK,
			wantPrefixes:       []string{"/api/", "/ai/"},
		},
		{
			name:               "empty stats",
			method:             http.MethodGet,
			listStatsFunc:      func() (map[string]*entities.RouteStats, error) { return map[string]*entities.RouteStats{}, nil },
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "repository error",
			method:             http.MethodGet,
			listStatsFunc:      func() (map[string]*entities.RouteStats, error) { return nil, errors.New("db closed") },
			expectedStatusCode: http.StatusInternalServerError,
		},
		{
			name:               "method not allowed",
			method:             http.MethodPost,
			expectedStatusCode: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewRouteStatusHandler(&mockStatsManager{ListStatsFunc: tt.listStatsFunc})

			req := httptest.NewRequest(tt.method, "/routes/status", nil)
			rr := httptest.NewRecorder()
			handler.HandleList(rr, req)

			if rr.Code != tt.expectedStatusCode {
				t.Fatalf("status = %d, want %d", rr.Code, tt.expectedStatusCode)
			}
			if rr.Code != http.StatusOK {
				return
			}

			var decoded map[string]*entities.RouteStats
			if err := json.Unmarshal(rr.Body.Bytes(), &decoded); err != nil {
				t.Fatalf("response is not JSON: %v", err)
			}
			if len(decoded) != len(tt.wantPrefixes) {
				t.Errorf("decoded len = %d, want %d", len(decoded), len(tt.wantPrefixes))
			}
			for _, prefix := range tt.wantPrefixes {
				if _, ok := decoded[prefix]; !ok {
					t.Errorf("response missing prefix %q", prefix)
				}
			}
		})
	}
}
