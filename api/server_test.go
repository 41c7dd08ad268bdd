package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/wricardo/mcp-training/pong/game/matchmaker"
	"github.com/wricardo/mcp-training/pong/game/physics"
	"github.com/wricardo/mcp-training/pong/game/service"
)

// MockGameService implements service.GameService for testing
type MockGameService struct {
	ListSessionsFunc func(ctx context.Context) ([]*service.SessionInfo, error)
	GetSessionFunc   func(ctx context.Context, sessionID string) (*service.SessionInfo, error)
	EndSessionFunc   func(ctx context.Context, sessionID string) error
	StatsFunc        func(ctx context.Context) (*service.Stats, error)
}

func (m *MockGameService) ListSessions(ctx context.Context) ([]*service.SessionInfo, error) {
	if m.ListSessionsFunc != nil {
		return m.ListSessionsFunc(ctx)
	}
	return []*service.SessionInfo{}, nil
}

func (m *MockGameService) GetSession(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, sessionID)
	}
	return &service.SessionInfo{
		ID:        sessionID,
		State:     "running",
		CreatedAt: time.Now(),
	}, nil
}

func (m *MockGameService) EndSession(ctx context.Context, sessionID string) error {
	if m.EndSessionFunc != nil {
		return m.EndSessionFunc(ctx, sessionID)
	}
	return nil
}

func (m *MockGameService) Stats(ctx context.Context) (*service.Stats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx)
	}
	return &service.Stats{}, nil
}

func (m *MockGameService) Field(ctx context.Context) physics.Field {
	return physics.DefaultField()
}

type mockHub struct {
	calls int
}

func (h *mockHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	h.calls++
	w.WriteHeader(http.StatusSwitchingProtocols)
}

// Helper functions
func setupTestServer(mockService *MockGameService) *Server {
	return NewServer(mockService, &mockHub{}, "")
}

func makeRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	if err := json.Unmarshal(w.Body.Bytes(), target); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
}

func notFound(id string) error {
	return fmt.Errorf("get session %s: %w", id, matchmaker.ErrSessionNotFound)
}

// Session Tests

func TestListSessions(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*MockGameService)
		expectedStatus int
		expectedCount  int
	}{
		{
			name:           "No sessions",
			expectedStatus: http.StatusOK,
			expectedCount:  0,
		},
		{
			name: "Two sessions",
			setupMock: func(m *MockGameService) {
				m.ListSessionsFunc = func(ctx context.Context) ([]*service.SessionInfo, error) {
					return []*service.SessionInfo{
						{ID: "a", State: "running"},
						{ID: "b", State: "awaiting_second_player"},
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			expectedCount:  2,
		},
		{
			name: "Service failure",
			setupMock: func(m *MockGameService) {
				m.ListSessionsFunc = func(ctx context.Context) ([]*service.SessionInfo, error) {
					return nil, context.Canceled
				}
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest("GET", "/api/sessions", nil))

			if w.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if w.Code != http.StatusOK {
				return
			}

			var resp struct {
				Count    int                    `json:"count"`
				Sessions []*service.SessionInfo `json:"sessions"`
			}
			parseResponse(t, w, &resp)
			if resp.Count != tt.expectedCount || len(resp.Sessions) != tt.expectedCount {
				t.Errorf("Expected %d sessions, got count=%d len=%d", tt.expectedCount, resp.Count, len(resp.Sessions))
			}
		})
	}
}

func TestGetSession(t *testing.T) {
	tests := []struct {
		name           string
		sessionID      string
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:           "Get existing session",
			sessionID:      "sess-123",
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.SessionInfo
				parseResponse(t, w, &resp)
				if resp.ID != "sess-123" {
					t.Errorf("Expected session ID sess-123, got %s", resp.ID)
				}
			},
		},
		{
			name:      "Session not found",
			sessionID: "nonexistent",
			setupMock: func(m *MockGameService) {
				m.GetSessionFunc = func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
					return nil, notFound(sessionID)
				}
			},
			expectedStatus: http.StatusNotFound,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]string
				parseResponse(t, w, &resp)
				if resp["error"] != "get session nonexistent: session not found" {
					t.Errorf("Unexpected error message %q", resp["error"])
				}
			},
		},
		{
			name:      "Unexpected failure",
			sessionID: "sess-1",
			setupMock: func(m *MockGameService) {
				m.GetSessionFunc = func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("boom")
				}
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			req := makeRequest("GET", "/api/sessions/"+tt.sessionID, nil)
			req = mux.SetURLVars(req, map[string]string{"id": tt.sessionID})

			server.handleGetSession(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestEndSession(t *testing.T) {
	tests := []struct {
		name           string
		sessionID      string
		setupMock      func(*MockGameService)
		expectedStatus int
	}{
		{
			name:           "End live session",
			sessionID:      "sess-123",
			expectedStatus: http.StatusNoContent,
		},
		{
			name:      "Session not found",
			sessionID: "gone",
			setupMock: func(m *MockGameService) {
				m.EndSessionFunc = func(ctx context.Context, sessionID string) error {
					return notFound(sessionID)
				}
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			var ended string
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			} else {
				mockService.EndSessionFunc = func(ctx context.Context, sessionID string) error {
					ended = sessionID
					return nil
				}
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest("DELETE", "/api/sessions/"+tt.sessionID, nil))

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.expectedStatus == http.StatusNoContent && ended != tt.sessionID {
				t.Errorf("Expected session %s to be ended, got %q", tt.sessionID, ended)
			}
		})
	}
}

// Server Tests

func TestStats(t *testing.T) {
	mockService := &MockGameService{
		StatsFunc: func(ctx context.Context) (*service.Stats, error) {
			return &service.Stats{Sessions: 3, Waiting: 1, Running: 2, Connections: 5}, nil
		},
	}
	server := setupTestServer(mockService)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/stats", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp map[string]int
	parseResponse(t, w, &resp)
	expected := map[string]int{"sessions": 3, "waiting": 1, "running": 2, "connections": 5}
	for k, v := range expected {
		if resp[k] != v {
			t.Errorf("Expected %s=%d, got %d", k, v, resp[k])
		}
	}
}

func TestField(t *testing.T) {
	server := setupTestServer(&MockGameService{})
	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/field", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp physics.Field
	parseResponse(t, w, &resp)
	if resp != physics.DefaultField() {
		t.Errorf("Expected default field, got %+v", resp)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected JSON content type, got %s", ct)
	}
}

func TestHealth(t *testing.T) {
	server := setupTestServer(&MockGameService{})
	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/health", nil))

	var resp map[string]string
	parseResponse(t, w, &resp)
	if resp["status"] != "healthy" {
		t.Errorf("Expected healthy status, got %v", resp)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	server := setupTestServer(&MockGameService{})
	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("POST", "/api/sessions", nil))

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", w.Code)
	}

	for _, tc := range []struct{ method, path string }{
		{"PUT", "/api/sessions/abc"},
		{"DELETE", "/api/stats"},
		{"POST", "/api/health"},
	} {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest(tc.method, tc.path, nil))
		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s %s: expected status 405, got %d", tc.method, tc.path, w.Code)
		}
	}
}

// WebSocket and static routing

func TestWebSocketRoute(t *testing.T) {
	hub := &mockHub{}
	server := NewServer(&MockGameService{}, hub, "")
	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/ws?codec=json", nil))

	if hub.calls != 1 {
		t.Errorf("Expected hub to be called once, got %d", hub.calls)
	}
}

func TestWebSocketRouteWithoutHub(t *testing.T) {
	server := NewServer(&MockGameService{}, nil, "")
	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/ws", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", w.Code)
	}
}

func TestStaticFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>pong</h1>"), 0644); err != nil {
		t.Fatal(err)
	}

	server := NewServer(&MockGameService{}, &mockHub{}, dir)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("pong")) {
		t.Errorf("Expected index.html to be served, got %q", w.Body.String())
	}

	w = httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/stats", nil))
	if w.Code != http.StatusOK {
		t.Errorf("API routes should take precedence over static files, got %d", w.Code)
	}
}

func TestNoStaticDir(t *testing.T) {
	server := setupTestServer(&MockGameService{})
	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/index.html", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}
