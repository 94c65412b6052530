package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
)

type mockNotifier struct {
	mu        sync.Mutex
	values    []any
	endpoints []string
}

func (m *mockNotifier) Notify(value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = append(m.values, value)
}

func (m *mockNotifier) Endpoints() []string {
	return m.endpoints
}

func postForm(handler http.Handler, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/switch", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestSwitchHandler(t *testing.T) {
	notifier := &mockNotifier{}
	handler := SwitchHandler(notifier)

	w := postForm(handler, url.Values{"switcher": {"1"}})

	if w.Code != http.StatusAccepted {
		t.Errorf("Expected status 202, got %d", w.Code)
	}
	if len(notifier.values) != 1 || notifier.values[0] != "1" {
		t.Errorf("Notified values = %v, expected [1]", notifier.values)
	}
}

func TestSwitchHandlerEmptyValue(t *testing.T) {
	notifier := &mockNotifier{}

	w := postForm(SwitchHandler(notifier), url.Values{"switcher": {""}})

	if w.Code != http.StatusAccepted {
		t.Errorf("Expected status 202, got %d", w.Code)
	}
	if len(notifier.values) != 1 || notifier.values[0] != "" {
		t.Errorf("Empty state should be passed through, got %v", notifier.values)
	}
}

func TestSwitchHandlerRejects(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		body     string
		expected int
	}{
		{"Missing field", http.MethodPost, "other=1", http.StatusBadRequest},
		{"Empty body", http.MethodPost, "", http.StatusBadRequest},
		{"GET", http.MethodGet, "", http.StatusMethodNotAllowed},
		{"PUT", http.MethodPut, "switcher=1", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier := &mockNotifier{}
			req := httptest.NewRequest(tt.method, "/switch", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			w := httptest.NewRecorder()

			SwitchHandler(notifier).ServeHTTP(w, req)

			if w.Code != tt.expected {
				t.Errorf("Expected status %d, got %d", tt.expected, w.Code)
			}
			if len(notifier.values) != 0 {
				t.Errorf("Rejected request should not notify, got %v", notifier.values)
			}
		})
	}
}

func TestEndpointsHandler(t *testing.T) {
	notifier := &mockNotifier{endpoints: []string{"http://a/save", "http://b/save"}}

	req := httptest.NewRequest(http.MethodGet, "/endpoints", nil)
	w := httptest.NewRecorder()
	EndpointsHandler(notifier).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %s, expected application/json", ct)
	}

	var resp EndpointsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if len(resp.Endpoints) != 2 || resp.Endpoints[0] != "http://a/save" {
		t.Errorf("Endpoints = %v, expected [http://a/save http://b/save]", resp.Endpoints)
	}
}

func TestEndpointsHandlerEmpty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/endpoints", nil)
	w := httptest.NewRecorder()
	EndpointsHandler(&mockNotifier{}).ServeHTTP(w, req)

	if strings.TrimSpace(w.Body.String()) != `{"endpoints":[]}` {
		t.Errorf("Body = %s, expected empty endpoint list", w.Body.String())
	}
}

func TestHealthHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	HealthHandler(w, req)

	if w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Errorf("Expected 200 ok, got %d %s", w.Code, w.Body.String())
	}
}
