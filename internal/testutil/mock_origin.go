// Package testutil provides testing utilities for the edge pipeline.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"
)

// MockObject defines the behavior for one mock origin object.
type MockObject struct {
	StatusCode  int
	Body        string
	ContentType string
}

// MockOrigin is a configurable mock origin bucket for testing: objects keyed
// by path, with per-path failure injection for retry tests.
type MockOrigin struct {
	server  *httptest.Server
	mu      sync.RWMutex
	objects map[string]MockObject
	fail    map[string]int

	// RequestCount tracks all requests received.
	RequestCount int

	// PathCounts tracks requests per path.
	PathCounts map[string]int
}

// NewMockOrigin creates a new mock origin server with no objects published.
func NewMockOrigin() *MockOrigin {
	mock := &MockOrigin{
		objects:    make(map[string]MockObject),
		fail:       make(map[string]int),
		PathCounts: make(map[string]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.PathCounts[r.URL.Path]++

		if remaining := mock.fail[r.URL.Path]; remaining > 0 {
			mock.fail[r.URL.Path] = remaining - 1
			mock.mu.Unlock()
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		obj, exists := mock.objects[r.URL.Path]
		mock.mu.Unlock()

		if !exists {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		if obj.ContentType != "" {
			w.Header().Set("Content-Type", obj.ContentType)
		}
		status := obj.StatusCode
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		w.Write([]byte(obj.Body))
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockOrigin) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockOrigin) Close() {
	m.server.Close()
}

// Publish makes an object available at the given path.
func (m *MockOrigin) Publish(path string, obj MockObject) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[path] = obj
}

// Unpublish removes the object at the given path.
func (m *MockOrigin) Unpublish(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, path)
}

// FailNext makes the next n requests for path answer with a 500 before the
// object (or a 404) is served again. Used to exercise the retry policy.
func (m *MockOrigin) FailNext(path string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail[path] = n
}

// Requests returns how many requests the given path has received.
func (m *MockOrigin) Requests(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.PathCounts[path]
}

// Reset clears all tracking counters.
func (m *MockOrigin) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.PathCounts = make(map[string]int)
}
