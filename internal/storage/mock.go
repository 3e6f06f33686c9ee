package storage

import (
	"context"
	"sync"

	"github.com/jwebster45206/story-script/pkg/validate"
)

// MockReportCache is an in-memory ReportCache for testing
type MockReportCache struct {
	mu        sync.RWMutex
	reports   map[string]validate.Report
	pingError error
	saveError error

	// Track calls for testing
	GetCalls  []string
	SaveCalls []string
}

// Ensure MockReportCache implements ReportCache interface
var _ ReportCache = (*MockReportCache)(nil)

func NewMockReportCache() *MockReportCache {
	return &MockReportCache{
		reports: make(map[string]validate.Report),
	}
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockReportCache) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// SetSaveError configures the mock to fail every SaveReport
func (m *MockReportCache) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveError = err
}

func (m *MockReportCache) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MockReportCache) Close() error {
	return nil
}

func (m *MockReportCache) GetReport(ctx context.Context, key string) (*validate.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls = append(m.GetCalls, key)

	r, ok := m.reports[key]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *MockReportCache) SaveReport(ctx context.Context, key string, r *validate.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls = append(m.SaveCalls, key)

	if m.saveError != nil {
		return m.saveError
	}
	m.reports[key] = *r
	return nil
}

func (m *MockReportCache) DeleteReport(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.reports, key)
	return nil
}

// Len returns the number of cached reports
func (m *MockReportCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.reports)
}
