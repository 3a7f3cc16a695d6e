package testutil

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"e84consent/internal/models"
	"e84consent/internal/providers"
	"e84consent/internal/services"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Levels returns the recorded levels in call order.
func (m *MockLogger) Levels() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.Logs))
	for _, l := range m.Logs {
		out = append(out, l.Level)
	}
	return out
}

// MockConsentService implements services.ConsentServiceInterface with
// canned answers.
type MockConsentService struct {
	mu            sync.Mutex
	Config        models.ConsentConfig
	Show          bool
	RenderErr     error
	DismissCookie *http.Cookie
	DismissErr    error
	Consent       bool

	Visitors     []models.VisitorContext
	RenderEnvs   []models.RequestEnv
	DismissCalls []models.DismissRequest
}

func (m *MockConsentService) ResolveConfig() models.ConsentConfig {
	return m.Config
}

func (m *MockConsentService) ShouldShowBanner(visitor models.VisitorContext, _ models.ConsentConfig) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Visitors = append(m.Visitors, visitor)
	return m.Show
}

// RenderBanner appends a marker fragment so callers can see it landed.
func (m *MockConsentService) RenderBanner(sink services.RenderSink, cfg models.ConsentConfig, env models.RequestEnv) error {
	m.mu.Lock()
	m.RenderEnvs = append(m.RenderEnvs, env)
	m.mu.Unlock()
	if m.RenderErr != nil {
		return m.RenderErr
	}
	sink.AppendMarkup([]byte(fmt.Sprintf(`<div id="mock-banner" data-version="%s"></div>`, cfg.CookieVersion)))
	return nil
}

func (m *MockConsentService) Dismiss(req models.DismissRequest) (*http.Cookie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DismissCalls = append(m.DismissCalls, req)
	return m.DismissCookie, m.DismissErr
}

func (m *MockConsentService) HasConsent(_ *http.Request, _ models.ConsentConfig) bool {
	return m.Consent
}

// MockSessions implements controllers.SessionResolver with a fixed id.
type MockSessions struct {
	SessionID string
	Issued    int
}

func (m *MockSessions) ID(_ *http.Request) string { return m.SessionID }

func (m *MockSessions) Ensure(_ http.ResponseWriter, _ *http.Request, _ bool) string {
	m.Issued++
	return m.SessionID
}

// MockMetrics implements providers.MetricsProviderInterface and counts calls.
type MockMetrics struct {
	mu             sync.Mutex
	BannerRendered int
	BannerSkipped  int
	Dismissals     map[string]int
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits()                                    {}
func (m *MockMetrics) IncCacheMisses()                                  {}

func (m *MockMetrics) IncBannerRendered() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BannerRendered++
}

func (m *MockMetrics) IncBannerSkipped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BannerSkipped++
}

func (m *MockMetrics) IncDismissals(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Dismissals == nil {
		m.Dismissals = make(map[string]int)
	}
	m.Dismissals[result]++
}
