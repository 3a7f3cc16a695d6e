package services

import (
	"errors"
	"time"

	"e84consent/internal/models"
	"e84consent/internal/providers"
	"e84consent/internal/structures"
)

type silentLogger struct{}

func (m *silentLogger) Errorf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *silentLogger) Warnf(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *silentLogger) Debugf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *silentLogger) Infof(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *silentLogger) Fatalf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *silentLogger) Close()                                                  {}

type staticOverrides map[string]any

func (s staticOverrides) Overrides() map[string]any { return s }

type staticCopy struct{}

func (staticCopy) DefaultCopy() models.BannerCopy {
	return models.BannerCopy{
		Text:        "We use only essential cookies for security and performance.",
		AcceptLabel: "OK",
		LearnMore:   "Learn More",
		RegionLabel: "Cookie consent",
	}
}

var errBadToken = errors.New("bad token")

// fakeNonces accepts exactly "nonce:<action>:<session>".
type fakeNonces struct {
	created int
}

func (f *fakeNonces) Create(action, sessionID string) (string, error) {
	f.created++
	return "nonce:" + action + ":" + sessionID, nil
}

func (f *fakeNonces) Verify(token, action, sessionID string) error {
	if token != "nonce:"+action+":"+sessionID {
		return errBadToken
	}
	return nil
}

type mapCache struct {
	data map[string][]byte
	gets int
	hits int
}

func newMapCache() *mapCache { return &mapCache{data: make(map[string][]byte)} }

func (m *mapCache) Get(key string) ([]byte, bool) {
	m.gets++
	v, ok := m.data[key]
	if ok {
		m.hits++
	}
	return v, ok
}
func (m *mapCache) Set(key string, value []byte) { m.data[key] = value }

type recordingSink struct {
	styles     []models.Asset
	styleVars  map[string]map[string]string
	scripts    []models.Asset
	objectName string
	scriptData *models.ScriptData
	fragments  [][]byte
}

func (r *recordingSink) EnqueueStyle(asset models.Asset) { r.styles = append(r.styles, asset) }
func (r *recordingSink) AddStyleVariables(handle string, vars map[string]string) {
	if r.styleVars == nil {
		r.styleVars = make(map[string]map[string]string)
	}
	r.styleVars[handle] = vars
}
func (r *recordingSink) EnqueueScript(asset models.Asset) { r.scripts = append(r.scripts, asset) }
func (r *recordingSink) AttachScriptData(_ string, objectName string, data models.ScriptData) {
	r.objectName = objectName
	r.scriptData = &data
}
func (r *recordingSink) AppendMarkup(fragment []byte) { r.fragments = append(r.fragments, fragment) }

func testConfig() *structures.Config {
	return &structures.Config{
		Site: structures.SiteConfig{Name: "84EM", PrivacyPolicyUrl: "/privacy/"},
		Consent: structures.ConsentSettings{
			AjaxUrl:      "/consent/ajax",
			AssetsUrl:    "/assets/",
			CookiePath:   "/",
			CookieDomain: "example.com",
		},
	}
}

var fixedNow = time.Date(2025, 9, 13, 10, 30, 0, 0, time.UTC)

func newTestService(overrides staticOverrides) (*ConsentService, *fakeNonces, *mapCache) {
	nonces := &fakeNonces{}
	cache := newMapCache()
	cs := NewConsentService(testConfig(), overrides, staticCopy{}, nonces, cache, &silentLogger{})
	cs.now = func() time.Time { return fixedNow }
	return cs, nonces, cache
}
