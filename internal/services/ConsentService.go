package services

import (
	"net/http"
	"path"
	"strings"
	"time"

	"e84consent/internal/models"
	"e84consent/internal/providers"
	"e84consent/internal/structures"

	"github.com/spf13/cast"
)

const (
	DismissAction = "84em_dismiss_consent"
	NonceAction   = "84em-consent-nonce"

	AssetHandle    = "84em-consent"
	ScriptObject   = "e84Consent"
	AccentVariable = "--e84-consent-accent"

	DefaultAccentColor        = "#CC3000"
	DefaultPolicyUrl          = "/privacy-policy/"
	DefaultCookieVersion      = "2025-09-13"
	DefaultCookieDurationDays = 180
)

// RenderSink receives everything the banner needs delivered with a page.
type RenderSink interface {
	EnqueueStyle(asset models.Asset)
	AddStyleVariables(handle string, vars map[string]string)
	EnqueueScript(asset models.Asset)
	AttachScriptData(handle, objectName string, data models.ScriptData)
	AppendMarkup(fragment []byte)
}

// ActionRegistry maps a named server-side action to its handler.
type ActionRegistry interface {
	Register(action string, handler http.Handler)
}

type NonceProviderInterface interface {
	Create(action, sessionID string) (string, error)
	Verify(token, action, sessionID string) error
}

type OverrideSource interface {
	Overrides() map[string]any
}

type CopySource interface {
	DefaultCopy() models.BannerCopy
}

type ConsentServiceInterface interface {
	ResolveConfig() models.ConsentConfig
	ShouldShowBanner(visitor models.VisitorContext, cfg models.ConsentConfig) bool
	RenderBanner(sink RenderSink, cfg models.ConsentConfig, env models.RequestEnv) error
	Dismiss(req models.DismissRequest) (*http.Cookie, error)
	HasConsent(r *http.Request, cfg models.ConsentConfig) bool
}

// ConsentService is the consent banner: config resolution, the visibility
// decision, rendering and dismissal. It holds no per-request state.
type ConsentService struct {
	site      structures.SiteConfig
	settings  structures.ConsentSettings
	overrides OverrideSource
	copy      CopySource
	nonces    NonceProviderInterface
	cache     providers.CacheProviderInterface
	logger    providers.Logger
	now       func() time.Time
}

func NewConsentService(conf *structures.Config, overrides OverrideSource, copySource CopySource, nonces NonceProviderInterface, cache providers.CacheProviderInterface, logger providers.Logger) *ConsentService {
	return &ConsentService{
		site:      conf.Site,
		settings:  conf.Consent,
		overrides: overrides,
		copy:      copySource,
		nonces:    nonces,
		cache:     cache,
		logger:    logger,
		now:       time.Now,
	}
}

// ResolveConfig merges the operator overrides over the built-in defaults.
// The merge is shallow: a present key replaces the default outright,
// whatever its value. Unknown keys are ignored.
func (cs *ConsentService) ResolveConfig() models.ConsentConfig {
	cfg := cs.defaults()
	applyOverrides(&cfg, cs.overrides.Overrides())
	return cfg
}

func (cs *ConsentService) defaults() models.ConsentConfig {
	bannerCopy := cs.copy.DefaultCopy()
	policyUrl := cs.site.PrivacyPolicyUrl
	if policyUrl == "" {
		policyUrl = DefaultPolicyUrl
	}
	return models.ConsentConfig{
		BrandName:          cs.site.Name,
		AccentColor:        DefaultAccentColor,
		PolicyUrl:          policyUrl,
		CookieVersion:      DefaultCookieVersion,
		BannerText:         bannerCopy.Text,
		CookieDurationDays: DefaultCookieDurationDays,
		Copy:               bannerCopy,
	}
}

func applyOverrides(cfg *models.ConsentConfig, overrides map[string]any) {
	for key, val := range overrides {
		switch strings.ToLower(key) {
		case "brand_name":
			cfg.BrandName = cast.ToString(val)
		case "accent_color":
			cfg.AccentColor = cast.ToString(val)
		case "logo_url":
			cfg.LogoUrl = cast.ToString(val)
		case "policy_url":
			cfg.PolicyUrl = cast.ToString(val)
		case "show_for_logged_in":
			cfg.ShowForLoggedIn = cast.ToBool(val)
		case "cookie_version":
			cfg.CookieVersion = cast.ToString(val)
		case "banner_text":
			cfg.BannerText = cast.ToString(val)
		case "cookie_duration":
			cfg.CookieDurationDays = cast.ToInt(val)
		}
	}
}

func (cs *ConsentService) assetUrl(name string) string {
	return path.Join(cs.settings.AssetsUrl, name)
}
