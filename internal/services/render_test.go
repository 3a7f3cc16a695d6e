package services

import (
	"strings"
	"testing"

	"e84consent/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderWith(t *testing.T, cs *ConsentService, cfg models.ConsentConfig, env models.RequestEnv) *recordingSink {
	t.Helper()
	sink := &recordingSink{}
	require.NoError(t, cs.RenderBanner(sink, cfg, env))
	return sink
}

func TestRenderBanner_AssetsAndVariables(t *testing.T) {
	cs, _, _ := newTestService(nil)
	cfg := cs.ResolveConfig()

	sink := renderWith(t, cs, cfg, models.RequestEnv{SessionID: "sess-1"})

	require.Len(t, sink.styles, 1)
	assert.Equal(t, models.Asset{Handle: AssetHandle, Src: "/assets/consent.min.css", Version: "2025-09-13"}, sink.styles[0])
	require.Len(t, sink.scripts, 1)
	assert.Equal(t, models.Asset{Handle: AssetHandle, Src: "/assets/consent.min.js", Version: "2025-09-13", InFooter: true}, sink.scripts[0])
	assert.Equal(t, map[string]string{AccentVariable: "#CC3000"}, sink.styleVars[AssetHandle])
}

func TestRenderBanner_ScriptData(t *testing.T) {
	cs, nonces, _ := newTestService(staticOverrides{"cookie_duration": 30, "cookie_version": "v2"})
	cfg := cs.ResolveConfig()

	sink := renderWith(t, cs, cfg, models.RequestEnv{SessionID: "sess-1", Secure: true})

	assert.Equal(t, ScriptObject, sink.objectName)
	require.NotNil(t, sink.scriptData)
	assert.Equal(t, models.ScriptData{
		Version:      "v2",
		Duration:     30,
		AjaxUrl:      "/consent/ajax",
		Nonce:        "nonce:" + NonceAction + ":sess-1",
		IsSecure:     true,
		CookiePath:   "/",
		CookieDomain: "example.com",
	}, *sink.scriptData)
	assert.Equal(t, 1, nonces.created)
}

func TestRenderBanner_Markup(t *testing.T) {
	cs, _, _ := newTestService(staticOverrides{"logo_url": "/logo.svg"})
	cfg := cs.ResolveConfig()

	sink := renderWith(t, cs, cfg, models.RequestEnv{})

	require.Len(t, sink.fragments, 1)
	out := string(sink.fragments[0])
	assert.Contains(t, out, `id="e84-consent-banner"`)
	assert.Contains(t, out, `role="region"`)
	assert.Contains(t, out, `aria-label="Cookie consent"`)
	assert.Contains(t, out, `aria-live="polite"`)
	assert.Contains(t, out, `hidden=""`)
	assert.Contains(t, out, `src="/logo.svg"`)
	assert.Contains(t, out, `alt=""`)
	assert.Contains(t, out, `loading="lazy"`)
	assert.Contains(t, out, `decoding="async"`)
	assert.Contains(t, out, `aria-describedby="e84-consent-text"`)
	assert.Contains(t, out, `data-url="/privacy/"`)
	assert.Contains(t, out, ">OK</button>")
	assert.Contains(t, out, ">Learn More</button>")
}

func TestRenderBanner_NoLogoWhenEmpty(t *testing.T) {
	cs, _, _ := newTestService(nil)

	sink := renderWith(t, cs, cs.ResolveConfig(), models.RequestEnv{})

	assert.NotContains(t, string(sink.fragments[0]), "<img")
}

func TestRenderBanner_NoLearnMoreWithoutPolicy(t *testing.T) {
	cs, _, _ := newTestService(staticOverrides{"policy_url": ""})

	sink := renderWith(t, cs, cs.ResolveConfig(), models.RequestEnv{})

	out := string(sink.fragments[0])
	assert.NotContains(t, out, "e84-consent-learn-more")
	assert.Contains(t, out, "e84-consent-accept")
}

func TestRenderBanner_EscapesText(t *testing.T) {
	cs, _, _ := newTestService(staticOverrides{"banner_text": `<script>alert("x")</script>`, "brand_name": `"><b>`})

	sink := renderWith(t, cs, cs.ResolveConfig(), models.RequestEnv{})

	out := string(sink.fragments[0])
	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, `"><b>`)
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestRenderBanner_DropsUnsafeUrls(t *testing.T) {
	cs, _, _ := newTestService(staticOverrides{
		"logo_url":   "javascript:alert(1)",
		"policy_url": "data:text/html,hi",
	})

	sink := renderWith(t, cs, cs.ResolveConfig(), models.RequestEnv{})

	out := string(sink.fragments[0])
	assert.NotContains(t, out, "<img")
	assert.NotContains(t, out, "e84-consent-learn-more")
	assert.NotContains(t, strings.ToLower(out), "javascript:")
}

func TestRenderBanner_CachesMarkup(t *testing.T) {
	cs, _, cache := newTestService(nil)
	cfg := cs.ResolveConfig()

	first := renderWith(t, cs, cfg, models.RequestEnv{SessionID: "a"})
	second := renderWith(t, cs, cfg, models.RequestEnv{SessionID: "b"})

	assert.Equal(t, first.fragments[0], second.fragments[0])
	assert.Equal(t, 2, cache.gets)
	assert.Equal(t, 1, cache.hits)
	assert.Len(t, cache.data, 1)
	assert.NotEqual(t, first.scriptData.Nonce, second.scriptData.Nonce)
}

func TestMarkupCacheKey_TracksCopy(t *testing.T) {
	cfg := models.ConsentConfig{BannerText: "x", Copy: models.BannerCopy{AcceptLabel: "OK"}}
	other := cfg
	other.Copy.AcceptLabel = "Einverstanden"

	a, err := markupCacheKey(cfg)
	require.NoError(t, err)
	b, err := markupCacheKey(other)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestSafeUrl(t *testing.T) {
	cases := map[string]string{
		"":                           "",
		"  ":                         "",
		"/privacy/":                  "/privacy/",
		"https://example.com/p":      "https://example.com/p",
		"HTTP://example.com":         "HTTP://example.com",
		"javascript:alert(1)":        "",
		"vbscript:msgbox":            "",
		"mailto:privacy@example.com": "",
	}
	for in, want := range cases {
		assert.Equal(t, want, safeUrl(in), in)
	}
}
