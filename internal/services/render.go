package services

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"e84consent/internal/markup"
	"e84consent/internal/models"
	"e84consent/internal/providers"

	"github.com/cespare/xxhash/v2"
	json "github.com/goccy/go-json"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RenderBanner hands the sink the banner's assets, the client script data
// and the banner markup. The banner starts hidden; the client script reveals
// it when the visitor has no valid consent record.
func (cs *ConsentService) RenderBanner(sink RenderSink, cfg models.ConsentConfig, env models.RequestEnv) error {
	sink.EnqueueStyle(models.Asset{
		Handle:  AssetHandle,
		Src:     cs.assetUrl("consent.min.css"),
		Version: cfg.CookieVersion,
	})
	sink.AddStyleVariables(AssetHandle, map[string]string{AccentVariable: cfg.AccentColor})
	sink.EnqueueScript(models.Asset{
		Handle:   AssetHandle,
		Src:      cs.assetUrl("consent.min.js"),
		Version:  cfg.CookieVersion,
		InFooter: true,
	})

	nonce, err := cs.nonces.Create(NonceAction, env.SessionID)
	if err != nil {
		return fmt.Errorf("create dismissal nonce: %w", err)
	}
	sink.AttachScriptData(AssetHandle, ScriptObject, models.ScriptData{
		Version:      cfg.CookieVersion,
		Duration:     cfg.CookieDurationDays,
		AjaxUrl:      cs.settings.AjaxUrl,
		Nonce:        nonce,
		IsSecure:     env.Secure,
		CookiePath:   cs.settings.CookiePath,
		CookieDomain: cs.settings.CookieDomain,
	})

	fragment, err := cs.bannerMarkup(cfg)
	if err != nil {
		return err
	}
	sink.AppendMarkup(fragment)
	return nil
}

func (cs *ConsentService) bannerMarkup(cfg models.ConsentConfig) ([]byte, error) {
	key, err := markupCacheKey(cfg)
	if err != nil {
		return nil, err
	}
	if cached, ok := cs.cache.Get(key); ok {
		return cached, nil
	}

	fragment, err := markup.Render(BannerNode(cfg))
	if err != nil {
		return nil, fmt.Errorf("render banner: %w", err)
	}
	cs.cache.Set(key, fragment)
	cs.logger.Debugf(providers.TypeGet, "Banner markup built for version %s", cfg.CookieVersion)
	return fragment, nil
}

// markupCacheKey covers every field BannerNode reads, the localized copy included.
func markupCacheKey(cfg models.ConsentConfig) (string, error) {
	raw, err := json.Marshal(struct {
		Config models.ConsentConfig
		Copy   models.BannerCopy
	}{cfg, cfg.Copy})
	if err != nil {
		return "", fmt.Errorf("banner cache key: %w", err)
	}
	return "banner:" + strconv.FormatUint(xxhash.Sum64(raw), 16), nil
}

// BannerNode builds the banner element tree. The logo and the learn-more
// control are omitted when their URL is empty or not a safe link.
func BannerNode(cfg models.ConsentConfig) *html.Node {
	content := markup.Element(atom.Div, markup.Attr("class", "e84-consent-content"))
	if logo := safeUrl(cfg.LogoUrl); logo != "" {
		markup.Append(content, markup.Element(atom.Img,
			markup.Attr("src", logo),
			markup.Attr("alt", ""),
			markup.Attr("class", "e84-consent-logo"),
			markup.Attr("width", "24"),
			markup.Attr("height", "24"),
			markup.Attr("loading", "lazy"),
			markup.Attr("decoding", "async"),
		))
	}
	markup.Append(content, markup.Append(
		markup.Element(atom.P, markup.Attr("id", "e84-consent-text"), markup.Attr("class", "e84-consent-text")),
		markup.Text(cfg.BannerText),
	))

	buttons := markup.Element(atom.Div, markup.Attr("class", "e84-consent-buttons"))
	markup.Append(buttons, markup.Append(
		markup.Element(atom.Button,
			markup.Attr("type", "button"),
			markup.Attr("id", "e84-consent-accept"),
			markup.Attr("class", "e84-consent-button e84-consent-button-primary"),
			markup.Attr("aria-describedby", "e84-consent-text"),
		),
		markup.Text(cfg.Copy.AcceptLabel),
	))
	if policy := safeUrl(cfg.PolicyUrl); policy != "" {
		markup.Append(buttons, markup.Append(
			markup.Element(atom.Button,
				markup.Attr("type", "button"),
				markup.Attr("id", "e84-consent-learn-more"),
				markup.Attr("class", "e84-consent-button e84-consent-button-secondary"),
				markup.Attr("data-url", policy),
			),
			markup.Text(cfg.Copy.LearnMore),
		))
	}

	container := markup.Append(markup.Element(atom.Div, markup.Attr("class", "e84-consent-container")), content, buttons)

	return markup.Append(markup.Element(atom.Div,
		markup.Attr("id", "e84-consent-banner"),
		markup.Attr("class", "e84-consent-banner"),
		markup.Attr("role", "region"),
		markup.Attr("aria-label", cfg.Copy.RegionLabel),
		markup.Attr("aria-live", "polite"),
		markup.Attr("data-brand", cfg.BrandName),
		markup.Attr("hidden", ""),
	), container)
}

// safeUrl keeps relative, http and https URLs and drops everything else.
func safeUrl(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https":
		return raw
	default:
		return ""
	}
}
