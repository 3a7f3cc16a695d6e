package controllers

import (
	"bytes"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"e84consent/internal/models"
	"e84consent/internal/providers"
	"e84consent/internal/services"
	"e84consent/internal/structures"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
{{.Head}}
</head>
<body>
<main>
<h1>{{.Title}}</h1>
<p>Consent recorded: {{if .HasConsent}}yes{{else}}no{{end}}</p>
{{if .PolicyUrl}}<p><a href="{{.PolicyUrl}}">Privacy policy</a></p>{{end}}
</main>
{{.Footer}}
</body>
</html>
`))

type pageData struct {
	Title      string
	PolicyUrl  string
	HasConsent bool
	Head       template.HTML
	Footer     template.HTML
}

// PageController serves a minimal host page so the banner can be exercised
// end to end.
type PageController struct {
	logger         providers.Logger
	service        services.ConsentServiceInterface
	sessions       SessionResolver
	metrics        providers.MetricsProviderInterface
	authCookie     string
	trustForwarded bool
}

func NewPageController(conf *structures.Config, logger providers.Logger, service services.ConsentServiceInterface, sessions SessionResolver, metrics providers.MetricsProviderInterface) *PageController {
	return &PageController{
		logger:         logger,
		service:        service,
		sessions:       sessions,
		metrics:        metrics,
		authCookie:     conf.Consent.AuthCookie,
		trustForwarded: conf.Consent.TrustForwardedProto,
	}
}

func (pc *PageController) Page(w http.ResponseWriter, r *http.Request) {
	secure := providers.IsSecure(r, pc.trustForwarded)
	sessionID := pc.sessions.Ensure(w, r, secure)

	cfg := pc.service.ResolveConfig()
	visitor := models.VisitorContext{
		Authenticated:     pc.isAuthenticated(r),
		PrivacyPolicyPage: isPolicyPage(r.URL.Path, cfg.PolicyUrl),
	}

	assets := providers.NewPageAssets()
	if pc.service.ShouldShowBanner(visitor, cfg) {
		err := pc.service.RenderBanner(assets, cfg, models.RequestEnv{SessionID: sessionID, Secure: secure})
		if err != nil {
			pc.logger.Errorf(providers.TypeGet, "Banner render failed: %s", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		pc.metrics.IncBannerRendered()
	} else {
		pc.metrics.IncBannerSkipped()
	}

	head, err := assets.Head()
	if err != nil {
		pc.logger.Errorf(providers.TypeGet, "Page head render failed: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	footer, err := assets.Footer()
	if err != nil {
		pc.logger.Errorf(providers.TypeGet, "Page footer render failed: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	err = pageTemplate.Execute(&buf, pageData{
		Title:      cfg.BrandName,
		PolicyUrl:  cfg.PolicyUrl,
		HasConsent: pc.service.HasConsent(r, cfg),
		Head:       head,
		Footer:     footer,
	})
	if err != nil {
		pc.logger.Errorf(providers.TypeGet, "Page template failed: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (pc *PageController) isAuthenticated(r *http.Request) bool {
	if pc.authCookie == "" {
		return false
	}
	c, err := r.Cookie(pc.authCookie)
	return err == nil && c.Value != ""
}

// isPolicyPage compares paths only, so an absolute policy URL on this host
// still matches.
func isPolicyPage(requestPath, policyUrl string) bool {
	if policyUrl == "" {
		return false
	}
	u, err := url.Parse(policyUrl)
	if err != nil || u.Path == "" {
		return false
	}
	return normalizePath(requestPath) == normalizePath(u.Path)
}

func normalizePath(p string) string {
	p = strings.TrimRight(p, "/")
	if p == "" {
		return "/"
	}
	return p
}
