package providers

import (
	"e84consent/internal/models"
	"e84consent/internal/structures"

	"golang.org/x/text/language"
)

var catalogTags = []language.Tag{
	language.English,
	language.German,
	language.French,
	language.Spanish,
}

var catalogCopy = map[language.Tag]models.BannerCopy{
	language.English: {
		Text:        "We use only essential cookies for security and performance.",
		AcceptLabel: "OK",
		LearnMore:   "Learn More",
		RegionLabel: "Cookie consent",
	},
	language.German: {
		Text:        "Wir verwenden nur essenzielle Cookies für Sicherheit und Leistung.",
		AcceptLabel: "OK",
		LearnMore:   "Mehr erfahren",
		RegionLabel: "Cookie-Einwilligung",
	},
	language.French: {
		Text:        "Nous utilisons uniquement des cookies essentiels pour la sécurité et les performances.",
		AcceptLabel: "OK",
		LearnMore:   "En savoir plus",
		RegionLabel: "Consentement aux cookies",
	},
	language.Spanish: {
		Text:        "Solo usamos cookies esenciales para la seguridad y el rendimiento.",
		AcceptLabel: "OK",
		LearnMore:   "Más información",
		RegionLabel: "Consentimiento de cookies",
	},
}

// CopyCatalog picks the banner's default copy for the site locale once at
// startup. Unknown or empty locales fall back to English.
type CopyCatalog struct {
	copy models.BannerCopy
}

func NewCopyCatalog(conf *structures.Config) *CopyCatalog {
	return &CopyCatalog{copy: lookupCopy(conf.Site.Locale)}
}

func (cc *CopyCatalog) DefaultCopy() models.BannerCopy {
	return cc.copy
}

func lookupCopy(locale string) models.BannerCopy {
	tag, err := language.Parse(locale)
	if err != nil {
		return catalogCopy[language.English]
	}
	_, idx, _ := language.NewMatcher(catalogTags).Match(tag)
	return catalogCopy[catalogTags[idx]]
}
