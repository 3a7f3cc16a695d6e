package services

import "e84consent/internal/models"

func (cs *ConsentService) ShouldShowBanner(visitor models.VisitorContext, cfg models.ConsentConfig) bool {
	return ShouldShowBanner(visitor, cfg)
}

// ShouldShowBanner hides the banner from authenticated visitors unless the
// config opts them in, and always hides it on the privacy policy page.
func ShouldShowBanner(visitor models.VisitorContext, cfg models.ConsentConfig) bool {
	if visitor.Authenticated && !cfg.ShowForLoggedIn {
		return false
	}
	if visitor.PrivacyPolicyPage {
		return false
	}
	return true
}
