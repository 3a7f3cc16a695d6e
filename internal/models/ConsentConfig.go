package models

// ConsentConfig is the configuration snapshot resolved for a single request.
// It is built from defaults plus operator overrides and never mutated afterwards.
type ConsentConfig struct {
	BrandName          string `json:"brand_name"`
	AccentColor        string `json:"accent_color"`
	LogoUrl            string `json:"logo_url"`
	PolicyUrl          string `json:"policy_url"`
	ShowForLoggedIn    bool   `json:"show_for_logged_in"`
	CookieVersion      string `json:"cookie_version"`
	BannerText         string `json:"banner_text"`
	CookieDurationDays int    `json:"cookie_duration"`

	// Labels are not overridable; they come from the locale copy.
	Copy BannerCopy `json:"-"`
}

// BannerCopy is the localized fixed text of the banner.
type BannerCopy struct {
	Text        string
	AcceptLabel string
	LearnMore   string
	RegionLabel string
}
