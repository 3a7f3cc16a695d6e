package structures

import (
	"net/http"
	"time"
)

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

// SiteConfig describes the host site identity the banner defaults derive from.
type SiteConfig struct {
	Name             string `yaml:"name" validate:"required"`
	PrivacyPolicyUrl string `yaml:"privacyPolicyUrl"`
	Locale           string `yaml:"locale"`
}

type ConsentSettings struct {
	AjaxUrl             string         `yaml:"ajaxUrl" validate:"required|startsWith:/"`
	AssetsUrl           string         `yaml:"assetsUrl" validate:"required|startsWith:/"`
	NonceSecret         string         `yaml:"nonceSecret" validate:"required|minLen:16"`
	NonceTTL            time.Duration  `yaml:"nonceTTL"`
	CookiePath          string         `yaml:"cookiePath" validate:"required|startsWith:/"`
	CookieDomain        string         `yaml:"cookieDomain"`
	AuthCookie          string         `yaml:"authCookie"`
	TrustForwardedProto bool           `yaml:"trustForwardedProto"`
	Overrides           map[string]any `yaml:"overrides"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	WebServer Server          `yaml:"webServer"`
	Logger    LoggerConfig    `yaml:"logger"`
	Site      SiteConfig      `yaml:"site"`
	Consent   ConsentSettings `yaml:"consent"`
	Cache     CacheConfig     `yaml:"cache"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
}

type Route struct {
	Url     string
	Handler http.Handler
}
