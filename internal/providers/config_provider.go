package providers

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"e84consent/internal/structures"

	"github.com/spf13/viper"
)

const (
	defaultAjaxUrl   = "/consent/ajax"
	defaultAssetsUrl = "/assets/"
	defaultNonceTTL  = 24 * time.Hour
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.SetDefault("consent.ajaxUrl", defaultAjaxUrl)
	v.SetDefault("consent.assetsUrl", defaultAssetsUrl)
	v.SetDefault("consent.nonceTTL", defaultNonceTTL)
	v.SetDefault("consent.cookiePath", "/")
	v.SetDefault("cache.ttl", time.Minute)

	_ = v.BindEnv("logger.level", "E84_LOG_LEVEL")
	_ = v.BindEnv("consent.nonceSecret", "E84_NONCE_SECRET")
	_ = v.BindEnv("cache.enabled", "E84_CACHE_ENABLED")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "ConsentBanner"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
