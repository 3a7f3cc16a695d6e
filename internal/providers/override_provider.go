package providers

import (
	"maps"
	"path/filepath"
	"strings"
	"sync/atomic"

	"e84consent/internal/structures"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const overridesKey = "consent.overrides"

// OverrideProvider serves the operator's consent overrides. The map handed
// out is a snapshot; a config file change swaps in a new one.
type OverrideProvider struct {
	current atomic.Pointer[map[string]any]
	logger  Logger
}

func NewOverrideProvider(conf *structures.Config, logger Logger) *OverrideProvider {
	op := &OverrideProvider{logger: logger}
	op.store(conf.Consent.Overrides)

	if conf.Path != "" {
		op.watch(conf.Path)
	}
	return op
}

func (op *OverrideProvider) Overrides() map[string]any {
	return *op.current.Load()
}

func (op *OverrideProvider) store(overrides map[string]any) {
	snapshot := make(map[string]any, len(overrides))
	maps.Copy(snapshot, overrides)
	op.current.Store(&snapshot)
}

func (op *OverrideProvider) watch(path string) {
	v := viper.New()
	filename := filepath.Base(path)
	v.AddConfigPath(filepath.Dir(path))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		op.logger.Warnf(TypeApp, "Overrides watch disabled: %s", err)
		return
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		op.store(v.GetStringMap(overridesKey))
		op.logger.Infof(TypeApp, "Consent overrides reloaded from %s", e.Name)
	})
	v.WatchConfig()
}
