package config

import (
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Watch re-decodes the configuration whenever the backing file changes and
// hands the result to onChange. Invalid edits are logged and skipped so the
// previous configuration stays in effect.
func Watch(v *viper.Viper, logger *zap.Logger, onChange func(*Config)) {
	log := logger.Named("config-watch")

	v.OnConfigChange(func(event fsnotify.Event) {
		if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
			return
		}

		cfg, err := decode(v)
		if err != nil {
			log.Warn("Ignoring invalid configuration change",
				zap.String("file", event.Name),
				zap.Error(err),
			)
			return
		}

		log.Info("Configuration reloaded", zap.String("file", event.Name))
		onChange(cfg)
	})
	v.WatchConfig()
}
