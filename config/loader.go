package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the global application configuration
var Config AppConfig

// LoadAppConfig loads and validates the application configuration from config.yml
func LoadAppConfig() error {
	paths := []string{"config.yml", "./configs/config.yml"}
	var data []byte
	var err error
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if err != nil {
		return err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return err
	}
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return err
	}
	Config = cfg
	ApplyDefaults(&Config)
	return nil
}

// ApplyDefaults fills zero-valued policy knobs with the shipped defaults.
// Reconnect bounds mirror the front-end subscription: 10 attempts at a
// fixed 3s interval, heartbeats every 30s.
func ApplyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 16182
	}
	if cfg.Backend.TimeoutMS == 0 {
		cfg.Backend.TimeoutMS = 10000
	}
	if cfg.Live.ReconnectAttempts == 0 {
		cfg.Live.ReconnectAttempts = 10
	}
	if cfg.Live.ReconnectIntervalMS == 0 {
		cfg.Live.ReconnectIntervalMS = 3000
	}
	if cfg.Live.HeartbeatIntervalMS == 0 {
		cfg.Live.HeartbeatIntervalMS = 30000
	}
	if cfg.Tracking.TickIntervalMS == 0 {
		cfg.Tracking.TickIntervalMS = 1000
	}
	if cfg.Tracking.CacheDir == "" {
		cfg.Tracking.CacheDir = ".shipment-cache"
	}
}
