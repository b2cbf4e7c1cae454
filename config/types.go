package config

// ServerConfig contains the monitoring server configuration
type ServerConfig struct {
	Port int `yaml:"port" validate:"gte=0"`
}

// BackendConfig points at the external HTTP collaborators
type BackendConfig struct {
	ProgressURL string `yaml:"progressURL" validate:"omitempty,url"`
	ShipmentURL string `yaml:"shipmentURL" validate:"omitempty,url"`
	TimeoutMS   int    `yaml:"timeoutMS" validate:"gte=0"`
}

// LiveConfig configures the push channel subscription
type LiveConfig struct {
	FeedURL             string `yaml:"feedURL"`
	ReconnectAttempts   int    `yaml:"reconnectAttempts" validate:"gte=0"`
	ReconnectIntervalMS int    `yaml:"reconnectIntervalMS" validate:"gte=0"`
	HeartbeatIntervalMS int    `yaml:"heartbeatIntervalMS" validate:"gte=0"`
}

// TrackingConfig contains local animation policy
type TrackingConfig struct {
	TickIntervalMS int    `yaml:"tickIntervalMS" validate:"gte=0"`
	CacheDir       string `yaml:"cacheDir"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server   ServerConfig   `yaml:"server"`
	Backend  BackendConfig  `yaml:"backend"`
	Live     LiveConfig     `yaml:"live"`
	Tracking TrackingConfig `yaml:"tracking"`
}
