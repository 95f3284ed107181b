package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	DatabasePath      string        `mapstructure:"database_path" yaml:"database_path"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`

	JWTSecret   string `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	JWTIssuer   string `mapstructure:"jwt_issuer" yaml:"jwt_issuer"`
	JWTAudience string `mapstructure:"jwt_audience" yaml:"jwt_audience"`

	// AllowedOrigins lists origins permitted to open websocket connections.
	// Empty means same-origin only.
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`

	// PresenceGrace delays the presence republish after a disconnect so the
	// member list does not flicker when a reconnect races the disconnect.
	// Pure smoothing; zero is correct too.
	PresenceGrace time.Duration `mapstructure:"presence_grace" yaml:"presence_grace"`

	// AliasMaxLen and MessageMaxLen bound inbound payloads before they
	// reach the coordination core.
	AliasMaxLen   int `mapstructure:"alias_max_len" yaml:"alias_max_len"`
	MessageMaxLen int `mapstructure:"message_max_len" yaml:"message_max_len"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		DatabasePath:      "yapli.db",
		LogLevel:          "info",
		JWTIssuer:         "yapli",
		JWTAudience:       "yapli-api",
		PresenceGrace:     100 * time.Millisecond,
		AliasMaxLen:       50,
		MessageMaxLen:     1000,
	}
}
