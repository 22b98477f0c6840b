package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`

	DatabasePath string `mapstructure:"database_path" yaml:"database_path"`

	// RedisAddr selects the Redis-backed match coordinator. When empty the
	// server runs with the in-memory coordinator.
	RedisAddr     string `mapstructure:"redis_addr" yaml:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password" yaml:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db" yaml:"redis_db"`

	JWTSecret   string        `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	JWTIssuer   string        `mapstructure:"jwt_issuer" yaml:"jwt_issuer"`
	JWTAudience string        `mapstructure:"jwt_audience" yaml:"jwt_audience"`
	JWTTTL      time.Duration `mapstructure:"jwt_ttl" yaml:"jwt_ttl"`

	// BroadcastInterval is the period of the status broadcaster.
	BroadcastInterval time.Duration `mapstructure:"broadcast_interval" yaml:"broadcast_interval"`
	// SendTimeout bounds a single frame send so one dead peer cannot stall
	// a broadcast firing.
	SendTimeout time.Duration `mapstructure:"send_timeout" yaml:"send_timeout"`
	// RoundDuration is the open window of the round seeded at startup.
	RoundDuration time.Duration `mapstructure:"round_duration" yaml:"round_duration"`

	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		DatabasePath:      "lobby.db",
		RedisAddr:         "",
		RedisPassword:     "",
		RedisDB:           0,
		JWTSecret:         "dev-secret-change-me",
		JWTIssuer:         "lobby-server",
		JWTAudience:       "lobby-client",
		JWTTTL:            24 * time.Hour,
		BroadcastInterval: time.Second,
		SendTimeout:       3 * time.Second,
		RoundDuration:     5 * time.Minute,
		LogLevel:          "info",
	}
}
