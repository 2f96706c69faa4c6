package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures the service runtime parameters.
type Config struct {
	HTTPPort    string `mapstructure:"http_port"`
	LogLevel    string `mapstructure:"log_level"`
	Environment string `mapstructure:"environment"`
	DebugRoutes bool   `mapstructure:"debug_routes"`

	// Backend selects the backend protocol client: "loopback" runs the
	// in-process development backend; anything else must be provided by the
	// embedding build.
	Backend string `mapstructure:"backend"`

	DatabaseDSN  string `mapstructure:"database_dsn"`
	AMQPURL      string `mapstructure:"amqp_url"`
	AMQPExchange string `mapstructure:"amqp_exchange"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	GatewayTimeout   time.Duration `mapstructure:"gateway_timeout"`
	JoinRetryBackoff time.Duration `mapstructure:"join_retry_backoff"`
}

const (
	defaultHTTPPort       = "8083"
	defaultLogLevel       = "info"
	defaultEnvironment    = "development"
	defaultBackend        = "loopback"
	defaultAMQPExchange   = "tglive.events"
	defaultGatewayTimeout = 30 * time.Second
	defaultJoinBackoff    = 500 * time.Millisecond
)

// Load reads configuration from the provided file path (if any) and the
// environment. Environment variables are prefixed with TGLIVE_ and override
// file values.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TGLIVE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("http_port", defaultHTTPPort)
	v.SetDefault("log_level", defaultLogLevel)
	v.SetDefault("environment", defaultEnvironment)
	v.SetDefault("debug_routes", false)
	v.SetDefault("backend", defaultBackend)
	v.SetDefault("database_dsn", "")
	v.SetDefault("amqp_url", "")
	v.SetDefault("amqp_exchange", defaultAMQPExchange)
	v.SetDefault("otlp_endpoint", "")
	v.SetDefault("gateway_timeout", defaultGatewayTimeout.String())
	v.SetDefault("join_retry_backoff", defaultJoinBackoff.String())

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	// Viper leaves durations as strings; normalize them here.
	for key, dst := range map[string]*time.Duration{
		"gateway_timeout":    &cfg.GatewayTimeout,
		"join_retry_backoff": &cfg.JoinRetryBackoff,
	} {
		dur, err := time.ParseDuration(v.GetString(key))
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = dur
	}

	if cfg.GatewayTimeout <= 0 {
		cfg.GatewayTimeout = defaultGatewayTimeout
	}
	if cfg.JoinRetryBackoff <= 0 {
		cfg.JoinRetryBackoff = defaultJoinBackoff
	}

	return cfg, nil
}
