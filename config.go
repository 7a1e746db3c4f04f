package bindkit

import (
	"github.com/dmitrymomot/bindkit/pkg/config"
)

// Config carries endpoint defaults read from the environment.
type Config struct {
	// MaxBodyBytes caps request body size; 0 keeps the built-in default.
	MaxBodyBytes int64 `env:"BIND_MAX_BODY_BYTES" envDefault:"0"`
}

// LoadConfig reads Config from the environment, once per process.
func LoadConfig() (Config, error) {
	return config.Load[Config]()
}

// WithConfig applies environment-derived defaults to an endpoint.
//
//	cfg, _ := bindkit.LoadConfig()
//	ep := bindkit.MustEndpoint(h, bindkit.WithConfig(cfg))
func WithConfig(cfg Config) EndpointOption {
	return func(c *endpointConfig) {
		if cfg.MaxBodyBytes > 0 {
			c.maxBody = cfg.MaxBodyBytes
		}
	}
}
