package httpserver

import "time"

// Config carries server settings loadable from the environment with
// pkg/config.
type Config struct {
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// NewFromConfig builds a Server from cfg, skipping zero values so the
// package defaults still apply. Additional opts run after the config
// and may override it.
func NewFromConfig(cfg Config, opts ...Option) *Server {
	cfgOpts := make([]Option, 0, 5+len(opts))
	if cfg.Addr != "" {
		cfgOpts = append(cfgOpts, WithAddr(cfg.Addr))
	}
	if cfg.ReadTimeout > 0 {
		cfgOpts = append(cfgOpts, WithReadTimeout(cfg.ReadTimeout))
	}
	if cfg.WriteTimeout > 0 {
		cfgOpts = append(cfgOpts, WithWriteTimeout(cfg.WriteTimeout))
	}
	if cfg.IdleTimeout > 0 {
		cfgOpts = append(cfgOpts, WithIdleTimeout(cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout > 0 {
		cfgOpts = append(cfgOpts, WithShutdownTimeout(cfg.ShutdownTimeout))
	}
	cfgOpts = append(cfgOpts, opts...)
	return New(cfgOpts...)
}
