// Package config loads typed configuration from the environment.
//
// It wraps github.com/caarlos0/env/v11 for struct parsing and
// github.com/joho/godotenv for .env bootstrap. Each config type is parsed
// once per process and cached, so every component reading the same struct
// sees the same values.
//
// Usage:
//
//	type ServerConfig struct {
//	    Addr string `env:"SERVER_ADDR" envDefault:":8080"`
//	    Cert string `env:"SERVER_CERT,required"`
//	}
//
//	cfg, err := config.Load[ServerConfig]()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Parse failures are reported joined with ErrParse for errors.Is checks.
package config
