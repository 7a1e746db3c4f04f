package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	dotenvOnce sync.Once

	mu     sync.Mutex
	loaded = make(map[reflect.Type]any)
)

// Load parses environment variables into a fresh T. The first call for a
// given type does the parsing; every later call returns the cached copy, so
// a config struct observed by one component never diverges from another's.
//
// A .env file in the working directory is loaded once per process before
// the first parse; a missing file is fine.
//
// Example:
//
//	type ServerConfig struct {
//		Addr     string `env:"SERVER_ADDR" envDefault:":8080"`
//		Lifetime int    `env:"SERVER_LIFETIME_S" envDefault:"300"`
//	}
//
//	cfg, err := config.Load[ServerConfig]()
func Load[T any]() (T, error) {
	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})

	t := reflect.TypeOf((*T)(nil)).Elem()

	mu.Lock()
	defer mu.Unlock()

	if cached, ok := loaded[t]; ok {
		return cached.(T), nil
	}

	var cfg T
	if err := env.Parse(&cfg); err != nil {
		var zero T
		return zero, errors.Join(ErrParse, err)
	}
	loaded[t] = cfg
	return cfg, nil
}

// MustLoad is Load that panics on failure, for configuration the process
// cannot start without.
func MustLoad[T any]() T {
	cfg, err := Load[T]()
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return cfg
}
