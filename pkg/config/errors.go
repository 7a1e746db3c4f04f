package config

import "errors"

// ErrParse is returned when the environment cannot be parsed into the
// config struct, joined with the underlying parser error.
var ErrParse = errors.New("config: failed to parse environment")
