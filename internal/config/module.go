package config

import "go.uber.org/fx"

// Module provides the process configuration read from .env, the environment
// and command line flags.
var Module = fx.Provide(Load)
