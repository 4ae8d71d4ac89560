package logger

import "go.uber.org/fx"

// Module provides the service logger. It needs *config.Config in the graph.
var Module = fx.Provide(New)
