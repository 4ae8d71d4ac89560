package local

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/membership/internal/config"
)

// Module provides the JSON file store. It backs the local customer backend,
// the user store of the local and REST backends, and migration.
var Module = fx.Provide(newStore)

type storeParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newStore(p storeParams) (*Store, error) {
	return New(p.Config.LocalStorePath, p.Logger)
}
