// Package storage selects the persistence backend configured for the process.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/membership/internal/adapter/restapi"
	"github.com/polkiloo/membership/internal/config"
	"github.com/polkiloo/membership/internal/domain/repository"
	"github.com/polkiloo/membership/internal/session"
	"github.com/polkiloo/membership/internal/storage/local"
	"github.com/polkiloo/membership/internal/storage/postgres"
)

// Module provides the repositories of the configured backend together with
// the local store used for migration.
var Module = fx.Options(
	local.Module,
	fx.Provide(newBackend),
)

// Backend exposes the repositories of the active backend.
type Backend struct {
	fx.Out

	Customers repository.CustomerRepository
	Users     repository.UserRepository
}

var (
	_ repository.Factory = (*local.Store)(nil)
	_ repository.Factory = (*postgres.Storage)(nil)
)

func fromFactory(f repository.Factory) Backend {
	return Backend{Customers: f.Customers(), Users: f.Users()}
}

type backendParams struct {
	fx.In

	Ctx       context.Context
	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
	Local     *local.Store
	Sessions  session.Store
}

func newBackend(p backendParams) (Backend, error) {
	switch p.Config.StorageBackend {
	case "", config.BackendLocal:
		p.Logger.Info("using local storage", slog.String("path", p.Local.Path()))
		return fromFactory(p.Local), nil

	case config.BackendPostgres:
		st, err := postgres.Open(postgres.Params{
			Ctx:       p.Ctx,
			Lifecycle: p.Lifecycle,
			Config:    p.Config,
			Logger:    p.Logger,
		})
		if err != nil {
			return Backend{}, err
		}
		p.Logger.Info("using postgres storage")
		return fromFactory(st), nil

	case config.BackendREST:
		client, err := restapi.New(p.Config.RemoteAPIURL, p.Sessions, restapi.Credentials{
			Email:    p.Config.RemoteAPIEmail,
			Password: p.Config.RemoteAPIPassword,
		}, p.Logger)
		if err != nil {
			return Backend{}, err
		}
		p.Logger.Info("using remote storage", slog.String("url", p.Config.RemoteAPIURL))
		// Staff accounts of this process stay local.
		return Backend{Customers: client, Users: p.Local.Users()}, nil

	default:
		return Backend{}, fmt.Errorf("unknown storage backend %q", p.Config.StorageBackend)
	}
}
