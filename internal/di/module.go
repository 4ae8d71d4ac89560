package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/membership/internal/app"
	"github.com/polkiloo/membership/internal/config"
	"github.com/polkiloo/membership/internal/logger"
	"github.com/polkiloo/membership/internal/pkg/auth"
	"github.com/polkiloo/membership/internal/server/http/router"
	"github.com/polkiloo/membership/internal/session"
	"github.com/polkiloo/membership/internal/storage"
	"github.com/polkiloo/membership/internal/storage/local"
	"github.com/polkiloo/membership/internal/usecase"
)

// Module assembles the whole service. Extra options are appended last so
// tests can replace any provided value.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		session.Module,
		storage.Module,
		usecase.Module,
		fx.Provide(func(s *local.Store) usecase.LocalCustomerSource { return s }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
