package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/membership/internal/config"
	"github.com/polkiloo/membership/internal/server/http/handlers"
	"github.com/polkiloo/membership/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		NewMembershipFacade,
		func(f *MembershipFacade) handlers.MembershipFacade { return f },
		func(f *MembershipFacade) AdminBootstrapper { return f },
		newHTTPServer,
		newExpiryScanner,
	),
	fx.Invoke(registerLifecycle),
)

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type workerParams struct {
	fx.In

	Facade *MembershipFacade
	Config *config.Config
	Logger *slog.Logger
}

func newExpiryScanner(p workerParams) (*worker.ExpiryScanner, error) {
	return worker.NewExpiryScanner(p.Facade, p.Config.ExpiryScanSchedule, nil, p.Logger)
}

// AdminBootstrapper creates the configured admin account on startup.
type AdminBootstrapper interface {
	EnsureAdmin(ctx context.Context, email, password string) error
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Worker     *worker.ExpiryScanner
	Admin      AdminBootstrapper
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting membership service",
				slog.String("addr", p.Server.Addr),
				slog.String("backend", p.Config.StorageBackend),
			)
			if err := p.Admin.EnsureAdmin(ctx, p.Config.AdminEmail, p.Config.AdminPassword); err != nil {
				return fmt.Errorf("bootstrap admin: %w", err)
			}
			if err := p.Worker.Start(ctx); err != nil {
				return err
			}
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Worker.Stop()

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("membership service stopped")
			return nil
		},
	})
}
