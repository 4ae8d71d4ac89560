package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/membership/internal/config"
	domainErrors "github.com/polkiloo/membership/internal/domain/errors"
	"github.com/polkiloo/membership/internal/domain/model"
	"github.com/polkiloo/membership/internal/domain/repository"
)

// LocalCustomerSource is the on-disk store customers are migrated from.
type LocalCustomerSource interface {
	Customers() repository.CustomerRepository
	Clear(ctx context.Context) error
}

// MigrationUseCase moves customers from the local store into the active backend.
type MigrationUseCase struct {
	source    LocalCustomerSource
	customers *CustomerUseCase
	backend   string
	logger    *slog.Logger
}

// MigrationParams groups MigrationUseCase dependencies.
type MigrationParams struct {
	fx.In

	Source    LocalCustomerSource
	Customers *CustomerUseCase
	Config    *config.Config
	Logger    *slog.Logger
}

// NewMigrationUseCase constructs MigrationUseCase.
func NewMigrationUseCase(p MigrationParams) *MigrationUseCase {
	return &MigrationUseCase{source: p.Source, customers: p.Customers, backend: p.Config.StorageBackend, logger: p.Logger}
}

// MigrateLocal recreates every local customer in the active backend. New
// ids, numbers and creation times are assigned. The local store is cleared
// only when at least one record moved and none failed.
func (u *MigrationUseCase) MigrateLocal(ctx context.Context, actor model.User) (*model.MigrationResult, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if u.backend == "" || u.backend == config.BackendLocal {
		return nil, fmt.Errorf("active backend is the local store: %w", domainErrors.ErrValidation)
	}

	local, err := u.source.Customers().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("read local customers: %w", err)
	}

	result := &model.MigrationResult{}
	for _, c := range local {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		visits := c.Visits
		_, err := u.customers.Create(ctx, model.CustomerInput{
			FirstName:      c.FirstName,
			LastName:       c.LastName,
			Email:          c.Email,
			Phone:          c.Phone,
			MembershipType: c.MembershipType,
			ExpiryDate:     c.ExpiryDate,
			Visits:         &visits,
		})
		if err != nil {
			result.Failed++
			u.logger.Warn("migrate customer failed",
				slog.String("customer_id", c.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		result.Migrated++
	}

	if result.Migrated > 0 && result.Failed == 0 {
		if err := u.source.Clear(ctx); err != nil {
			return result, fmt.Errorf("clear local store: %w", err)
		}
		result.Cleared = true
	}

	u.logger.Info("local migration finished",
		slog.Int("migrated", result.Migrated),
		slog.Int("failed", result.Failed),
		slog.Bool("cleared", result.Cleared),
	)
	return result, nil
}
