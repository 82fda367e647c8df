package inventory

import (
	"context"
	"log/slog"

	"github.com/medbill/medbill/internal/shared"
)

// RepositoryPort abstracts repository usage for service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, Store) error) error
	ListMovements(ctx context.Context, productID int64, limit int) ([]Movement, error)
}

// AuditPort abstracts audit logging functionality.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service exposes manual stock adjustments and the movement history.
type Service struct {
	repo   RepositoryPort
	audit  AuditPort
	logger *slog.Logger
}

// NewService builds Service.
func NewService(repo RepositoryPort, audit AuditPort, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, audit: audit, logger: logger}
}

// AdjustInput describes a manual stock correction. Positive Delta releases stock,
// negative reserves it.
type AdjustInput struct {
	ProductID int64 `json:"-"`
	Delta     int   `json:"delta" validate:"required,ne=0"`
}

// Adjust applies a manual correction to one product.
func (s *Service) Adjust(ctx context.Context, actor shared.Actor, input AdjustInput) (Movement, error) {
	if err := shared.ValidateStruct(input); err != nil {
		return Movement{}, err
	}
	var move Movement
	err := s.repo.WithTx(ctx, func(ctx context.Context, store Store) error {
		ledger := NewLedger(store).WithActor(actor.ID)
		var err error
		if input.Delta > 0 {
			move, err = ledger.Release(ctx, input.ProductID, input.Delta)
		} else {
			move, err = ledger.Reserve(ctx, input.ProductID, -input.Delta)
		}
		return err
	})
	if err != nil {
		return Movement{}, err
	}
	if s.audit != nil {
		if err := s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actor.ID,
			Action:   "stock.adjust",
			Entity:   "product",
			EntityID: input.ProductID,
			Meta:     map[string]any{"delta": input.Delta, "stock_after": move.StockAfter},
		}); err != nil {
			s.logger.Warn("audit stock adjust", slog.Any("error", err))
		}
	}
	return move, nil
}

// Movements lists the latest movements of a product.
func (s *Service) Movements(ctx context.Context, productID int64, limit int) ([]Movement, error) {
	if limit <= 0 || limit > shared.MaxLimit {
		limit = shared.MaxLimit
	}
	return s.repo.ListMovements(ctx, productID, limit)
}
