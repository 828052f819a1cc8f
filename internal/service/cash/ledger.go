package cash

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/ganado/internal/domain/models"
)

// Store persists cash movements.
type Store interface {
	ListMovements(ctx context.Context) ([]models.CashMovement, error)
	GetMovement(ctx context.Context, id string) (models.CashMovement, error)
	CreateMovement(ctx context.Context, movement models.CashMovement) (models.CashMovement, error)
	UpdateMovement(ctx context.Context, movement models.CashMovement) (models.CashMovement, error)
	DeleteMovement(ctx context.Context, id string) error
}

// Ledger manages the cash register. Each call is an independent unit of work.
type Ledger struct {
	store  Store
	logger *zap.Logger
}

// NewLedger wires a ledger over the given store.
func NewLedger(store Store, logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{store: store, logger: logger}
}

// ListMovements returns all movements.
func (l *Ledger) ListMovements(ctx context.Context) ([]models.CashMovement, error) {
	movements, err := l.store.ListMovements(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cash movements: %w", err)
	}
	return movements, nil
}

// CreateMovement validates and records a movement.
func (l *Ledger) CreateMovement(ctx context.Context, input models.CashMovementInput) (models.CashMovement, error) {
	movement := input.ToMovement()
	if err := movement.Validate(); err != nil {
		return models.CashMovement{}, err
	}

	created, err := l.store.CreateMovement(ctx, movement)
	if err != nil {
		return models.CashMovement{}, fmt.Errorf("create cash movement: %w", err)
	}

	l.logger.Info("cash movement recorded",
		zap.String("id", created.ID),
		zap.String("category", string(created.Category)),
		zap.String("kind", string(created.Kind())))
	return created, nil
}

// UpdateMovement applies the patch over the stored movement. The result must
// still satisfy the movement shape rules.
func (l *Ledger) UpdateMovement(ctx context.Context, id string, patch models.CashMovementPatch) (models.CashMovement, error) {
	current, err := l.store.GetMovement(ctx, id)
	if err != nil {
		return models.CashMovement{}, fmt.Errorf("update cash movement: %w", err)
	}

	next := patch.Apply(current)
	if err := next.Validate(); err != nil {
		return models.CashMovement{}, err
	}

	updated, err := l.store.UpdateMovement(ctx, next)
	if err != nil {
		return models.CashMovement{}, fmt.Errorf("update cash movement: %w", err)
	}
	return updated, nil
}

// DeleteMovement removes a movement.
func (l *Ledger) DeleteMovement(ctx context.Context, id string) error {
	if err := l.store.DeleteMovement(ctx, id); err != nil {
		return fmt.Errorf("delete cash movement: %w", err)
	}
	l.logger.Info("cash movement deleted", zap.String("id", id))
	return nil
}
