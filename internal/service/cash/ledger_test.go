package cash

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/ganado/internal/domain/models"
	"github.com/mamadbah2/ganado/internal/service/reporting"
)

// memoryStore is an in-memory Store used to replay ledger operations.
type memoryStore struct {
	seq       int
	movements map[string]models.CashMovement
}

func newMemoryStore() *memoryStore {
	return &memoryStore{movements: make(map[string]models.CashMovement)}
}

func (s *memoryStore) ListMovements(_ context.Context) ([]models.CashMovement, error) {
	out := make([]models.CashMovement, 0, len(s.movements))
	for _, m := range s.movements {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memoryStore) GetMovement(_ context.Context, id string) (models.CashMovement, error) {
	m, ok := s.movements[id]
	if !ok {
		return models.CashMovement{}, models.ErrNotFound
	}
	return m, nil
}

func (s *memoryStore) CreateMovement(_ context.Context, m models.CashMovement) (models.CashMovement, error) {
	s.seq++
	m.ID = fmt.Sprintf("m%03d", s.seq)
	s.movements[m.ID] = m
	return m, nil
}

func (s *memoryStore) UpdateMovement(_ context.Context, m models.CashMovement) (models.CashMovement, error) {
	if _, ok := s.movements[m.ID]; !ok {
		return models.CashMovement{}, models.ErrNotFound
	}
	s.movements[m.ID] = m
	return m, nil
}

func (s *memoryStore) DeleteMovement(_ context.Context, id string) error {
	if _, ok := s.movements[id]; !ok {
		return models.ErrNotFound
	}
	delete(s.movements, id)
	return nil
}

func ptr[T any](v T) *T { return &v }

func TestCreateMovement(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedger(newMemoryStore(), nil)

	tests := []struct {
		name    string
		input   models.CashMovementInput
		wantErr bool
		kind    models.MovementKind
	}{
		{
			name:  "monetary inflow",
			input: models.CashMovementInput{Category: models.CashInflow, Concept: "Base del día", Amount: 1000000},
			kind:  models.MovementMonetary,
		},
		{
			name:  "bill count",
			input: models.CashMovementInput{Category: models.CashInflow, Concept: "Conteo", TotalBills: 500000},
			kind:  models.MovementDenomination,
		},
		{
			name:    "amount and counter together",
			input:   models.CashMovementInput{Category: models.CashOutflow, Concept: "Mixto", Amount: 10, TotalCoins: 5},
			wantErr: true,
		},
		{
			name:    "both counters",
			input:   models.CashMovementInput{Category: models.CashInflow, Concept: "Conteo", TotalBills: 10, TotalCoins: 5},
			wantErr: true,
		},
		{
			name:    "empty movement",
			input:   models.CashMovementInput{Category: models.CashInflow, Concept: "Nada"},
			wantErr: true,
		},
		{
			name:    "unknown category",
			input:   models.CashMovementInput{Category: "retiro", Concept: "x", Amount: 1},
			wantErr: true,
		},
		{
			name:    "missing concept",
			input:   models.CashMovementInput{Category: models.CashOutflow, Concept: "  ", Amount: 1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created, err := ledger.CreateMovement(ctx, tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, models.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, created.ID)
			assert.Equal(t, tt.kind, created.Kind())
		})
	}
}

func TestCreateMovement_DuplicateConceptsAllowed(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedger(newMemoryStore(), nil)

	for i := 0; i < 2; i++ {
		_, err := ledger.CreateMovement(ctx, models.CashMovementInput{Category: models.CashInflow, Concept: "Base", Amount: 100})
		require.NoError(t, err)
	}

	movements, err := ledger.ListMovements(ctx)
	require.NoError(t, err)
	assert.Len(t, movements, 2)
}

func TestUpdateMovement(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedger(newMemoryStore(), nil)

	created, err := ledger.CreateMovement(ctx, models.CashMovementInput{Category: models.CashOutflow, Concept: "Vacunas", Amount: 200000})
	require.NoError(t, err)

	updated, err := ledger.UpdateMovement(ctx, created.ID, models.CashMovementPatch{Amount: ptr(250000.0)})
	require.NoError(t, err)
	assert.Equal(t, 250000.0, updated.Amount)
	assert.Equal(t, "Vacunas", updated.Concept)

	t.Run("patch breaking the shape is refused", func(t *testing.T) {
		_, err := ledger.UpdateMovement(ctx, created.ID, models.CashMovementPatch{TotalBills: ptr(1000.0)})
		require.Error(t, err)
		assert.True(t, models.IsValidation(err))
	})

	t.Run("switch to a denomination count", func(t *testing.T) {
		got, err := ledger.UpdateMovement(ctx, created.ID, models.CashMovementPatch{Amount: ptr(0.0), TotalCoins: ptr(3000.0)})
		require.NoError(t, err)
		assert.Equal(t, models.MovementDenomination, got.Kind())
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := ledger.UpdateMovement(ctx, "nope", models.CashMovementPatch{Amount: ptr(1.0)})
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestDeleteMovement(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedger(newMemoryStore(), nil)

	created, err := ledger.CreateMovement(ctx, models.CashMovementInput{Category: models.CashInflow, Concept: "Base", Amount: 100})
	require.NoError(t, err)

	require.NoError(t, ledger.DeleteMovement(ctx, created.ID))
	assert.ErrorIs(t, ledger.DeleteMovement(ctx, created.ID), models.ErrNotFound)
}

func TestLedgerReplay_BalanceInvariant(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedger(newMemoryStore(), nil)

	type step func(t *testing.T, created []models.CashMovement) []models.CashMovement

	create := func(in models.CashMovementInput) step {
		return func(t *testing.T, created []models.CashMovement) []models.CashMovement {
			m, err := ledger.CreateMovement(ctx, in)
			require.NoError(t, err)
			return append(created, m)
		}
	}
	update := func(idx int, patch models.CashMovementPatch) step {
		return func(t *testing.T, created []models.CashMovement) []models.CashMovement {
			_, err := ledger.UpdateMovement(ctx, created[idx].ID, patch)
			require.NoError(t, err)
			return created
		}
	}
	remove := func(idx int) step {
		return func(t *testing.T, created []models.CashMovement) []models.CashMovement {
			require.NoError(t, ledger.DeleteMovement(ctx, created[idx].ID))
			return created
		}
	}

	steps := []step{
		create(models.CashMovementInput{Category: models.CashInflow, Concept: "Base", Amount: 1000000}),
		create(models.CashMovementInput{Category: models.CashOutflow, Concept: "Sal", Amount: 200000}),
		create(models.CashMovementInput{Category: models.CashInflow, Concept: "Billetes", TotalBills: 500000}),
		update(1, models.CashMovementPatch{Amount: ptr(350000.0)}),
		create(models.CashMovementInput{Category: models.CashOutflow, Concept: "Flete", Amount: 80000}),
		remove(0),
		update(2, models.CashMovementPatch{Category: ptr(models.CashOutflow)}),
	}

	var created []models.CashMovement
	for i, s := range steps {
		created = s(t, created)

		movements, err := ledger.ListMovements(ctx)
		require.NoError(t, err)
		summary := reporting.SummarizeLedger(movements)
		assert.True(t, summary.FinalBalance.Equal(summary.TotalIncome.Sub(summary.TotalExpenses)), "step %d", i)
	}

	movements, err := ledger.ListMovements(ctx)
	require.NoError(t, err)
	summary := reporting.SummarizeLedger(movements)
	assert.Equal(t, "0", summary.TotalIncome.String())
	assert.Equal(t, "430000", summary.TotalExpenses.String())
	assert.Equal(t, "-430000", summary.FinalBalance.String())
	assert.Equal(t, "500000", summary.TotalBills.String())
}
