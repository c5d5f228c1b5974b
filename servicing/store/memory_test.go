package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/debt-engine/servicing"
	"github.com/warp/debt-engine/servicing/store"
)

func TestMemory_SaveAndGetDebt(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	d := servicing.Debt{ID: "d-1", Name: "Card", CurrentBalance: servicing.NewMoney(5000)}
	require.NoError(t, m.SaveDebt(ctx, d))

	got, err := m.GetDebt(ctx, "d-1")
	require.NoError(t, err)
	assert.Equal(t, d.Name, got.Name)
	assert.True(t, d.CurrentBalance.Equal(got.CurrentBalance))
}

func TestMemory_GetDebt_NotFound(t *testing.T) {
	m := store.NewMemory()
	_, err := m.GetDebt(context.Background(), "missing")
	assert.ErrorIs(t, err, servicing.ErrDebtNotFound)
}

func TestMemory_ListDebts_StableOrder(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	for _, id := range []servicing.DebtID{"c", "a", "b"} {
		require.NoError(t, m.SaveDebt(ctx, servicing.Debt{ID: id}))
	}

	debts, err := m.ListDebts(ctx)
	require.NoError(t, err)
	require.Len(t, debts, 3)
	assert.Equal(t, servicing.DebtID("a"), debts[0].ID)
	assert.Equal(t, servicing.DebtID("b"), debts[1].ID)
	assert.Equal(t, servicing.DebtID("c"), debts[2].ID)
}

func TestMemory_PaymentsKeptChronological(t *testing.T) {
	// Payments arrive out of order; history reads back sorted by date.
	ctx := context.Background()
	m := store.NewMemory()

	dates := []time.Time{
		time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, dt := range dates {
		require.NoError(t, m.AppendPayment(ctx, servicing.PaymentRecord{
			DebtID: "d-1", Amount: servicing.NewMoney(100), PaymentDate: dt,
		}))
	}

	history, err := m.PaymentsForDebt(ctx, "d-1")
	require.NoError(t, err)
	require.Len(t, history, 3)
	for i := 1; i < len(history); i++ {
		assert.False(t, history[i].PaymentDate.Before(history[i-1].PaymentDate))
	}
}

func TestMemory_PaymentsIsolatedPerDebt(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	require.NoError(t, m.AppendPayment(ctx, servicing.PaymentRecord{
		DebtID: "d-1", Amount: servicing.NewMoney(100),
		PaymentDate: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
	}))

	other, err := m.PaymentsForDebt(ctx, "d-2")
	require.NoError(t, err)
	assert.Empty(t, other)
}
