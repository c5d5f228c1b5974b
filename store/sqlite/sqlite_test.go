package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/debt-engine/servicing"
	"github.com/warp/debt-engine/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_DebtRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	deadline := time.Date(2026, time.September, 14, 0, 0, 0, 0, time.UTC)
	d := servicing.Debt{
		ID:                         "d-1",
		Name:                       "Vehicle finance",
		Creditor:                   "BankCo",
		Type:                       servicing.DebtVehicle,
		CurrentBalance:             servicing.MustParseMoney("184332.17"),
		OriginalPrincipal:          servicing.NewMoney(250000),
		OpeningBalance:             servicing.NewMoney(250000),
		AnnualInterestRate:         decimal.NewFromFloat(13.75),
		MonthlyServiceFee:          servicing.NewMoney(69),
		CreditLifePremium:          servicing.MustParseMoney("112.50"),
		AccumulatedInterestAndFees: servicing.MustParseMoney("41230.04"),
		AgreementDate:              time.Date(2022, time.June, 1, 0, 0, 0, 0, time.UTC),
		MinimumPayment:             servicing.NewMoney(5400),
		Section129Received:         true,
		Section129Deadline:         &deadline,
	}
	require.NoError(t, s.SaveDebt(ctx, d))

	got, err := s.GetDebt(ctx, "d-1")
	require.NoError(t, err)

	assert.Equal(t, d.Name, got.Name)
	assert.Equal(t, d.Type, got.Type)
	// Decimal strings survive exactly; no float drift through storage.
	assert.True(t, d.CurrentBalance.Equal(got.CurrentBalance))
	assert.True(t, d.AccumulatedInterestAndFees.Equal(got.AccumulatedInterestAndFees))
	assert.True(t, d.AnnualInterestRate.Equal(got.AnnualInterestRate))
	require.NotNil(t, got.Section129Deadline)
	assert.True(t, deadline.Equal(*got.Section129Deadline))
	assert.Nil(t, got.PaidOffAt)
}

func TestStore_SaveDebt_Upserts(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	d := servicing.Debt{ID: "d-1", Name: "Before", OriginalPrincipal: servicing.NewMoney(1000)}
	require.NoError(t, s.SaveDebt(ctx, d))

	d.Name = "After"
	d.CurrentBalance = servicing.NewMoney(900)
	require.NoError(t, s.SaveDebt(ctx, d))

	got, err := s.GetDebt(ctx, "d-1")
	require.NoError(t, err)
	assert.Equal(t, "After", got.Name)

	debts, err := s.ListDebts(ctx)
	require.NoError(t, err)
	assert.Len(t, debts, 1)
}

func TestStore_GetDebt_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetDebt(context.Background(), "missing")
	assert.ErrorIs(t, err, servicing.ErrDebtNotFound)
}

func TestStore_PaymentsChronological(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.SaveDebt(ctx, servicing.Debt{ID: "d-1"}))

	// Out-of-order inserts; reads come back by payment date.
	dates := []time.Time{
		time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.February, 5, 0, 0, 0, 0, time.UTC),
	}
	for i, dt := range dates {
		require.NoError(t, s.AppendPayment(ctx, servicing.PaymentRecord{
			DebtID:      "d-1",
			Amount:      servicing.NewMoney(float64(100 * (i + 1))),
			PaymentDate: dt,
		}))
	}

	history, err := s.PaymentsForDebt(ctx, "d-1")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, time.January, history[0].PaymentDate.Month())
	assert.Equal(t, time.February, history[1].PaymentDate.Month())
	assert.Equal(t, time.March, history[2].PaymentDate.Month())
}

func TestStore_Reset(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.SaveDebt(ctx, servicing.Debt{ID: "d-1"}))
	require.NoError(t, s.AppendPayment(ctx, servicing.PaymentRecord{
		DebtID: "d-1", Amount: servicing.NewMoney(100),
		PaymentDate: time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC),
	}))

	require.NoError(t, s.Reset(ctx))

	debts, err := s.ListDebts(ctx)
	require.NoError(t, err)
	assert.Empty(t, debts)
}
