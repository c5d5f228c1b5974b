package servicing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/debt-engine/servicing"
)

func testDebt() servicing.Debt {
	return servicing.Debt{
		ID:                 "debt-1",
		Name:               "Store account",
		Type:               servicing.DebtStoreCard,
		CurrentBalance:     money(10000),
		OriginalPrincipal:  money(10000),
		OpeningBalance:     money(10000),
		AnnualInterestRate: rate(24),
		MonthlyServiceFee:  money(50),
		AgreementDate:      time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC),
	}
}

func jan2026() servicing.Month { return servicing.NewMonth(2026, time.January) }

func TestServiceMonth_TypicalMonth(t *testing.T) {
	// GIVEN: 10000 at 24% with a 50 monthly fee
	// WHEN: Servicing one month with a 500 payment
	// THEN: 200 interest and 50 fees charge, 250 reduces principal,
	//       closing at 9750
	snapshot, err := servicing.ServiceMonth(testDebt(), jan2026(), money(500))
	require.NoError(t, err)

	moneyEqual(t, money(10000), snapshot.OpeningBalance)
	moneyEqual(t, money(200), snapshot.InterestCharged)
	moneyEqual(t, money(50), snapshot.FeesCharged)
	moneyEqual(t, money(250), snapshot.TotalCostsCharged)
	moneyEqual(t, money(250), snapshot.PrincipalReduction)
	moneyEqual(t, money(9750), snapshot.ClosingBalance)
	moneyEqual(t, money(250), snapshot.AccumulatedInterestAndFees)
	assert.False(t, snapshot.CapReached)
}

func TestServiceMonth_MissedPayment_CostsStayOutstanding(t *testing.T) {
	// No payment: the 250 in charges joins the closing balance, but the
	// carried balance stays at 10000 so charges never compound.
	snapshot, err := servicing.ServiceMonth(testDebt(), jan2026(), money(0))
	require.NoError(t, err)

	moneyEqual(t, money(10250), snapshot.ClosingBalance)
	assert.True(t, snapshot.PrincipalReduction.IsZero())

	next := servicing.Advance(testDebt(), snapshot)
	moneyEqual(t, money(10000), next.CurrentBalance)
	moneyEqual(t, money(250), next.AccumulatedInterestAndFees)
}

func TestServiceMonth_NearCap_ChargesReduced(t *testing.T) {
	// GIVEN: 9900 of the 10000 cap already accumulated
	// WHEN: Servicing a month that proposes 250 in charges
	// THEN: Only 100 lands, split proportionally, and the cap flag sets
	d := testDebt()
	d.AccumulatedInterestAndFees = money(9900)

	snapshot, err := servicing.ServiceMonth(d, jan2026(), money(500))
	require.NoError(t, err)

	assert.True(t, snapshot.CapReached)
	moneyEqual(t, money(80), snapshot.InterestCharged)
	moneyEqual(t, money(20), snapshot.FeesCharged)
	moneyEqual(t, money(10000), snapshot.AccumulatedInterestAndFees)
}

func TestServiceMonth_AtCap_WholePaymentHitsPrincipal(t *testing.T) {
	d := testDebt()
	d.AccumulatedInterestAndFees = money(10000)

	snapshot, err := servicing.ServiceMonth(d, jan2026(), money(500))
	require.NoError(t, err)

	assert.True(t, snapshot.CapReached)
	assert.True(t, snapshot.TotalCostsCharged.IsZero())
	moneyEqual(t, money(500), snapshot.PrincipalReduction)
	moneyEqual(t, money(9500), snapshot.ClosingBalance)
}

func TestServiceMonth_ZeroBalance_NoInterest(t *testing.T) {
	// A settled account accrues no interest, but fixed fees still charge.
	d := testDebt()
	d.CurrentBalance = money(0)

	snapshot, err := servicing.ServiceMonth(d, jan2026(), money(0))
	require.NoError(t, err)

	assert.True(t, snapshot.InterestCharged.IsZero())
	moneyEqual(t, money(50), snapshot.FeesCharged)
}

func TestServiceMonth_RejectsMalformedInputs(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*servicing.Debt)
	}{
		{"negative balance", func(d *servicing.Debt) { d.CurrentBalance = money(-1) }},
		{"negative rate", func(d *servicing.Debt) { d.AnnualInterestRate = rate(-5) }},
		{"zero principal", func(d *servicing.Debt) { d.OriginalPrincipal = money(0) }},
		{"negative fee", func(d *servicing.Debt) { d.MonthlyServiceFee = money(-10) }},
		{"negative accumulated", func(d *servicing.Debt) { d.AccumulatedInterestAndFees = money(-1) }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := testDebt()
			tc.mutate(&d)

			_, err := servicing.ServiceMonth(d, jan2026(), money(500))
			assert.ErrorIs(t, err, servicing.ErrInvalidInput)
		})
	}
}

func TestServiceMonth_RejectsNegativePayment(t *testing.T) {
	_, err := servicing.ServiceMonth(testDebt(), jan2026(), money(-100))
	assert.ErrorIs(t, err, servicing.ErrInvalidInput)

	var verr *servicing.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "payment", verr.Field)
}

func TestAdvance_CapInvariantHoldsOverManyMonths(t *testing.T) {
	// Drive the servicer for years with a payment below the monthly
	// charges. Accumulated costs must rise monotonically and stop dead
	// at the principal, never a cent past it.
	d := testDebt()
	month := jan2026()

	previous := servicing.ZeroMoney()
	for i := 0; i < 240; i++ {
		snapshot, err := servicing.ServiceMonth(d, month.Add(i), money(100))
		require.NoError(t, err)

		acc := snapshot.AccumulatedInterestAndFees
		assert.True(t, acc.GreaterThanOrEqual(previous))
		assert.True(t, acc.LessThanOrEqual(d.OriginalPrincipal),
			"month %d: accumulated %s exceeds cap", i, acc)

		previous = acc
		d = servicing.Advance(d, snapshot)
		require.False(t, d.CurrentBalance.IsNegative())
	}

	// 100/month against 250/month in charges: the cap must be pinned by now.
	moneyEqual(t, money(10000), previous)
}
