package strategy_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/debt-engine/servicing"
	"github.com/warp/debt-engine/strategy"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

var asOf = time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)

func debt(id string, balance, principal, annualRate float64) servicing.Debt {
	return servicing.Debt{
		ID:                 servicing.DebtID(id),
		Name:               id,
		Type:               servicing.DebtUnsecured,
		CurrentBalance:     servicing.NewMoney(balance),
		OriginalPrincipal:  servicing.NewMoney(principal),
		OpeningBalance:     servicing.NewMoney(principal),
		AnnualInterestRate: decimal.NewFromFloat(annualRate),
		MinimumPayment:     servicing.NewMoney(200),
		AgreementDate:      time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

func ids(items []strategy.AttackOrderItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = string(item.Debt.ID)
	}
	return out
}

// =============================================================================
// ATTACK ORDER
// =============================================================================

func TestGenerateAttackOrder_Snowball_SmallestBalanceFirst(t *testing.T) {
	debts := []servicing.Debt{
		debt("big", 20000, 20000, 18),
		debt("small", 3000, 3000, 12),
		debt("mid", 8000, 8000, 24),
	}

	items := strategy.GenerateAttackOrder(debts, strategy.Snowball, asOf)
	assert.Equal(t, []string{"small", "mid", "big"}, ids(items))
	for _, item := range items {
		assert.Equal(t, strategy.PriorityStrategy, item.Priority)
	}
}

func TestGenerateAttackOrder_Avalanche_HighestRateFirst(t *testing.T) {
	debts := []servicing.Debt{
		debt("cheap", 20000, 20000, 12),
		debt("dear", 3000, 3000, 28),
		debt("mid", 8000, 8000, 20),
	}

	items := strategy.GenerateAttackOrder(debts, strategy.Avalanche, asOf)
	assert.Equal(t, []string{"dear", "mid", "cheap"}, ids(items))
}

func TestGenerateAttackOrder_Section129AlwaysFirst(t *testing.T) {
	// GIVEN: A low-rate debt with an active Section 129 notice
	// WHEN: Ordering by avalanche
	// THEN: The legal debt outranks every strategy preference
	legal := debt("legal", 5000, 5000, 10)
	legal.Section129Received = true
	deadline := asOf.AddDate(0, 0, 7)
	legal.Section129Deadline = &deadline

	debts := []servicing.Debt{debt("dear", 20000, 20000, 28), legal}

	items := strategy.GenerateAttackOrder(debts, strategy.Avalanche, asOf)
	require.NotEmpty(t, items)
	assert.Equal(t, "legal", string(items[0].Debt.ID))
	assert.Equal(t, strategy.PriorityLegal, items[0].Priority)
	assert.Contains(t, items[0].RecommendedAction, "Section 129")
}

func TestGenerateAttackOrder_ExpiredSection129IsNotLegal(t *testing.T) {
	expired := debt("expired", 5000, 5000, 10)
	expired.Section129Received = true
	deadline := asOf.AddDate(0, 0, -3)
	expired.Section129Deadline = &deadline

	items := strategy.GenerateAttackOrder([]servicing.Debt{expired}, strategy.Avalanche, asOf)
	require.Len(t, items, 1)
	assert.Equal(t, strategy.PriorityStrategy, items[0].Priority)
}

func TestGenerateAttackOrder_NearCapParkedLast(t *testing.T) {
	// GIVEN: The highest-rate debt has used 90% of its In Duplum cap
	// WHEN: Ordering by avalanche
	// THEN: It is parked last at minimums despite its rate
	nearCap := debt("nearcap", 10000, 10000, 30)
	nearCap.AccumulatedInterestAndFees = servicing.NewMoney(9000)

	debts := []servicing.Debt{nearCap, debt("normal", 8000, 8000, 15)}

	items := strategy.GenerateAttackOrder(debts, strategy.Avalanche, asOf)
	require.Len(t, items, 2)
	assert.Equal(t, "normal", string(items[0].Debt.ID))
	assert.Equal(t, strategy.PriorityCapWatch, items[1].Priority)
	assert.Contains(t, items[1].RecommendedAction, "minimums")
}

func TestGenerateAttackOrder_SkipsInactiveDebts(t *testing.T) {
	paid := debt("paid", 0, 5000, 20)
	archived := debt("archived", 4000, 5000, 20)
	archived.IsArchived = true
	settled := debt("settled", 4000, 5000, 20)
	now := asOf
	settled.PaidOffAt = &now

	debts := []servicing.Debt{paid, archived, settled, debt("live", 4000, 5000, 20)}

	items := strategy.GenerateAttackOrder(debts, strategy.SmartSA, asOf)
	assert.Equal(t, []string{"live"}, ids(items))
}

func TestGenerateAttackOrder_SmartSA_DampsCapProximity(t *testing.T) {
	// Two debts at the same rate; the one at 75% cap usage scores lower
	// because its charges are on the way to stopping.
	damped := debt("damped", 10000, 10000, 24)
	damped.AccumulatedInterestAndFees = servicing.NewMoney(7500)
	fresh := debt("fresh", 10000, 10000, 24)

	items := strategy.GenerateAttackOrder([]servicing.Debt{damped, fresh}, strategy.SmartSA, asOf)
	require.Len(t, items, 2)
	assert.Equal(t, "fresh", string(items[0].Debt.ID))
	assert.Equal(t, "damped", string(items[1].Debt.ID))
}

func TestGenerateAttackOrder_OrderNumbersAreSequential(t *testing.T) {
	debts := []servicing.Debt{
		debt("a", 5000, 5000, 10),
		debt("b", 6000, 6000, 20),
		debt("c", 7000, 7000, 30),
	}

	items := strategy.GenerateAttackOrder(debts, strategy.Snowball, asOf)
	for i, item := range items {
		assert.Equal(t, i+1, item.Order)
	}
}
