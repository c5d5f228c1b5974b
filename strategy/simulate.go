/*
simulate.go - Budget simulation and strategy comparison

PURPOSE:
  Replays an entire portfolio month by month under a fixed budget:
  every debt gets its minimum (or its full payoff amount if smaller),
  and whatever is left goes to the first debt in the attack order that
  still carries a balance. The per-debt month step is
  servicing.ServiceMonth, so In Duplum capping and the payment
  waterfall apply exactly as they do for a single debt.

SEE ALSO:
  - order.go: Produces the attack order the surplus follows
  - ../servicing/servicer.go: The single-debt month step
*/
package strategy

import (
	"fmt"
	"time"

	"github.com/warp/debt-engine/servicing"
)

// =============================================================================
// PORTFOLIO SIMULATION
// =============================================================================

// Simulate replays the active portfolio under the given strategy and
// total monthly budget, starting from asOf. The budget must cover the
// sum of minimum payments; otherwise the plan is not executable and an
// error is returned.
func Simulate(debts []servicing.Debt, strat Strategy, monthlyBudget servicing.Money, asOf time.Time) (Outcome, error) {
	attackOrder := GenerateAttackOrder(debts, strat, asOf)

	working := make([]servicing.Debt, len(attackOrder))
	for i, item := range attackOrder {
		working[i] = item.Debt
	}

	minimums := servicing.ZeroMoney()
	for _, d := range working {
		minimums = minimums.Add(d.MinimumPayment)
	}
	if monthlyBudget.LessThan(minimums) {
		return Outcome{}, fmt.Errorf("monthly budget %s does not cover the %s in minimum payments: %w",
			monthlyBudget, minimums, servicing.ErrInvalidInput)
	}

	outcome := Outcome{
		Strategy:          strat,
		TotalInterestPaid: servicing.ZeroMoney(),
		TotalFeesPaid:     servicing.ZeroMoney(),
		TotalPaid:         servicing.ZeroMoney(),
		AttackOrder:       attackOrder,
	}

	startMonth := servicing.MonthOf(asOf)

	for month := 0; month < servicing.MaxProjectionMonths; month++ {
		if allCleared(working) {
			outcome.MonthsToFreedom = month
			freeDate := startMonth.Add(month).Start()
			outcome.DebtFreeDate = &freeDate
			return outcome, nil
		}

		payments := planMonth(working, monthlyBudget)

		for i := range working {
			if !working[i].CurrentBalance.IsPositive() {
				continue
			}

			snapshot, err := servicing.ServiceMonth(working[i], startMonth.Add(month), payments[i])
			if err != nil {
				return Outcome{}, err
			}

			// Paid totals count what the waterfall actually allocated,
			// not what was charged: an under-minimum month leaves part
			// of the charges unpaid.
			alloc := servicing.AllocatePayment(payments[i],
				snapshot.FeesCharged, snapshot.InterestCharged, working[i].CurrentBalance)
			outcome.TotalInterestPaid = outcome.TotalInterestPaid.Add(alloc.ToInterest)
			outcome.TotalFeesPaid = outcome.TotalFeesPaid.Add(alloc.ToFees)
			outcome.TotalPaid = outcome.TotalPaid.Add(payments[i])

			working[i] = servicing.Advance(working[i], snapshot)
			if !working[i].CurrentBalance.IsPositive() {
				working[i].CurrentBalance = servicing.ZeroMoney()
				if outcome.FirstDebtClearedMonth == 0 {
					outcome.FirstDebtClearedMonth = month + 1
				}
			}
		}
	}

	// Horizon exceeded: months to freedom unknown, leave DebtFreeDate nil.
	outcome.MonthsToFreedom = servicing.MaxProjectionMonths
	return outcome, nil
}

// planMonth splits the budget across the ordered debts: minimums first
// (never more than would pay the debt off), then all surplus to the
// first debt still carrying a balance.
func planMonth(working []servicing.Debt, monthlyBudget servicing.Money) []servicing.Money {
	payments := make([]servicing.Money, len(working))
	remaining := monthlyBudget

	for i, d := range working {
		payments[i] = servicing.ZeroMoney()
		if !d.CurrentBalance.IsPositive() {
			continue
		}

		due := d.MinimumPayment.Min(payoffAmount(d)).Min(remaining)
		payments[i] = due
		remaining = remaining.Sub(due)
	}

	if remaining.IsPositive() {
		for i, d := range working {
			if !d.CurrentBalance.IsPositive() {
				continue
			}
			extra := remaining.Min(payoffAmount(d).Sub(payments[i]).Max(servicing.ZeroMoney()))
			payments[i] = payments[i].Add(extra)
			remaining = remaining.Sub(extra)
			if !remaining.IsPositive() {
				break
			}
		}
	}

	return payments
}

// payoffAmount is the most a debt can absorb this month: the balance
// plus the charges about to land on it.
func payoffAmount(d servicing.Debt) servicing.Money {
	charges := servicing.MonthlyFees(d).
		Add(servicing.MonthlyInterest(d.CurrentBalance, d.AnnualInterestRate))
	allowed := d.OriginalPrincipal.Sub(d.AccumulatedInterestAndFees).Max(servicing.ZeroMoney())
	return d.CurrentBalance.Add(charges.Min(allowed))
}

func allCleared(working []servicing.Debt) bool {
	for _, d := range working {
		if d.CurrentBalance.IsPositive() {
			return false
		}
	}
	return true
}

// =============================================================================
// STRATEGY COMPARISON
// =============================================================================

// SimulateAll runs all three strategies under the same budget and picks
// a recommendation: SmartSA when statutory pressure exists (an active
// Section 129 notice or a near-cap debt), otherwise whichever of the
// three costs the least in interest.
func SimulateAll(debts []servicing.Debt, monthlyBudget servicing.Money, asOf time.Time) (Comparison, error) {
	snowball, err := Simulate(debts, Snowball, monthlyBudget, asOf)
	if err != nil {
		return Comparison{}, err
	}
	avalanche, err := Simulate(debts, Avalanche, monthlyBudget, asOf)
	if err != nil {
		return Comparison{}, err
	}
	smart, err := Simulate(debts, SmartSA, monthlyBudget, asOf)
	if err != nil {
		return Comparison{}, err
	}

	comparison := Comparison{
		Snowball:    snowball,
		Avalanche:   avalanche,
		SmartSA:     smart,
		Recommended: Avalanche,
	}

	if hasStatutoryPressure(debts, asOf) {
		comparison.Recommended = SmartSA
		return comparison, nil
	}

	cheapest := avalanche.TotalInterestPaid
	if snowball.TotalInterestPaid.LessThan(cheapest) {
		comparison.Recommended = Snowball
		cheapest = snowball.TotalInterestPaid
	}
	if smart.TotalInterestPaid.LessThan(cheapest) {
		comparison.Recommended = SmartSA
	}

	return comparison, nil
}

func hasStatutoryPressure(debts []servicing.Debt, asOf time.Time) bool {
	for _, d := range activeDebts(debts) {
		if hasActiveSection129(d, asOf) {
			return true
		}
		if d.CapUsageRatio().GreaterThanOrEqual(capWatchRatio) {
			return true
		}
	}
	return false
}

// InterestSaved reports how much interest a strategy avoids compared to
// paying minimums only under the same horizon. Zero when the plan is no
// cheaper.
func InterestSaved(debts []servicing.Debt, strat Strategy, monthlyBudget servicing.Money, asOf time.Time) (servicing.Money, error) {
	plan, err := Simulate(debts, strat, monthlyBudget, asOf)
	if err != nil {
		return servicing.Money{}, err
	}

	minimums := servicing.ZeroMoney()
	for _, d := range activeDebts(debts) {
		minimums = minimums.Add(d.MinimumPayment)
	}
	baseline, err := Simulate(debts, strat, minimums, asOf)
	if err != nil {
		return servicing.Money{}, err
	}

	return baseline.TotalInterestPaid.Sub(plan.TotalInterestPaid).Max(servicing.ZeroMoney()), nil
}
