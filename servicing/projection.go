/*
projection.go - Multi-month payoff projection

PURPOSE:
  Drives ServiceMonth across future months under a hypothetical constant
  payment to answer "when is this debt gone, and what will it cost?".
  Each iteration feeds the previous snapshot's derived balance forward;
  the caller's Debt is never mutated.

TERMINATION:
  A projection stops at payoff (carried balance <= 0) or after the
  requested number of months, whichever comes first. Payoff estimation
  additionally short-circuits when the payment cannot even cover the
  current month's interest and fees - iterating 600 months on a debt
  that never shrinks helps nobody.

SEE ALSO:
  - servicer.go: The single-month step being iterated
  - reconcile.go: The same loop driven by actual historical payments
*/
package servicing

import "time"

// MaxProjectionMonths bounds every projection at 50 years. A consumer
// debt that outlives that is a data problem, not a payoff plan.
const MaxProjectionMonths = 600

// =============================================================================
// PROJECTION - Snapshot timeline under a constant payment
// =============================================================================

// Project simulates up to months servicing steps from the debt's
// current state, paying monthlyPayment each month starting in the
// calendar month containing start. Returns the snapshot timeline, ended
// early at payoff.
func Project(d Debt, monthlyPayment Money, months int, start time.Time) ([]MonthlySnapshot, error) {
	if err := validateDebt(d); err != nil {
		return nil, err
	}
	if err := validatePayment(monthlyPayment); err != nil {
		return nil, err
	}
	if months < 0 {
		return nil, invalidf("months", "must not be negative, got %d", months)
	}
	if months > MaxProjectionMonths {
		months = MaxProjectionMonths
	}

	startMonth := MonthOf(start)
	snapshots := make([]MonthlySnapshot, 0, months)

	working := d
	for i := 0; i < months; i++ {
		snapshot, err := ServiceMonth(working, startMonth.Add(i), monthlyPayment)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)

		// Stop at payoff before the carried balance goes negative into
		// the next step.
		working = Advance(working, snapshot)
		if !working.CurrentBalance.IsPositive() {
			break
		}
	}

	return snapshots, nil
}

// =============================================================================
// PAYOFF ESTIMATE - Tagged outcome, never a -1 sentinel
// =============================================================================

// PayoffOutcome tags a payoff estimate so an insufficient payment can
// never be mistaken for a month count.
type PayoffOutcome string

const (
	// PayoffReached: the debt pays off in Months.
	PayoffReached PayoffOutcome = "payoff"

	// PayoffInsufficientPayment: the payment does not exceed the
	// current month's interest and fees; the balance never shrinks.
	PayoffInsufficientPayment PayoffOutcome = "insufficient_payment"

	// PayoffExceedsHorizon: no payoff within MaxProjectionMonths.
	PayoffExceedsHorizon PayoffOutcome = "exceeds_horizon"
)

// PayoffEstimate is the result of MonthsToPayoff. Months is meaningful
// only when Outcome is PayoffReached.
type PayoffEstimate struct {
	Outcome PayoffOutcome
	Months  int

	// MinimumToProgress is the current month's interest plus fees - the
	// amount any payment must exceed for principal to reduce.
	MinimumToProgress Money
}

// MonthsToPayoff estimates how many months of constant payments clear
// the debt.
func MonthsToPayoff(d Debt, monthlyPayment Money) (PayoffEstimate, error) {
	if err := validateDebt(d); err != nil {
		return PayoffEstimate{}, err
	}
	if err := validatePayment(monthlyPayment); err != nil {
		return PayoffEstimate{}, err
	}

	minimum := MonthlyFees(d).Add(MonthlyInterest(d.CurrentBalance, d.AnnualInterestRate))
	if monthlyPayment.LessThanOrEqual(minimum) {
		return PayoffEstimate{
			Outcome:           PayoffInsufficientPayment,
			MinimumToProgress: minimum,
		}, nil
	}

	snapshots, err := Project(d, monthlyPayment, MaxProjectionMonths, time.Now().UTC())
	if err != nil {
		return PayoffEstimate{}, err
	}

	for i, s := range snapshots {
		if !s.ClosingBalance.IsPositive() {
			return PayoffEstimate{
				Outcome:           PayoffReached,
				Months:            i + 1,
				MinimumToProgress: minimum,
			}, nil
		}
	}

	return PayoffEstimate{
		Outcome:           PayoffExceedsHorizon,
		MinimumToProgress: minimum,
	}, nil
}

// =============================================================================
// COST SUMMARY - Lifetime cost of a payment plan
// =============================================================================

// CostSummary totals the charges over a projection's lifetime.
type CostSummary struct {
	TotalInterest   Money
	TotalFees       Money
	TotalCosts      Money
	MonthsProjected int
}

// TotalInterestAndCosts sums interest and fees over a full-horizon
// projection under the given constant payment. MonthsProjected equals
// the payoff month when the debt clears within the horizon.
func TotalInterestAndCosts(d Debt, monthlyPayment Money) (CostSummary, error) {
	snapshots, err := Project(d, monthlyPayment, MaxProjectionMonths, time.Now().UTC())
	if err != nil {
		return CostSummary{}, err
	}

	totalInterest := ZeroMoney()
	totalFees := ZeroMoney()
	for _, s := range snapshots {
		totalInterest = totalInterest.Add(s.InterestCharged)
		totalFees = totalFees.Add(s.FeesCharged)
	}

	return CostSummary{
		TotalInterest:   totalInterest,
		TotalFees:       totalFees,
		TotalCosts:      totalInterest.Add(totalFees),
		MonthsProjected: len(snapshots),
	}, nil
}
