/*
servicer.go - One month of debt servicing

PURPOSE:
  Composes the leaf calculators into a single servicing step:

    1. Propose this month's fees and interest on the opening balance
    2. Reduce them through the In Duplum cap
    3. Allocate the month's payment (fees -> interest -> principal),
       where this month's capped charges are immediately outstanding
    4. Emit an immutable MonthlySnapshot

BALANCE CHAINING:
  The snapshot's ClosingBalance includes any unpaid charges for the
  month. The balance carried into the next month is
  ClosingBalance - FeesCharged - InterestCharged: unpaid costs live in
  AccumulatedInterestAndFees and do not capitalize onto the
  interest-bearing balance (interest on interest is what In Duplum
  exists to prevent). Advance is the single place this rule lives.

SEE ALSO:
  - projection.go: Iterates ServiceMonth over future months
  - reconcile.go: Iterates ServiceMonth over the historical ledger
*/
package servicing

// ServiceMonth computes one month's servicing snapshot for a debt.
// Pure: the input Debt is read-only and the snapshot is freshly built.
func ServiceMonth(d Debt, month Month, payment Money) (MonthlySnapshot, error) {
	if err := validateDebt(d); err != nil {
		return MonthlySnapshot{}, err
	}
	if err := validatePayment(payment); err != nil {
		return MonthlySnapshot{}, err
	}

	proposedFees := MonthlyFees(d)
	proposedInterest := MonthlyInterest(d.CurrentBalance, d.AnnualInterestRate)

	capped := ApplyCap(proposedInterest, proposedFees, d.AccumulatedInterestAndFees, d.OriginalPrincipal)

	totalCosts := capped.AllowedInterest.Add(capped.AllowedFees)
	newAccumulated := d.AccumulatedInterestAndFees.Add(totalCosts)

	// This month's charges become outstanding immediately and are paid
	// down in the same step as principal.
	allocation := AllocatePayment(payment, capped.AllowedFees, capped.AllowedInterest, d.CurrentBalance)

	return MonthlySnapshot{
		Month:                      month,
		OpeningBalance:             d.CurrentBalance,
		InterestCharged:            capped.AllowedInterest,
		FeesCharged:                capped.AllowedFees,
		TotalCostsCharged:          totalCosts,
		PaymentsReceived:           payment,
		ClosingBalance:             allocation.RemainingBalance,
		AccumulatedInterestAndFees: newAccumulated,
		CapReached:                 capped.CapReached,
		PrincipalReduction:         allocation.ToPrincipal,
	}, nil
}

// Advance returns the debt state the month after s, for feeding back
// into the next ServiceMonth call. The original Debt is untouched; Go
// value semantics give us the immutable working copy.
func Advance(d Debt, s MonthlySnapshot) Debt {
	d.CurrentBalance = s.ClosingBalance.Sub(s.FeesCharged).Sub(s.InterestCharged)
	d.AccumulatedInterestAndFees = s.AccumulatedInterestAndFees
	return d
}
