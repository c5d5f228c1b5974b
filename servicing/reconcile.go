/*
reconcile.go - Replay the payment ledger against the rules

PURPOSE:
  Rebuilds what a debt's balance SHOULD be today by replaying the
  servicing rules from the agreement date forward, feeding in the actual
  payments made each calendar month. The difference between the
  creditor's recorded balance and the rebuilt balance is the
  discrepancy: positive means the creditor's figure is higher than the
  regulation produces - a possible overcharge worth disputing.

PROCESS:
  1. Group the payment ledger by calendar month of payment date
  2. Run the monthly servicer from the opening balance at the agreement
     date through each elapsed month, with that month's payment total
  3. The final snapshot's closing balance is the expected balance
  4. Classify cap proximity from the rebuilt accumulated costs

SEE ALSO:
  - servicer.go: The replayed step
  - month.go: ElapsedMonths decides how many periods to replay
*/
package servicing

import "time"

// =============================================================================
// CAP COMPLIANCE - Fixed classification thresholds
// =============================================================================

// ComplianceStatus classifies how close accumulated costs are to the
// In Duplum cap. The thresholds are fixed business rules.
type ComplianceStatus string

const (
	StatusCompliant   ComplianceStatus = "compliant"   // < 50% of cap
	StatusApproaching ComplianceStatus = "approaching" // 50-85%
	StatusNearCap     ComplianceStatus = "near_cap"    // 85-100%
	StatusBreached    ComplianceStatus = "breached"    // >= 100%
)

var (
	approachingThreshold = MustParseMoney("0.50")
	nearCapThreshold     = MustParseMoney("0.85")
)

// ClassifyCapUsage maps accumulated costs to a compliance status.
func ClassifyCapUsage(accumulated, originalPrincipal Money) ComplianceStatus {
	if accumulated.GreaterThanOrEqual(originalPrincipal) {
		return StatusBreached
	}
	if !originalPrincipal.IsPositive() {
		return StatusBreached
	}
	ratio := Money{Value: accumulated.Value.Div(originalPrincipal.Value)}
	switch {
	case ratio.GreaterThanOrEqual(nearCapThreshold):
		return StatusNearCap
	case ratio.GreaterThanOrEqual(approachingThreshold):
		return StatusApproaching
	default:
		return StatusCompliant
	}
}

// =============================================================================
// RECONCILIATION
// =============================================================================

// ReconciliationResult compares the recorded balance to the rebuilt one.
type ReconciliationResult struct {
	ExpectedBalance          Money
	ExpectedAccumulatedCosts Money

	// Discrepancy = recorded balance - expected balance. Positive means
	// the creditor's figure exceeds what the rules produce.
	Discrepancy Money

	CapStatus ComplianceStatus

	// MonthsReplayed is how many servicing periods separate the
	// agreement date from asOf.
	MonthsReplayed int

	// Snapshots is the full replayed timeline, oldest first, for
	// dashboards that want to show where the figures diverged.
	Snapshots []MonthlySnapshot
}

// Reconcile rebuilds the expected balance for a debt from its full
// payment history, as of the given date. The history may be in any
// order; only each payment's calendar month matters.
func Reconcile(d Debt, history []PaymentRecord, asOf time.Time) (ReconciliationResult, error) {
	if err := validateDebt(d); err != nil {
		return ReconciliationResult{}, err
	}
	if d.AgreementDate.IsZero() {
		return ReconciliationResult{}, invalidf("agreement_date", "must be set for reconciliation")
	}
	for _, p := range history {
		if p.Amount.IsNegative() {
			return ReconciliationResult{}, invalidf("payment_history", "payment on %s is negative", p.PaymentDate.Format("2006-01-02"))
		}
	}

	paymentsByMonth := GroupPaymentsByMonth(history)
	monthsElapsed := ElapsedMonths(d.AgreementDate, asOf)
	startMonth := MonthOf(d.AgreementDate)

	// Replay from origination: opening balance, no accumulated costs.
	working := d
	working.CurrentBalance = d.OpeningBalance
	working.AccumulatedInterestAndFees = ZeroMoney()

	snapshots := make([]MonthlySnapshot, 0, monthsElapsed)
	for i := 0; i < monthsElapsed; i++ {
		month := startMonth.Add(i)
		snapshot, err := ServiceMonth(working, month, paymentsByMonth[month])
		if err != nil {
			return ReconciliationResult{}, err
		}
		snapshots = append(snapshots, snapshot)

		working = Advance(working, snapshot)
		// A settled account carries zero forward; any excess was
		// reported as unallocated, never credited.
		working.CurrentBalance = working.CurrentBalance.Max(ZeroMoney())
	}

	expectedBalance := d.OpeningBalance
	expectedCosts := ZeroMoney()
	if n := len(snapshots); n > 0 {
		expectedBalance = snapshots[n-1].ClosingBalance
		expectedCosts = snapshots[n-1].AccumulatedInterestAndFees
	}

	return ReconciliationResult{
		ExpectedBalance:          expectedBalance,
		ExpectedAccumulatedCosts: expectedCosts,
		Discrepancy:              d.CurrentBalance.Sub(expectedBalance),
		CapStatus:                ClassifyCapUsage(expectedCosts, d.OriginalPrincipal),
		MonthsReplayed:           monthsElapsed,
		Snapshots:                snapshots,
	}, nil
}

// GroupPaymentsByMonth sums payment amounts per calendar month.
func GroupPaymentsByMonth(history []PaymentRecord) map[Month]Money {
	byMonth := make(map[Month]Money, len(history))
	for _, p := range history {
		month := MonthOf(p.PaymentDate)
		byMonth[month] = byMonth[month].Add(p.Amount)
	}
	return byMonth
}
