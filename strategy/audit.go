/*
audit.go - Per-debt In Duplum audit

PURPOSE:
  A point-in-time cap report for a single debt: how much of the cap has
  been used, whether it has been breached, and - if not - roughly how
  many more months of charging it will take to get there. Dashboards use
  this to decide which accounts need attention before any dispute work.
*/
package strategy

import (
	"time"

	"github.com/warp/debt-engine/servicing"
)

// =============================================================================
// AUDIT REPORT
// =============================================================================

type AuditReport struct {
	DebtID    servicing.DebtID
	AuditDate time.Time

	OriginalPrincipal servicing.Money
	Cap               servicing.Money // equals the original principal, NCA s103(5)

	AccumulatedCosts servicing.Money
	CapRemaining     servicing.Money
	CapExceeded      bool
	ExcessAmount     servicing.Money

	CapPercentageUsed float64
	Status            servicing.ComplianceStatus

	// EstimatedMonthsToCap is how many months of current charging reach
	// the cap. Zero with HasEstimate=false when the cap is already
	// reached or charges are zero.
	EstimatedMonthsToCap int
	HasEstimate          bool
}

// =============================================================================
// ESTIMATION & AUDIT
// =============================================================================

// EstimateMonthsToCap projects, at the current balance's monthly
// charges, how many months remain before the cap stops all charging.
func EstimateMonthsToCap(d servicing.Debt) (int, bool) {
	remaining := d.OriginalPrincipal.Sub(d.AccumulatedInterestAndFees)
	if !remaining.IsPositive() {
		return 0, false // already at or over the cap
	}

	monthly := servicing.MonthlyInterest(d.CurrentBalance, d.AnnualInterestRate).
		Add(servicing.MonthlyFees(d))
	if !monthly.IsPositive() {
		return 0, false // never reaches the cap
	}

	months := remaining.Value.Div(monthly.Value).Ceil().IntPart()
	return int(months), true
}

// Audit produces a cap report for the debt as of the given date.
func Audit(d servicing.Debt, asOf time.Time) AuditReport {
	capBase := d.OriginalPrincipal
	status := servicing.CheckCap(d.AccumulatedInterestAndFees, capBase)

	excess := d.AccumulatedInterestAndFees.Sub(capBase).Max(servicing.ZeroMoney())

	report := AuditReport{
		DebtID:            d.ID,
		AuditDate:         asOf,
		OriginalPrincipal: d.OriginalPrincipal,
		Cap:               capBase,
		AccumulatedCosts:  d.AccumulatedInterestAndFees,
		CapRemaining:      status.CapRemaining,
		CapExceeded:       status.CapReached,
		ExcessAmount:      excess,
		CapPercentageUsed: status.CapPercentageUsed.InexactFloat64(),
		Status:            servicing.ClassifyCapUsage(d.AccumulatedInterestAndFees, capBase),
	}

	if !status.CapReached {
		report.EstimatedMonthsToCap, report.HasEstimate = EstimateMonthsToCap(d)
	}
	return report
}
