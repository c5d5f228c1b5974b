/*
cap.go - In Duplum cap enforcement (NCA s103(5))

PURPOSE:
  The In Duplum rule caps total accumulated interest and fees on a
  credit agreement at the original principal. This file is the
  regulatory-correctness-critical core of the engine: ApplyCap must make
  it structurally impossible for a servicing step to push the
  accumulated total past the cap.

KEY INSIGHT:
  When a month's proposed charges would cross the cap, the allowed
  remainder is split between interest and fees proportionally to their
  shares of the proposed total. Whether fees (being contractually fixed)
  should instead be capped last is a question for legal review; the
  proportional split is the behavior the surrounding product ships with.

SEE ALSO:
  - servicer.go: Feeds proposed charges through ApplyCap each month
  - reconcile.go: Classifies how close an account is to the cap
*/
package servicing

import "github.com/shopspring/decimal"

// =============================================================================
// CAP STATUS - Point-in-time cap position
// =============================================================================

// CapStatus describes how much cap headroom an account has left.
type CapStatus struct {
	CapReached        bool
	CapRemaining      Money
	CapPercentageUsed decimal.Decimal // 0-100, clamped at 100
}

// CheckCap reports the cap position for an accumulated total against
// the original principal.
func CheckCap(accumulated, originalPrincipal Money) CapStatus {
	remaining := originalPrincipal.Sub(accumulated).Max(ZeroMoney())

	pct := decimal.Zero
	if originalPrincipal.IsPositive() {
		pct = accumulated.Value.Div(originalPrincipal.Value).Mul(hundred)
		if pct.GreaterThan(hundred) {
			pct = hundred
		}
	}

	return CapStatus{
		CapReached:        accumulated.GreaterThanOrEqual(originalPrincipal),
		CapRemaining:      remaining,
		CapPercentageUsed: pct,
	}
}

// =============================================================================
// CAP ENFORCEMENT - Reduce a month's charges to fit under the cap
// =============================================================================

// CapResult is the outcome of enforcing the cap on one month's proposed
// charges.
type CapResult struct {
	AllowedInterest Money
	AllowedFees     Money

	// CappedAmount is how much of the proposed charges the cap removed.
	CappedAmount Money
	CapReached   bool
}

// ApplyCap reduces proposed interest and fees so that
// accumulated + allowed never exceeds the original principal.
//
// Postcondition (the engine's core invariant):
//   accumulated + AllowedInterest + AllowedFees <= originalPrincipal
func ApplyCap(proposedInterest, proposedFees, accumulated, originalPrincipal Money) CapResult {
	totalProposed := proposedInterest.Add(proposedFees)

	// Nothing proposed: nothing to split, and no division by zero.
	if totalProposed.IsZero() {
		return CapResult{
			AllowedInterest: ZeroMoney(),
			AllowedFees:     ZeroMoney(),
			CappedAmount:    ZeroMoney(),
			CapReached:      accumulated.GreaterThanOrEqual(originalPrincipal),
		}
	}

	newAccumulated := accumulated.Add(totalProposed)
	if newAccumulated.LessThanOrEqual(originalPrincipal) {
		return CapResult{
			AllowedInterest: proposedInterest,
			AllowedFees:     proposedFees,
			CappedAmount:    ZeroMoney(),
			CapReached:      false,
		}
	}

	allowedTotal := originalPrincipal.Sub(accumulated).Max(ZeroMoney())
	cappedAmount := totalProposed.Sub(allowedTotal)

	// Proportional split between interest and fees. The fee share is
	// derived by subtraction so the two parts sum exactly to
	// allowedTotal despite decimal division.
	interestRatio := proposedInterest.Value.Div(totalProposed.Value)
	allowedInterest := allowedTotal.Mul(interestRatio)
	allowedFees := allowedTotal.Sub(allowedInterest)

	return CapResult{
		AllowedInterest: allowedInterest,
		AllowedFees:     allowedFees,
		CappedAmount:    cappedAmount,
		CapReached:      true,
	}
}
