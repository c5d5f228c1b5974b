/*
rates.go - NCA maximum-rate validation

PURPOSE:
  The NCA (regulation 42) caps the interest rate a credit provider may
  charge, expressed as the repo rate plus a margin that depends on the
  agreement type. A quoted rate above the cap is a ground for dispute,
  which is worth surfacing before any payoff math runs.

NOTE:
  The repo rate moves with monetary policy. RateTable pins the repo
  rate it was built from so callers can tell how stale a validation is;
  CurrentCaps reflects the rate at the time of writing.
*/
package strategy

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/debt-engine/servicing"
)

// =============================================================================
// RATE TABLE - Repo-rate-plus-margin caps per agreement type
// =============================================================================

// RateTable holds the statutory maximum annual rates, in percent.
type RateTable struct {
	RepoRate  decimal.Decimal
	Mortgage  decimal.Decimal // repo + 12
	Vehicle   decimal.Decimal // credit facility margin: repo + 14
	Unsecured decimal.Decimal // repo + 21
	ShortTerm decimal.Decimal // 5% per month on first loan, annualized
}

// CurrentCaps is built from the repo rate of 8.25%.
var CurrentCaps = RateTable{
	RepoRate:  decimal.NewFromFloat(8.25),
	Mortgage:  decimal.NewFromFloat(20.25),
	Vehicle:   decimal.NewFromFloat(22.25),
	Unsecured: decimal.NewFromFloat(29.25),
	ShortTerm: decimal.NewFromInt(60),
}

// MaxRateFor returns the cap that applies to a debt type. Card and
// store accounts fall under the unsecured cap.
func (rt RateTable) MaxRateFor(t servicing.DebtType) decimal.Decimal {
	switch t {
	case servicing.DebtMortgage:
		return rt.Mortgage
	case servicing.DebtVehicle:
		return rt.Vehicle
	case servicing.DebtShortTerm:
		return rt.ShortTerm
	default:
		return rt.Unsecured
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// RateValidation is the outcome of checking a quoted rate.
type RateValidation struct {
	Valid          bool
	MaxAllowedRate decimal.Decimal
	ExceedsBy      decimal.Decimal // zero when valid
	Warning        string
}

// ValidateRate checks an annual rate against the statutory cap for the
// debt type.
func ValidateRate(annualRatePercent decimal.Decimal, t servicing.DebtType) RateValidation {
	maxRate := CurrentCaps.MaxRateFor(t)
	if annualRatePercent.LessThanOrEqual(maxRate) {
		return RateValidation{Valid: true, MaxAllowedRate: maxRate, ExceedsBy: decimal.Zero}
	}

	excess := annualRatePercent.Sub(maxRate)
	return RateValidation{
		Valid:          false,
		MaxAllowedRate: maxRate,
		ExceedsBy:      excess,
		Warning: fmt.Sprintf("rate exceeds the NCA maximum of %s%% by %s%%; there may be grounds to dispute",
			maxRate.StringFixed(2), excess.StringFixed(2)),
	}
}
