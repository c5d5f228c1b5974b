package servicing

import "github.com/shopspring/decimal"

// =============================================================================
// INTEREST & FEES - The proposed (pre-cap) monthly charges
// =============================================================================

var (
	hundred       = decimal.NewFromInt(100)
	monthsPerYear = decimal.NewFromInt(12)
)

// MonthlyInterest converts a nominal annual rate to one month's simple
// interest on the balance: balance * (rate/100/12). A non-positive
// balance accrues no interest; that is the defined business rule, not
// input clamping. No rounding happens here - rounding, if any, is an
// output-boundary concern.
func MonthlyInterest(balance Money, annualRatePercent decimal.Decimal) Money {
	if !balance.IsPositive() {
		return ZeroMoney()
	}
	monthlyRate := annualRatePercent.Div(hundred).Div(monthsPerYear)
	return balance.Mul(monthlyRate)
}

// MonthlyFees sums the fixed monthly charges attached to the debt.
// No caps are applied here; ApplyCap handles that.
func MonthlyFees(d Debt) Money {
	return d.MonthlyServiceFee.Add(d.CreditLifePremium)
}
