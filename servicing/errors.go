/*
errors.go - Centralized error types for the servicing engine

PURPOSE:
  All engine error types in one place. The engine is pure, so the only
  runtime failures are malformed inputs rejected at the boundary before
  any calculation runs. A cap violation is never an error: ApplyCap
  makes it structurally impossible, and an observed violation is a bug.

USAGE:
  Callers can branch with errors.Is / errors.As:

    if errors.Is(err, servicing.ErrInvalidInput) {
        // 400 to the client
    }

SEE ALSO:
  - servicer.go: Validates the debt and payment before servicing
  - projection.go: Validates projection parameters
*/
package servicing

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidInput is the root of all boundary validation failures.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDebtNotFound is returned by stores when a debt does not exist.
	ErrDebtNotFound = errors.New("debt not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError reports a malformed input field. The engine never
// silently clamps bad input to zero; zero-interest on a non-positive
// balance is the one defined business rule, not error masking.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

func invalidf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// validateDebt checks the fields every servicing step depends on.
func validateDebt(d Debt) error {
	if d.CurrentBalance.IsNegative() {
		return invalidf("current_balance", "must not be negative, got %s", d.CurrentBalance)
	}
	if d.AnnualInterestRate.IsNegative() {
		return invalidf("annual_interest_rate", "must not be negative, got %s", d.AnnualInterestRate)
	}
	if !d.OriginalPrincipal.IsPositive() {
		return invalidf("original_principal", "must be positive, got %s", d.OriginalPrincipal)
	}
	if d.MonthlyServiceFee.IsNegative() {
		return invalidf("monthly_service_fee", "must not be negative, got %s", d.MonthlyServiceFee)
	}
	if d.CreditLifePremium.IsNegative() {
		return invalidf("credit_life_premium", "must not be negative, got %s", d.CreditLifePremium)
	}
	if d.AccumulatedInterestAndFees.IsNegative() {
		return invalidf("accumulated_interest_and_fees", "must not be negative, got %s", d.AccumulatedInterestAndFees)
	}
	return nil
}

func validatePayment(p Money) error {
	if p.IsNegative() {
		return invalidf("payment", "must not be negative, got %s", p)
	}
	return nil
}
