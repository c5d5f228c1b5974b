/*
Package servicing provides the core debt-servicing and amortization engine.

PURPOSE:
  This package contains the rule-governed calculations for consumer debt
  accounts under the National Credit Act: monthly interest and fee
  charging, the statutory In Duplum cap (NCA s103(5)), the fixed payment
  allocation order (NCA s126), multi-month payoff projection, and
  reconciliation of a creditor-reported balance against what the
  regulation says the balance should be.

KEY CONCEPTS IN THIS FILE (types.go):
  - Money: A fixed-point monetary amount (decimal, never binary floats)
  - Debt: The read-only account record supplied by the caller
  - PaymentRecord: An immutable historical payment fact
  - MonthlySnapshot: One month's opening/closing state, never mutated
  - PaymentAllocation: How one payment splits across fees/interest/principal

DESIGN PRINCIPLES:
  1. Purity: Every function is a deterministic computation over its
     arguments. No I/O, no shared state, safe for concurrent callers.
  2. Immutability: Debt values are copied, never mutated in place.
     Projections build append-only snapshot sequences.
  3. Precision: Uses decimal.Decimal so the cap invariant holds exactly.
  4. The cap invariant: after any engine operation,
     0 <= AccumulatedInterestAndFees <= OriginalPrincipal.

USAGE:
  snapshot, err := servicing.ServiceMonth(debt, month, servicing.NewMoney(500))
  timeline, err := servicing.Project(debt, payment, 60, start)

SEE ALSO:
  - cap.go: In Duplum cap enforcement
  - allocation.go: NCA s126 payment waterfall
  - projection.go: Multi-month payoff projection
  - reconcile.go: Historical replay against the payment ledger
*/
package servicing

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Fixed-point monetary amount
// =============================================================================

// Money is a monetary amount in account currency (rands). It wraps a
// decimal so cap comparisons are exact, not within-epsilon.
type Money struct {
	Value decimal.Decimal
}

func NewMoney(value float64) Money      { return Money{Value: decimal.NewFromFloat(value)} }
func NewMoneyFromInt(value int64) Money { return Money{Value: decimal.NewFromInt(value)} }
func ZeroMoney() Money                  { return Money{Value: decimal.Zero} }

// MustParseMoney parses a decimal string, returning zero on bad input.
// Intended for constants and fixtures, not for user input.
func MustParseMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return ZeroMoney()
	}
	return Money{Value: d}
}

func (m Money) Add(o Money) Money               { return Money{Value: m.Value.Add(o.Value)} }
func (m Money) Sub(o Money) Money               { return Money{Value: m.Value.Sub(o.Value)} }
func (m Money) Mul(s decimal.Decimal) Money     { return Money{Value: m.Value.Mul(s)} }
func (m Money) Div(s decimal.Decimal) Money     { return Money{Value: m.Value.Div(s)} }
func (m Money) Neg() Money                      { return Money{Value: m.Value.Neg()} }
func (m Money) IsZero() bool                    { return m.Value.IsZero() }
func (m Money) IsNegative() bool                { return m.Value.IsNegative() }
func (m Money) IsPositive() bool                { return m.Value.IsPositive() }
func (m Money) Equal(o Money) bool              { return m.Value.Equal(o.Value) }
func (m Money) GreaterThan(o Money) bool        { return m.Value.GreaterThan(o.Value) }
func (m Money) GreaterThanOrEqual(o Money) bool { return m.Value.GreaterThanOrEqual(o.Value) }
func (m Money) LessThan(o Money) bool           { return m.Value.LessThan(o.Value) }
func (m Money) LessThanOrEqual(o Money) bool    { return m.Value.LessThanOrEqual(o.Value) }

func (m Money) Min(o Money) Money {
	if m.LessThan(o) {
		return m
	}
	return o
}

func (m Money) Max(o Money) Money {
	if m.GreaterThan(o) {
		return m
	}
	return o
}

// Round2 rounds to cents. Applied only at output boundaries; internal
// arithmetic keeps full precision.
func (m Money) Round2() Money { return Money{Value: m.Value.Round(2)} }

func (m Money) Float64() float64 {
	f, _ := m.Value.Float64()
	return f
}

func (m Money) String() string { return m.Value.StringFixed(2) }

// =============================================================================
// IDENTIFIERS
// =============================================================================

type DebtID string

// DebtType classifies the credit agreement for NCA rate-cap purposes.
type DebtType string

const (
	DebtMortgage     DebtType = "mortgage"
	DebtVehicle      DebtType = "vehicle"
	DebtUnsecured    DebtType = "unsecured"
	DebtShortTerm    DebtType = "short_term"
	DebtCreditCard   DebtType = "credit_card"
	DebtStoreCard    DebtType = "store_card"
	DebtPersonalLoan DebtType = "personal_loan"
	DebtOther        DebtType = "other"
)

// =============================================================================
// DEBT - The account record (borrowed read-only per call)
// =============================================================================

// Debt is the state of a credit agreement as recorded by the calling
// application. The engine never mutates a Debt; projections copy it.
type Debt struct {
	ID       DebtID
	Name     string
	Creditor string
	Type     DebtType

	// Balance state
	CurrentBalance    Money
	OriginalPrincipal Money // immutable cap base, set at origination
	OpeningBalance    Money // balance at agreement date (Reconciler only)

	// Charging terms
	AnnualInterestRate decimal.Decimal // nominal annual rate, percent
	MonthlyServiceFee  Money
	CreditLifePremium  Money

	// Cap state: running total of interest+fees since origination.
	// Invariant: 0 <= AccumulatedInterestAndFees <= OriginalPrincipal.
	AccumulatedInterestAndFees Money

	// Origination facts
	AgreementDate time.Time

	// Strategy-layer fields. The servicing calculations ignore these.
	MinimumPayment     Money
	Section129Received bool
	Section129Deadline *time.Time
	IsArchived         bool
	PaidOffAt          *time.Time
}

// CapUsageRatio returns AccumulatedInterestAndFees / OriginalPrincipal,
// or zero when the principal is not positive.
func (d Debt) CapUsageRatio() decimal.Decimal {
	if !d.OriginalPrincipal.IsPositive() {
		return decimal.Zero
	}
	return d.AccumulatedInterestAndFees.Value.Div(d.OriginalPrincipal.Value)
}

// =============================================================================
// PAYMENT RECORD - Immutable historical fact
// =============================================================================

type PaymentRecord struct {
	DebtID      DebtID
	Amount      Money
	PaymentDate time.Time
}

// =============================================================================
// MONTHLY SNAPSHOT - One month's servicing outcome
// =============================================================================

// MonthlySnapshot is the value produced by one servicing step. A
// projection is an append-only ordered sequence of these; snapshots are
// never modified after creation.
type MonthlySnapshot struct {
	Month          Month
	OpeningBalance Money

	// Charges actually applied this month (post-cap)
	InterestCharged   Money
	FeesCharged       Money
	TotalCostsCharged Money

	PaymentsReceived Money
	ClosingBalance   Money

	// Cap state after this month
	AccumulatedInterestAndFees Money
	CapReached                 bool

	PrincipalReduction Money
}

// =============================================================================
// PAYMENT ALLOCATION - NCA s126 waterfall result
// =============================================================================

// PaymentAllocation records how a payment was split in the fixed
// fees -> interest -> principal order.
//
// Invariant: ToFees + ToInterest + ToPrincipal + Unallocated == TotalPayment,
// and each component is bounded by its outstanding amount.
type PaymentAllocation struct {
	TotalPayment Money
	ToFees       Money
	ToInterest   Money
	ToPrincipal  Money

	// Unallocated is the excess beyond everything outstanding. The
	// engine reports it and applies nothing; refund/credit policy
	// belongs to the caller.
	Unallocated Money

	// RemainingBalance = unpaid principal + unpaid interest + unpaid fees.
	RemainingBalance Money
}
