/*
Package strategy provides multi-debt repayment planning on top of the
servicing engine.

PURPOSE:
  Where package servicing answers "what happens to ONE debt this
  month?", this package answers portfolio questions: which debt to
  attack first, how long until debt freedom under a budget, how close
  each account is to the In Duplum cap, and whether a quoted rate is
  even legal.

KEY CONCEPTS:
  - Attack order: the priority list of debts, with statutory overrides
    (an active Section 129 notice always outranks strategy preference,
    and near-cap debts are parked at minimums since their interest is
    about to stop accruing anyway)
  - Strategy: snowball (smallest balance first), avalanche (highest
    rate first), or smart-SA (avalanche adjusted for cap proximity)
  - Simulation: month-by-month portfolio replay driven by
    servicing.ServiceMonth - minimums on everything, surplus to the
    target debt

SEE ALSO:
  - order.go: Attack-order generation
  - simulate.go: Budget simulation and strategy comparison
  - audit.go: Per-debt In Duplum audit
  - rates.go: NCA maximum-rate validation
*/
package strategy

import (
	"time"

	"github.com/warp/debt-engine/servicing"
)

// =============================================================================
// REPAYMENT STRATEGY
// =============================================================================

type Strategy string

const (
	Snowball  Strategy = "snowball"
	Avalanche Strategy = "avalanche"
	SmartSA   Strategy = "smart_sa"
)

// Priority explains why a debt sits where it does in the attack order.
type Priority string

const (
	// PriorityLegal: an active Section 129 notice. Always first.
	PriorityLegal Priority = "legal"

	// PriorityStrategy: ordered by the chosen strategy.
	PriorityStrategy Priority = "strategy"

	// PriorityCapWatch: 85%+ of the In Duplum cap used. Parked last at
	// minimums - the charges are about to stop by law.
	PriorityCapWatch Priority = "cap_watch"
)

// AttackOrderItem is one row of the priority list.
type AttackOrderItem struct {
	Debt              servicing.Debt
	Order             int
	Priority          Priority
	RecommendedAction string
}

// =============================================================================
// STRATEGY OUTCOME
// =============================================================================

// Outcome summarizes a simulated repayment plan.
type Outcome struct {
	Strategy          Strategy
	MonthsToFreedom   int
	DebtFreeDate      *time.Time // nil when the horizon was exceeded
	TotalInterestPaid servicing.Money
	TotalFeesPaid     servicing.Money
	TotalPaid         servicing.Money

	// FirstDebtClearedMonth is the quick-win metric snowball optimizes.
	FirstDebtClearedMonth int

	AttackOrder []AttackOrderItem
}

// Comparison is the three-way strategy comparison with recommendation.
type Comparison struct {
	Snowball    Outcome
	Avalanche   Outcome
	SmartSA     Outcome
	Recommended Strategy
}
