/*
store.go - Persistence contract for the surrounding application

PURPOSE:
  The engine itself holds no state; debts and payment records live with
  the caller. Store is the contract those collaborators implement so
  the HTTP layer can load inputs for the engine and append new payment
  facts.

CRITICAL INVARIANTS:
  1. Payments are APPEND-ONLY. No update, no delete. A wrong payment is
     corrected by recording an offsetting fact in the source system,
     not by editing history - the Reconciler's replay depends on it.
  2. Payment history loads in chronological order.

SEE ALSO:
  - store/memory.go: In-memory implementation for tests and demos
  - ../store/sqlite: SQLite implementation
*/
package servicing

import "context"

// Store persists debts and their payment ledgers.
type Store interface {
	// SaveDebt inserts or replaces a debt record.
	SaveDebt(ctx context.Context, d Debt) error

	// GetDebt returns the debt or ErrDebtNotFound.
	GetDebt(ctx context.Context, id DebtID) (Debt, error)

	// ListDebts returns all debts, stable order by ID.
	ListDebts(ctx context.Context) ([]Debt, error)

	// AppendPayment records a payment fact. The only write to history.
	AppendPayment(ctx context.Context, p PaymentRecord) error

	// PaymentsForDebt returns a debt's full payment history,
	// chronologically.
	PaymentsForDebt(ctx context.Context, id DebtID) ([]PaymentRecord, error)
}
