/*
Package sqlite provides a SQLite-backed implementation of servicing.Store.

PURPOSE:
  Durable persistence for debts and their payment ledgers. In production,
  the same patterns apply to PostgreSQL - only minor SQL dialect
  differences.

APPEND-ONLY ENFORCEMENT:
  The payments table is a ledger:
  - No UPDATE statements on payments
  - No DELETE statements on payments
  - Corrections are new offsetting facts in the source system

KEY TABLES:
  debts:    Current account records (upserted on save)
  payments: Immutable payment history

MONEY AS TEXT:
  Every monetary column and the annual rate are stored as decimal
  strings and parsed back through shopspring/decimal. REAL columns
  would reintroduce exactly the binary-float drift the engine's Money
  type exists to avoid.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/debts.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - servicing/store.go: Interface definition
  - servicing/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/debt-engine/servicing"
)

// Store implements servicing.Store on SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a SQLite store at the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	-- Debts (current account state, upserted)
	CREATE TABLE IF NOT EXISTS debts (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		creditor TEXT NOT NULL,
		debt_type TEXT NOT NULL,
		current_balance TEXT NOT NULL,
		original_principal TEXT NOT NULL,
		opening_balance TEXT NOT NULL,
		annual_interest_rate TEXT NOT NULL,
		monthly_service_fee TEXT NOT NULL,
		credit_life_premium TEXT NOT NULL,
		accumulated_interest_fees TEXT NOT NULL,
		agreement_date TEXT NOT NULL,
		minimum_payment TEXT NOT NULL,
		section129_received BOOLEAN NOT NULL DEFAULT FALSE,
		section129_deadline TEXT,
		is_archived BOOLEAN NOT NULL DEFAULT FALSE,
		paid_off_at TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_debts_archived
		ON debts(is_archived);

	-- Payments (append-only ledger)
	CREATE TABLE IF NOT EXISTS payments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		debt_id TEXT NOT NULL,
		amount TEXT NOT NULL,
		payment_date TEXT NOT NULL,
		created_at TEXT NOT NULL,
		FOREIGN KEY (debt_id) REFERENCES debts(id)
	);

	-- Hot path: reconciliation replays a debt's full history in order
	CREATE INDEX IF NOT EXISTS idx_payments_debt_date
		ON payments(debt_id, payment_date ASC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// DEBT STORE (servicing.Store interface)
// =============================================================================

// SaveDebt inserts or replaces a debt record.
func (s *Store) SaveDebt(ctx context.Context, d servicing.Debt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO debts
		(id, name, creditor, debt_type, current_balance, original_principal, opening_balance,
		 annual_interest_rate, monthly_service_fee, credit_life_premium, accumulated_interest_fees,
		 agreement_date, minimum_payment, section129_received, section129_deadline,
		 is_archived, paid_off_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			creditor = excluded.creditor,
			debt_type = excluded.debt_type,
			current_balance = excluded.current_balance,
			original_principal = excluded.original_principal,
			opening_balance = excluded.opening_balance,
			annual_interest_rate = excluded.annual_interest_rate,
			monthly_service_fee = excluded.monthly_service_fee,
			credit_life_premium = excluded.credit_life_premium,
			accumulated_interest_fees = excluded.accumulated_interest_fees,
			agreement_date = excluded.agreement_date,
			minimum_payment = excluded.minimum_payment,
			section129_received = excluded.section129_received,
			section129_deadline = excluded.section129_deadline,
			is_archived = excluded.is_archived,
			paid_off_at = excluded.paid_off_at,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, query,
		d.ID, d.Name, d.Creditor, d.Type,
		d.CurrentBalance.Value.String(),
		d.OriginalPrincipal.Value.String(),
		d.OpeningBalance.Value.String(),
		d.AnnualInterestRate.String(),
		d.MonthlyServiceFee.Value.String(),
		d.CreditLifePremium.Value.String(),
		d.AccumulatedInterestAndFees.Value.String(),
		d.AgreementDate.Format(time.RFC3339),
		d.MinimumPayment.Value.String(),
		d.Section129Received,
		nullTime(d.Section129Deadline),
		d.IsArchived,
		nullTime(d.PaidOffAt),
		now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to save debt: %w", err)
	}
	return nil
}

// GetDebt returns the debt or servicing.ErrDebtNotFound.
func (s *Store) GetDebt(ctx context.Context, id servicing.DebtID) (servicing.Debt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, debtColumns+" FROM debts WHERE id = ?", id)
	d, err := scanDebt(row)
	if err == sql.ErrNoRows {
		return servicing.Debt{}, fmt.Errorf("debt %q: %w", id, servicing.ErrDebtNotFound)
	}
	if err != nil {
		return servicing.Debt{}, fmt.Errorf("failed to load debt: %w", err)
	}
	return d, nil
}

// ListDebts returns all debts ordered by ID.
func (s *Store) ListDebts(ctx context.Context) ([]servicing.Debt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, debtColumns+" FROM debts ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list debts: %w", err)
	}
	defer rows.Close()

	var debts []servicing.Debt
	for rows.Next() {
		d, err := scanDebt(rows)
		if err != nil {
			return nil, err
		}
		debts = append(debts, d)
	}
	return debts, rows.Err()
}

const debtColumns = `
	SELECT id, name, creditor, debt_type, current_balance, original_principal, opening_balance,
	       annual_interest_rate, monthly_service_fee, credit_life_premium, accumulated_interest_fees,
	       agreement_date, minimum_payment, section129_received, section129_deadline,
	       is_archived, paid_off_at`

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDebt(row scanner) (servicing.Debt, error) {
	var (
		d                 servicing.Debt
		currentBalance    string
		originalPrincipal string
		openingBalance    string
		annualRate        string
		serviceFee        string
		creditLife        string
		accumulated       string
		agreementDate     string
		minimumPayment    string
		s129Deadline      sql.NullString
		paidOffAt         sql.NullString
	)

	err := row.Scan(
		&d.ID, &d.Name, &d.Creditor, &d.Type,
		&currentBalance, &originalPrincipal, &openingBalance,
		&annualRate, &serviceFee, &creditLife, &accumulated,
		&agreementDate, &minimumPayment,
		&d.Section129Received, &s129Deadline,
		&d.IsArchived, &paidOffAt,
	)
	if err != nil {
		return d, err
	}

	if d.CurrentBalance, err = parseMoney(currentBalance); err != nil {
		return d, err
	}
	if d.OriginalPrincipal, err = parseMoney(originalPrincipal); err != nil {
		return d, err
	}
	if d.OpeningBalance, err = parseMoney(openingBalance); err != nil {
		return d, err
	}
	if d.AnnualInterestRate, err = decimal.NewFromString(annualRate); err != nil {
		return d, fmt.Errorf("bad annual_interest_rate %q: %w", annualRate, err)
	}
	if d.MonthlyServiceFee, err = parseMoney(serviceFee); err != nil {
		return d, err
	}
	if d.CreditLifePremium, err = parseMoney(creditLife); err != nil {
		return d, err
	}
	if d.AccumulatedInterestAndFees, err = parseMoney(accumulated); err != nil {
		return d, err
	}
	if d.MinimumPayment, err = parseMoney(minimumPayment); err != nil {
		return d, err
	}

	d.AgreementDate, _ = time.Parse(time.RFC3339, agreementDate)
	d.Section129Deadline = parseNullTime(s129Deadline)
	d.PaidOffAt = parseNullTime(paidOffAt)

	return d, nil
}

// =============================================================================
// PAYMENT LEDGER (append-only)
// =============================================================================

// AppendPayment records a payment fact. The only write to history.
func (s *Store) AppendPayment(ctx context.Context, p servicing.PaymentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO payments (debt_id, amount, payment_date, created_at) VALUES (?, ?, ?, ?)",
		p.DebtID,
		p.Amount.Value.String(),
		p.PaymentDate.Format(time.RFC3339),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to append payment: %w", err)
	}
	return nil
}

// PaymentsForDebt returns a debt's full payment history, chronologically.
func (s *Store) PaymentsForDebt(ctx context.Context, id servicing.DebtID) ([]servicing.PaymentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT debt_id, amount, payment_date
		 FROM payments
		 WHERE debt_id = ?
		 ORDER BY payment_date ASC, id ASC`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}
	defer rows.Close()

	var payments []servicing.PaymentRecord
	for rows.Next() {
		var (
			p           servicing.PaymentRecord
			amount      string
			paymentDate string
		)
		if err := rows.Scan(&p.DebtID, &amount, &paymentDate); err != nil {
			return nil, err
		}
		if p.Amount, err = parseMoney(amount); err != nil {
			return nil, err
		}
		p.PaymentDate, _ = time.Parse(time.RFC3339, paymentDate)
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"payments", "debts"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func parseMoney(value string) (servicing.Money, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return servicing.Money{}, fmt.Errorf("bad monetary value %q: %w", value, err)
	}
	return servicing.Money{Value: d}, nil
}

func nullTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func parseNullTime(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, ns.String)
	if err != nil {
		return nil
	}
	return &t
}
