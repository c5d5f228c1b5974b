// Package store provides servicing.Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/debt-engine/servicing"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	debts    map[servicing.DebtID]servicing.Debt
	payments map[servicing.DebtID][]servicing.PaymentRecord
}

func NewMemory() *Memory {
	return &Memory{
		debts:    make(map[servicing.DebtID]servicing.Debt),
		payments: make(map[servicing.DebtID][]servicing.PaymentRecord),
	}
}

func (m *Memory) SaveDebt(_ context.Context, d servicing.Debt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.debts[d.ID] = d
	return nil
}

func (m *Memory) GetDebt(_ context.Context, id servicing.DebtID) (servicing.Debt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.debts[id]
	if !ok {
		return servicing.Debt{}, servicing.ErrDebtNotFound
	}
	return d, nil
}

func (m *Memory) ListDebts(_ context.Context) ([]servicing.Debt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	debts := make([]servicing.Debt, 0, len(m.debts))
	for _, d := range m.debts {
		debts = append(debts, d)
	}
	sort.Slice(debts, func(i, j int) bool { return debts[i].ID < debts[j].ID })
	return debts, nil
}

// AppendPayment records a payment fact. Append-only: there is no way to
// update or remove a payment through this store.
func (m *Memory) AppendPayment(_ context.Context, p servicing.PaymentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	history := m.payments[p.DebtID]

	// Binary search for the insertion point to keep history chronological.
	i := sort.Search(len(history), func(i int) bool {
		return history[i].PaymentDate.After(p.PaymentDate)
	})
	history = append(history, servicing.PaymentRecord{})
	copy(history[i+1:], history[i:])
	history[i] = p
	m.payments[p.DebtID] = history
	return nil
}

func (m *Memory) PaymentsForDebt(_ context.Context, id servicing.DebtID) ([]servicing.PaymentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]servicing.PaymentRecord, len(m.payments[id]))
	copy(result, m.payments[id])
	return result, nil
}
