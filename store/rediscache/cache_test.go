package rediscache_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/warp/debt-engine/servicing"
	"github.com/warp/debt-engine/store/rediscache"
)

func keyDebt() servicing.Debt {
	return servicing.Debt{
		ID:                 "debt-1",
		CurrentBalance:     servicing.NewMoney(10000),
		OriginalPrincipal:  servicing.NewMoney(10000),
		AnnualInterestRate: decimal.NewFromFloat(24),
		MonthlyServiceFee:  servicing.NewMoney(50),
		AgreementDate:      time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestProjectionKey_Deterministic(t *testing.T) {
	d := keyDebt()
	start := servicing.NewMonth(2026, time.August)

	a := rediscache.ProjectionKey(d, servicing.NewMoney(500), 60, start)
	b := rediscache.ProjectionKey(d, servicing.NewMoney(500), 60, start)
	assert.Equal(t, a, b)
}

func TestProjectionKey_CoversEveryProjectionInput(t *testing.T) {
	// Any field the projection math reads must change the key, or a
	// debt edit could serve a stale cached timeline for the TTL.
	base := keyDebt()
	start := servicing.NewMonth(2026, time.August)
	payment := servicing.NewMoney(500)
	baseKey := rediscache.ProjectionKey(base, payment, 60, start)

	cases := []struct {
		name string
		key  string
	}{
		{"balance", func() string {
			d := base
			d.CurrentBalance = servicing.NewMoney(8000)
			return rediscache.ProjectionKey(d, payment, 60, start)
		}()},
		{"original principal", func() string {
			d := base
			d.OriginalPrincipal = servicing.NewMoney(20000)
			return rediscache.ProjectionKey(d, payment, 60, start)
		}()},
		{"accumulated costs", func() string {
			d := base
			d.AccumulatedInterestAndFees = servicing.NewMoney(2500)
			return rediscache.ProjectionKey(d, payment, 60, start)
		}()},
		{"rate", func() string {
			d := base
			d.AnnualInterestRate = decimal.NewFromFloat(18)
			return rediscache.ProjectionKey(d, payment, 60, start)
		}()},
		{"service fee", func() string {
			d := base
			d.MonthlyServiceFee = servicing.NewMoney(69)
			return rediscache.ProjectionKey(d, payment, 60, start)
		}()},
		{"credit life premium", func() string {
			d := base
			d.CreditLifePremium = servicing.NewMoney(45)
			return rediscache.ProjectionKey(d, payment, 60, start)
		}()},
		{"payment", rediscache.ProjectionKey(base, servicing.NewMoney(750), 60, start)},
		{"months", rediscache.ProjectionKey(base, payment, 120, start)},
		{"start month", rediscache.ProjectionKey(base, payment, 60, start.Add(1))},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.NotEqual(t, baseKey, tc.key)
		})
	}
}

func TestProjectionKey_IgnoresDisplayOnlyFields(t *testing.T) {
	// Renaming a debt changes nothing the math reads; the cached
	// timeline stays valid.
	d := keyDebt()
	start := servicing.NewMonth(2026, time.August)
	before := rediscache.ProjectionKey(d, servicing.NewMoney(500), 60, start)

	d.Name = "renamed"
	d.Creditor = "NewCo"
	after := rediscache.ProjectionKey(d, servicing.NewMoney(500), 60, start)

	assert.Equal(t, before, after)
}
