package servicing_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/warp/debt-engine/servicing"
)

func TestAllocatePayment_WaterfallOrder(t *testing.T) {
	// GIVEN: 50 fees, 200 interest, 10000 principal outstanding
	// WHEN: Allocating a 500 payment
	// THEN: Fees and interest clear first, the rest hits principal
	alloc := servicing.AllocatePayment(money(500), money(50), money(200), money(10000))

	moneyEqual(t, money(50), alloc.ToFees)
	moneyEqual(t, money(200), alloc.ToInterest)
	moneyEqual(t, money(250), alloc.ToPrincipal)
	assert.True(t, alloc.Unallocated.IsZero())
	moneyEqual(t, money(9750), alloc.RemainingBalance)
}

func TestAllocatePayment_CoversFeesOnly(t *testing.T) {
	// A payment smaller than fees never touches interest or principal.
	alloc := servicing.AllocatePayment(money(30), money(50), money(200), money(10000))

	moneyEqual(t, money(30), alloc.ToFees)
	assert.True(t, alloc.ToInterest.IsZero())
	assert.True(t, alloc.ToPrincipal.IsZero())
	moneyEqual(t, money(10220), alloc.RemainingBalance)
}

func TestAllocatePayment_PartialInterest(t *testing.T) {
	alloc := servicing.AllocatePayment(money(150), money(50), money(200), money(10000))

	moneyEqual(t, money(50), alloc.ToFees)
	moneyEqual(t, money(100), alloc.ToInterest)
	assert.True(t, alloc.ToPrincipal.IsZero())
	moneyEqual(t, money(10100), alloc.RemainingBalance)
}

func TestAllocatePayment_ZeroPayment(t *testing.T) {
	// A missed month: charges stay outstanding in full.
	alloc := servicing.AllocatePayment(money(0), money(50), money(200), money(10000))

	assert.True(t, alloc.ToFees.IsZero())
	assert.True(t, alloc.ToInterest.IsZero())
	assert.True(t, alloc.ToPrincipal.IsZero())
	moneyEqual(t, money(10250), alloc.RemainingBalance)
}

func TestAllocatePayment_Overpayment_ReportedNotApplied(t *testing.T) {
	// GIVEN: Everything outstanding totals 1250
	// WHEN: Paying 2000
	// THEN: The 750 excess is reported as unallocated, balance is zero
	alloc := servicing.AllocatePayment(money(2000), money(50), money(200), money(1000))

	moneyEqual(t, money(1000), alloc.ToPrincipal)
	moneyEqual(t, money(750), alloc.Unallocated)
	assert.True(t, alloc.RemainingBalance.IsZero())
}

func TestAllocatePayment_ConservationInvariant(t *testing.T) {
	// Over random inputs: the parts plus the unallocated excess always
	// reassemble the payment, and no bucket exceeds its outstanding.
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		payment := money(float64(rng.Intn(500000)) / 100)
		fees := money(float64(rng.Intn(20000)) / 100)
		interest := money(float64(rng.Intn(100000)) / 100)
		principal := money(float64(rng.Intn(5000000)) / 100)

		alloc := servicing.AllocatePayment(payment, fees, interest, principal)

		reassembled := alloc.ToFees.Add(alloc.ToInterest).Add(alloc.ToPrincipal).Add(alloc.Unallocated)
		assert.True(t, reassembled.Equal(payment),
			"payment %s split into %s", payment, reassembled)
		assert.True(t, alloc.ToFees.LessThanOrEqual(fees))
		assert.True(t, alloc.ToInterest.LessThanOrEqual(interest))
		assert.True(t, alloc.ToPrincipal.LessThanOrEqual(principal))
		assert.False(t, alloc.RemainingBalance.IsNegative())
	}
}
