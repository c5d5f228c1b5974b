/*
allocation.go - Payment waterfall (NCA s126 order)

PURPOSE:
  Distributes a payment across outstanding amounts in the fixed
  statutory priority: fees first, then interest, then principal. A
  lower-priority bucket never receives a cent while a higher-priority
  bucket is still outstanding.

OVERPAYMENT:
  Excess beyond everything outstanding is reported on the allocation as
  Unallocated and applied to nothing. Whether to refund, credit, or
  reject the excess is caller policy, not engine policy.

SEE ALSO:
  - servicer.go: Allocates each month's payment against that month's
    capped charges plus the principal balance
*/
package servicing

// AllocatePayment consumes the payment greedily in NCA s126 order.
// All inputs must be non-negative; ServiceMonth validates before
// calling, and direct callers own the same contract.
func AllocatePayment(payment, outstandingFees, outstandingInterest, outstandingPrincipal Money) PaymentAllocation {
	remaining := payment
	toFees := ZeroMoney()
	toInterest := ZeroMoney()
	toPrincipal := ZeroMoney()

	// 1. Fees first
	if remaining.IsPositive() && outstandingFees.IsPositive() {
		toFees = remaining.Min(outstandingFees)
		remaining = remaining.Sub(toFees)
	}

	// 2. Interest second
	if remaining.IsPositive() && outstandingInterest.IsPositive() {
		toInterest = remaining.Min(outstandingInterest)
		remaining = remaining.Sub(toInterest)
	}

	// 3. Principal last
	if remaining.IsPositive() && outstandingPrincipal.IsPositive() {
		toPrincipal = remaining.Min(outstandingPrincipal)
		remaining = remaining.Sub(toPrincipal)
	}

	unpaidPrincipal := outstandingPrincipal.Sub(toPrincipal)
	unpaidInterest := outstandingInterest.Sub(toInterest)
	unpaidFees := outstandingFees.Sub(toFees)

	return PaymentAllocation{
		TotalPayment:     payment,
		ToFees:           toFees,
		ToInterest:       toInterest,
		ToPrincipal:      toPrincipal,
		Unallocated:      remaining,
		RemainingBalance: unpaidPrincipal.Add(unpaidInterest).Add(unpaidFees),
	}
}
