/*
order.go - Attack-order generation

PURPOSE:
  Orders active debts into the sequence surplus payments should target.
  Two overrides outrank any strategy preference:

    1. LEGAL: debts with an active Section 129 notice come first -
       ignoring one invites judgment.
    2. CAP_WATCH: debts at 85%+ of the In Duplum cap go last, at
       minimums. Their charging is about to stop by law, so surplus
       money works harder elsewhere.

  Everything in between is sorted by the chosen strategy.
*/
package strategy

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/debt-engine/servicing"
)

var capWatchRatio = decimal.NewFromFloat(0.85)
var smartDampingRatio = decimal.NewFromFloat(0.70)

// GenerateAttackOrder produces the priority list for a portfolio.
// Paid-off and archived debts are excluded.
func GenerateAttackOrder(debts []servicing.Debt, strat Strategy, asOf time.Time) []AttackOrderItem {
	active := activeDebts(debts)

	var legal, capWatch, remaining []servicing.Debt
	for _, d := range active {
		switch {
		case hasActiveSection129(d, asOf):
			legal = append(legal, d)
		case d.CapUsageRatio().GreaterThanOrEqual(capWatchRatio) && d.CapUsageRatio().LessThan(decimal.NewFromInt(1)):
			capWatch = append(capWatch, d)
		default:
			remaining = append(remaining, d)
		}
	}

	// Most urgent notice first.
	sort.Slice(legal, func(i, j int) bool {
		return legal[i].Section129Deadline.Before(*legal[j].Section129Deadline)
	})

	sortByStrategy(remaining, strat)

	items := make([]AttackOrderItem, 0, len(active))
	order := 1

	for _, d := range legal {
		days := int(d.Section129Deadline.Sub(asOf).Hours() / 24)
		items = append(items, AttackOrderItem{
			Debt:              d,
			Order:             order,
			Priority:          PriorityLegal,
			RecommendedAction: fmt.Sprintf("Section 129 active - %d days to respond", days),
		})
		order++
	}

	for _, d := range remaining {
		items = append(items, AttackOrderItem{Debt: d, Order: order, Priority: PriorityStrategy})
		order++
	}

	for _, d := range capWatch {
		action := "In Duplum cap reached. Pay minimums only."
		if months, ok := EstimateMonthsToCap(d); ok {
			pct := d.CapUsageRatio().Mul(decimal.NewFromInt(100))
			action = fmt.Sprintf("In Duplum: %s%% of cap used, charges stop in ~%d months. Pay minimums only.",
				pct.StringFixed(0), months)
		}
		items = append(items, AttackOrderItem{
			Debt:              d,
			Order:             order,
			Priority:          PriorityCapWatch,
			RecommendedAction: action,
		})
		order++
	}

	return items
}

func activeDebts(debts []servicing.Debt) []servicing.Debt {
	var active []servicing.Debt
	for _, d := range debts {
		if d.IsArchived || d.PaidOffAt != nil || !d.CurrentBalance.IsPositive() {
			continue
		}
		active = append(active, d)
	}
	return active
}

func hasActiveSection129(d servicing.Debt, asOf time.Time) bool {
	return d.Section129Received && d.Section129Deadline != nil && d.Section129Deadline.After(asOf)
}

func sortByStrategy(debts []servicing.Debt, strat Strategy) {
	switch strat {
	case Snowball:
		// Smallest balance first: quick wins.
		sort.Slice(debts, func(i, j int) bool {
			return debts[i].CurrentBalance.LessThan(debts[j].CurrentBalance)
		})
	case Avalanche:
		// Highest rate first: cheapest overall.
		sort.Slice(debts, func(i, j int) bool {
			return debts[i].AnnualInterestRate.GreaterThan(debts[j].AnnualInterestRate)
		})
	default:
		// SmartSA: avalanche, but damp the score of debts past 70% of
		// the cap - their effective rate is about to drop to zero.
		sort.Slice(debts, func(i, j int) bool {
			return smartScore(debts[i]).GreaterThan(smartScore(debts[j]))
		})
	}
}

func smartScore(d servicing.Debt) decimal.Decimal {
	score := d.AnnualInterestRate
	ratio := d.CapUsageRatio()
	if ratio.GreaterThan(smartDampingRatio) {
		score = score.Mul(decimal.NewFromInt(1).Sub(ratio))
	}
	return score
}
