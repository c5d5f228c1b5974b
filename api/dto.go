/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY IN JSON:
  Monetary fields go out as float64 for client convenience; the exact
  decimal values stay inside the engine. Rounding to cents happens here,
  at the boundary, and nowhere else.

SEE ALSO:
  - handlers.go: Uses these types
  - servicing/types.go: The domain model behind them
*/
package api

import (
	"time"

	"github.com/warp/debt-engine/servicing"
	"github.com/warp/debt-engine/strategy"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// DebtDTO represents a debt in API responses.
type DebtDTO struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Creditor          string  `json:"creditor"`
	Type              string  `json:"type"`
	CurrentBalance    float64 `json:"current_balance"`
	OriginalPrincipal float64 `json:"original_principal"`
	OpeningBalance    float64 `json:"opening_balance"`

	AnnualInterestRate float64 `json:"annual_interest_rate"`
	MonthlyServiceFee  float64 `json:"monthly_service_fee"`
	CreditLifePremium  float64 `json:"credit_life_premium"`

	AccumulatedInterestAndFees float64 `json:"accumulated_interest_and_fees"`
	CapPercentageUsed          float64 `json:"cap_percentage_used"`

	AgreementDate      string  `json:"agreement_date"`
	MinimumPayment     float64 `json:"minimum_payment"`
	Section129Received bool    `json:"section129_received"`
	Section129Deadline *string `json:"section129_deadline,omitempty"`
	IsArchived         bool    `json:"is_archived"`
	PaidOffAt          *string `json:"paid_off_at,omitempty"`
}

// SaveDebtRequest creates or replaces a debt record.
type SaveDebtRequest struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Creditor          string  `json:"creditor"`
	Type              string  `json:"type"`
	CurrentBalance    float64 `json:"current_balance"`
	OriginalPrincipal float64 `json:"original_principal"`
	OpeningBalance    float64 `json:"opening_balance"`

	AnnualInterestRate float64 `json:"annual_interest_rate"`
	MonthlyServiceFee  float64 `json:"monthly_service_fee"`
	CreditLifePremium  float64 `json:"credit_life_premium"`

	AccumulatedInterestAndFees float64 `json:"accumulated_interest_and_fees"`

	AgreementDate      string `json:"agreement_date"` // ISO date
	MinimumPayment     float64 `json:"minimum_payment"`
	Section129Received bool    `json:"section129_received"`
	Section129Date     *string `json:"section129_date,omitempty"` // letter date, ISO
	IsArchived         bool    `json:"is_archived"`
}

// RecordPaymentRequest appends a payment fact to a debt's ledger.
type RecordPaymentRequest struct {
	Amount      float64 `json:"amount"`
	PaymentDate string  `json:"payment_date"` // ISO date
}

// PaymentDTO represents a recorded payment.
type PaymentDTO struct {
	DebtID      string  `json:"debt_id"`
	Amount      float64 `json:"amount"`
	PaymentDate string  `json:"payment_date"`
}

// SnapshotDTO is one month of a projection or reconciliation timeline.
type SnapshotDTO struct {
	Month                      string  `json:"month"` // YYYY-MM
	OpeningBalance             float64 `json:"opening_balance"`
	InterestCharged            float64 `json:"interest_charged"`
	FeesCharged                float64 `json:"fees_charged"`
	TotalCostsCharged          float64 `json:"total_costs_charged"`
	PaymentsReceived           float64 `json:"payments_received"`
	ClosingBalance             float64 `json:"closing_balance"`
	AccumulatedInterestAndFees float64 `json:"accumulated_interest_and_fees"`
	CapReached                 bool    `json:"cap_reached"`
	PrincipalReduction         float64 `json:"principal_reduction"`
}

// ProjectionDTO is the response for a payoff projection.
type ProjectionDTO struct {
	DebtID         string        `json:"debt_id"`
	MonthlyPayment float64       `json:"monthly_payment"`
	Months         []SnapshotDTO `json:"months"`
}

// PayoffDTO is the response for a payoff estimate.
type PayoffDTO struct {
	Outcome           string  `json:"outcome"`
	Months            int     `json:"months,omitempty"`
	MinimumToProgress float64 `json:"minimum_to_progress"`
}

// CostSummaryDTO totals lifetime charges under a payment plan.
type CostSummaryDTO struct {
	TotalInterest   float64 `json:"total_interest"`
	TotalFees       float64 `json:"total_fees"`
	TotalCosts      float64 `json:"total_costs"`
	MonthsProjected int     `json:"months_projected"`
}

// ReconciliationDTO compares the recorded balance to the replayed one.
type ReconciliationDTO struct {
	DebtID                   string        `json:"debt_id"`
	ExpectedBalance          float64       `json:"expected_balance"`
	ExpectedAccumulatedCosts float64       `json:"expected_accumulated_costs"`
	RecordedBalance          float64       `json:"recorded_balance"`
	Discrepancy              float64       `json:"discrepancy"`
	CapStatus                string        `json:"cap_status"`
	MonthsReplayed           int           `json:"months_replayed"`
	Months                   []SnapshotDTO `json:"months"`
}

// AuditDTO is the per-debt In Duplum cap report.
type AuditDTO struct {
	DebtID               string  `json:"debt_id"`
	AuditDate            string  `json:"audit_date"`
	OriginalPrincipal    float64 `json:"original_principal"`
	Cap                  float64 `json:"cap"`
	AccumulatedCosts     float64 `json:"accumulated_costs"`
	CapRemaining         float64 `json:"cap_remaining"`
	CapExceeded          bool    `json:"cap_exceeded"`
	ExcessAmount         float64 `json:"excess_amount"`
	CapPercentageUsed    float64 `json:"cap_percentage_used"`
	Status               string  `json:"status"`
	EstimatedMonthsToCap *int    `json:"estimated_months_to_cap,omitempty"`
}

// RateCheckDTO is the NCA maximum-rate validation result.
type RateCheckDTO struct {
	Valid          bool    `json:"valid"`
	QuotedRate     float64 `json:"quoted_rate"`
	MaxAllowedRate float64 `json:"max_allowed_rate"`
	ExceedsBy      float64 `json:"exceeds_by"`
	Warning        string  `json:"warning,omitempty"`
}

// SimulateRequest runs a portfolio simulation.
type SimulateRequest struct {
	Strategy      string  `json:"strategy"`
	MonthlyBudget float64 `json:"monthly_budget"`
}

// CompareRequest runs all three strategies under one budget.
type CompareRequest struct {
	MonthlyBudget float64 `json:"monthly_budget"`
}

// AttackOrderItemDTO is one row of the priority list.
type AttackOrderItemDTO struct {
	DebtID            string `json:"debt_id"`
	Name              string `json:"name"`
	Order             int    `json:"order"`
	Priority          string `json:"priority"`
	RecommendedAction string `json:"recommended_action,omitempty"`
}

// OutcomeDTO summarizes a simulated repayment plan.
type OutcomeDTO struct {
	Strategy              string               `json:"strategy"`
	MonthsToFreedom       int                  `json:"months_to_freedom"`
	DebtFreeDate          *string              `json:"debt_free_date,omitempty"`
	TotalInterestPaid     float64              `json:"total_interest_paid"`
	TotalFeesPaid         float64              `json:"total_fees_paid"`
	TotalPaid             float64              `json:"total_paid"`
	FirstDebtClearedMonth int                  `json:"first_debt_cleared_month"`
	AttackOrder           []AttackOrderItemDTO `json:"attack_order"`
}

// ComparisonDTO is the three-way strategy comparison.
type ComparisonDTO struct {
	Snowball    OutcomeDTO `json:"snowball"`
	Avalanche   OutcomeDTO `json:"avalanche"`
	SmartSA     OutcomeDTO `json:"smart_sa"`
	Recommended string     `json:"recommended"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func money(m servicing.Money) float64 { return m.Round2().Float64() }

func toDebtDTO(d servicing.Debt) DebtDTO {
	rate, _ := d.AnnualInterestRate.Float64()
	pct, _ := d.CapUsageRatio().Mul(decimalHundred).Float64()
	return DebtDTO{
		ID:                         string(d.ID),
		Name:                       d.Name,
		Creditor:                   d.Creditor,
		Type:                       string(d.Type),
		CurrentBalance:             money(d.CurrentBalance),
		OriginalPrincipal:          money(d.OriginalPrincipal),
		OpeningBalance:             money(d.OpeningBalance),
		AnnualInterestRate:         rate,
		MonthlyServiceFee:          money(d.MonthlyServiceFee),
		CreditLifePremium:          money(d.CreditLifePremium),
		AccumulatedInterestAndFees: money(d.AccumulatedInterestAndFees),
		CapPercentageUsed:          pct,
		AgreementDate:              d.AgreementDate.Format("2006-01-02"),
		MinimumPayment:             money(d.MinimumPayment),
		Section129Received:         d.Section129Received,
		Section129Deadline:         fmtTimePtr(d.Section129Deadline),
		IsArchived:                 d.IsArchived,
		PaidOffAt:                  fmtTimePtr(d.PaidOffAt),
	}
}

func toSnapshotDTO(s servicing.MonthlySnapshot) SnapshotDTO {
	return SnapshotDTO{
		Month:                      s.Month.String(),
		OpeningBalance:             money(s.OpeningBalance),
		InterestCharged:            money(s.InterestCharged),
		FeesCharged:                money(s.FeesCharged),
		TotalCostsCharged:          money(s.TotalCostsCharged),
		PaymentsReceived:           money(s.PaymentsReceived),
		ClosingBalance:             money(s.ClosingBalance),
		AccumulatedInterestAndFees: money(s.AccumulatedInterestAndFees),
		CapReached:                 s.CapReached,
		PrincipalReduction:         money(s.PrincipalReduction),
	}
}

func toSnapshotDTOs(snapshots []servicing.MonthlySnapshot) []SnapshotDTO {
	dtos := make([]SnapshotDTO, len(snapshots))
	for i, s := range snapshots {
		dtos[i] = toSnapshotDTO(s)
	}
	return dtos
}

func toOutcomeDTO(o strategy.Outcome) OutcomeDTO {
	items := make([]AttackOrderItemDTO, len(o.AttackOrder))
	for i, item := range o.AttackOrder {
		items[i] = AttackOrderItemDTO{
			DebtID:            string(item.Debt.ID),
			Name:              item.Debt.Name,
			Order:             item.Order,
			Priority:          string(item.Priority),
			RecommendedAction: item.RecommendedAction,
		}
	}

	var freeDate *string
	if o.DebtFreeDate != nil {
		s := o.DebtFreeDate.Format("2006-01-02")
		freeDate = &s
	}

	return OutcomeDTO{
		Strategy:              string(o.Strategy),
		MonthsToFreedom:       o.MonthsToFreedom,
		DebtFreeDate:          freeDate,
		TotalInterestPaid:     money(o.TotalInterestPaid),
		TotalFeesPaid:         money(o.TotalFeesPaid),
		TotalPaid:             money(o.TotalPaid),
		FirstDebtClearedMonth: o.FirstDebtClearedMonth,
		AttackOrder:           items,
	}
}

func fmtTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}
