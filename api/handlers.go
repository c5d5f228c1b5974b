/*
handlers.go - HTTP API handlers for the debt-servicing engine

PURPOSE:
  Exposes the servicing and strategy engines via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Debts:
    GET    /api/debts                       List all debts
    POST   /api/debts                       Create or replace a debt
    GET    /api/debts/{id}                  Get debt details
    POST   /api/debts/{id}/payments         Record a payment
    GET    /api/debts/{id}/payments         Payment history

  Engine (read-only computations over a debt):
    GET    /api/debts/{id}/projection       Month-by-month payoff projection
    GET    /api/debts/{id}/payoff           Months-to-payoff estimate
    GET    /api/debts/{id}/costs            Lifetime interest and fees
    GET    /api/debts/{id}/reconciliation   Replay history vs recorded balance
    GET    /api/debts/{id}/audit            In Duplum cap report
    GET    /api/debts/{id}/rate-check       NCA maximum-rate validation

  Strategy (portfolio level):
    GET    /api/strategy/attack-order       Priority list for surplus payments
    POST   /api/strategy/simulate           Simulate one strategy under a budget
    POST   /api/strategy/compare            Three-way strategy comparison

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Call domain logic (servicing, strategy)
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Debt not found
  - 500: Internal errors

CACHING:
  Projection responses are cached under a key derived from the debt's
  balance state, so any state change produces a fresh key and stale
  entries age out on their own. The cache is optional; a nil Cache
  disables it.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - store/rediscache: The cache implementation
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/warp/debt-engine/logging"
	"github.com/warp/debt-engine/servicing"
	"github.com/warp/debt-engine/store/rediscache"
	"github.com/warp/debt-engine/strategy"
)

var decimalHundred = decimal.NewFromInt(100)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Cache is the optional response cache consulted by the projection
// endpoints. Satisfied by rediscache.Cache.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string) error
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store servicing.Store
	Cache Cache // nil disables caching

	// Holidays drives Section 129 deadline calculation on debt save.
	Holidays strategy.HolidayCalendar

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

// NewHandler creates a handler over the given store.
func NewHandler(store servicing.Store) *Handler {
	return &Handler{
		Store:    store,
		Holidays: strategy.SAHolidays2025,
		Now:      func() time.Time { return time.Now().UTC() },
	}
}

// =============================================================================
// DEBT HANDLERS
// =============================================================================

// ListDebts returns all debts.
func (h *Handler) ListDebts(w http.ResponseWriter, r *http.Request) {
	debts, err := h.Store.ListDebts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list debts", err)
		return
	}

	dtos := make([]DebtDTO, len(debts))
	for i, d := range debts {
		dtos[i] = toDebtDTO(d)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetDebt returns a single debt.
func (h *Handler) GetDebt(w http.ResponseWriter, r *http.Request) {
	d, ok := h.loadDebt(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toDebtDTO(d))
}

// SaveDebt creates or replaces a debt record.
func (h *Handler) SaveDebt(w http.ResponseWriter, r *http.Request) {
	var req SaveDebtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "Debt id is required", nil)
		return
	}
	if req.OriginalPrincipal <= 0 {
		writeError(w, http.StatusBadRequest, "Original principal must be positive", nil)
		return
	}

	agreementDate, err := time.Parse("2006-01-02", req.AgreementDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid agreement_date, expected YYYY-MM-DD", err)
		return
	}

	d := servicing.Debt{
		ID:                         servicing.DebtID(req.ID),
		Name:                       req.Name,
		Creditor:                   req.Creditor,
		Type:                       servicing.DebtType(req.Type),
		CurrentBalance:             servicing.NewMoney(req.CurrentBalance),
		OriginalPrincipal:          servicing.NewMoney(req.OriginalPrincipal),
		OpeningBalance:             servicing.NewMoney(req.OpeningBalance),
		AnnualInterestRate:         decimal.NewFromFloat(req.AnnualInterestRate),
		MonthlyServiceFee:          servicing.NewMoney(req.MonthlyServiceFee),
		CreditLifePremium:          servicing.NewMoney(req.CreditLifePremium),
		AccumulatedInterestAndFees: servicing.NewMoney(req.AccumulatedInterestAndFees),
		AgreementDate:              agreementDate,
		MinimumPayment:             servicing.NewMoney(req.MinimumPayment),
		Section129Received:         req.Section129Received,
		IsArchived:                 req.IsArchived,
	}

	if req.Section129Received && req.Section129Date != nil {
		letterDate, err := time.Parse("2006-01-02", *req.Section129Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid section129_date, expected YYYY-MM-DD", err)
			return
		}
		deadline := strategy.Section129Deadline(letterDate, h.Holidays)
		d.Section129Deadline = &deadline
	}

	if err := h.Store.SaveDebt(r.Context(), d); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save debt", err)
		return
	}

	logging.FromContext(r.Context()).Info("debt saved", "debt_id", d.ID)
	writeJSON(w, http.StatusCreated, toDebtDTO(d))
}

// RecordPayment appends a payment fact to a debt's ledger.
func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	d, ok := h.loadDebt(w, r)
	if !ok {
		return
	}

	var req RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Amount < 0 {
		writeError(w, http.StatusBadRequest, "Payment amount must not be negative", nil)
		return
	}
	paymentDate, err := time.Parse("2006-01-02", req.PaymentDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid payment_date, expected YYYY-MM-DD", err)
		return
	}

	p := servicing.PaymentRecord{
		DebtID:      d.ID,
		Amount:      servicing.NewMoney(req.Amount),
		PaymentDate: paymentDate,
	}
	if err := h.Store.AppendPayment(r.Context(), p); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to record payment", err)
		return
	}

	logging.FromContext(r.Context()).Info("payment recorded",
		"debt_id", d.ID, "amount", p.Amount.String())
	writeJSON(w, http.StatusCreated, PaymentDTO{
		DebtID:      string(p.DebtID),
		Amount:      money(p.Amount),
		PaymentDate: p.PaymentDate.Format("2006-01-02"),
	})
}

// ListPayments returns a debt's payment history.
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	d, ok := h.loadDebt(w, r)
	if !ok {
		return
	}

	payments, err := h.Store.PaymentsForDebt(r.Context(), d.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load payments", err)
		return
	}

	dtos := make([]PaymentDTO, len(payments))
	for i, p := range payments {
		dtos[i] = PaymentDTO{
			DebtID:      string(p.DebtID),
			Amount:      money(p.Amount),
			PaymentDate: p.PaymentDate.Format("2006-01-02"),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// ENGINE HANDLERS
// =============================================================================

// GetProjection runs a payoff projection.
// GET /api/debts/{id}/projection?payment=500&months=60
func (h *Handler) GetProjection(w http.ResponseWriter, r *http.Request) {
	d, ok := h.loadDebt(w, r)
	if !ok {
		return
	}

	payment, err := queryMoney(r, "payment")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid payment parameter", err)
		return
	}
	months := servicing.MaxProjectionMonths
	if raw := r.URL.Query().Get("months"); raw != "" {
		months, err = strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid months parameter", err)
			return
		}
	}

	now := h.Now()
	key := rediscache.ProjectionKey(d, payment, months, servicing.MonthOf(now))
	if h.Cache != nil {
		if cached, hit := h.Cache.Get(r.Context(), key); hit {
			cacheHits.Inc()
			writeRawJSON(w, http.StatusOK, []byte(cached))
			return
		}
		cacheMisses.Inc()
	}

	snapshots, err := servicing.Project(d, payment, months, now)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	dto := ProjectionDTO{
		DebtID:         string(d.ID),
		MonthlyPayment: money(payment),
		Months:         toSnapshotDTOs(snapshots),
	}

	if h.Cache != nil {
		if body, err := json.Marshal(dto); err == nil {
			if err := h.Cache.Set(r.Context(), key, string(body)); err != nil {
				logging.FromContext(r.Context()).Warn("projection cache write failed", "error", err)
			}
		}
	}

	writeJSON(w, http.StatusOK, dto)
}

// GetPayoff estimates months to payoff under a constant payment.
// GET /api/debts/{id}/payoff?payment=500
func (h *Handler) GetPayoff(w http.ResponseWriter, r *http.Request) {
	d, ok := h.loadDebt(w, r)
	if !ok {
		return
	}

	payment, err := queryMoney(r, "payment")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid payment parameter", err)
		return
	}

	estimate, err := servicing.MonthsToPayoff(d, payment)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, PayoffDTO{
		Outcome:           string(estimate.Outcome),
		Months:            estimate.Months,
		MinimumToProgress: money(estimate.MinimumToProgress),
	})
}

// GetCosts totals lifetime interest and fees under a constant payment.
// GET /api/debts/{id}/costs?payment=500
func (h *Handler) GetCosts(w http.ResponseWriter, r *http.Request) {
	d, ok := h.loadDebt(w, r)
	if !ok {
		return
	}

	payment, err := queryMoney(r, "payment")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid payment parameter", err)
		return
	}

	summary, err := servicing.TotalInterestAndCosts(d, payment)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, CostSummaryDTO{
		TotalInterest:   money(summary.TotalInterest),
		TotalFees:       money(summary.TotalFees),
		TotalCosts:      money(summary.TotalCosts),
		MonthsProjected: summary.MonthsProjected,
	})
}

// GetReconciliation replays the payment ledger from the agreement date
// and compares the result to the recorded balance.
// GET /api/debts/{id}/reconciliation?as_of=2026-08-01
func (h *Handler) GetReconciliation(w http.ResponseWriter, r *http.Request) {
	d, ok := h.loadDebt(w, r)
	if !ok {
		return
	}

	asOf := h.Now()
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		var err error
		asOf, err = time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid as_of, expected YYYY-MM-DD", err)
			return
		}
	}

	history, err := h.Store.PaymentsForDebt(r.Context(), d.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load payments", err)
		return
	}

	result, err := servicing.Reconcile(d, history, asOf)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ReconciliationDTO{
		DebtID:                   string(d.ID),
		ExpectedBalance:          money(result.ExpectedBalance),
		ExpectedAccumulatedCosts: money(result.ExpectedAccumulatedCosts),
		RecordedBalance:          money(d.CurrentBalance),
		Discrepancy:              money(result.Discrepancy),
		CapStatus:                string(result.CapStatus),
		MonthsReplayed:           result.MonthsReplayed,
		Months:                   toSnapshotDTOs(result.Snapshots),
	})
}

// GetAudit returns the In Duplum cap report for a debt.
func (h *Handler) GetAudit(w http.ResponseWriter, r *http.Request) {
	d, ok := h.loadDebt(w, r)
	if !ok {
		return
	}

	report := strategy.Audit(d, h.Now())

	dto := AuditDTO{
		DebtID:            string(report.DebtID),
		AuditDate:         report.AuditDate.Format("2006-01-02"),
		OriginalPrincipal: money(report.OriginalPrincipal),
		Cap:               money(report.Cap),
		AccumulatedCosts:  money(report.AccumulatedCosts),
		CapRemaining:      money(report.CapRemaining),
		CapExceeded:       report.CapExceeded,
		ExcessAmount:      money(report.ExcessAmount),
		CapPercentageUsed: report.CapPercentageUsed,
		Status:            string(report.Status),
	}
	if report.HasEstimate {
		months := report.EstimatedMonthsToCap
		dto.EstimatedMonthsToCap = &months
	}
	writeJSON(w, http.StatusOK, dto)
}

// RateCheck validates a debt's rate against the NCA maximum.
func (h *Handler) RateCheck(w http.ResponseWriter, r *http.Request) {
	d, ok := h.loadDebt(w, r)
	if !ok {
		return
	}

	v := strategy.ValidateRate(d.AnnualInterestRate, d.Type)

	quoted, _ := d.AnnualInterestRate.Float64()
	maxRate, _ := v.MaxAllowedRate.Float64()
	exceedsBy, _ := v.ExceedsBy.Float64()
	writeJSON(w, http.StatusOK, RateCheckDTO{
		Valid:          v.Valid,
		QuotedRate:     quoted,
		MaxAllowedRate: maxRate,
		ExceedsBy:      exceedsBy,
		Warning:        v.Warning,
	})
}

// =============================================================================
// STRATEGY HANDLERS
// =============================================================================

// GetAttackOrder returns the portfolio priority list.
// GET /api/strategy/attack-order?strategy=avalanche
func (h *Handler) GetAttackOrder(w http.ResponseWriter, r *http.Request) {
	strat, err := parseStrategy(r.URL.Query().Get("strategy"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid strategy", err)
		return
	}

	debts, err := h.Store.ListDebts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list debts", err)
		return
	}

	items := strategy.GenerateAttackOrder(debts, strat, h.Now())
	dtos := make([]AttackOrderItemDTO, len(items))
	for i, item := range items {
		dtos[i] = AttackOrderItemDTO{
			DebtID:            string(item.Debt.ID),
			Name:              item.Debt.Name,
			Order:             item.Order,
			Priority:          string(item.Priority),
			RecommendedAction: item.RecommendedAction,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// Simulate runs one strategy under a budget.
// POST /api/strategy/simulate
func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	strat, err := parseStrategy(req.Strategy)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid strategy", err)
		return
	}

	debts, err := h.Store.ListDebts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list debts", err)
		return
	}

	outcome, err := strategy.Simulate(debts, strat, servicing.NewMoney(req.MonthlyBudget), h.Now())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOutcomeDTO(outcome))
}

// Compare runs all three strategies under one budget.
// POST /api/strategy/compare
func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	debts, err := h.Store.ListDebts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list debts", err)
		return
	}

	comparison, err := strategy.SimulateAll(debts, servicing.NewMoney(req.MonthlyBudget), h.Now())
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ComparisonDTO{
		Snowball:    toOutcomeDTO(comparison.Snowball),
		Avalanche:   toOutcomeDTO(comparison.Avalanche),
		SmartSA:     toOutcomeDTO(comparison.SmartSA),
		Recommended: string(comparison.Recommended),
	})
}

// =============================================================================
// HELPERS
// =============================================================================

// loadDebt fetches the debt named in the URL, writing the error response
// itself on failure.
func (h *Handler) loadDebt(w http.ResponseWriter, r *http.Request) (servicing.Debt, bool) {
	id := servicing.DebtID(chi.URLParam(r, "id"))

	d, err := h.Store.GetDebt(r.Context(), id)
	if errors.Is(err, servicing.ErrDebtNotFound) {
		writeError(w, http.StatusNotFound, "Debt not found", err)
		return servicing.Debt{}, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load debt", err)
		return servicing.Debt{}, false
	}
	return d, true
}

func queryMoney(r *http.Request, name string) (servicing.Money, error) {
	raw := r.URL.Query().Get(name)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return servicing.Money{}, err
	}
	return servicing.Money{Value: d}, nil
}

func parseStrategy(s string) (strategy.Strategy, error) {
	switch strategy.Strategy(s) {
	case strategy.Snowball, strategy.Avalanche, strategy.SmartSA:
		return strategy.Strategy(s), nil
	case "":
		return strategy.SmartSA, nil
	default:
		return "", errors.New("expected snowball, avalanche or smart_sa")
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeRawJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

// writeEngineError maps domain errors onto HTTP statuses.
func writeEngineError(w http.ResponseWriter, err error) {
	if errors.Is(err, servicing.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, "Invalid input", err)
		return
	}
	writeError(w, http.StatusInternalServerError, "Engine error", err)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
