package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"disputewise/internal/analyze"
	"disputewise/internal/logger"
	"disputewise/internal/model"
	"disputewise/internal/store"
)

// Handler holds the dependencies shared across all HTTP handlers.
type Handler struct {
	store    *store.Store
	analyzer *analyze.Analyzer
	log      *logger.Logger
}

// NewHandler creates a Handler wired to the given dependencies.
func NewHandler(s *store.Store, a *analyze.Analyzer, log *logger.Logger) *Handler {
	return &Handler{store: s, analyzer: a, log: log}
}

// ─── Customers ────────────────────────────────────────────────────────────────

// CreateCustomer registers a new account holder.
func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Email       string `json:"email"`
		AccountType string `json:"account_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "INVALID_JSON", "request body must be valid JSON")
		return
	}
	if req.Name == "" || req.Email == "" {
		badRequest(w, "VALIDATION_ERROR", "name and email are required")
		return
	}
	if req.AccountType == "" {
		req.AccountType = "Individual"
	}

	c := &model.Customer{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Email:       req.Email,
		AccountType: req.AccountType,
		CreatedAt:   time.Now().UTC(),
	}
	if err := h.store.CreateCustomer(c); err != nil {
		internalError(w)
		return
	}
	created(w, c)
}

// ListCustomers returns all customers.
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	ok(w, h.store.ListCustomers())
}

// GetCustomer returns one customer along with their disputes.
func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c, exists := h.store.GetCustomer(id)
	if !exists {
		notFound(w, fmt.Sprintf("customer '%s' not found", id))
		return
	}
	ok(w, map[string]any{
		"customer": c,
		"disputes": h.store.ListDisputesByCustomer(id),
	})
}

// UpdateCustomer mutates name, email, or account type.
func (h *Handler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		Name        *string `json:"name"`
		Email       *string `json:"email"`
		AccountType *string `json:"account_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "INVALID_JSON", "request body must be valid JSON")
		return
	}
	if req.Name == nil && req.Email == nil && req.AccountType == nil {
		badRequest(w, "VALIDATION_ERROR", "no valid fields to update")
		return
	}
	if (req.Name != nil && *req.Name == "") || (req.Email != nil && *req.Email == "") {
		badRequest(w, "VALIDATION_ERROR", "name and email must not be empty")
		return
	}

	c, err := h.store.UpdateCustomer(id, store.CustomerUpdate{
		Name:        req.Name,
		Email:       req.Email,
		AccountType: req.AccountType,
	})
	if err != nil {
		notFound(w, fmt.Sprintf("customer '%s' not found", id))
		return
	}
	ok(w, c)
}

// DeleteCustomer removes a customer and all of their disputes.
func (h *Handler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.DeleteCustomer(id); err != nil {
		notFound(w, fmt.Sprintf("customer '%s' not found", id))
		return
	}
	noContent(w)
}

// ─── Disputes ─────────────────────────────────────────────────────────────────

// CreateDispute files a new dispute for an existing customer.
func (h *Handler) CreateDispute(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerID             string  `json:"customer_id"`
		TransactionID          string  `json:"transaction_id"`
		MerchantName           string  `json:"merchant_name"`
		Amount                 float64 `json:"amount"`
		Description            string  `json:"description"`
		Category               string  `json:"category"`
		HasSupportingDocuments bool    `json:"has_supporting_documents"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "INVALID_JSON", "request body must be valid JSON")
		return
	}
	if req.CustomerID == "" || req.TransactionID == "" {
		badRequest(w, "VALIDATION_ERROR", "customer_id and transaction_id are required")
		return
	}
	if req.Amount < 0 {
		badRequest(w, "VALIDATION_ERROR", "amount must be non-negative")
		return
	}

	d := &model.Dispute{
		ID:                     uuid.New().String(),
		CustomerID:             req.CustomerID,
		TransactionID:          req.TransactionID,
		MerchantName:           req.MerchantName,
		Amount:                 req.Amount,
		Description:            req.Description,
		Category:               req.Category,
		HasSupportingDocuments: req.HasSupportingDocuments,
		Status:                 model.StatusOpen,
		CreatedAt:              time.Now().UTC(),
	}

	if err := h.store.CreateDispute(d); err != nil {
		if errors.Is(err, store.ErrCustomerNotFound) {
			notFound(w, fmt.Sprintf("customer '%s' not found", req.CustomerID))
			return
		}
		if errors.Is(err, store.ErrDuplicateID) {
			conflict(w, fmt.Sprintf("dispute '%s' already exists", d.ID))
			return
		}
		internalError(w)
		return
	}
	created(w, d)
}

// ListDisputes returns disputes with optional status/priority/category
// filters and capped pagination.
func (h *Handler) ListDisputes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := store.DisputeFilter{
		Status:   q.Get("status"),
		Category: q.Get("category"),
	}
	if filter.Status != "" && !model.ValidStatus(filter.Status) {
		badRequest(w, "INVALID_PARAM", "status must be one of: Open, Under Review, Resolved")
		return
	}
	if p := q.Get("priority"); p != "" {
		parsed, err := strconv.Atoi(p)
		if err != nil || parsed < 1 || parsed > 5 {
			badRequest(w, "INVALID_PARAM", "priority must be an integer between 1 and 5")
			return
		}
		filter.Priority = parsed
	}

	skip := 0
	if v := q.Get("skip"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			skip = parsed
		}
	}
	limit := 100
	if v := q.Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > 500 {
		limit = 500
	}

	disputes := h.store.ListDisputes(filter)
	if skip >= len(disputes) {
		disputes = []*model.Dispute{}
	} else {
		disputes = disputes[skip:]
	}
	if len(disputes) > limit {
		disputes = disputes[:limit]
	}
	ok(w, disputes)
}

// GetDispute returns one dispute with its customer.
func (h *Handler) GetDispute(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	d, exists := h.store.GetDispute(id)
	if !exists {
		notFound(w, fmt.Sprintf("dispute '%s' not found", id))
		return
	}
	c, _ := h.store.GetCustomer(d.CustomerID)
	ok(w, map[string]any{
		"dispute":  d,
		"customer": c,
	})
}

// UpdateDispute mutates status, priority, or description.
func (h *Handler) UpdateDispute(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		Status      *string `json:"status"`
		Priority    *int    `json:"priority"`
		Description *string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "INVALID_JSON", "request body must be valid JSON")
		return
	}
	if req.Status == nil && req.Priority == nil && req.Description == nil {
		badRequest(w, "VALIDATION_ERROR", "no valid fields to update")
		return
	}
	if req.Status != nil && !model.ValidStatus(*req.Status) {
		badRequest(w, "VALIDATION_ERROR", "status must be one of: Open, Under Review, Resolved")
		return
	}
	if req.Priority != nil && (*req.Priority < 1 || *req.Priority > 5) {
		badRequest(w, "VALIDATION_ERROR", "priority must be between 1 and 5")
		return
	}

	d, err := h.store.UpdateDispute(id, store.DisputeUpdate{
		Status:      req.Status,
		Priority:    req.Priority,
		Description: req.Description,
	})
	if err != nil {
		notFound(w, fmt.Sprintf("dispute '%s' not found", id))
		return
	}
	ok(w, d)
}

// DeleteDispute removes a dispute and its attachments.
func (h *Handler) DeleteDispute(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.DeleteDispute(id); err != nil {
		notFound(w, fmt.Sprintf("dispute '%s' not found", id))
		return
	}
	noContent(w)
}

// ─── Analysis ─────────────────────────────────────────────────────────────────

// AnalyzeDispute runs the scoring and recommendation pipeline for a
// dispute. A stored insight short-circuits the oracle: re-analyzing
// returns the existing result instead of creating a duplicate.
func (h *Handler) AnalyzeDispute(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if existing, found := h.store.GetInsight(id); found {
		ok(w, analysisResponse(id, existing.Result))
		return
	}

	result := h.runAnalysis(r.Context(), id, w)
	if result == nil {
		return // error already written
	}
	created(w, analysisResponse(id, *result))
}

// GetRecommendations returns the resolution-recommendation view,
// analyzing on demand when no insight is stored yet.
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result := h.resultFor(r.Context(), id, w)
	if result == nil {
		return
	}

	ok(w, map[string]any{
		"dispute_id":          id,
		"priority":            result.Priority,
		"risk_score":          result.RiskScore,
		"recommended_actions": result.RecommendedActions,
		"sla_target":          result.SLATarget.UTC().Format(time.RFC3339),
		"followup_questions":  result.FollowupQuestions,
		"similar_cases":       []string{},
	})
}

// GetPriorityAssessment reconciles the AI and risk-band priorities.
func (h *Handler) GetPriorityAssessment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result := h.resultFor(r.Context(), id, w)
	if result == nil {
		return
	}
	ok(w, analyze.AssessFromResult(result))
}

// resultFor fetches the stored analysis or computes one. On failure it
// writes the error response and returns nil.
func (h *Handler) resultFor(ctx context.Context, id string, w http.ResponseWriter) *model.AnalysisResult {
	if existing, found := h.store.GetInsight(id); found {
		return &existing.Result
	}
	return h.runAnalysis(ctx, id, w)
}

// runAnalysis assembles the analyzer input, runs the pipeline, and
// persists the outcome. Errors are written to w; the caller only
// proceeds on a non-nil result.
func (h *Handler) runAnalysis(ctx context.Context, id string, w http.ResponseWriter) *model.AnalysisResult {
	d, exists := h.store.GetDispute(id)
	if !exists {
		notFound(w, fmt.Sprintf("dispute '%s' not found", id))
		return nil
	}
	c, exists := h.store.GetCustomer(d.CustomerID)
	if !exists {
		notFound(w, fmt.Sprintf("customer '%s' not found", d.CustomerID))
		return nil
	}

	data := model.BuildDisputeData(*d, *c, time.Now().UTC())

	result, err := h.analyzer.Analyze(ctx, data)
	if err != nil {
		h.log.WithError(err).WithField("dispute_id", id).Error("analysis failed")
		badGateway(w, "dispute analysis is temporarily unavailable")
		return nil
	}

	_ = h.store.SetDisputePriority(id, result.Priority)
	_ = h.store.SaveInsight(&model.Insight{
		ID:        uuid.New().String(),
		DisputeID: id,
		Result:    *result,
		CreatedAt: time.Now().UTC(),
	})

	return result
}

func analysisResponse(disputeID string, result model.AnalysisResult) map[string]any {
	return map[string]any{
		"dispute_id": disputeID,
		"analysis":   result,
	}
}

// ─── Insights ─────────────────────────────────────────────────────────────────

// GetInsight returns the stored analysis for a dispute.
func (h *Handler) GetInsight(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, exists := h.store.GetDispute(id); !exists {
		notFound(w, fmt.Sprintf("dispute '%s' not found", id))
		return
	}
	in, found := h.store.GetInsight(id)
	if !found {
		notFound(w, fmt.Sprintf("no insight stored for dispute '%s'", id))
		return
	}
	ok(w, in)
}

// CreateInsight stores an analyst-entered assessment for a dispute that
// has none yet. The rule-based scoring, actions, and SLA are computed
// the same way the analyze pipeline would.
func (h *Handler) CreateInsight(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, found := h.store.GetInsight(id); found {
		conflict(w, fmt.Sprintf("insight already exists for dispute '%s'", id))
		return
	}
	h.saveManualInsight(w, r, id)
}

// UpdateInsight replaces the stored assessment for a dispute.
func (h *Handler) UpdateInsight(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, found := h.store.GetInsight(id); !found {
		notFound(w, fmt.Sprintf("no insight stored for dispute '%s'", id))
		return
	}
	h.saveManualInsight(w, r, id)
}

// saveManualInsight decodes and validates a judgment from the request
// body, composes the full analysis for the dispute, and persists it.
func (h *Handler) saveManualInsight(w http.ResponseWriter, r *http.Request, id string) {
	judgment, valid := decodeJudgment(w, r)
	if !valid {
		return
	}

	d, exists := h.store.GetDispute(id)
	if !exists {
		notFound(w, fmt.Sprintf("dispute '%s' not found", id))
		return
	}
	c, exists := h.store.GetCustomer(d.CustomerID)
	if !exists {
		notFound(w, fmt.Sprintf("customer '%s' not found", d.CustomerID))
		return
	}

	data := model.BuildDisputeData(*d, *c, time.Now().UTC())
	result := h.analyzer.Compose(*judgment, data)

	_ = h.store.SetDisputePriority(id, result.Priority)
	in := &model.Insight{
		ID:        uuid.New().String(),
		DisputeID: id,
		Result:    *result,
		CreatedAt: time.Now().UTC(),
	}
	_ = h.store.SaveInsight(in)

	created(w, in)
}

// decodeJudgment reads a judgment from the request, enforcing the
// priority and risk-score ranges. On failure it writes the error
// response and returns false.
func decodeJudgment(w http.ResponseWriter, r *http.Request) (*model.AIJudgment, bool) {
	var req struct {
		Priority          int      `json:"priority"`
		PriorityReason    string   `json:"priority_reason"`
		Insights          string   `json:"insights"`
		FollowupQuestions []string `json:"followup_questions"`
		ProbableSolutions []string `json:"probable_solutions"`
		PossibleReasons   []string `json:"possible_reasons"`
		AIRiskScore       float64  `json:"ai_risk_score"`
		AIRiskFactors     []string `json:"ai_risk_factors"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "INVALID_JSON", "request body must be valid JSON")
		return nil, false
	}
	if req.Priority < 1 || req.Priority > 5 {
		badRequest(w, "VALIDATION_ERROR", "priority must be between 1 and 5")
		return nil, false
	}
	if req.AIRiskScore < 0 || req.AIRiskScore > 10 {
		badRequest(w, "VALIDATION_ERROR", "ai_risk_score must be between 0 and 10")
		return nil, false
	}

	return &model.AIJudgment{
		Priority:          req.Priority,
		PriorityReason:    req.PriorityReason,
		Insights:          req.Insights,
		FollowupQuestions: req.FollowupQuestions,
		ProbableSolutions: req.ProbableSolutions,
		PossibleReasons:   req.PossibleReasons,
		RiskScore:         req.AIRiskScore,
		RiskFactors:       req.AIRiskFactors,
	}, true
}

// ─── Notes ────────────────────────────────────────────────────────────────────

// AddNote attaches an analyst note to a dispute.
func (h *Handler) AddNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Content == "" {
		badRequest(w, "VALIDATION_ERROR", "content is required")
		return
	}

	n := &model.Note{
		ID:        uuid.New().String(),
		DisputeID: id,
		Content:   req.Content,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.store.AddNote(n); err != nil {
		notFound(w, fmt.Sprintf("dispute '%s' not found", id))
		return
	}
	created(w, n)
}

// ListNotes returns a dispute's notes.
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, exists := h.store.GetDispute(id); !exists {
		notFound(w, fmt.Sprintf("dispute '%s' not found", id))
		return
	}
	ok(w, h.store.ListNotes(id))
}

// ─── Metrics ──────────────────────────────────────────────────────────────────

// DashboardMetrics returns case aggregates for the dashboard.
func (h *Handler) DashboardMetrics(w http.ResponseWriter, r *http.Request) {
	ok(w, h.store.Metrics(time.Now()))
}
