package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"disputewise/internal/analyze"
	"disputewise/internal/logger"
	"disputewise/internal/model"
	"disputewise/internal/store"
)

// stubOracle implements oracle.Oracle
type stubOracle struct {
	judgment model.AIJudgment
	err      error
	calls    int
}

func (s *stubOracle) Name() string { return "stub" }

func (s *stubOracle) Judge(ctx context.Context, dispute model.DisputeData) (*model.AIJudgment, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	j := s.judgment
	return &j, nil
}

func (s *stubOracle) IsAvailable(ctx context.Context) bool { return s.err == nil }

func newTestServer(t *testing.T, o *stubOracle) (*httptest.Server, *store.Store) {
	t.Helper()
	st := store.New()
	h := NewHandler(st, analyze.New(o), logger.New())
	srv := httptest.NewServer(NewRouter(h, logger.New()))
	t.Cleanup(srv.Close)
	return srv, st
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

func decodeData(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()

	var env struct {
		Data  json.RawMessage `json:"data"`
		Error *apiError       `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.Error != nil {
		t.Fatalf("unexpected error response: %+v", env.Error)
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			t.Fatalf("decode data: %v", err)
		}
	}
}

func createCustomer(t *testing.T, srv *httptest.Server) model.Customer {
	t.Helper()
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/customers", map[string]any{
		"name":  "Dana Fields",
		"email": "dana@example.com",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create customer: expected 201, got %d", resp.StatusCode)
	}
	var c model.Customer
	decodeData(t, resp, &c)
	return c
}

func createDispute(t *testing.T, srv *httptest.Server, customerID string, body map[string]any) model.Dispute {
	t.Helper()
	payload := map[string]any{
		"customer_id":    customerID,
		"transaction_id": "tx-1",
		"merchant_name":  "Acme Corp",
		"amount":         12000.0,
		"description":    "charge I do not recognize",
		"category":       "Unauthorized Transaction",
	}
	for k, v := range body {
		payload[k] = v
	}
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/disputes", payload)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create dispute: expected 201, got %d", resp.StatusCode)
	}
	var d model.Dispute
	decodeData(t, resp, &d)
	return d
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, &stubOracle{})

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestCreateCustomer_Validation(t *testing.T) {
	srv, _ := newTestServer(t, &stubOracle{})

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/customers", map[string]any{"name": "No Email"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for missing email, got %d", resp.StatusCode)
	}
}

func TestCreateCustomer_DefaultsAccountType(t *testing.T) {
	srv, _ := newTestServer(t, &stubOracle{})

	c := createCustomer(t, srv)
	if c.AccountType != "Individual" {
		t.Errorf("expected default account type Individual, got %q", c.AccountType)
	}
	if c.ID == "" {
		t.Error("expected generated customer ID")
	}
}

func TestGetCustomer_WithDisputes(t *testing.T) {
	srv, _ := newTestServer(t, &stubOracle{})
	c := createCustomer(t, srv)
	d := createDispute(t, srv, c.ID, nil)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/v1/customers/"+c.ID, nil)
	var view struct {
		Customer model.Customer  `json:"customer"`
		Disputes []model.Dispute `json:"disputes"`
	}
	decodeData(t, resp, &view)

	if view.Customer.ID != c.ID {
		t.Errorf("wrong customer: %s", view.Customer.ID)
	}
	if len(view.Disputes) != 1 || view.Disputes[0].ID != d.ID {
		t.Errorf("expected the customer's dispute, got %v", view.Disputes)
	}
	// Filing bumped the counter
	if view.Customer.DisputeCount != 1 {
		t.Errorf("expected dispute count 1, got %d", view.Customer.DisputeCount)
	}
}

func TestGetCustomer_NotFound(t *testing.T) {
	srv, _ := newTestServer(t, &stubOracle{})

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/v1/customers/nope", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestUpdateCustomer(t *testing.T) {
	srv, _ := newTestServer(t, &stubOracle{})
	c := createCustomer(t, srv)

	resp := doJSON(t, http.MethodPut, srv.URL+"/api/v1/customers/"+c.ID, map[string]any{
		"name":         "Dana F. Updated",
		"account_type": "Business",
	})
	var updated model.Customer
	decodeData(t, resp, &updated)

	if updated.Name != "Dana F. Updated" || updated.AccountType != "Business" {
		t.Errorf("update not applied: %+v", updated)
	}
	if updated.Email != c.Email {
		t.Errorf("email changed unexpectedly: %s", updated.Email)
	}

	// Empty update is rejected
	resp = doJSON(t, http.MethodPut, srv.URL+"/api/v1/customers/"+c.ID, map[string]any{})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for empty update, got %d", resp.StatusCode)
	}

	// Blanking a required field is rejected
	resp = doJSON(t, http.MethodPut, srv.URL+"/api/v1/customers/"+c.ID, map[string]any{"email": ""})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for empty email, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPut, srv.URL+"/api/v1/customers/ghost", map[string]any{"name": "x"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for unknown customer, got %d", resp.StatusCode)
	}
}

func TestDeleteCustomer(t *testing.T) {
	srv, st := newTestServer(t, &stubOracle{})
	c := createCustomer(t, srv)
	d := createDispute(t, srv, c.ID, nil)

	resp := doJSON(t, http.MethodDelete, srv.URL+"/api/v1/customers/"+c.ID, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("expected 204, got %d", resp.StatusCode)
	}

	// The customer's disputes go with them
	if _, ok := st.GetDispute(d.ID); ok {
		t.Error("dispute survived customer delete")
	}

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/v1/customers/"+c.ID, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 on repeat delete, got %d", resp.StatusCode)
	}
}

func TestCreateDispute_Validation(t *testing.T) {
	srv, _ := newTestServer(t, &stubOracle{})
	c := createCustomer(t, srv)

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"unknown customer", map[string]any{"customer_id": "ghost", "transaction_id": "tx"}, http.StatusNotFound},
		{"missing transaction", map[string]any{"customer_id": c.ID}, http.StatusBadRequest},
		{"negative amount", map[string]any{"customer_id": c.ID, "transaction_id": "tx", "amount": -5}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/disputes", tt.body)
			defer resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Errorf("expected %d, got %d", tt.want, resp.StatusCode)
			}
		})
	}
}

func TestCreateDispute_OpensWithStatus(t *testing.T) {
	srv, _ := newTestServer(t, &stubOracle{})
	c := createCustomer(t, srv)
	d := createDispute(t, srv, c.ID, nil)

	if d.Status != model.StatusOpen {
		t.Errorf("expected status Open, got %q", d.Status)
	}
	if d.Priority != 0 {
		t.Errorf("expected unassigned priority, got %d", d.Priority)
	}
}

func TestListDisputes_InvalidFilters(t *testing.T) {
	srv, _ := newTestServer(t, &stubOracle{})

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/v1/disputes?status=Bogus", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for bad status, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/v1/disputes?priority=9", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for bad priority, got %d", resp.StatusCode)
	}
}

func TestListDisputes_Pagination(t *testing.T) {
	srv, _ := newTestServer(t, &stubOracle{})
	c := createCustomer(t, srv)
	for i := 0; i < 3; i++ {
		createDispute(t, srv, c.ID, map[string]any{"transaction_id": "tx"})
	}

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/v1/disputes?limit=2", nil)
	var page []model.Dispute
	decodeData(t, resp, &page)
	if len(page) != 2 {
		t.Errorf("expected 2 disputes, got %d", len(page))
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/v1/disputes?skip=10", nil)
	var empty []model.Dispute
	decodeData(t, resp, &empty)
	if len(empty) != 0 {
		t.Errorf("expected empty page, got %d", len(empty))
	}
}

func TestUpdateDispute(t *testing.T) {
	srv, _ := newTestServer(t, &stubOracle{})
	c := createCustomer(t, srv)
	d := createDispute(t, srv, c.ID, nil)

	resp := doJSON(t, http.MethodPut, srv.URL+"/api/v1/disputes/"+d.ID, map[string]any{
		"status":   model.StatusResolved,
		"priority": 4,
	})
	var updated model.Dispute
	decodeData(t, resp, &updated)

	if updated.Status != model.StatusResolved || updated.Priority != 4 {
		t.Errorf("update not applied: %+v", updated)
	}
	if updated.ResolvedAt == nil {
		t.Error("expected ResolvedAt to be set")
	}

	// Empty update is rejected
	resp = doJSON(t, http.MethodPut, srv.URL+"/api/v1/disputes/"+d.ID, map[string]any{})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for empty update, got %d", resp.StatusCode)
	}
}

func TestDeleteDispute(t *testing.T) {
	srv, _ := newTestServer(t, &stubOracle{})
	c := createCustomer(t, srv)
	d := createDispute(t, srv, c.ID, nil)

	resp := doJSON(t, http.MethodDelete, srv.URL+"/api/v1/disputes/"+d.ID, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("expected 204, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/v1/disputes/"+d.ID, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", resp.StatusCode)
	}
}

func TestAnalyzeDispute(t *testing.T) {
	oracle := &stubOracle{judgment: model.AIJudgment{
		Priority:          4,
		PriorityReason:    "high amount, unauthorized",
		ProbableSolutions: []string{"Issue provisional credit"},
		RiskScore:         8,
	}}
	srv, st := newTestServer(t, oracle)
	c := createCustomer(t, srv)
	d := createDispute(t, srv, c.ID, nil)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/disputes/"+d.ID+"/analyze", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 for first analysis, got %d", resp.StatusCode)
	}
	var view struct {
		DisputeID string               `json:"dispute_id"`
		Analysis  model.AnalysisResult `json:"analysis"`
	}
	decodeData(t, resp, &view)

	if view.Analysis.Priority != 4 {
		t.Errorf("expected priority 4, got %d", view.Analysis.Priority)
	}
	// Rules: 50 + 25 (amount) + 15 (new account) + 20 (unauthorized) + 10 (no docs) = 120 -> 100
	if view.Analysis.RiskScore != 100 {
		t.Errorf("expected risk score 100, got %v", view.Analysis.RiskScore)
	}
	if view.Analysis.AIRiskScore != 8 {
		t.Errorf("expected ai risk score 8, got %v", view.Analysis.AIRiskScore)
	}
	if view.Analysis.SimilarCasesCount != 0 {
		t.Errorf("similar cases must be zero, got %d", view.Analysis.SimilarCasesCount)
	}

	// The analysis assigned the priority and persisted an insight
	stored, _ := st.GetDispute(d.ID)
	if stored.Priority != 4 {
		t.Errorf("expected stored priority 4, got %d", stored.Priority)
	}
	if _, found := st.GetInsight(d.ID); !found {
		t.Error("expected insight to be persisted")
	}

	// Re-analyzing returns the stored insight without another oracle call
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/disputes/"+d.ID+"/analyze", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for repeat analysis, got %d", resp.StatusCode)
	}
	resp.Body.Close()
	if oracle.calls != 1 {
		t.Errorf("expected 1 oracle call, got %d", oracle.calls)
	}
}

func TestAnalyzeDispute_OracleFailure(t *testing.T) {
	srv, _ := newTestServer(t, &stubOracle{err: errors.New("provider down")})
	c := createCustomer(t, srv)
	d := createDispute(t, srv, c.ID, nil)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/disputes/"+d.ID+"/analyze", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", resp.StatusCode)
	}

	var env struct {
		Error *apiError `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.Error == nil || env.Error.Code != "ORACLE_UNAVAILABLE" {
		t.Errorf("expected ORACLE_UNAVAILABLE error, got %+v", env.Error)
	}
}

func TestAnalyzeDispute_NotFound(t *testing.T) {
	srv, _ := newTestServer(t, &stubOracle{})

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/disputes/ghost/analyze", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestGetRecommendations(t *testing.T) {
	oracle := &stubOracle{judgment: model.AIJudgment{
		Priority:          5,
		ProbableSolutions: []string{"Contact card network"},
		FollowupQuestions: []string{"Was the card present?"},
	}}
	srv, _ := newTestServer(t, oracle)
	c := createCustomer(t, srv)
	d := createDispute(t, srv, c.ID, nil)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/v1/disputes/"+d.ID+"/recommendations", nil)
	var view struct {
		DisputeID          string   `json:"dispute_id"`
		Priority           int      `json:"priority"`
		RiskScore          float64  `json:"risk_score"`
		RecommendedActions []string `json:"recommended_actions"`
		SLATarget          string   `json:"sla_target"`
		FollowupQuestions  []string `json:"followup_questions"`
		SimilarCases       []string `json:"similar_cases"`
	}
	decodeData(t, resp, &view)

	if view.DisputeID != d.ID {
		t.Errorf("wrong dispute: %s", view.DisputeID)
	}
	if len(view.RecommendedActions) == 0 || view.RecommendedActions[0] != "Escalate to senior analyst" {
		t.Errorf("unexpected actions: %v", view.RecommendedActions)
	}
	if view.SLATarget == "" {
		t.Error("expected SLA target")
	}
	if view.SimilarCases == nil || len(view.SimilarCases) != 0 {
		t.Errorf("similar cases must be an empty list, got %v", view.SimilarCases)
	}
}

func TestGetPriorityAssessment(t *testing.T) {
	// Oracle says 2, rules push the risk band to 5; the final is the max
	oracle := &stubOracle{judgment: model.AIJudgment{Priority: 2, PriorityReason: "routine"}}
	srv, _ := newTestServer(t, oracle)
	c := createCustomer(t, srv)
	d := createDispute(t, srv, c.ID, nil)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/v1/disputes/"+d.ID+"/priority", nil)
	var a analyze.PriorityAssessment
	decodeData(t, resp, &a)

	if a.AIPriority != 2 {
		t.Errorf("expected ai priority 2, got %d", a.AIPriority)
	}
	if a.RiskPriority != 5 {
		t.Errorf("expected risk priority 5, got %d", a.RiskPriority)
	}
	if a.FinalPriority != 5 {
		t.Errorf("expected final priority 5, got %d", a.FinalPriority)
	}
}

func TestInsightLifecycle(t *testing.T) {
	srv, st := newTestServer(t, &stubOracle{})
	c := createCustomer(t, srv)
	d := createDispute(t, srv, c.ID, nil)

	// Nothing stored yet
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/v1/disputes/"+d.ID+"/insights", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 before any insight, got %d", resp.StatusCode)
	}

	// Updating before creating is also a 404
	resp = doJSON(t, http.MethodPut, srv.URL+"/api/v1/disputes/"+d.ID+"/insights", map[string]any{
		"priority": 3,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for update without insight, got %d", resp.StatusCode)
	}

	// Analyst enters an assessment by hand
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/disputes/"+d.ID+"/insights", map[string]any{
		"priority":        3,
		"priority_reason": "manual review",
		"ai_risk_score":   6.5,
		"ai_risk_factors": []string{"repeat merchant"},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var in model.Insight
	decodeData(t, resp, &in)

	if in.Result.Priority != 3 || in.Result.AIRiskScore != 6.5 {
		t.Errorf("judgment fields not carried: %+v", in.Result)
	}
	// The rule outputs are computed just like the analyze pipeline's
	if in.Result.RiskScore != 100 {
		t.Errorf("expected rule risk score 100, got %v", in.Result.RiskScore)
	}
	if len(in.Result.RecommendedActions) == 0 {
		t.Error("expected recommended actions")
	}
	if in.Result.SLATarget.IsZero() {
		t.Error("expected SLA target")
	}

	// Creating the insight assigned the dispute priority
	stored, _ := st.GetDispute(d.ID)
	if stored.Priority != 3 {
		t.Errorf("expected stored priority 3, got %d", stored.Priority)
	}

	// A second create conflicts
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/disputes/"+d.ID+"/insights", map[string]any{
		"priority": 2,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 for duplicate insight, got %d", resp.StatusCode)
	}

	// An update replaces it
	resp = doJSON(t, http.MethodPut, srv.URL+"/api/v1/disputes/"+d.ID+"/insights", map[string]any{
		"priority":        5,
		"priority_reason": "escalated after call",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 for replacement, got %d", resp.StatusCode)
	}
	var replaced model.Insight
	decodeData(t, resp, &replaced)
	if replaced.Result.Priority != 5 {
		t.Errorf("expected priority 5, got %d", replaced.Result.Priority)
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/v1/disputes/"+d.ID+"/insights", nil)
	var fetched model.Insight
	decodeData(t, resp, &fetched)
	if fetched.Result.Priority != 5 || fetched.Result.PriorityReason != "escalated after call" {
		t.Errorf("fetched insight not the replacement: %+v", fetched.Result)
	}
}

func TestInsight_Validation(t *testing.T) {
	srv, _ := newTestServer(t, &stubOracle{})
	c := createCustomer(t, srv)
	d := createDispute(t, srv, c.ID, nil)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"priority too low", map[string]any{"priority": 0}},
		{"priority too high", map[string]any{"priority": 6}},
		{"risk score negative", map[string]any{"priority": 3, "ai_risk_score": -1}},
		{"risk score above scale", map[string]any{"priority": 3, "ai_risk_score": 11}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/disputes/"+d.ID+"/insights", tt.body)
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", resp.StatusCode)
			}
		})
	}
}

func TestCreateInsight_UnknownDispute(t *testing.T) {
	srv, _ := newTestServer(t, &stubOracle{})

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/disputes/ghost/insights", map[string]any{
		"priority": 3,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestAnalyzeDispute_ReturnsManualInsight(t *testing.T) {
	oracle := &stubOracle{judgment: model.AIJudgment{Priority: 4}}
	srv, _ := newTestServer(t, oracle)
	c := createCustomer(t, srv)
	d := createDispute(t, srv, c.ID, nil)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/disputes/"+d.ID+"/insights", map[string]any{
		"priority": 2,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// A stored manual insight short-circuits the oracle too
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/disputes/"+d.ID+"/analyze", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()
	if oracle.calls != 0 {
		t.Errorf("expected no oracle calls, got %d", oracle.calls)
	}
}

func TestNotes(t *testing.T) {
	srv, _ := newTestServer(t, &stubOracle{})
	c := createCustomer(t, srv)
	d := createDispute(t, srv, c.ID, nil)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/disputes/"+d.ID+"/notes", map[string]any{
		"content": "customer called, very upset",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Empty content is rejected
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/disputes/"+d.ID+"/notes", map[string]any{})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for empty note, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/v1/disputes/"+d.ID+"/notes", nil)
	var notes []model.Note
	decodeData(t, resp, &notes)
	if len(notes) != 1 || notes[0].Content != "customer called, very upset" {
		t.Errorf("unexpected notes: %v", notes)
	}
}

func TestDashboardMetrics(t *testing.T) {
	srv, _ := newTestServer(t, &stubOracle{})
	c := createCustomer(t, srv)
	createDispute(t, srv, c.ID, nil)
	createDispute(t, srv, c.ID, map[string]any{"category": "Fraud"})

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/v1/metrics/dashboard", nil)
	var m store.DashboardMetrics
	decodeData(t, resp, &m)

	if m.TotalDisputes != 2 {
		t.Errorf("expected 2 disputes, got %d", m.TotalDisputes)
	}
	if m.PendingCount != 2 {
		t.Errorf("expected 2 pending, got %d", m.PendingCount)
	}
	if m.DisputesByCategory["Fraud"] != 1 {
		t.Errorf("unexpected category counts: %v", m.DisputesByCategory)
	}
}
