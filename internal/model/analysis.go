package model

import "time"

// AnalysisResult is the merged output of one dispute analysis: the
// oracle's judgment plus the deterministic rule outputs. Both risk
// scores are preserved under distinct names because they use different
// units (oracle 0-10, rules 0-100) and are computed independently.
type AnalysisResult struct {
	Priority       int    `json:"priority"`
	PriorityReason string `json:"priority_reason"`

	Insights          string   `json:"insights"`
	FollowupQuestions []string `json:"followup_questions"`
	ProbableSolutions []string `json:"probable_solutions"`
	PossibleReasons   []string `json:"possible_reasons"`

	AIRiskScore   float64  `json:"ai_risk_score"`   // oracle estimate, 0-10
	AIRiskFactors []string `json:"ai_risk_factors"` // oracle labels

	RiskScore   float64  `json:"risk_score"`   // rule-based, 0-100
	RiskFactors []string `json:"risk_factors"` // rule labels, in evaluation order

	RecommendedActions []string  `json:"recommended_actions"` // at most 5, unique
	SLATarget          time.Time `json:"sla_target"`

	// SimilarCasesCount is reserved for a future similar-case lookup
	// and is always zero.
	SimilarCasesCount int `json:"similar_cases_count"`
}

// Insight is a persisted analysis result attached to a dispute.
// At most one insight exists per dispute; re-analyzing returns the
// stored one instead of re-querying the oracle.
type Insight struct {
	ID        string         `json:"id"`
	DisputeID string         `json:"dispute_id"`
	Result    AnalysisResult `json:"result"`
	CreatedAt time.Time      `json:"created_at"`
}
