package model

// AIJudgment is the structured output of the judgment oracle.
// It is treated as untrusted input: any field the oracle omits or
// mangles is coerced to its zero value, never to an error.
type AIJudgment struct {
	// Priority is the oracle's urgency rank, nominally 1 (lowest) to
	// 5 (highest). The oracle is not clamped to that range; the SLA
	// table treats anything outside it as priority-unknown.
	Priority       int    `json:"priority"`
	PriorityReason string `json:"priority_reason"`

	Insights          string   `json:"insights"`
	FollowupQuestions []string `json:"followup_questions"`
	ProbableSolutions []string `json:"probable_solutions"`
	PossibleReasons   []string `json:"possible_reasons"`

	// RiskScore is the oracle's own estimate on a 0-10 scale. This is a
	// different unit from the rule-based 0-100 score and the two are
	// kept separate in AnalysisResult.
	RiskScore   float64  `json:"risk_score"`
	RiskFactors []string `json:"risk_factors"`
}

// Normalize replaces nil list fields with empty slices so a judgment
// always serializes with arrays, never null.
func (j *AIJudgment) Normalize() {
	if j.FollowupQuestions == nil {
		j.FollowupQuestions = []string{}
	}
	if j.ProbableSolutions == nil {
		j.ProbableSolutions = []string{}
	}
	if j.PossibleReasons == nil {
		j.PossibleReasons = []string{}
	}
	if j.RiskFactors == nil {
		j.RiskFactors = []string{}
	}
}
