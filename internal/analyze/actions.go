package analyze

import "disputewise/internal/model"

// maxRecommendedActions caps the action list
const maxRecommendedActions = 5

// Recommender produces the recommended next-action list from the
// oracle's priority, the rule-based risk score, and the oracle's
// suggested solutions.
type Recommender struct{}

// NewRecommender creates a new recommender
func NewRecommender() *Recommender {
	return &Recommender{}
}

// Recommend returns at most 5 unique actions. Candidates accumulate in
// rule order; deduplication keeps the first occurrence, so truncation
// is deterministic: escalation actions outrank risk flags, which
// outrank the oracle's solutions.
func (r *Recommender) Recommend(judgment model.AIJudgment, riskScore float64) []string {
	var actions []string

	// Priority-driven actions, high tier exclusive of medium
	switch {
	case judgment.Priority >= 4:
		actions = append(actions,
			"Escalate to senior analyst",
			"Request urgent documentation",
			"Initiate fraud investigation",
		)
	case judgment.Priority >= 3:
		actions = append(actions,
			"Schedule customer interview",
			"Verify transaction details with merchant",
			"Review account history",
		)
	}

	// Risk-driven actions; both thresholds can fire together
	if riskScore > 70 {
		actions = append(actions, "Flag account for enhanced monitoring")
	}
	if riskScore > 80 {
		actions = append(actions, "Notify compliance department")
	}

	// Oracle-suggested resolutions come last
	actions = append(actions, judgment.ProbableSolutions...)

	return dedupeCapped(actions, maxRecommendedActions)
}

// dedupeCapped removes duplicates preserving first-seen order, then
// truncates to max entries.
func dedupeCapped(actions []string, max int) []string {
	seen := make(map[string]bool, len(actions))
	unique := []string{}
	for _, a := range actions {
		if seen[a] {
			continue
		}
		seen[a] = true
		unique = append(unique, a)
		if len(unique) == max {
			break
		}
	}
	return unique
}
