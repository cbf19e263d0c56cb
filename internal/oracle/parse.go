package oracle

import (
	"encoding/json"
	"strings"

	"disputewise/internal/model"
)

// priorityJudgment is the wire shape of the priority call
type priorityJudgment struct {
	PriorityLevel  int    `json:"priority_level"`
	PriorityReason string `json:"priority_reason"`
}

// insightsJudgment is the wire shape of the insights call
type insightsJudgment struct {
	Insights          string     `json:"insights"`
	FollowupQuestions stringList `json:"followup_questions"`
	ProbableSolutions stringList `json:"probable_solutions"`
	PossibleReasons   stringList `json:"possible_reasons"`
	RiskScore         float64    `json:"risk_score"`
	RiskFactors       stringList `json:"risk_factors"`
}

// stringList tolerates providers that return a bare string where a
// list was requested. A string becomes a one-element list; null and
// invalid values become empty.
type stringList []string

func (s *stringList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = list
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == "" {
			*s = nil
		} else {
			*s = []string{single}
		}
		return nil
	}
	*s = nil
	return nil
}

// extractJSON pulls the outermost JSON object out of chat text.
// Providers occasionally wrap JSON in prose or code fences.
func extractJSON(text string) []byte {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil
	}
	return []byte(text[start : end+1])
}

// decodePriority parses the priority response. Malformed content
// degrades to zero values rather than an error.
func decodePriority(text string) priorityJudgment {
	var p priorityJudgment
	if raw := extractJSON(text); raw != nil {
		_ = json.Unmarshal(raw, &p)
	}
	return p
}

// decodeInsights parses the insights response with the same defaulting
func decodeInsights(text string) insightsJudgment {
	var in insightsJudgment
	if raw := extractJSON(text); raw != nil {
		_ = json.Unmarshal(raw, &in)
	}
	return in
}

// mergeJudgment combines the two call results into one AIJudgment
func mergeJudgment(p priorityJudgment, in insightsJudgment) *model.AIJudgment {
	j := &model.AIJudgment{
		Priority:          p.PriorityLevel,
		PriorityReason:    p.PriorityReason,
		Insights:          in.Insights,
		FollowupQuestions: in.FollowupQuestions,
		ProbableSolutions: in.ProbableSolutions,
		PossibleReasons:   in.PossibleReasons,
		RiskScore:         in.RiskScore,
		RiskFactors:       in.RiskFactors,
	}
	j.Normalize()
	return j
}
