package analyze

import (
	"context"
	"fmt"

	"disputewise/internal/model"
)

// PriorityAssessment reconciles the oracle's priority with the
// rule-based risk score.
type PriorityAssessment struct {
	FinalPriority  int     `json:"final_priority"`
	AIPriority     int     `json:"ai_priority"`
	RiskPriority   int     `json:"risk_priority"`
	RiskScore      float64 `json:"risk_score"`
	PriorityReason string  `json:"priority_reason"`
}

// PriorityService computes the final case priority: the higher of the
// oracle's judgment and the risk-band-derived level.
type PriorityService struct {
	analyzer *Analyzer
}

// NewPriorityService creates a priority service backed by the analyzer
func NewPriorityService(a *Analyzer) *PriorityService {
	return &PriorityService{analyzer: a}
}

// Assess runs a full analysis and reconciles the two priority signals
func (s *PriorityService) Assess(ctx context.Context, dispute model.DisputeData) (*PriorityAssessment, error) {
	result, err := s.analyzer.Analyze(ctx, dispute)
	if err != nil {
		return nil, fmt.Errorf("analyze dispute: %w", err)
	}
	return AssessFromResult(result), nil
}

// AssessFromResult derives the assessment from an existing analysis,
// avoiding a second oracle call when the result is already stored.
func AssessFromResult(result *model.AnalysisResult) *PriorityAssessment {
	riskPriority := riskBandPriority(result.RiskScore)
	final := result.Priority
	if riskPriority > final {
		final = riskPriority
	}

	return &PriorityAssessment{
		FinalPriority:  final,
		AIPriority:     result.Priority,
		RiskPriority:   riskPriority,
		RiskScore:      result.RiskScore,
		PriorityReason: result.PriorityReason,
	}
}

// riskBandPriority converts a 0-100 risk score to a priority level
func riskBandPriority(score float64) int {
	switch {
	case score >= 80:
		return 5
	case score >= 65:
		return 4
	case score >= 50:
		return 3
	case score >= 35:
		return 2
	default:
		return 1
	}
}
