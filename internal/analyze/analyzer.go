package analyze

import (
	"context"
	"fmt"

	"disputewise/internal/model"
	"disputewise/internal/oracle"
)

// Analyzer orchestrates one dispute analysis: oracle judgment, rule
// scoring, action recommendation, and SLA calculation, merged into a
// single result. It is stateless and safe for concurrent use; the
// oracle is the only blocking dependency.
type Analyzer struct {
	oracle      oracle.Oracle
	scorer      *RiskScorer
	recommender *Recommender
	sla         *SLACalculator
}

// New creates an analyzer using the given judgment oracle
func New(o oracle.Oracle) *Analyzer {
	return &Analyzer{
		oracle:      o,
		scorer:      NewRiskScorer(),
		recommender: NewRecommender(),
		sla:         NewSLACalculator(),
	}
}

// Analyze runs the full pipeline for one dispute. An oracle failure is
// returned to the caller; the deterministic steps cannot fail. When the
// oracle call succeeds the result is always fully populated: missing
// judgment fields arrive already defaulted, never as an error.
func (a *Analyzer) Analyze(ctx context.Context, dispute model.DisputeData) (*model.AnalysisResult, error) {
	if a.oracle == nil {
		return nil, fmt.Errorf("no judgment oracle configured")
	}

	judgment, err := a.oracle.Judge(ctx, dispute)
	if err != nil {
		return nil, fmt.Errorf("oracle judgment: %w", err)
	}
	return a.Compose(*judgment, dispute), nil
}

// Compose merges a judgment with the deterministic rule outputs for the
// dispute. The judgment may come from the oracle or from an analyst
// entering an assessment by hand; either way the rule scoring, action
// recommendation, and SLA steps run the same.
func (a *Analyzer) Compose(judgment model.AIJudgment, dispute model.DisputeData) *model.AnalysisResult {
	judgment.Normalize()

	riskScore, riskFactors := a.scorer.Score(dispute)
	actions := a.recommender.Recommend(judgment, riskScore)
	slaTarget := a.sla.Target(judgment.Priority)

	return &model.AnalysisResult{
		Priority:          judgment.Priority,
		PriorityReason:    judgment.PriorityReason,
		Insights:          judgment.Insights,
		FollowupQuestions: judgment.FollowupQuestions,
		ProbableSolutions: judgment.ProbableSolutions,
		PossibleReasons:   judgment.PossibleReasons,

		AIRiskScore:   judgment.RiskScore,
		AIRiskFactors: judgment.RiskFactors,

		RiskScore:   riskScore,
		RiskFactors: riskFactors,

		RecommendedActions: actions,
		SLATarget:          slaTarget,
		SimilarCasesCount:  0,
	}
}
