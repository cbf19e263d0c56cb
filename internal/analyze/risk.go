// Package analyze implements the dispute risk/priority scoring and
// recommendation engine: a deterministic rule-based risk model combined
// with an external AI judgment, producing a final priority, SLA
// deadline, and recommended action list.
package analyze

import (
	"math"
	"strings"

	"disputewise/internal/model"
)

// Scoring starts from a neutral baseline; every rule only adds points.
const baselineRiskScore = 50.0

// RiskScorer computes the deterministic rule-based risk score.
// It is stateless: the same input always produces the same score.
type RiskScorer struct{}

// NewRiskScorer creates a new risk scorer
func NewRiskScorer() *RiskScorer {
	return &RiskScorer{}
}

// Score maps a dispute record to a risk score on a 0-100 scale plus
// the list of contributing factor labels, in rule-evaluation order.
// Absent fields carry their zero values and simply fail the threshold
// checks; the function never errors.
func (s *RiskScorer) Score(d model.DisputeData) (float64, []string) {
	factors := []string{}
	score := baselineRiskScore

	// Transaction amount risk. Tiers are mutually exclusive: only the
	// highest matching tier contributes.
	switch amount := d.TransactionAmount; {
	case amount > 10000:
		score += 25
		factors = append(factors, "High transaction amount (>$10k)")
	case amount > 5000:
		score += 15
		factors = append(factors, "Medium-high transaction amount (>$5k)")
	case amount > 1000:
		score += 5
		factors = append(factors, "Moderate transaction amount (>$1k)")
	}

	// Customer history risk
	switch disputes := d.PreviousDisputesCount; {
	case disputes > 5:
		score += 20
		factors = append(factors, "Frequent disputer (>5 disputes)")
	case disputes > 2:
		score += 10
		factors = append(factors, "Multiple previous disputes (>2)")
	}

	// Account age risk
	switch age := d.CustomerAccountAgeDays; {
	case age < 30:
		score += 15
		factors = append(factors, "New account (<30 days)")
	case age < 365:
		score += 5
		factors = append(factors, "Relatively new account (<1 year)")
	}

	// Category risk: fraud takes precedence over unauthorized, never both
	category := strings.ToLower(d.Category)
	if strings.Contains(category, "fraud") {
		score += 30
		factors = append(factors, "Fraud-related category")
	} else if strings.Contains(category, "unauthorized") {
		score += 20
		factors = append(factors, "Unauthorized transaction")
	}

	// Document status: absent is treated the same as false
	if !d.HasSupportingDocuments {
		score += 10
		factors = append(factors, "Missing supporting documents")
	}

	// Clamp to [0, 100] and round to two decimals
	score = math.Max(0, math.Min(100, score))
	score = math.Round(score*100) / 100

	return score, factors
}
