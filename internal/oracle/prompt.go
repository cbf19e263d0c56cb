package oracle

import (
	"fmt"

	"disputewise/internal/model"
)

// BuildPriorityPrompt renders the priority-judgment prompt. The
// response contract is spelled out inline because providers return
// free-form JSON rather than schema-validated output.
func BuildPriorityPrompt(d model.DisputeData) string {
	docs := "No"
	if d.HasSupportingDocuments {
		docs = "Yes"
	}

	return fmt.Sprintf(`You are a banking dispute resolution expert. Analyze this dispute and assign a priority level.

Customer Profile:
- Name: %s
- Type: %s
- Previous Disputes: %d
- Account Age: %d days

Dispute Details:
- Amount: $%.2f
- Category: %s
- Description: %s
- Documents Available: %s

Priority Guidelines:
1 (Very Low) - Routine inquiry, low amount, established customer
2 (Low) - Minor discrepancy, medium amount
3 (Medium) - Significant amount, unclear details
4 (High) - Potential fraud indicators, large amount
5 (Critical) - Clear fraud pattern, VIP customer, legal implications

Respond with a single JSON object and nothing else:
{"priority_level": <integer 1-5>, "priority_reason": "<concise reason for the assignment>"}`,
		d.CustomerName, d.CustomerType, d.PreviousDisputesCount, d.CustomerAccountAgeDays,
		d.TransactionAmount, d.Category, d.DisputeDescription, docs)
}

// BuildInsightsPrompt renders the insight-judgment prompt
func BuildInsightsPrompt(d model.DisputeData) string {
	return fmt.Sprintf(`As a senior dispute analyst, provide detailed insights for this case:

Customer Background:
- Member since: %d days
- Past disputes: %d
- Account type: %s

Transaction Details:
- Date: %s
- Merchant: %s
- Amount: $%.2f
- Description: %s

Analysis Requirements:
1. Identify key patterns or anomalies
2. List 5 relevant follow-up questions for the customer, phrased in neutral, non-accusatory language
3. Suggest 3 probable resolution paths
4. List possible reasons that might have caused the dispute
5. Estimate a risk score from 0 (lowest) to 10 (highest) with up to 3 contributing factors (empty if low risk)

Respond with a single JSON object and nothing else:
{"insights": "<detailed insights>", "followup_questions": [...], "probable_solutions": [...], "possible_reasons": [...], "risk_score": <number 0-10>, "risk_factors": [...]}`,
		d.CustomerAccountAgeDays, d.PreviousDisputesCount, d.CustomerType,
		d.TransactionDate, d.MerchantName, d.TransactionAmount, d.DisputeDescription)
}
