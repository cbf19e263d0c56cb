package model

import "time"

// Dispute lifecycle statuses
const (
	StatusOpen        = "Open"
	StatusUnderReview = "Under Review"
	StatusResolved    = "Resolved"
)

// ValidStatus reports whether s is a recognized dispute status.
func ValidStatus(s string) bool {
	switch s {
	case StatusOpen, StatusUnderReview, StatusResolved:
		return true
	}
	return false
}

// Customer represents an account holder who can file disputes
type Customer struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	AccountType  string    `json:"account_type"`  // "Individual", "Business", "VIP"
	DisputeCount int       `json:"dispute_count"` // running counter, incremented on each filing
	CreatedAt    time.Time `json:"created_at"`
}

// Dispute is a customer's formal challenge to a transaction
type Dispute struct {
	ID                     string     `json:"id"`
	CustomerID             string     `json:"customer_id"`
	TransactionID          string     `json:"transaction_id"`
	MerchantName           string     `json:"merchant_name"`
	Amount                 float64    `json:"amount"`
	Description            string     `json:"description"`
	Category               string     `json:"category"`
	HasSupportingDocuments bool       `json:"has_supporting_documents"`
	Status                 string     `json:"status"`
	Priority               int        `json:"priority,omitempty"` // 1 (lowest) to 5 (highest), 0 = unassigned
	CreatedAt              time.Time  `json:"created_at"`
	ResolvedAt             *time.Time `json:"resolved_at,omitempty"`
}

// Note is a free-text annotation attached to a dispute by an analyst
type Note struct {
	ID        string    `json:"id"`
	DisputeID string    `json:"dispute_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// DisputeData is the flattened, read-only record the analyzer consumes.
// The numeric fields drive deterministic scoring; the rest is context
// passed through to the judgment oracle. Zero values are the neutral
// defaults; the analyzer never fails on an absent field.
type DisputeData struct {
	DisputeID          string `json:"dispute_id,omitempty"`
	CustomerID         string `json:"customer_id,omitempty"`
	CustomerName       string `json:"customer_name,omitempty"`
	CustomerType       string `json:"customer_type,omitempty"`
	TransactionID      string `json:"transaction_id,omitempty"`
	MerchantName       string `json:"merchant_name,omitempty"`
	TransactionDate    string `json:"transaction_date,omitempty"`
	DisputeDate        string `json:"dispute_date,omitempty"`
	DisputeDescription string `json:"dispute_description,omitempty"`

	TransactionAmount      float64 `json:"transaction_amount"`
	Category               string  `json:"category"`
	PreviousDisputesCount  int     `json:"previous_disputes_count"`
	CustomerAccountAgeDays int     `json:"customer_account_age_days"`
	HasSupportingDocuments bool    `json:"has_supporting_documents"`
}

// BuildDisputeData assembles the analyzer input from stored records.
// Account age is measured from the customer's creation date to now.
func BuildDisputeData(d Dispute, c Customer, now time.Time) DisputeData {
	return DisputeData{
		DisputeID:              d.ID,
		CustomerID:             c.ID,
		CustomerName:           c.Name,
		CustomerType:           c.AccountType,
		TransactionID:          d.TransactionID,
		MerchantName:           d.MerchantName,
		TransactionDate:        d.CreatedAt.UTC().Format(time.RFC3339),
		DisputeDate:            d.CreatedAt.UTC().Format(time.RFC3339),
		DisputeDescription:     d.Description,
		TransactionAmount:      d.Amount,
		Category:               d.Category,
		PreviousDisputesCount:  c.DisputeCount,
		CustomerAccountAgeDays: int(now.Sub(c.CreatedAt).Hours() / 24),
		HasSupportingDocuments: d.HasSupportingDocuments,
	}
}
