// Package store provides thread-safe, in-memory storage for dispute
// case management.
//
// The secondary index (disputes by customer) keeps customer views fast
// while listings remain linear scans over a typically small map. A
// production deployment would swap this for a relational store; the
// analyzer itself never touches storage.
package store

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"disputewise/internal/model"
)

// Sentinel errors returned by store operations
var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrDisputeNotFound  = errors.New("dispute not found")
	ErrDuplicateID      = errors.New("record already exists")
)

// Store is a thread-safe in-memory data store.
type Store struct {
	mu sync.RWMutex

	customers map[string]*model.Customer
	disputes  map[string]*model.Dispute
	notes     map[string][]*model.Note    // dispute ID → notes
	insights  map[string]*model.Insight   // dispute ID → stored analysis
	byCust    map[string][]string         // customer ID → dispute IDs
}

// New creates an empty, ready-to-use Store.
func New() *Store {
	return &Store{
		customers: make(map[string]*model.Customer),
		disputes:  make(map[string]*model.Dispute),
		notes:     make(map[string][]*model.Note),
		insights:  make(map[string]*model.Insight),
		byCust:    make(map[string][]string),
	}
}

// ─── Customers ────────────────────────────────────────────────────────────────

// CreateCustomer persists a new customer.
func (s *Store) CreateCustomer(c *model.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.customers[c.ID]; exists {
		return ErrDuplicateID
	}
	s.customers[c.ID] = c
	return nil
}

// GetCustomer retrieves a customer by ID.
func (s *Store) GetCustomer(id string) (*model.Customer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.customers[id]
	return c, ok
}

// ListCustomers returns all customers, newest first.
func (s *Store) ListCustomers() []*model.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// CustomerUpdate carries the mutable customer fields. Nil pointers
// leave the field unchanged.
type CustomerUpdate struct {
	Name        *string
	Email       *string
	AccountType *string
}

// UpdateCustomer applies an update to an existing customer.
func (s *Store) UpdateCustomer(id string, u CustomerUpdate) (*model.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.customers[id]
	if !ok {
		return nil, ErrCustomerNotFound
	}

	if u.Name != nil {
		c.Name = *u.Name
	}
	if u.Email != nil {
		c.Email = *u.Email
	}
	if u.AccountType != nil {
		c.AccountType = *u.AccountType
	}
	return c, nil
}

// DeleteCustomer removes a customer and cascades to their disputes,
// notes, and insights.
func (s *Store) DeleteCustomer(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.customers[id]; !ok {
		return ErrCustomerNotFound
	}

	for _, did := range s.byCust[id] {
		delete(s.disputes, did)
		delete(s.notes, did)
		delete(s.insights, did)
	}
	delete(s.byCust, id)
	delete(s.customers, id)
	return nil
}

// ─── Disputes ─────────────────────────────────────────────────────────────────

// CreateDispute persists a dispute and increments the owning customer's
// running dispute counter.
func (s *Store) CreateDispute(d *model.Dispute) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.customers[d.CustomerID]
	if !ok {
		return ErrCustomerNotFound
	}
	if _, exists := s.disputes[d.ID]; exists {
		return ErrDuplicateID
	}

	s.disputes[d.ID] = d
	s.byCust[d.CustomerID] = append(s.byCust[d.CustomerID], d.ID)
	c.DisputeCount++
	return nil
}

// GetDispute retrieves a single dispute by ID.
func (s *Store) GetDispute(id string) (*model.Dispute, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.disputes[id]
	return d, ok
}

// DisputeFilter narrows ListDisputes results. Zero values match all.
type DisputeFilter struct {
	Status   string
	Priority int
	Category string
}

// ListDisputes returns disputes matching the filter, priority first
// (unassigned last) then newest first.
func (s *Store) ListDisputes(f DisputeFilter) []*model.Dispute {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*model.Dispute{}
	for _, d := range s.disputes {
		if f.Status != "" && d.Status != f.Status {
			continue
		}
		if f.Priority != 0 && d.Priority != f.Priority {
			continue
		}
		if f.Category != "" && !strings.EqualFold(d.Category, f.Category) {
			continue
		}
		out = append(out, d)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// ListDisputesByCustomer returns a customer's disputes, newest first.
func (s *Store) ListDisputesByCustomer(customerID string) []*model.Dispute {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byCust[customerID]
	out := make([]*model.Dispute, 0, len(ids))
	for _, id := range ids {
		if d, ok := s.disputes[id]; ok {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// DisputeUpdate carries the mutable dispute fields. Nil pointers leave
// the field unchanged.
type DisputeUpdate struct {
	Status      *string
	Priority    *int
	Description *string
}

// UpdateDispute applies an update, stamping ResolvedAt on the first
// transition to resolved.
func (s *Store) UpdateDispute(id string, u DisputeUpdate) (*model.Dispute, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.disputes[id]
	if !ok {
		return nil, ErrDisputeNotFound
	}

	if u.Status != nil {
		d.Status = *u.Status
		if *u.Status == model.StatusResolved && d.ResolvedAt == nil {
			now := time.Now().UTC()
			d.ResolvedAt = &now
		}
	}
	if u.Priority != nil {
		d.Priority = *u.Priority
	}
	if u.Description != nil {
		d.Description = *u.Description
	}
	return d, nil
}

// SetDisputePriority records the priority assigned by an analysis.
func (s *Store) SetDisputePriority(id string, priority int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.disputes[id]
	if !ok {
		return ErrDisputeNotFound
	}
	d.Priority = priority
	return nil
}

// DeleteDispute removes a dispute along with its notes and insight.
func (s *Store) DeleteDispute(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.disputes[id]
	if !ok {
		return ErrDisputeNotFound
	}

	delete(s.disputes, id)
	delete(s.notes, id)
	delete(s.insights, id)

	ids := s.byCust[d.CustomerID]
	for i, did := range ids {
		if did == id {
			s.byCust[d.CustomerID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

// ─── Notes ────────────────────────────────────────────────────────────────────

// AddNote attaches an analyst note to a dispute.
func (s *Store) AddNote(n *model.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.disputes[n.DisputeID]; !ok {
		return ErrDisputeNotFound
	}
	s.notes[n.DisputeID] = append(s.notes[n.DisputeID], n)
	return nil
}

// ListNotes returns a dispute's notes in insertion order.
func (s *Store) ListNotes(disputeID string) []*model.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*model.Note{}, s.notes[disputeID]...)
}

// ─── Insights ─────────────────────────────────────────────────────────────────

// SaveInsight stores the analysis result for a dispute, replacing any
// previous one.
func (s *Store) SaveInsight(in *model.Insight) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.disputes[in.DisputeID]; !ok {
		return ErrDisputeNotFound
	}
	s.insights[in.DisputeID] = in
	return nil
}

// GetInsight retrieves the stored analysis for a dispute.
func (s *Store) GetInsight(disputeID string) (*model.Insight, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	in, ok := s.insights[disputeID]
	return in, ok
}

// ─── Dashboard metrics ────────────────────────────────────────────────────────

// DashboardMetrics aggregates case counts for the operations dashboard.
type DashboardMetrics struct {
	TotalDisputes      int            `json:"total_disputes"`
	HighPriorityCount  int            `json:"high_priority_count"` // priority >= 4
	PendingCount       int            `json:"pending_count"`       // not resolved
	ResolvedToday      int            `json:"resolved_today"`
	DisputesByCategory map[string]int `json:"disputes_by_category"`
	DisputesByStatus   map[string]int `json:"disputes_by_status"`
	DisputesByPriority map[int]int    `json:"disputes_by_priority"`
}

// Metrics computes dashboard aggregates over all disputes.
func (s *Store) Metrics(now time.Time) DashboardMetrics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m := DashboardMetrics{
		DisputesByCategory: make(map[string]int),
		DisputesByStatus:   make(map[string]int),
		DisputesByPriority: make(map[int]int),
	}

	today := now.UTC().Truncate(24 * time.Hour)
	for _, d := range s.disputes {
		m.TotalDisputes++
		m.DisputesByCategory[d.Category]++
		m.DisputesByStatus[d.Status]++
		m.DisputesByPriority[d.Priority]++

		if d.Priority >= 4 {
			m.HighPriorityCount++
		}
		if d.Status != model.StatusResolved {
			m.PendingCount++
		}
		if d.ResolvedAt != nil && !d.ResolvedAt.UTC().Before(today) {
			m.ResolvedToday++
		}
	}
	return m
}
