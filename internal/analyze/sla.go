package analyze

import "time"

// slaDaysByPriority maps priority level to resolution lead time in days
var slaDaysByPriority = map[int]int{
	1: 14,
	2: 10,
	3: 7,
	4: 3,
	5: 1,
}

// defaultSLADays applies to any priority outside the table, including
// the unassigned value 0.
const defaultSLADays = 14

// SLACalculator maps priority to a target resolution deadline.
type SLACalculator struct {
	now func() time.Time
}

// NewSLACalculator creates a calculator using the wall clock
func NewSLACalculator() *SLACalculator {
	return &SLACalculator{now: time.Now}
}

// Target returns the UTC deadline for resolving a dispute of the given
// priority, measured from now.
func (c *SLACalculator) Target(priority int) time.Time {
	days, ok := slaDaysByPriority[priority]
	if !ok {
		days = defaultSLADays
	}
	return c.now().UTC().Add(time.Duration(days) * 24 * time.Hour)
}
