package campaigns

import "fmt"

// Distribute fills integer workload percentages so they sum to exactly
// 100 for any non-empty assignee list. The first len%n assignees absorb
// the rounding surplus, so the split is deterministic for a given order.
func Distribute(assignees []Assignee) []Assignee {
	n := len(assignees)
	if n == 0 {
		return assignees
	}
	base := 100 / n
	remainder := 100 - base*n

	out := make([]Assignee, n)
	copy(out, assignees)
	for i := range out {
		out[i].Percentage = base
		if i < remainder {
			out[i].Percentage++
		}
	}
	return out
}

// SetPercentage applies a manual override for one assignee, clamped to
// [0,100]. The other shares are left alone, so the sum may no longer
// be 100; that is surfaced through Imbalance, not corrected here.
func SetPercentage(assignees []Assignee, userRef string, value int) ([]Assignee, error) {
	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}
	out := make([]Assignee, len(assignees))
	copy(out, assignees)
	for i := range out {
		if out[i].UserRef == userRef {
			out[i].Percentage = value
			return out, nil
		}
	}
	return nil, ErrAssigneeNotFound
}

// ImbalanceError is the advisory raised when manual-rule shares do not
// sum to 100. It never blocks saving a draft, only publishing.
type ImbalanceError struct {
	Sum int
}

func (e *ImbalanceError) Error() string {
	return fmt.Sprintf("assignee percentages sum to %d, need 100 (delta %+d)", e.Sum, 100-e.Sum)
}

func (e *ImbalanceError) Is(target error) bool {
	return target == ErrPercentageImbalance
}

// Imbalance returns the advisory imbalance state for the campaign, or
// nil when the shares are consistent or the rule is not manual.
func (c *Campaign) Imbalance() *ImbalanceError {
	if c.AssignmentRule != RuleManual || len(c.Assignees) == 0 {
		return nil
	}
	sum := 0
	for _, a := range c.Assignees {
		sum += a.Percentage
	}
	if sum == 100 {
		return nil
	}
	return &ImbalanceError{Sum: sum}
}

// validateActivation gates the publish transition on the workload split.
func validateActivation(c *Campaign) error {
	if imb := c.Imbalance(); imb != nil {
		return imb
	}
	return nil
}
