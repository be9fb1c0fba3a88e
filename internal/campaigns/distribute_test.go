package campaigns

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func members(n int) []Assignee {
	out := make([]Assignee, n)
	for i := range out {
		out[i] = Assignee{UserRef: fmt.Sprintf("user-%d", i), Role: RoleMember}
	}
	return out
}

func TestDistributeSumsToHundred(t *testing.T) {
	for n := 1; n <= 17; n++ {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			got := Distribute(members(n))
			sum := 0
			for _, a := range got {
				sum += a.Percentage
			}
			assert.Equal(t, 100, sum)
		})
	}
}

func TestDistributeRemainderGoesFirst(t *testing.T) {
	got := Distribute(members(3))
	assert.Equal(t, 34, got[0].Percentage)
	assert.Equal(t, 33, got[1].Percentage)
	assert.Equal(t, 33, got[2].Percentage)

	got = Distribute(members(6))
	for i, a := range got {
		if i < 4 {
			assert.Equal(t, 17, a.Percentage, "index %d", i)
		} else {
			assert.Equal(t, 16, a.Percentage, "index %d", i)
		}
	}
}

func TestDistributeDeterministic(t *testing.T) {
	in := members(7)
	first := Distribute(in)
	second := Distribute(in)
	assert.Equal(t, first, second)
}

func TestDistributeEmptyUnchanged(t *testing.T) {
	assert.Empty(t, Distribute(nil))
}

func TestDistributeDoesNotMutateInput(t *testing.T) {
	in := members(3)
	_ = Distribute(in)
	for _, a := range in {
		assert.Zero(t, a.Percentage)
	}
}

func TestSetPercentageClamps(t *testing.T) {
	in := Distribute(members(2))

	out, err := SetPercentage(in, "user-0", 150)
	assert.NoError(t, err)
	assert.Equal(t, 100, out[0].Percentage)

	out, err = SetPercentage(in, "user-1", -5)
	assert.NoError(t, err)
	assert.Equal(t, 0, out[1].Percentage)
}

func TestSetPercentageDoesNotRebalance(t *testing.T) {
	in := Distribute(members(2)) // 50/50
	out, err := SetPercentage(in, "user-0", 80)
	assert.NoError(t, err)
	assert.Equal(t, 80, out[0].Percentage)
	assert.Equal(t, 50, out[1].Percentage)
}

func TestSetPercentageUnknownUser(t *testing.T) {
	_, err := SetPercentage(members(2), "ghost", 10)
	assert.ErrorIs(t, err, ErrAssigneeNotFound)
}

func TestImbalance(t *testing.T) {
	c := &Campaign{AssignmentRule: RuleManual, Assignees: Distribute(members(4))}
	assert.Nil(t, c.Imbalance())

	c.Assignees, _ = SetPercentage(c.Assignees, "user-0", 10)
	imb := c.Imbalance()
	if assert.NotNil(t, imb) {
		assert.Equal(t, 85, imb.Sum)
		assert.Contains(t, imb.Error(), "85")
		assert.Contains(t, imb.Error(), "+15")
	}

	// Non-manual rules never raise the advisory.
	c.AssignmentRule = RuleEqual
	assert.Nil(t, c.Imbalance())

	// Empty assignee lists are fine even under the manual rule.
	c.AssignmentRule = RuleManual
	c.Assignees = nil
	assert.Nil(t, c.Imbalance())
}
