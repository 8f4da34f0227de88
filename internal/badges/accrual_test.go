package badges

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccrue_Milestones(t *testing.T) {
	cases := []struct {
		name       string
		count      int
		prior      []string
		wantCount  int
		wantBadges []string
	}{
		{"first donation", 0, nil, 1, []string{FirstTimeHero}},
		{"second donation", 1, []string{FirstTimeHero}, 2, []string{FirstTimeHero}},
		{"third donation", 2, []string{FirstTimeHero}, 3, []string{FirstTimeHero, BronzeDonor}},
		{"tenth donation", 9, []string{FirstTimeHero, BronzeDonor}, 10, []string{FirstTimeHero, BronzeDonor, SilverDonor}},
		{"past last milestone", 10, []string{FirstTimeHero, BronzeDonor, SilverDonor}, 11, []string{FirstTimeHero, BronzeDonor, SilverDonor}},
		{"badge already held", 0, []string{FirstTimeHero}, 1, []string{FirstTimeHero}},
		{"unrelated badges kept", 4, []string{"Camp Volunteer"}, 5, []string{"Camp Volunteer"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			count, got := Accrue(tc.count, tc.prior)
			assert.Equal(t, tc.wantCount, count)
			assert.ElementsMatch(t, tc.wantBadges, got)
		})
	}
}

func TestAccrue_EmptySet(t *testing.T) {
	count, got := Accrue(0, []string{})
	assert.Equal(t, 1, count)
	assert.Equal(t, []string{FirstTimeHero}, got)
}

func TestAccrue_ExactMatchThresholds(t *testing.T) {
	// skipping from 2 to 4 never passes through 3
	count, got := Accrue(3, []string{FirstTimeHero})
	assert.Equal(t, 4, count)
	assert.Equal(t, []string{FirstTimeHero}, got)
}

func TestAccrue_DoesNotMutateInput(t *testing.T) {
	prior := make([]string, 1, 4)
	prior[0] = FirstTimeHero

	_, got := Accrue(2, prior)
	assert.Equal(t, []string{FirstTimeHero}, prior)
	assert.Len(t, got, 2)
}

// Known gap: replaying the same donation increments again. Callers
// deduplicate by donation id before invoking the rule.
func TestAccrue_NotIdempotentUnderReplay(t *testing.T) {
	c1, b1 := Accrue(2, []string{FirstTimeHero})
	c2, b2 := Accrue(c1, b1)

	assert.Equal(t, 3, c1)
	assert.Equal(t, 4, c2)
	assert.Equal(t, b1, b2)
}

func TestAdded(t *testing.T) {
	assert.Equal(t, []string{BronzeDonor}, Added([]string{FirstTimeHero}, []string{FirstTimeHero, BronzeDonor}))
	assert.Nil(t, Added([]string{FirstTimeHero}, []string{FirstTimeHero}))
}

func TestThresholds(t *testing.T) {
	ts := Thresholds()
	assert.Equal(t, []Threshold{{1, FirstTimeHero}, {3, BronzeDonor}, {10, SilverDonor}}, ts)
}
