// Package badges holds the donation milestone rule.
package badges

const (
	FirstTimeHero = "First Time Hero"
	BronzeDonor   = "Bronze Donor"
	SilverDonor   = "Silver Donor"
)

type Threshold struct {
	Count int    `json:"count"`
	Badge string `json:"badge"`
}

// Thresholds match the new donation count exactly. A count that skips a
// threshold does not earn that badge.
var thresholds = []Threshold{
	{Count: 1, Badge: FirstTimeHero},
	{Count: 3, Badge: BronzeDonor},
	{Count: 10, Badge: SilverDonor},
}

func Thresholds() []Threshold {
	out := make([]Threshold, len(thresholds))
	copy(out, thresholds)
	return out
}

// Accrue applies one donation to a donor's aggregate. priorBadges is not
// modified. The rule does not know which donation it is applying, so calling
// it twice with the same state counts twice; deduplication is up to the caller.
func Accrue(priorCount int, priorBadges []string) (int, []string) {
	newCount := priorCount + 1

	out := make([]string, len(priorBadges), len(priorBadges)+1)
	copy(out, priorBadges)

	for _, t := range thresholds {
		if newCount == t.Count && !contains(out, t.Badge) {
			out = append(out, t.Badge)
		}
	}
	return newCount, out
}

// Added returns the badges in after that are not in before.
func Added(before, after []string) []string {
	var added []string
	for _, b := range after {
		if !contains(before, b) {
			added = append(added, b)
		}
	}
	return added
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
