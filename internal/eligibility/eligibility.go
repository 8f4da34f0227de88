// Package eligibility implements the five-question blood donor screening.
//
// The evaluator is pure: it takes a complete answer set and returns a verdict
// synchronously. Stepping through the questions one at a time is left to the
// client.
package eligibility

import (
	"fmt"
	"strings"
)

const (
	Yes = "yes"
	No  = "no"
)

// Answers maps a question key to "yes" or "no".
type Answers map[string]string

type Question struct {
	Key    string `json:"key"`
	Text   string `json:"text"`
	Invert bool   `json:"invert"`
}

// DisqualifyingAnswer is "yes" for inverted questions and "no" otherwise.
func (q Question) DisqualifyingAnswer() string {
	if q.Invert {
		return Yes
	}
	return No
}

var questions = []Question{
	{Key: "age", Text: "Are you between 18 and 60 years of age?"},
	{Key: "weight", Text: "Do you currently weigh at least 50 kg (110 lbs)?"},
	{Key: "recentDonation", Text: "Have you donated blood in the last 3 months?", Invert: true},
	{Key: "illness", Text: "Do you currently have any infections, fever, or illness?", Invert: true},
	{Key: "surgery", Text: "Have you had a major surgery or tattoo in the last 6 months?", Invert: true},
}

// Questions returns the screening questions in presentation order.
func Questions() []Question {
	out := make([]Question, len(questions))
	copy(out, questions)
	return out
}

// Evaluate reports whether no answer is disqualifying.
func Evaluate(answers Answers) bool {
	_, disqualified := Disqualifier(answers)
	return !disqualified
}

// Disqualifier returns the first question, in list order, whose answer
// disqualifies the donor.
func Disqualifier(answers Answers) (Question, bool) {
	for _, q := range questions {
		if answers[q.Key] == q.DisqualifyingAnswer() {
			return q, true
		}
	}
	return Question{}, false
}

// Validate checks the caller contract: every question answered with yes or no
// and no unknown keys. Evaluate does not call it.
func Validate(answers Answers) error {
	var missing []string
	for _, q := range questions {
		a, ok := answers[q.Key]
		if !ok {
			missing = append(missing, q.Key)
			continue
		}
		if a != Yes && a != No {
			return fmt.Errorf("answer for %q must be %q or %q, got %q", q.Key, Yes, No, a)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing answers: %s", strings.Join(missing, ", "))
	}
	if len(answers) != len(questions) {
		for k := range answers {
			if !isKnown(k) {
				return fmt.Errorf("unknown question %q", k)
			}
		}
	}
	return nil
}

// Progress is the percentage of the quiz completed after `answered` answers.
func Progress(answered int) float64 {
	if answered <= 0 {
		return 0
	}
	if answered >= len(questions) {
		return 100
	}
	return float64(answered) / float64(len(questions)) * 100
}

func isKnown(key string) bool {
	for _, q := range questions {
		if q.Key == key {
			return true
		}
	}
	return false
}
