package model

// Step is one page of the feedback wizard. Only selectable/choice questions
// are ever required; free-text questions are always optional.
type Step struct {
	Index    int      `json:"index"`
	Section  string   `json:"section"`
	Required []string `json:"required"`
}

// FollowUp describes a conditional question revealed by a controlling
// answer. When the controlling answer moves away from every revealing value
// the follow-up's stored answer is cleared, so a hidden answer is never
// submitted.
type FollowUp struct {
	ControllingKey  string   `json:"controllingKey"`
	RevealingValues []string `json:"revealingValues"`
}

// Steps is the static wizard definition. Immutable at runtime.
var Steps = []Step{
	{Index: 0, Section: "about", Required: []string{"q1", "q2", "q3", "q4"}},
	{Index: 1, Section: "landing", Required: []string{"q5", "q6", "q7"}},
	{Index: 2, Section: "onboarding", Required: []string{"q9", "q10"}},
	{Index: 3, Section: "aiChat", Required: []string{"q12", "q13", "q14", "q15", "q16", "q17"}},
	{Index: 4, Section: "interface", Required: []string{"q19", "q20", "q21"}},
	{Index: 5, Section: "deploy", Required: []string{"q24", "q25"}},
	{Index: 6, Section: "value", Required: []string{"q27", "q28", "q29"}},
	{Index: 7, Section: "overall", Required: []string{"q31", "q32"}},
}

// FollowUps maps each dependent question key to its controlling question.
var FollowUps = map[string]FollowUp{
	"q4b":  {ControllingKey: "q4", RevealingValues: []string{"yes"}},
	"q16b": {ControllingKey: "q16", RevealingValues: []string{"yes"}},
	"q17b": {ControllingKey: "q17", RevealingValues: []string{"yes"}},
	"q24b": {ControllingKey: "q24", RevealingValues: []string{"yes_hard"}},
}

// TotalSteps is the number of wizard pages.
var TotalSteps = len(Steps)

// Reveals reports whether the controlling value keeps the follow-up visible.
func (f FollowUp) Reveals(value any) bool {
	s, ok := value.(string)
	if !ok {
		return false
	}
	for _, v := range f.RevealingValues {
		if s == v {
			return true
		}
	}
	return false
}

// dependentsOf returns the follow-up keys controlled by the given key.
func dependentsOf(controllingKey string) []string {
	var keys []string
	for dep, f := range FollowUps {
		if f.ControllingKey == controllingKey {
			keys = append(keys, dep)
		}
	}
	return keys
}
