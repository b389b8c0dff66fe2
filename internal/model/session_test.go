package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerSetAnswered(t *testing.T) {
	tests := []struct {
		name  string
		value any
		set   bool
		want  bool
	}{
		{name: "absent", set: false, want: false},
		{name: "nil", value: nil, set: true, want: false},
		{name: "empty string", value: "", set: true, want: false},
		{name: "whitespace only", value: "   \t", set: true, want: false},
		{name: "string", value: "yes", set: true, want: true},
		{name: "number", value: float64(7), set: true, want: true},
		{name: "zero number", value: float64(0), set: true, want: true},
		{name: "empty any list", value: []any{}, set: true, want: false},
		{name: "any list", value: []any{"a"}, set: true, want: true},
		{name: "empty string list", value: []string{}, set: true, want: false},
		{name: "string list", value: []string{"a", "b"}, set: true, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := AnswerSet{}
			if tt.set {
				a["k"] = tt.value
			}
			assert.Equal(t, tt.want, a.Answered("k"))
		})
	}
}

func TestMissingRequiredOrderIndependent(t *testing.T) {
	s := NewSession("s1", "en", "", "")

	// Answer step 0 requirements out of order.
	s.SetAnswer("q4", "no")
	s.SetAnswer("q1", "daily")
	s.SetAnswer("q3", "work")

	missing := s.MissingRequired(0)
	assert.Equal(t, []string{"q2"}, missing)
	assert.False(t, s.StepAnswered(0))

	s.SetAnswer("q2", []any{"opt_a", "opt_b"})
	assert.True(t, s.StepAnswered(0))
	assert.Empty(t, s.MissingRequired(0))
}

func TestAdvanceBlockedOnIncompleteStep(t *testing.T) {
	s := NewSession("s1", "en", "", "")

	scrollTop, missing := s.Advance()
	assert.False(t, scrollTop)
	assert.Equal(t, []string{"q1", "q2", "q3", "q4"}, missing)
	assert.Equal(t, 0, s.Step)
	assert.True(t, s.ShowErrors)
}

func TestAdvanceMovesAndClearsErrors(t *testing.T) {
	s := NewSession("s1", "en", "", "")
	answerStep(s, 0)
	s.ShowErrors = true

	scrollTop, missing := s.Advance()
	assert.True(t, scrollTop)
	assert.Nil(t, missing)
	assert.Equal(t, 1, s.Step)
	assert.False(t, s.ShowErrors)
}

func TestAdvanceNoOpOnLastStep(t *testing.T) {
	s := NewSession("s1", "en", "", "")
	s.Step = len(Steps) - 1
	answerStep(s, s.Step)

	scrollTop, missing := s.Advance()
	assert.False(t, scrollTop)
	assert.Nil(t, missing)
	assert.Equal(t, len(Steps)-1, s.Step)
}

func TestRetreatNoOpOnFirstStep(t *testing.T) {
	s := NewSession("s1", "en", "", "")
	s.ShowErrors = true

	scrollTop := s.Retreat()
	assert.False(t, scrollTop)
	assert.Equal(t, 0, s.Step)
	assert.False(t, s.ShowErrors, "retreat clears error visibility even at step 0")
}

func TestRetreatMovesBack(t *testing.T) {
	s := NewSession("s1", "en", "", "")
	s.Step = 3
	s.ShowErrors = true

	scrollTop := s.Retreat()
	assert.True(t, scrollTop)
	assert.Equal(t, 2, s.Step)
	assert.False(t, s.ShowErrors)
}

func TestFollowUpClearing(t *testing.T) {
	tests := []struct {
		controlling string
		dependent   string
		revealing   string
		hiding      string
	}{
		{"q4", "q4b", "yes", "no"},
		{"q16", "q16b", "yes", "no"},
		{"q17", "q17b", "yes", "no"},
		{"q24", "q24b", "yes_hard", "yes_easy"},
	}

	for _, tt := range tests {
		t.Run(tt.dependent, func(t *testing.T) {
			s := NewSession("s1", "en", "", "")

			s.SetAnswer(tt.controlling, tt.revealing)
			s.SetAnswer(tt.dependent, "some detail")
			require.True(t, s.Answers.Answered(tt.dependent))

			s.SetAnswer(tt.controlling, tt.hiding)
			assert.False(t, s.Answers.Answered(tt.dependent), "hidden answer must be cleared")

			// The key stays present with nil, it is never deleted.
			v, ok := s.Answers[tt.dependent]
			assert.True(t, ok)
			assert.Nil(t, v)
		})
	}
}

func TestFollowUpNotClearedWhileRevealed(t *testing.T) {
	s := NewSession("s1", "en", "", "")
	s.SetAnswer("q4", "yes")
	s.SetAnswer("q4b", "product one")
	s.SetAnswer("q4", "yes")
	assert.Equal(t, "product one", s.Answers.String("q4b"))
}

func TestCompleteDropsAnswers(t *testing.T) {
	s := NewSession("s1", "en", "", "")
	s.SetAnswer("q1", "daily")
	s.Submitting = true

	result := &SubmitResult{Success: true, ReturnTo: "https://app.strayl.dev/dashboard"}
	s.Complete(result)

	assert.Nil(t, s.Answers)
	assert.True(t, s.Submitted)
	assert.False(t, s.Submitting)
	assert.Equal(t, result, s.Result)
}

// answerStep fills every required key of the step with a plausible value.
func answerStep(s *Session, step int) {
	for _, key := range Steps[step].Required {
		s.SetAnswer(key, "answered")
	}
}
