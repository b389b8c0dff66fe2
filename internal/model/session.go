package model

import "time"

// Session is one respondent's pass through the wizard. The zero value is not
// usable; sessions are created by the form service and round-trip through
// the session cache as JSON.
type Session struct {
	ID       string    `json:"id"`
	Step     int       `json:"step"`
	Answers  AnswerSet `json:"answers"`
	Language string    `json:"language"`

	// Captured once at creation from the initial navigation params.
	Source   string `json:"source,omitempty"`
	ReturnTo string `json:"returnTo,omitempty"`

	ShowErrors bool `json:"showErrors"`
	Submitting bool `json:"submitting"`
	Submitted  bool `json:"submitted"`

	// Result is set when the session reaches its terminal submitted state.
	Result *SubmitResult `json:"result,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewSession creates an editing session at step 0 with an empty answer set.
func NewSession(id, language, source, returnTo string) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		Answers:   AnswerSet{},
		Language:  language,
		Source:    source,
		ReturnTo:  returnTo,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetAnswer upserts one answer. When the key controls follow-up questions
// and the new value no longer reveals them, their stored answers are cleared
// in the same update.
func (s *Session) SetAnswer(key string, value any) {
	s.Answers[key] = value
	for _, dep := range dependentsOf(key) {
		if !FollowUps[dep].Reveals(value) {
			if _, ok := s.Answers[dep]; ok {
				s.Answers[dep] = nil
			}
		}
	}
	s.UpdatedAt = time.Now()
}

// MissingRequired returns the required keys of the step that are not yet
// answered, in definition order. An out-of-range step has no requirements.
func (s *Session) MissingRequired(step int) []string {
	if step < 0 || step >= len(Steps) {
		return nil
	}
	var missing []string
	for _, key := range Steps[step].Required {
		if !s.Answers.Answered(key) {
			missing = append(missing, key)
		}
	}
	return missing
}

// StepAnswered reports whether every required key of the step is answered.
func (s *Session) StepAnswered(step int) bool {
	return len(s.MissingRequired(step)) == 0
}

// Advance moves to the next step if the current one is complete. It returns
// whether the view should scroll to top and, on validation failure, the
// unmet required keys. Past the last step it is a no-op.
func (s *Session) Advance() (scrollTop bool, missing []string) {
	if missing = s.MissingRequired(s.Step); len(missing) > 0 {
		s.ShowErrors = true
		return false, missing
	}
	s.ShowErrors = false
	if s.Step < len(Steps)-1 {
		s.Step++
		s.UpdatedAt = time.Now()
		return true, nil
	}
	return false, nil
}

// Retreat moves to the previous step, clearing error visibility. Before the
// first step it is a no-op.
func (s *Session) Retreat() (scrollTop bool) {
	s.ShowErrors = false
	if s.Step > 0 {
		s.Step--
		s.UpdatedAt = time.Now()
		return true
	}
	return false
}

// OnLastStep reports whether the session sits on the final wizard page.
func (s *Session) OnLastStep() bool {
	return s.Step == len(Steps)-1
}

// Complete transitions the session to its terminal state: the answer set is
// dropped and replaced by the submission result.
func (s *Session) Complete(result *SubmitResult) {
	s.Answers = nil
	s.Result = result
	s.Submitting = false
	s.Submitted = true
	s.ShowErrors = false
	s.UpdatedAt = time.Now()
}
