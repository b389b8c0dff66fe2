package model

import "time"

// Submission is the persisted record, one document per submit.
type Submission struct {
	ID        string    `json:"id" bson:"-"`
	Answers   AnswerSet `json:"answers" bson:"answers"`
	Language  string    `json:"language,omitempty" bson:"language,omitempty"`
	UserAgent string    `json:"userAgent,omitempty" bson:"userAgent,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// SubmitRequest is the submission handler's input contract. Answers must be
// a non-nil structured object; everything else is optional metadata.
type SubmitRequest struct {
	Answers   AnswerSet `json:"answers"`
	Language  string    `json:"language"`
	UserAgent string    `json:"userAgent"`
	Source    string    `json:"source,omitempty"`
	ReturnTo  string    `json:"returnTo,omitempty"`
}

// SubmitResult is the submission handler's output. ReturnTo is always a
// valid absolute URL, never the untrusted raw input. ReturnHref is ReturnTo
// enriched with reward query parameters for the confirmation screen.
type SubmitResult struct {
	Success      bool         `json:"success"`
	SubmissionID string       `json:"submissionId,omitempty"`
	ReturnTo     string       `json:"returnTo"`
	ReturnHref   string       `json:"returnHref"`
	Reward       RewardResult `json:"reward"`
}
