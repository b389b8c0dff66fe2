package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"strayl-feedback/internal/cache"
	"strayl-feedback/internal/model"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrStepIncomplete   = errors.New("current step is incomplete")
	ErrSubmitInFlight   = errors.New("submission already in flight")
	ErrAlreadySubmitted = errors.New("session already submitted")
)

// Submitter runs the submission pipeline for a finished answer set.
type Submitter interface {
	Submit(ctx context.Context, req *model.SubmitRequest) (*model.SubmitResult, error)
}

// FormService owns wizard sessions: it creates them, applies answer and
// step transitions, and hands the finished answer set to the submitter
// exactly once.
type FormService struct {
	sessions  cache.SessionCache
	submitter Submitter
}

func NewFormService(sessions cache.SessionCache, submitter Submitter) *FormService {
	return &FormService{
		sessions:  sessions,
		submitter: submitter,
	}
}

// Create starts a new session. Language, source and returnTo are captured
// once here and never overwritten later.
func (f *FormService) Create(ctx context.Context, language, source, returnTo string) (*model.Session, error) {
	session := model.NewSession(uuid.NewString(), language, source, returnTo)
	if err := f.sessions.Set(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	return session, nil
}

func (f *FormService) Get(ctx context.Context, id string) (*model.Session, error) {
	session, err := f.sessions.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// SetAnswer upserts one answer in the session, clearing dependent follow-up
// answers when their controlling answer moves away.
func (f *FormService) SetAnswer(ctx context.Context, id, key string, value any) (*model.Session, error) {
	session, err := f.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Submitted {
		return nil, ErrAlreadySubmitted
	}

	session.SetAnswer(key, value)
	if err := f.sessions.Set(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	return session, nil
}

// Advance moves the session forward when the current step validates. On
// validation failure it makes errors visible and reports the unmet keys.
func (f *FormService) Advance(ctx context.Context, id string) (*model.Session, bool, []string, error) {
	session, err := f.Get(ctx, id)
	if err != nil {
		return nil, false, nil, err
	}
	if session.Submitted {
		return nil, false, nil, ErrAlreadySubmitted
	}

	scrollTop, missing := session.Advance()
	if err := f.sessions.Set(ctx, session); err != nil {
		return nil, false, nil, fmt.Errorf("failed to store session: %w", err)
	}
	return session, scrollTop, missing, nil
}

// Retreat moves the session back one step.
func (f *FormService) Retreat(ctx context.Context, id string) (*model.Session, bool, error) {
	session, err := f.Get(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if session.Submitted {
		return nil, false, ErrAlreadySubmitted
	}

	scrollTop := session.Retreat()
	if err := f.sessions.Set(ctx, session); err != nil {
		return nil, false, fmt.Errorf("failed to store session: %w", err)
	}
	return session, scrollTop, nil
}

// Submit re-validates the final step and runs the submission pipeline
// exactly once: an atomic claim on the session admits a single pipeline run
// even when submit requests race. On pipeline failure the session stays
// editable on its last step so the respondent can retry.
func (f *FormService) Submit(ctx context.Context, id, userAgent string) (*model.SubmitResult, []string, error) {
	session, err := f.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if session.Submitted {
		return session.Result, nil, ErrAlreadySubmitted
	}
	if session.Submitting {
		return nil, nil, ErrSubmitInFlight
	}

	if missing := session.MissingRequired(session.Step); len(missing) > 0 {
		session.ShowErrors = true
		if err := f.sessions.Set(ctx, session); err != nil {
			return nil, nil, fmt.Errorf("failed to store session: %w", err)
		}
		return nil, missing, ErrStepIncomplete
	}

	claimed, err := f.sessions.ClaimSubmit(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to claim submission: %w", err)
	}
	if !claimed {
		return nil, nil, ErrSubmitInFlight
	}

	// The Submitting flag is view state; the claim above is what
	// serializes racing submits.
	session.Submitting = true
	if err := f.sessions.Set(ctx, session); err != nil {
		f.releaseSubmitClaim(ctx, id)
		return nil, nil, fmt.Errorf("failed to store session: %w", err)
	}

	result, err := f.submitter.Submit(ctx, &model.SubmitRequest{
		Answers:   session.Answers.Clone(),
		Language:  session.Language,
		UserAgent: userAgent,
		Source:    session.Source,
		ReturnTo:  session.ReturnTo,
	})
	if err != nil {
		session.Submitting = false
		if storeErr := f.sessions.Set(ctx, session); storeErr != nil {
			log.Error().Str("session_id", id).Err(storeErr).Msg("failed to clear in-flight flag")
		}
		f.releaseSubmitClaim(ctx, id)
		return nil, nil, err
	}

	session.Complete(result)
	if err := f.sessions.Set(ctx, session); err != nil {
		// The submission is already persisted; losing the terminal view is
		// not worth failing the call over.
		log.Error().Str("session_id", id).Err(err).Msg("failed to store submitted session")
	}
	f.releaseSubmitClaim(ctx, id)
	return result, nil, nil
}

func (f *FormService) releaseSubmitClaim(ctx context.Context, id string) {
	if err := f.sessions.ReleaseSubmit(ctx, id); err != nil {
		log.Error().Str("session_id", id).Err(err).Msg("failed to release submit claim")
	}
}
