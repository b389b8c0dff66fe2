package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"strayl-feedback/internal/config"
	"strayl-feedback/internal/model"
	"strayl-feedback/internal/repository"
)

// ErrInvalidAnswers means the submission payload had no structured answer
// set. It is the only validation error the submission pipeline surfaces.
var ErrInvalidAnswers = errors.New("invalid answers")

// Permissive on purpose: local@domain.tld with no whitespace.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// maxLanguageLen bounds the stored language tag, matching the persisted
// record shape.
const maxLanguageLen = 5

// RewardGranter requests a reward grant. Implementations must never fail;
// every problem maps into the reward_error outcome.
type RewardGranter interface {
	Request(ctx context.Context, email, submissionID string) model.RewardResult
}

// SubmissionService runs the submit pipeline: persist, request reward,
// resolve the return destination. Only persistence failure or invalid input
// aborts the pipeline; the reward and redirect steps degrade to safe
// defaults.
type SubmissionService struct {
	repo   repository.SubmissionRepository
	reward RewardGranter
	cfg    config.Config
}

func NewSubmissionService(repo repository.SubmissionRepository, reward RewardGranter, cfg config.Config) *SubmissionService {
	return &SubmissionService{
		repo:   repo,
		reward: reward,
		cfg:    cfg,
	}
}

func (s *SubmissionService) Submit(ctx context.Context, req *model.SubmitRequest) (*model.SubmitResult, error) {
	if req == nil || req.Answers == nil {
		return nil, ErrInvalidAnswers
	}

	submission := &model.Submission{
		Answers:   req.Answers.Clone(),
		Language:  truncate(req.Language, maxLanguageLen),
		UserAgent: req.UserAgent,
	}
	if err := s.repo.Create(ctx, submission); err != nil {
		return nil, fmt.Errorf("failed to persist submission: %w", err)
	}

	email := normalizeEmail(req.Answers["email"])
	var reward model.RewardResult
	if emailPattern.MatchString(email) {
		reward = s.reward.Request(ctx, email, submission.ID)
	} else {
		reward = model.RewardResult{Status: model.RewardInvalidEmail, AwardedCredits: 0}
	}

	returnTo := ResolveReturnTo(s.cfg, req.ReturnTo)

	log.Info().
		Str("submission_id", submission.ID).
		Str("reward_status", string(reward.Status)).
		Msg("feedback submitted")

	return &model.SubmitResult{
		Success:      true,
		SubmissionID: submission.ID,
		ReturnTo:     returnTo,
		ReturnHref:   BuildReturnHref(returnTo, submission.ID, reward),
		Reward:       reward,
	}, nil
}

// GetSubmission returns a persisted submission, nil if none exists.
func (s *SubmissionService) GetSubmission(ctx context.Context, id string) (*model.Submission, error) {
	return s.repo.GetByID(ctx, id)
}

// CountRecent counts submissions received in the last 24 hours.
func (s *SubmissionService) CountRecent(ctx context.Context) (int64, error) {
	return s.repo.CountSince(ctx, time.Now().Add(-24*time.Hour))
}

func normalizeEmail(value any) string {
	s, ok := value.(string)
	if !ok {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(s))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
