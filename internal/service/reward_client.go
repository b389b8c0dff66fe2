package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"strayl-feedback/internal/config"
	"strayl-feedback/internal/model"
)

// RewardClient calls the host application's internal feedback-reward
// endpoint. It never returns an error: every failure path folds into the
// reward_error outcome so a reward problem can never abort a submission.
type RewardClient struct {
	baseURL    string
	secret     string
	httpClient *http.Client
}

// NewRewardClient creates a reward client from config. A missing secret is
// allowed; the client then fails closed on every request.
func NewRewardClient(cfg config.Config) *RewardClient {
	if cfg.RewardSecret == "" {
		log.Warn().Msg("FEEDBACK_REWARD_SECRET not set, rewards disabled")
	}

	return &RewardClient{
		baseURL: cfg.AppURL,
		secret:  cfg.RewardSecret,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type rewardRequest struct {
	Email        string `json:"email"`
	Source       string `json:"source"`
	SubmissionID string `json:"submissionId,omitempty"`
}

type rewardResponse struct {
	Status         model.RewardStatus `json:"status"`
	AwardedCredits json.RawMessage    `json:"awardedCredits"`
}

// Request asks the reward endpoint to grant credits for the given email.
// Credits are only taken from the response when the status is granted.
func (c *RewardClient) Request(ctx context.Context, email, submissionID string) model.RewardResult {
	endpoint := c.baseURL + config.RewardPath

	if c.secret == "" {
		// Never call unauthenticated.
		log.Error().Str("endpoint", endpoint).Msg("reward request skipped, missing secret")
		return model.RewardErrorResult()
	}

	payload, err := json.Marshal(rewardRequest{
		Email:        email,
		Source:       config.InternalSource,
		SubmissionID: submissionID,
	})
	if err != nil {
		log.Error().Str("endpoint", endpoint).Err(err).Msg("reward request encode failed")
		return model.RewardErrorResult()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		log.Error().Str("endpoint", endpoint).Err(err).Msg("reward request build failed")
		return model.RewardErrorResult()
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-feedback-reward-secret", c.secret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().Str("endpoint", endpoint).Err(err).Msg("reward request failed")
		return model.RewardErrorResult()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Error().Str("endpoint", endpoint).Int("status", resp.StatusCode).Msg("reward endpoint failed")
		return model.RewardErrorResult()
	}

	var body rewardResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		log.Error().Str("endpoint", endpoint).Err(err).Msg("reward response decode failed")
		return model.RewardErrorResult()
	}

	if !body.Status.Recognized() {
		log.Error().Str("endpoint", endpoint).Str("reward_status", string(body.Status)).Msg("reward response status unrecognized")
		return model.RewardErrorResult()
	}

	return model.RewardResult{
		Status:         body.Status,
		AwardedCredits: grantedCredits(body),
	}
}

// IsConfigured returns true if the shared secret is set.
func (c *RewardClient) IsConfigured() bool {
	return c.secret != ""
}

// grantedCredits extracts the credit count, defaulting to zero when the
// field is absent or malformed. Non-granted statuses always carry zero.
func grantedCredits(body rewardResponse) int {
	if body.Status != model.RewardGranted || len(body.AwardedCredits) == 0 {
		return 0
	}
	var credits float64
	if err := json.Unmarshal(body.AwardedCredits, &credits); err != nil {
		return 0
	}
	return int(credits)
}
