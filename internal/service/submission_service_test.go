package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strayl-feedback/internal/config"
	"strayl-feedback/internal/model"
)

// fakeSubmissionRepo records submissions in memory.
type fakeSubmissionRepo struct {
	created []*model.Submission
	nextID  string
	fail    error
}

func (r *fakeSubmissionRepo) Create(ctx context.Context, s *model.Submission) error {
	if r.fail != nil {
		return r.fail
	}
	s.ID = r.nextID
	r.created = append(r.created, s)
	return nil
}

func (r *fakeSubmissionRepo) GetByID(ctx context.Context, id string) (*model.Submission, error) {
	for _, s := range r.created {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeSubmissionRepo) CountSince(ctx context.Context, since time.Time) (int64, error) {
	return int64(len(r.created)), nil
}

func jsonDecode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func newSubmitRequest(email string) *model.SubmitRequest {
	return &model.SubmitRequest{
		Answers:   model.AnswerSet{"q1": "daily", "email": email},
		Language:  "en",
		UserAgent: "test-agent",
	}
}

func TestSubmitHappyPath(t *testing.T) {
	var gotEmail string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, jsonDecode(r, &body))
		gotEmail = body["email"].(string)
		w.Write([]byte(`{"status":"granted","awardedCredits":50}`))
	}))
	defer srv.Close()

	repo := &fakeSubmissionRepo{nextID: "sub-1"}
	svc := NewSubmissionService(repo, NewRewardClient(rewardConfig(srv.URL, "s")), config.Config{AppURL: "https://app.strayl.dev"})

	result, err := svc.Submit(context.Background(), newSubmitRequest("  A@B.com "))
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "sub-1", result.SubmissionID)
	assert.Equal(t, "https://app.strayl.dev/dashboard", result.ReturnTo)
	assert.Equal(t, model.RewardResult{Status: model.RewardGranted, AwardedCredits: 50}, result.Reward)
	assert.Equal(t, "a@b.com", gotEmail, "email is trimmed and lower-cased")
	require.Len(t, repo.created, 1)
	assert.Equal(t, "en", repo.created[0].Language)
}

func TestSubmitInvalidEmailSkipsRewardCall(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	repo := &fakeSubmissionRepo{nextID: "sub-1"}
	svc := NewSubmissionService(repo, NewRewardClient(rewardConfig(srv.URL, "s")), config.Config{AppURL: "https://app.strayl.dev"})

	for _, email := range []string{"not-an-email", "", "a@b", "a b@c.com"} {
		result, err := svc.Submit(context.Background(), newSubmitRequest(email))
		require.NoError(t, err, email)
		assert.Equal(t, model.RewardResult{Status: model.RewardInvalidEmail, AwardedCredits: 0}, result.Reward, email)
	}

	// Missing email key entirely behaves the same.
	result, err := svc.Submit(context.Background(), &model.SubmitRequest{Answers: model.AnswerSet{"q1": "daily"}})
	require.NoError(t, err)
	assert.Equal(t, model.RewardInvalidEmail, result.Reward.Status)

	assert.False(t, called, "no outbound call for invalid emails")
}

func TestSubmitRejectsMissingAnswers(t *testing.T) {
	repo := &fakeSubmissionRepo{}
	svc := NewSubmissionService(repo, NewRewardClient(rewardConfig("http://unused", "s")), config.Config{})

	_, err := svc.Submit(context.Background(), &model.SubmitRequest{})
	assert.ErrorIs(t, err, ErrInvalidAnswers)

	_, err = svc.Submit(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidAnswers)

	assert.Empty(t, repo.created, "nothing persisted on invalid input")
}

func TestSubmitPersistenceFailurePropagates(t *testing.T) {
	repo := &fakeSubmissionRepo{fail: errors.New("db down")}
	svc := NewSubmissionService(repo, NewRewardClient(rewardConfig("http://unused", "s")), config.Config{})

	_, err := svc.Submit(context.Background(), newSubmitRequest("a@b.com"))
	assert.Error(t, err)
}

func TestSubmitRewardFailureDoesNotFailSubmission(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	repo := &fakeSubmissionRepo{nextID: "sub-9"}
	svc := NewSubmissionService(repo, NewRewardClient(rewardConfig(srv.URL, "s")), config.Config{AppURL: "https://app.strayl.dev"})

	result, err := svc.Submit(context.Background(), newSubmitRequest("a@b.com"))
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, model.RewardErrorResult(), result.Reward)
}

func TestSubmitTruncatesLanguage(t *testing.T) {
	repo := &fakeSubmissionRepo{nextID: "sub-1"}
	svc := NewSubmissionService(repo, NewRewardClient(rewardConfig("http://unused", "")), config.Config{})

	req := newSubmitRequest("nope")
	req.Language = "en-US-posix"
	_, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "en-US", repo.created[0].Language)
}

func TestSubmitSanitizesReturnTo(t *testing.T) {
	repo := &fakeSubmissionRepo{nextID: "sub-1"}
	svc := NewSubmissionService(repo, NewRewardClient(rewardConfig("http://unused", "")), config.Config{AppURL: "https://app.strayl.dev"})

	req := newSubmitRequest("nope")
	req.ReturnTo = "https://evil.example.com/x"
	result, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "https://app.strayl.dev/dashboard", result.ReturnTo)
}
