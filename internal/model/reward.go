package model

// RewardStatus is the outcome of a reward grant attempt
type RewardStatus string

const (
	RewardGranted        RewardStatus = "granted"
	RewardAlreadyGranted RewardStatus = "already_granted"
	RewardUserNotFound   RewardStatus = "user_not_found"
	RewardInvalidEmail   RewardStatus = "invalid_email"
	RewardError          RewardStatus = "reward_error"
)

// Recognized reports whether the status is one of the four non-error
// outcomes the reward endpoint may return. Anything else in a response is
// folded into RewardError by the client.
func (s RewardStatus) Recognized() bool {
	switch s {
	case RewardGranted, RewardAlreadyGranted, RewardUserNotFound, RewardInvalidEmail:
		return true
	}
	return false
}

// RewardResult is produced exactly once per submission attempt. Credits are
// strictly zero for every status except granted.
type RewardResult struct {
	Status         RewardStatus `json:"status"`
	AwardedCredits int          `json:"awardedCredits"`
}

// RewardErrorResult is the safe default shared by every failure path.
func RewardErrorResult() RewardResult {
	return RewardResult{Status: RewardError, AwardedCredits: 0}
}
