package service

import (
	"net/url"
	"strconv"
	"strings"

	"strayl-feedback/internal/config"
	"strayl-feedback/internal/model"
)

const fallbackPath = "/dashboard"

// ResolveReturnTo turns the untrusted returnTo candidate into a safe
// absolute URL. The candidate is returned only when it parses as an
// absolute URL whose origin is allow-listed; anything else falls back to
// the dashboard under the configured app URL.
func ResolveReturnTo(cfg config.Config, candidate string) string {
	if candidate != "" {
		allowed := allowedReturnOrigins(cfg)
		if target, err := url.Parse(candidate); err == nil {
			if origin, ok := originOf(target); ok && allowed[origin] {
				return target.String()
			}
		}
	}
	return fallbackReturnTo(cfg)
}

// BuildReturnHref appends the reward outcome to the resolved return URL so
// the host application can show it on arrival. returnTo is expected to be a
// valid absolute URL already; a malformed one degrades to the default
// dashboard.
func BuildReturnHref(returnTo, submissionID string, reward model.RewardResult) string {
	target, err := url.Parse(returnTo)
	if err != nil || !target.IsAbs() || target.Host == "" {
		target, _ = url.Parse(config.DefaultAppURL + fallbackPath)
	}

	q := target.Query()
	q.Set("feedbackRewardStatus", string(reward.Status))
	q.Set("feedbackRewardCredits", strconv.Itoa(reward.AwardedCredits))
	if submissionID != "" {
		q.Set("feedbackSubmissionId", submissionID)
	}
	target.RawQuery = q.Encode()

	return target.String()
}

// allowedReturnOrigins builds the origin allow-list: the configured extra
// origins, the configured app URL, and the hardcoded default as a permanent
// member. Entries that fail to parse are skipped.
func allowedReturnOrigins(cfg config.Config) map[string]bool {
	allowed := make(map[string]bool)

	for _, part := range strings.Split(cfg.AllowedReturnOrigins, ",") {
		entry := strings.TrimSpace(part)
		if entry == "" {
			continue
		}
		addOrigin(allowed, entry)
	}

	addOrigin(allowed, cfg.AppURL)
	addOrigin(allowed, config.DefaultAppURL)

	return allowed
}

func addOrigin(allowed map[string]bool, rawURL string) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return
	}
	if origin, ok := originOf(u); ok {
		allowed[origin] = true
	}
}

// originOf returns the scheme://host origin of an absolute URL. Relative
// URLs and URLs without a host have no origin. An explicit scheme-default
// port is dropped so https://host and https://host:443 share one origin.
func originOf(u *url.URL) (string, bool) {
	if !u.IsAbs() || u.Host == "" {
		return "", false
	}
	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Host)
	switch {
	case scheme == "https" && strings.HasSuffix(host, ":443"):
		host = strings.TrimSuffix(host, ":443")
	case scheme == "http" && strings.HasSuffix(host, ":80"):
		host = strings.TrimSuffix(host, ":80")
	}
	return scheme + "://" + host, true
}

// fallbackReturnTo resolves /dashboard against the configured app URL,
// falling back to the default app URL when the configured one is unusable.
func fallbackReturnTo(cfg config.Config) string {
	base, err := url.Parse(strings.TrimSpace(cfg.AppURL))
	if err != nil || !base.IsAbs() || base.Host == "" {
		return config.DefaultAppURL + fallbackPath
	}
	return base.ResolveReference(&url.URL{Path: fallbackPath}).String()
}
