package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultAppURL is the permanent fallback host application URL. It is always
// part of the return-origin allow-list and backs every URL fallback path.
const DefaultAppURL = "https://app.strayl.dev"

// RewardPath is the path of the internal reward endpoint on the app host.
const RewardPath = "/api/internal/feedback-reward"

// InternalSource tags outbound reward requests as coming from this service.
const InternalSource = "strayl-feedback"

// Config holds all environment-derived settings. It is built once at process
// start and passed by value; nothing reads the environment after Load.
type Config struct {
	HTTPPort string
	MongoURI string
	MongoDB  string
	RedisURI string

	// AppURL is the primary host application base URL (STRAYL_APP_URL).
	AppURL string
	// AllowedReturnOrigins is the raw comma-separated extra origin list
	// (FEEDBACK_ALLOWED_RETURN_ORIGINS). Entries are parsed lazily so a
	// bad entry degrades to being skipped instead of failing startup.
	AllowedReturnOrigins string
	// RewardSecret authenticates reward requests. Empty means rewards are
	// disabled: the client fails closed and never calls unauthenticated.
	RewardSecret string

	SessionTTL time.Duration
}

func Load() Config {
	return Config{
		HTTPPort:             getEnv("PORT", "8080"),
		MongoURI:             getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:              getEnv("MONGO_DB", "strayl_feedback"),
		RedisURI:             normalizeRedisAddr(getEnv("REDIS_URI", "localhost:6379")),
		AppURL:               strings.TrimSpace(getEnv("STRAYL_APP_URL", DefaultAppURL)),
		AllowedReturnOrigins: os.Getenv("FEEDBACK_ALLOWED_RETURN_ORIGINS"),
		RewardSecret:         strings.TrimSpace(os.Getenv("FEEDBACK_REWARD_SECRET")),
		SessionTTL:           sessionTTL(),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func sessionTTL() time.Duration {
	hours, err := strconv.Atoi(getEnv("SESSION_TTL_HOURS", "24"))
	if err != nil || hours <= 0 {
		hours = 24
	}
	return time.Duration(hours) * time.Hour
}

// normalizeRedisAddr strips an optional redis:// scheme so the value can be
// supplied either way.
func normalizeRedisAddr(addr string) string {
	return strings.TrimPrefix(addr, "redis://")
}
