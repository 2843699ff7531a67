package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const stripePlaceholderKey = "sk_test_change_me"

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"creatorhub"`
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	StoreBackend  string   `env:"STORE_BACKEND" envDefault:"memory"`
	PostgresDSN   string   `env:"POSTGRES_DSN"`
	RedisURL      string   `env:"REDIS_URL"`
	ChatStore     string   `env:"CHAT_STORE" envDefault:"default"`
	MongoURI      string   `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase string   `env:"MONGODB_DATABASE" envDefault:"creatorhub"`
	PublicBaseURL string   `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`
	FrontendURL   string   `env:"FRONTEND_URL" envDefault:"http://localhost:5173"`
	FrontendURLs  []string `env:"FRONTEND_URLS" envSeparator:","`
	TrustProxy    bool     `env:"TRUST_PROXY" envDefault:"false"`

	JWTSecret    string        `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	JWTExpiresIn time.Duration `env:"JWT_EXPIRES_IN" envDefault:"168h"`

	StripeSecretKey           string        `env:"STRIPE_SECRET_KEY"`
	StripePricePassID         string        `env:"STRIPE_PRICE_PASS_ID"`
	StripePriceSubscriptionID string        `env:"STRIPE_PRICE_SUBSCRIPTION_ID"`
	StripeWebhookSecret       string        `env:"STRIPE_WEBHOOK_SECRET"`
	WebhookDedupTTL           time.Duration `env:"WEBHOOK_DEDUP_TTL" envDefault:"72h"`

	RateLimitWindow  time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"15m"`
	RateLimitMax     int           `env:"RATE_LIMIT_MAX" envDefault:"100"`
	RateLimitAuthMax int           `env:"RATE_LIMIT_AUTH_MAX" envDefault:"10"`

	UploadBackend   string `env:"UPLOAD_BACKEND" envDefault:"local"`
	UploadDir       string `env:"UPLOAD_DIR" envDefault:"uploads"`
	S3Bucket        string `env:"S3_BUCKET"`
	S3Region        string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Endpoint      string `env:"S3_ENDPOINT"`
	S3AccessKey     string `env:"S3_ACCESS_KEY"`
	S3SecretKey     string `env:"S3_SECRET_KEY"`
	S3UsePathStyle  bool   `env:"S3_USE_PATH_STYLE" envDefault:"false"`
	S3PublicBaseURL string `env:"S3_PUBLIC_BASE_URL"`

	BlockedWords         []string `env:"BLOCKED_WORDS" envSeparator:"," envDefault:"raciste,racisme,nazi,haine,violence"`
	RequestTopicKeywords []string `env:"REQUEST_TOPIC_KEYWORDS" envSeparator:"," envDefault:"pied"`

	PlatformFeeRate        float64       `env:"PLATFORM_FEE_RATE" envDefault:"0.2"`
	RequestExpiry          time.Duration `env:"REQUEST_EXPIRY" envDefault:"48h"`
	AccessDays             int           `env:"ACCESS_DAYS" envDefault:"30"`
	PassPriceCents         int64         `env:"PASS_PRICE_CENTS" envDefault:"599"`
	SubscriptionPriceCents int64         `env:"SUBSCRIPTION_PRICE_CENTS" envDefault:"1199"`
	PreviewCount           int           `env:"PREVIEW_COUNT" envDefault:"3"`
	IdempotencyTTL         time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"168h"`

	RequestSweepSchedule    string `env:"REQUEST_SWEEP_SCHEDULE" envDefault:"@every 1m"`
	RefundRetrySchedule     string `env:"REFUND_RETRY_SCHEDULE" envDefault:"@every 5m"`
	ModerationSweepSchedule string `env:"MODERATION_SWEEP_SCHEDULE" envDefault:"@every 10m"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.StoreBackend = strings.ToLower(strings.TrimSpace(cfg.StoreBackend))
	cfg.UploadBackend = strings.ToLower(strings.TrimSpace(cfg.UploadBackend))
	cfg.ChatStore = strings.ToLower(strings.TrimSpace(cfg.ChatStore))
	if cfg.PlatformFeeRate < 0 || cfg.PlatformFeeRate > 1 {
		return Config{}, fmt.Errorf("PLATFORM_FEE_RATE must be within [0,1], got %v", cfg.PlatformFeeRate)
	}
	if cfg.StoreBackend == "postgres" && strings.TrimSpace(cfg.PostgresDSN) == "" {
		return Config{}, fmt.Errorf("POSTGRES_DSN is required when STORE_BACKEND=postgres")
	}
	if cfg.UploadBackend == "s3" && strings.TrimSpace(cfg.S3Bucket) == "" {
		return Config{}, fmt.Errorf("S3_BUCKET is required when UPLOAD_BACKEND=s3")
	}
	return cfg, nil
}

// StripeMockMode reports whether payments are simulated instead of sent to Stripe.
func (c Config) StripeMockMode() bool {
	key := strings.TrimSpace(c.StripeSecretKey)
	return key == "" || key == stripePlaceholderKey
}

// AllowedOrigins merges FRONTEND_URLS and FRONTEND_URL into the CORS allow-list.
func (c Config) AllowedOrigins() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, len(c.FrontendURLs)+1)
	for _, origin := range append(append([]string(nil), c.FrontendURLs...), c.FrontendURL) {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin == "" {
			continue
		}
		if _, ok := seen[origin]; ok {
			continue
		}
		seen[origin] = struct{}{}
		out = append(out, origin)
	}
	return out
}

// AccessPeriod is the duration granted by a pass or a mock subscription.
func (c Config) AccessPeriod() time.Duration {
	days := c.AccessDays
	if days <= 0 {
		days = 30
	}
	return time.Duration(days) * 24 * time.Hour
}
