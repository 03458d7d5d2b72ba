package config

import (
	"strings"
	"time"

	ierr "github.com/courseforge/courseforge/internal/errors"
	"github.com/courseforge/courseforge/internal/types"
	"github.com/spf13/viper"
)

// DeploymentMode gates environment-specific behavior such as CORS and error
// detail exposure.
type DeploymentMode string

const (
	ModeDevelopment DeploymentMode = "development"
	ModeProduction  DeploymentMode = "production"
)

type Configuration struct {
	Deployment DeploymentConfig `mapstructure:"deployment"`
	Server     ServerConfig     `mapstructure:"server"`
	Postgres   PostgresConfig   `mapstructure:"postgres"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Stripe     StripeConfig     `mapstructure:"stripe"`
	Email      EmailConfig      `mapstructure:"email"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Sentry     SentryConfig     `mapstructure:"sentry"`
}

type DeploymentConfig struct {
	Mode DeploymentMode `mapstructure:"mode" default:"development"`
}

type ServerConfig struct {
	Address        string   `mapstructure:"address" default:":8080"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

type AuthConfig struct {
	Supabase SupabaseConfig `mapstructure:"supabase"`
	// Secret is the JWT signing secret shared with the identity provider.
	Secret string `mapstructure:"secret"`
}

type SupabaseConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	ServiceKey string `mapstructure:"service_key"`
}

type StripeConfig struct {
	SecretKey     string `mapstructure:"secret_key"`
	WebhookSecret string `mapstructure:"webhook_secret"`
	// PricePrefix is the expected prefix of processor price identifiers
	// accepted by the checkout endpoint.
	PricePrefix string `mapstructure:"price_prefix" default:"price_"`
	// CheckoutRateLimit requests are allowed per client IP per CheckoutRateWindow.
	CheckoutRateLimit  int           `mapstructure:"checkout_rate_limit" default:"10"`
	CheckoutRateWindow time.Duration `mapstructure:"checkout_rate_window" default:"60s"`
}

type EmailConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	ResendAPIKey string `mapstructure:"resend_api_key"`
	FromAddress  string `mapstructure:"from_address"`
}

type StorageConfig struct {
	S3Bucket       string `mapstructure:"s3_bucket"`
	Region         string `mapstructure:"region"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes" default:"52428800"`
}

type CacheConfig struct {
	// Backend is "memory" or "redis".
	Backend string      `mapstructure:"backend" default:"memory"`
	Redis   RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port" default:"6379"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type LoggingConfig struct {
	Level types.LogLevel `mapstructure:"level" default:"info"`
}

type SentryConfig struct {
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate" default:"1.0"`
}

// NewConfig loads configuration from environment variables (and an optional
// config file), then validates it. Missing required secrets are fatal at
// startup, before any request is handled.
func NewConfig() (*Configuration, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")
	v.SetEnvPrefix("COURSEFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A config file is optional; env vars are the primary source.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, ierr.WithError(err).
				WithHint("Failed to read configuration file").
				Mark(ierr.ErrSystem)
		}
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to parse configuration").
			Mark(ierr.ErrSystem)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", string(ModeDevelopment))
	v.SetDefault("server.address", ":8080")
	v.SetDefault("stripe.price_prefix", "price_")
	v.SetDefault("stripe.checkout_rate_limit", 10)
	v.SetDefault("stripe.checkout_rate_window", "60s")
	v.SetDefault("storage.max_upload_bytes", int64(50*1024*1024))
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.redis.port", 6379)
	v.SetDefault("logging.level", string(types.LogLevelInfo))
	v.SetDefault("sentry.sample_rate", 1.0)
}

// Validate enforces the presence of every value the enabled surfaces require.
func (c *Configuration) Validate() error {
	if c.Postgres.DSN == "" {
		return ierr.NewError("postgres dsn is not configured").
			WithHint("Set COURSEFORGE_POSTGRES_DSN").
			Mark(ierr.ErrValidation)
	}
	if c.Stripe.SecretKey == "" {
		return ierr.NewError("stripe secret key is not configured").
			WithHint("Set COURSEFORGE_STRIPE_SECRET_KEY").
			Mark(ierr.ErrValidation)
	}
	if c.Stripe.WebhookSecret == "" {
		return ierr.NewError("stripe webhook secret is not configured").
			WithHint("Set COURSEFORGE_STRIPE_WEBHOOK_SECRET").
			Mark(ierr.ErrValidation)
	}
	if c.Auth.Secret == "" {
		return ierr.NewError("auth secret is not configured").
			WithHint("Set COURSEFORGE_AUTH_SECRET").
			Mark(ierr.ErrValidation)
	}
	if c.Deployment.Mode == ModeProduction && len(c.Server.AllowedOrigins) == 0 {
		return ierr.NewError("allowed origins must be configured in production").
			WithHint("Set COURSEFORGE_SERVER_ALLOWED_ORIGINS").
			Mark(ierr.ErrValidation)
	}
	if c.Email.Enabled && c.Email.ResendAPIKey == "" {
		return ierr.NewError("resend api key is required when email is enabled").
			WithHint("Set COURSEFORGE_EMAIL_RESEND_API_KEY").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// IsDevelopment reports whether the process runs in development mode.
func (c *Configuration) IsDevelopment() bool {
	return c.Deployment.Mode != ModeProduction
}

// GetDefaultConfig returns a minimal configuration for contexts that run
// before full config load (scripts, logger bootstrap).
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: ModeDevelopment},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelInfo},
	}
}
