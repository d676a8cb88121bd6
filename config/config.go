package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-errors"
)

// MinSecretLength is the shortest JWT secret accepted
const MinSecretLength = 16

// Config is the service configuration, read from the environment
type Config struct {
	Addr        string        `env:"ADDR" envDefault:":3000"`
	DatabaseDSN string        `env:"DATABASE_DSN" envDefault:"file:contacts.db?cache=shared&_pragma=foreign_keys(1)"`
	JWTSecret   string        `env:"JWT_SECRET"`
	TokenTTL    time.Duration `env:"TOKEN_TTL" envDefault:"23h"`
	BaseURL     string        `env:"BASE_URL" envDefault:"http://localhost:3000"`
	BcryptCost  int           `env:"BCRYPT_COST" envDefault:"10"`

	SendGridAPIKey string `env:"SENDGRID_API_KEY"`
	MailFrom       string `env:"MAIL_FROM" envDefault:"noreply@example.com"`

	AvatarDir    string `env:"AVATAR_DIR" envDefault:"public/avatars"`
	AvatarBucket string `env:"AVATAR_BUCKET"`
	S3Region     string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Endpoint   string `env:"S3_ENDPOINT"`
	S3AccessKey  string `env:"S3_ACCESS_KEY"`
	S3SecretKey  string `env:"S3_SECRET_KEY"`
	S3PublicURL  string `env:"S3_PUBLIC_URL"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	Debug    bool   `env:"DEBUG" envDefault:"false"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return errors.Wrap(err, errors.CategoryValidation, "parse env")
	}
	return nil
}

// Load parses and validates the configuration
func Load() (*Config, error) {
	cfg := &Config{}
	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "invalid configuration")
	}

	return cfg, nil
}

// Validate will validate the configuration
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Addr, validation.Required),
		validation.Field(&c.DatabaseDSN, validation.Required),
		validation.Field(&c.JWTSecret, validation.Required, validation.Length(MinSecretLength, 0)),
		validation.Field(&c.TokenTTL, validation.Required, validation.Min(time.Minute)),
		validation.Field(&c.BaseURL, validation.Required, is.URL),
		validation.Field(&c.BcryptCost, validation.Min(4), validation.Max(31)),
		validation.Field(&c.MailFrom, validation.Required, is.Email),
		validation.Field(&c.LogLevel, validation.In("trace", "debug", "info", "warn", "warning", "error")),
		validation.Field(&c.S3Region, validation.By(requiredWhen(c.UseS3()))),
	)
}

func requiredWhen(cond bool) validation.RuleFunc {
	return func(value any) error {
		if !cond {
			return nil
		}
		return validation.Validate(value, validation.Required)
	}
}

// UseS3 reports whether avatars go to a bucket instead of AvatarDir
func (c Config) UseS3() bool {
	return c.AvatarBucket != ""
}

// UseSendGrid reports whether a SendGrid key is configured
func (c Config) UseSendGrid() bool {
	return c.SendGridAPIKey != ""
}
