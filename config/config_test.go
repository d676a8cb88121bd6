package config_test

import (
	"testing"
	"time"

	"github.com/goliatone/go-contacts-auth/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.Addr)
	assert.Equal(t, 23*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "http://localhost:3000", cfg.BaseURL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, "public/avatars", cfg.AvatarDir)
	assert.Equal(t, "noreply@example.com", cfg.MailFrom)
	assert.False(t, cfg.UseS3())
	assert.False(t, cfg.UseSendGrid())
	assert.False(t, cfg.Debug)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("AVATAR_BUCKET", "avatars")
	t.Setenv("SENDGRID_API_KEY", "SG.key")
	t.Setenv("DEBUG", "true")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.True(t, cfg.UseS3())
	assert.True(t, cfg.UseSendGrid())
	assert.True(t, cfg.Debug)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{}},
		{"short secret", map[string]string{"JWT_SECRET": "short"}},
		{"bad duration", map[string]string{"JWT_SECRET": "0123456789abcdef", "TOKEN_TTL": "soon"}},
		{"bad base url", map[string]string{"JWT_SECRET": "0123456789abcdef", "BASE_URL": "not a url"}},
		{"bad cost", map[string]string{"JWT_SECRET": "0123456789abcdef", "BCRYPT_COST": "99"}},
		{"bad sender", map[string]string{"JWT_SECRET": "0123456789abcdef", "MAIL_FROM": "noreply"}},
		{"bad level", map[string]string{"JWT_SECRET": "0123456789abcdef", "LOG_LEVEL": "chatty"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}

func TestValidateBucketNeedsRegion(t *testing.T) {
	cfg := config.Config{
		Addr:         ":3000",
		DatabaseDSN:  "file:test.db",
		JWTSecret:    "0123456789abcdef",
		TokenTTL:     time.Hour,
		BaseURL:      "http://localhost:3000",
		BcryptCost:   10,
		MailFrom:     "noreply@example.com",
		LogLevel:     "info",
		AvatarBucket: "avatars",
	}
	assert.Error(t, cfg.Validate())

	cfg.S3Region = "eu-west-1"
	assert.NoError(t, cfg.Validate())
}
