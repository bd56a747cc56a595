package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OPENAI_MODEL", "")
	t.Setenv("JWT_EXPIRES_MIN", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
	assert.Equal(t, "gemini-2.5-flash-image", cfg.GoogleImageModel)
	assert.Equal(t, 43200, cfg.JWTExpiresMin)
	assert.Equal(t, "openai", cfg.CaptionProvider)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("CORS_ORIGINS", "https://jpart.at, https://www.jpart.at ,")
	t.Setenv("FRONTEND_URL", "https://jpart.at/")
	t.Setenv("JWT_EXPIRES_MIN", "60")
	t.Setenv("CAPTION_PROVIDER", "Gemini")
	t.Setenv("GOOGLE_API_KEY", "g-key")

	cfg := Load()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []string{"https://jpart.at", "https://www.jpart.at"}, cfg.CORSOrigins)
	assert.Equal(t, "https://jpart.at", cfg.FrontendURL)
	assert.Equal(t, 60, cfg.JWTExpiresMin)
	assert.Equal(t, "gemini", cfg.CaptionProvider)
	assert.True(t, cfg.CaptionConfigured())
	assert.True(t, cfg.StagingConfigured())
}

func TestStripeConfigured(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"", false},
		{"   ", false},
		{"sk_test_PLACEHOLDER", false},
		{"sk_test_51abc", true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			cfg := &Config{StripeSecretKey: tt.key}
			assert.Equal(t, tt.want, cfg.StripeConfigured())
		})
	}
}
