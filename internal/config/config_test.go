package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valentinpelus/unicornfeedback/pkg/store"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "STORE_BACKEND", "STORE_LOOKUP_MODE", "TABLE_NAME", "SENTIMENT_PROVIDER", "GENDER_ENDPOINT", "LEGACY_SILENT_ERRORS", "AWS_REGION"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "dynamodb", cfg.StoreBackend)
	assert.Equal(t, "scan", cfg.StoreLookupMode)
	assert.Equal(t, "UnicornFeedback", cfg.TableName)
	assert.Equal(t, "comprehend", cfg.SentimentProvider)
	assert.Equal(t, "tf-names-2018-03-21-16-48-01-322", cfg.GenderEndpoint)
	assert.Equal(t, "us-west-2", cfg.AWSRegion)
	assert.False(t, cfg.LegacySilentErrors)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("STORE_LOOKUP_MODE", "index")
	t.Setenv("SENTIMENT_PROVIDER", "bedrock")
	t.Setenv("LEGACY_SILENT_ERRORS", "true")

	cfg := LoadConfig()
	require.NoError(t, cfg.Validate())

	assert.True(t, cfg.LegacySilentErrors)

	sc := cfg.StoreConfig()
	assert.Equal(t, "memory", sc.Backend)
	assert.Equal(t, store.LookupIndex, sc.LookupMode)

	cc := cfg.ClassifierConfig()
	assert.Equal(t, "bedrock", cc.SentimentProvider)
	assert.Equal(t, "sagemaker", cc.GenderProvider)
}

func TestLoadConfig_InvalidBoolFallsBack(t *testing.T) {
	t.Setenv("LEGACY_SILENT_ERRORS", "sometimes")
	assert.False(t, LoadConfig().LegacySilentErrors)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			StoreBackend:      "dynamodb",
			StoreLookupMode:   "scan",
			SentimentProvider: "comprehend",
			GenderProvider:    "sagemaker",
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"valid", func(c *Config) {}, ""},
		{"postgres needs url", func(c *Config) { c.StoreBackend = "postgres" }, "DATABASE_URL"},
		{"postgres with url", func(c *Config) { c.StoreBackend = "postgres"; c.DatabaseURL = "postgres://x" }, ""},
		{"unknown backend", func(c *Config) { c.StoreBackend = "redis" }, "STORE_BACKEND"},
		{"unknown lookup", func(c *Config) { c.StoreLookupMode = "hash" }, "lookup mode"},
		{"unknown sentiment", func(c *Config) { c.SentimentProvider = "vader" }, "SENTIMENT_PROVIDER"},
		{"unknown gender", func(c *Config) { c.GenderProvider = "x" }, "GENDER_PROVIDER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.errMsg)
			}
		})
	}
}
