package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnvConfig_Defaults(t *testing.T) {
	cfg, err := NewEnvConfig("miratest")
	require.NoError(t, err)

	assert.Equal(t, StoreDynamoDB, cfg.Store.Driver)
	assert.Equal(t, "mira-user-profiles-dev", cfg.DynamoDB.Table)
	assert.Equal(t, "us-east-1", cfg.Bedrock.Region)
	assert.Equal(t, "openai.gpt-oss-20b-1:0", cfg.Bedrock.ModelID)
	assert.Equal(t, 1000, cfg.Bedrock.MaxTokens)
	assert.InDelta(t, 0.7, cfg.Bedrock.Temperature, 1e-9)
	assert.Equal(t, []string{"default"}, cfg.Router.StagePrefixes)
	assert.Equal(t, "*", cfg.Router.CORSOrigin)
	assert.Equal(t, 5*time.Minute, cfg.Jobs.KeepaliveInterval)
	assert.Equal(t, "mira-api", cfg.Service.Name)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.S3.Enabled())
	assert.False(t, cfg.AstroAPI.Enabled())
	assert.Empty(t, cfg.Kafka.List)
}

func TestNewEnvConfig_Overrides(t *testing.T) {
	t.Setenv("MIRATEST_DYNAMODB_TABLE", "profiles-prod")
	t.Setenv("MIRATEST_BEDROCK_MODEL_ID", "custom-model")
	t.Setenv("MIRATEST_ROUTER_STAGE_PREFIXES", "prod,dev")
	t.Setenv("MIRATEST_KAFKA_COUNT", "1")
	t.Setenv("MIRATEST_KAFKA_0_NAME", "profile_events")
	t.Setenv("MIRATEST_KAFKA_0_CONFIG_TOPIC", "mira.profiles")

	cfg, err := NewEnvConfig("miratest")
	require.NoError(t, err)

	assert.Equal(t, "profiles-prod", cfg.DynamoDB.Table)
	assert.Equal(t, "custom-model", cfg.Bedrock.ModelID)
	assert.Equal(t, []string{"prod", "dev"}, cfg.Router.StagePrefixes)

	kafkaCfg, ok := cfg.Kafka.Find("profile_events")
	require.True(t, ok)
	assert.Equal(t, "mira.profiles", kafkaCfg.Topic)
}

func TestNewEnvConfig_UnknownDriver(t *testing.T) {
	t.Setenv("MIRATEST_STORE_DRIVER", "mongo")

	_, err := NewEnvConfig("miratest")
	assert.Error(t, err)
}
