package bedrock

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

type Config struct {
	Region      string  `envconfig:"REGION" default:"us-east-1"`
	ModelID     string  `envconfig:"MODEL_ID" default:"openai.gpt-oss-20b-1:0"`
	MaxTokens   int     `envconfig:"MAX_TOKENS" default:"1000"`
	Temperature float64 `envconfig:"TEMPERATURE" default:"0.7"`
	EndpointURL string  `envconfig:"ENDPOINT_URL"` // VPC interface endpoint, пусто - публичный
}

// NewRuntime создаёт клиент bedrock-runtime без ретраев SDK
func (c *Config) NewRuntime(ctx context.Context) (InvokeModelAPI, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(c.Region),
		awsconfig.WithRetryMaxAttempts(1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return bedrockruntime.NewFromConfig(awsCfg, func(o *bedrockruntime.Options) {
		if c.EndpointURL != "" {
			o.BaseEndpoint = aws.String(c.EndpointURL)
		}
	}), nil
}
