package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/smithy-go"

	"github.com/ErdunE/mira-astrology-companion/internal/domain"
	"github.com/ErdunE/mira-astrology-companion/internal/pkg/lazy"
	"github.com/ErdunE/mira-astrology-companion/internal/pkg/logger"
)

// warmProfile синтетический профиль прогрева, в хранилище не попадает
var warmProfile = &domain.UserProfile{
	UserID:        "keepalive",
	BirthDate:     "2000-01-01",
	BirthLocation: "Keepalive",
	ZodiacSign:    "Capricorn",
}

// Client клиент модели в Bedrock
type Client struct {
	cfg     *Config
	runtime *lazy.Handle[InvokeModelAPI]
	Log     *slog.Logger
}

// NewClient создаёт клиент, runtime инициализируется при первом вызове
func NewClient(cfg *Config, runtime *lazy.Handle[InvokeModelAPI], log *slog.Logger) *Client {
	if runtime == nil {
		runtime = lazy.New(cfg.NewRuntime)
	}
	return &Client{
		cfg:     cfg,
		runtime: runtime,
		Log:     log,
	}
}

func (c *Client) Generate(ctx context.Context, profile *domain.UserProfile, chart domain.ChartData, question string, opts domain.GenerationOptions) (*domain.AIResponse, error) {
	log := logger.FromContext(ctx, c.Log)

	rt, err := c.runtime.Get(ctx)
	if err != nil {
		return nil, c.fail(log, &domain.GenerationError{
			Stage:   domain.StageInit,
			Message: "Failed to initialize Bedrock client",
			Err:     err,
		})
	}

	messages, err := BuildMessages(profile, chart, question)
	if err != nil {
		return nil, c.fail(log, &domain.GenerationError{
			Stage:   domain.StagePromptBuild,
			Message: "Failed to build AI prompt",
			Err:     err,
		})
	}

	payload, err := json.Marshal(invokeRequest{
		Messages:    messages,
		MaxTokens:   c.maxTokens(opts),
		Temperature: c.temperature(opts),
	})
	if err != nil {
		return nil, c.fail(log, &domain.GenerationError{
			Stage:   domain.StagePromptBuild,
			Message: "Failed to build AI prompt",
			Err:     err,
		})
	}

	out, err := rt.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.cfg.ModelID),
		Body:        payload,
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
	})
	if err != nil {
		genErr := &domain.GenerationError{
			Stage:   domain.StageTransport,
			Message: "Bedrock API call failed",
			Err:     err,
		}
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			genErr.Code = apiErr.ErrorCode()
			genErr.Details = apiErr.ErrorMessage()
		}
		return nil, c.fail(log, genErr)
	}

	resp, err := parseResponse(out.Body, c.cfg.ModelID)
	if err != nil {
		log.Debug("unexpected bedrock response",
			"body_preview", logger.Truncate(string(out.Body), 200),
		)
		return nil, c.fail(log, &domain.GenerationError{
			Stage:   domain.StageParse,
			Message: "Invalid response format from Bedrock",
			Err:     err,
		})
	}

	log.Info("ai response generated",
		"model", resp.Model,
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
	)

	return resp, nil
}

// Warm минимальная генерация для установления канала к модели
func (c *Client) Warm(ctx context.Context) error {
	maxTokens := 1
	_, err := c.Generate(ctx, warmProfile, domain.EmptyChart(), "ping", domain.GenerationOptions{MaxTokens: &maxTokens})
	return err
}

func (c *Client) maxTokens(opts domain.GenerationOptions) int {
	if opts.MaxTokens != nil {
		return *opts.MaxTokens
	}
	return c.cfg.MaxTokens
}

func (c *Client) temperature(opts domain.GenerationOptions) float64 {
	if opts.Temperature != nil {
		return *opts.Temperature
	}
	return c.cfg.Temperature
}

func (c *Client) fail(log *slog.Logger, err *domain.GenerationError) error {
	log.Error("ai generation failed",
		"stage", err.Stage,
		"code", err.Code,
		"error", err,
	)
	return err
}

func parseResponse(body []byte, modelID string) (*domain.AIResponse, error) {
	var resp invokeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("response has no choices")
	}
	msg := resp.Choices[0].Message
	if msg == nil || msg.Content == nil {
		return nil, errors.New("choices[0].message.content is missing")
	}

	result := &domain.AIResponse{
		Response: *msg.Content,
		Model:    modelID,
	}
	if resp.Usage != nil {
		result.Usage.InputTokens = max(resp.Usage.PromptTokens, 0)
		result.Usage.OutputTokens = max(resp.Usage.CompletionTokens, 0)
	}

	return result, nil
}
