package chat

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ErdunE/mira-astrology-companion/internal/domain"
	"github.com/ErdunE/mira-astrology-companion/internal/services/identity"
	"github.com/ErdunE/mira-astrology-companion/internal/services/validation"
)

type fakeRepo struct {
	profile *domain.UserProfile
	err     error
}

func (f *fakeRepo) Put(ctx context.Context, profile *domain.UserProfile) error { return nil }

func (f *fakeRepo) Get(ctx context.Context, userID string) (*domain.UserProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}

func (f *fakeRepo) MarkChartGenerated(ctx context.Context, userID string, at int64) error { return nil }

func (f *fakeRepo) Ping(ctx context.Context) error { return nil }

type fakeCharts struct {
	chart domain.ChartData
	err   error
}

func (f fakeCharts) GetChart(ctx context.Context, profile *domain.UserProfile) (domain.ChartData, error) {
	return f.chart, f.err
}

type generateCall struct {
	chart    domain.ChartData
	question string
	opts     domain.GenerationOptions
}

type fakeGenerator struct {
	calls []generateCall
	resp  *domain.AIResponse
	err   error
}

func (f *fakeGenerator) Generate(ctx context.Context, profile *domain.UserProfile, chart domain.ChartData, question string, opts domain.GenerationOptions) (*domain.AIResponse, error) {
	f.calls = append(f.calls, generateCall{chart: chart, question: question, opts: opts})
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func newService(repo *fakeRepo, charts fakeCharts, gen *fakeGenerator) *Service {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	now := func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }
	return New(identity.New(log), validation.New(now), repo, charts, gen, log)
}

func authorized(body string) *domain.Request {
	return &domain.Request{
		Path:   "/chat",
		Method: http.MethodPost,
		Body:   []byte(body),
		Event: map[string]any{
			"requestContext": map[string]any{
				"authorizer": map[string]any{
					"claims": map[string]any{"sub": "user-1"},
				},
			},
		},
	}
}

func bodyOf(t *testing.T, resp *domain.Response) map[string]any {
	t.Helper()
	raw, err := json.Marshal(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func errorCode(t *testing.T, resp *domain.Response) string {
	t.Helper()
	e, ok := bodyOf(t, resp)["error"].(map[string]any)
	require.True(t, ok)
	return e["code"].(string)
}

var profile = &domain.UserProfile{UserID: "user-1", ZodiacSign: "Leo", BirthDate: "1990-08-01"}

func TestAsk_Success(t *testing.T) {
	chart := domain.ChartData{Data: map[string]any{"sun": "Leo"}, Aspects: []any{}}
	gen := &fakeGenerator{resp: &domain.AIResponse{
		Response: "Shine on.",
		Usage:    domain.Usage{InputTokens: 120, OutputTokens: 8},
		Model:    "openai.gpt-oss-20b-1:0",
	}}

	resp := newService(&fakeRepo{profile: profile}, fakeCharts{chart: chart}, gen).
		Ask(context.Background(), authorized(`{"question":" How is my week? ","max_tokens":200}`))

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := bodyOf(t, resp)
	assert.Equal(t, "Shine on.", body["response"])
	assert.Equal(t, "openai.gpt-oss-20b-1:0", body["model"])
	assert.Equal(t, map[string]any{"input_tokens": 120.0, "output_tokens": 8.0}, body["usage"])

	require.Len(t, gen.calls, 1)
	assert.Equal(t, "How is my week?", gen.calls[0].question)
	assert.Equal(t, chart, gen.calls[0].chart)
	require.NotNil(t, gen.calls[0].opts.MaxTokens)
	assert.Equal(t, 200, *gen.calls[0].opts.MaxTokens)
	assert.Nil(t, gen.calls[0].opts.Temperature)
}

func TestAsk_ChartFailureDegrades(t *testing.T) {
	gen := &fakeGenerator{resp: &domain.AIResponse{Response: "ok", Model: "m"}}

	resp := newService(&fakeRepo{profile: profile}, fakeCharts{err: errors.New("astro api down")}, gen).
		Ask(context.Background(), authorized(`{"question":"q"}`))

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, gen.calls, 1)
	assert.True(t, gen.calls[0].chart.IsEmpty())
}

func TestAsk_Errors(t *testing.T) {
	tests := []struct {
		name   string
		req    *domain.Request
		repo   *fakeRepo
		gen    *fakeGenerator
		status int
		code   string
	}{
		{
			name:   "без личности",
			req:    &domain.Request{Body: []byte(`{"question":"q"}`)},
			repo:   &fakeRepo{profile: profile},
			status: http.StatusUnauthorized,
			code:   domain.CodeUnauthorized,
		},
		{
			name:   "битый json",
			req:    authorized(`{"question":`),
			repo:   &fakeRepo{profile: profile},
			status: http.StatusBadRequest,
			code:   domain.CodeInvalidJSON,
		},
		{
			name:   "пустой вопрос",
			req:    authorized(`{"question":""}`),
			repo:   &fakeRepo{profile: profile},
			status: http.StatusBadRequest,
			code:   domain.CodeValidationError,
		},
		{
			name:   "нет профиля",
			req:    authorized(`{"question":"q"}`),
			repo:   &fakeRepo{err: domain.ErrProfileNotFound},
			status: http.StatusNotFound,
			code:   domain.CodeProfileNotFound,
		},
		{
			name:   "ошибка хранилища",
			req:    authorized(`{"question":"q"}`),
			repo:   &fakeRepo{err: &domain.StoreError{Code: "ProvisionedThroughputExceededException", Message: "slow down"}},
			status: http.StatusInternalServerError,
			code:   domain.CodeDatabaseError,
		},
		{
			name:   "неожиданная ошибка",
			req:    authorized(`{"question":"q"}`),
			repo:   &fakeRepo{err: errors.New("boom")},
			status: http.StatusInternalServerError,
			code:   domain.CodeInternalError,
		},
		{
			name: "ошибка модели",
			req:  authorized(`{"question":"q"}`),
			repo: &fakeRepo{profile: profile},
			gen: &fakeGenerator{err: &domain.GenerationError{
				Stage:   domain.StageTransport,
				Message: "Bedrock API call failed",
				Code:    "ThrottlingException",
			}},
			status: http.StatusInternalServerError,
			code:   domain.CodeAIError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := tt.gen
			if gen == nil {
				gen = &fakeGenerator{resp: &domain.AIResponse{}}
			}

			resp := newService(tt.repo, fakeCharts{chart: domain.EmptyChart()}, gen).Ask(context.Background(), tt.req)

			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.code, errorCode(t, resp))
		})
	}
}

func TestAsk_AIErrorHidesProviderDetails(t *testing.T) {
	gen := &fakeGenerator{err: &domain.GenerationError{
		Stage:   domain.StageTransport,
		Message: "Bedrock API call failed",
		Code:    "AccessDeniedException",
		Details: "not authorized to invoke model",
	}}

	resp := newService(&fakeRepo{profile: profile}, fakeCharts{}, gen).Ask(context.Background(), authorized(`{"question":"q"}`))

	raw, err := json.Marshal(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":{"code":"AI_ERROR","message":"Failed to generate response"}}`, string(raw))
}
