package chat

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ErdunE/mira-astrology-companion/internal/domain"
	"github.com/ErdunE/mira-astrology-companion/internal/pkg/logger"
	"github.com/ErdunE/mira-astrology-companion/internal/ports/repository"
	"github.com/ErdunE/mira-astrology-companion/internal/ports/service"
)

// Service вопрос к Mira: профиль, карта, генерация ответа
type Service struct {
	Identity    service.IIdentityExtractor
	Validator   service.IChatValidator
	ProfileRepo repository.IProfileRepo
	// Charts может быть nil, тогда в промпт уходит пустая карта
	Charts    service.IChartProvider
	Generator service.IGenerator
	Log       *slog.Logger
}

func New(
	identity service.IIdentityExtractor,
	validator service.IChatValidator,
	profileRepo repository.IProfileRepo,
	charts service.IChartProvider,
	generator service.IGenerator,
	log *slog.Logger,
) *Service {
	return &Service{
		Identity:    identity,
		Validator:   validator,
		ProfileRepo: profileRepo,
		Charts:      charts,
		Generator:   generator,
		Log:         log,
	}
}

type chartResult struct {
	Chart    domain.ChartData
	Degraded bool
}

func (s *Service) Ask(ctx context.Context, req *domain.Request) *domain.Response {
	log := logger.FromContext(ctx, s.Log)

	identity, err := s.Identity.Extract(req.Event)
	if err != nil {
		log.Warn("unauthorized chat request", "error", err)
		return domain.Unauthorized()
	}
	log = log.With("user_id", identity.UserID)

	body, err := req.JSONObject()
	if err != nil {
		log.Warn("invalid chat body", "error", err)
		return domain.InvalidJSON()
	}

	input, err := s.Validator.ValidateChat(body)
	if err != nil {
		var validationErr *domain.ValidationError
		details := domain.ErrorDetails{Field: "unknown", Reason: err.Error()}
		if errors.As(err, &validationErr) {
			details = domain.ErrorDetails{Field: validationErr.Field, Reason: validationErr.Reason}
		}
		log.Warn("chat validation failed", "field", details.Field, "reason", details.Reason)
		return domain.NewErrorResponse(http.StatusBadRequest, domain.CodeValidationError, "Invalid input data", details)
	}

	profile, err := s.ProfileRepo.Get(ctx, identity.UserID)
	if err != nil {
		return s.profileError(log, err)
	}

	chart := s.chart(ctx, log, profile)

	answer, err := s.Generator.Generate(ctx, profile, chart.Chart, input.Question, input.Options)
	if err != nil {
		var genErr *domain.GenerationError
		if errors.As(err, &genErr) {
			log.Error("generation failed", "stage", genErr.Stage, "code", genErr.Code, "error", err)
		} else {
			log.Error("generation failed", "error", err)
		}
		return domain.NewErrorResponse(http.StatusInternalServerError, domain.CodeAIError, "Failed to generate response", nil)
	}

	log.Info("chat answered",
		"model", answer.Model,
		"input_tokens", answer.Usage.InputTokens,
		"output_tokens", answer.Usage.OutputTokens,
		"chart_degraded", chart.Degraded,
	)

	return domain.NewResponse(http.StatusOK, answer)
}

func (s *Service) profileError(log *slog.Logger, err error) *domain.Response {
	if errors.Is(err, domain.ErrProfileNotFound) {
		log.Warn("chat without profile")
		return domain.NewErrorResponse(http.StatusNotFound, domain.CodeProfileNotFound,
			"Profile not found. Please create your profile first", nil)
	}

	var storeErr *domain.StoreError
	if errors.As(err, &storeErr) {
		log.Error("failed to load profile", "error", err, "code", storeErr.Code)
		return domain.NewErrorResponse(http.StatusInternalServerError, domain.CodeDatabaseError, "Failed to load profile",
			domain.ErrorDetails{Reason: storeErr.Message})
	}

	log.Error("unexpected error while loading profile", "error", err)
	return domain.InternalError()
}

func (s *Service) chart(ctx context.Context, log *slog.Logger, profile *domain.UserProfile) chartResult {
	if s.Charts == nil {
		return chartResult{Chart: domain.EmptyChart(), Degraded: true}
	}

	chart, err := s.Charts.GetChart(ctx, profile)
	if err != nil {
		log.Warn("chart unavailable, answering without it", "error", err)
		return chartResult{Chart: domain.EmptyChart(), Degraded: true}
	}
	return chartResult{Chart: chart}
}
