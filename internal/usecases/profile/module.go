package profile

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ErdunE/mira-astrology-companion/internal/domain"
	"github.com/ErdunE/mira-astrology-companion/internal/pkg/logger"
	"github.com/ErdunE/mira-astrology-companion/internal/ports/kafka"
	"github.com/ErdunE/mira-astrology-companion/internal/ports/repository"
	"github.com/ErdunE/mira-astrology-companion/internal/ports/service"
)

const msgCreated = "Profile created successfully"

// Service создание профиля: личность, валидация, знак, запись, событие
type Service struct {
	Identity    service.IIdentityExtractor
	Validator   service.IProfileValidator
	Zodiac      service.IZodiacCalculator
	ProfileRepo repository.IProfileRepo
	// Events может быть nil, если Kafka не настроена
	Events kafka.IProfileEventProducer
	Log    *slog.Logger

	now   func() time.Time
	newID func() string
}

func New(
	identity service.IIdentityExtractor,
	validator service.IProfileValidator,
	zodiac service.IZodiacCalculator,
	profileRepo repository.IProfileRepo,
	events kafka.IProfileEventProducer,
	log *slog.Logger,
) *Service {
	return &Service{
		Identity:    identity,
		Validator:   validator,
		Zodiac:      zodiac,
		ProfileRepo: profileRepo,
		Events:      events,
		Log:         log,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

type zodiacResult struct {
	Sign     string
	Degraded bool
}

type publishResult struct {
	Published bool
	Err       error
}

type createdResponse struct {
	Message string             `json:"message"`
	Profile domain.ProfileView `json:"profile"`
}

func (s *Service) CreateProfile(ctx context.Context, req *domain.Request) *domain.Response {
	log := logger.FromContext(ctx, s.Log)

	identity, err := s.Identity.Extract(req.Event)
	if err != nil {
		log.Warn("unauthorized profile request", "error", err)
		return domain.Unauthorized()
	}
	log = log.With("user_id", identity.UserID)

	body, err := req.JSONObject()
	if err != nil {
		log.Warn("invalid profile body", "error", err)
		return domain.InvalidJSON()
	}

	birth, err := s.Validator.ValidateProfile(body)
	if err != nil {
		details := validationDetails(err)
		log.Warn("profile validation failed", "field", details.Field, "reason", details.Reason)
		return domain.NewErrorResponse(http.StatusBadRequest, domain.CodeValidationError, "Invalid input data", details)
	}

	zodiac := s.zodiacSign(log, birth.BirthDate)

	profile := s.buildProfile(identity, birth, zodiac.Sign)

	if err := s.ProfileRepo.Put(ctx, profile); err != nil {
		var storeErr *domain.StoreError
		if errors.As(err, &storeErr) {
			log.Error("failed to save profile", "error", err, "code", storeErr.Code)
			return domain.NewErrorResponse(http.StatusInternalServerError, domain.CodeDatabaseError, "Failed to save profile",
				domain.ErrorDetails{Reason: storeErr.Message})
		}
		log.Error("unexpected error while saving profile", "error", err)
		return domain.InternalError()
	}

	published := s.publishCreated(ctx, identity.UserID)

	log.Info("profile created",
		"zodiac_sign", profile.ZodiacSign,
		"zodiac_degraded", zodiac.Degraded,
		"event_published", published.Published,
	)

	return domain.NewResponse(http.StatusOK, createdResponse{
		Message: msgCreated,
		Profile: profile.View(),
	})
}

func (s *Service) zodiacSign(log *slog.Logger, birthDate string) zodiacResult {
	sign, err := s.Zodiac.SignFor(birthDate)
	if err != nil || sign == "" {
		log.Warn("zodiac calculation failed, using fallback", "error", err, "birth_date", birthDate)
		return zodiacResult{Sign: domain.ZodiacUnknown, Degraded: true}
	}
	return zodiacResult{Sign: sign}
}

func (s *Service) buildProfile(identity domain.Identity, birth domain.BirthData, sign string) *domain.UserProfile {
	now := s.now().Unix()

	profile := &domain.UserProfile{
		UserID:         identity.UserID,
		BirthDate:      birth.BirthDate,
		BirthTime:      birth.BirthTime,
		BirthLocation:  birth.BirthLocation,
		BirthCountry:   birth.BirthCountry,
		ZodiacSign:     sign,
		CreatedAt:      now,
		UpdatedAt:      now,
		ChartGenerated: false,
	}
	if identity.Email != "" {
		email := identity.Email
		profile.Email = &email
	}
	return profile
}

func (s *Service) publishCreated(ctx context.Context, userID string) publishResult {
	if s.Events == nil {
		return publishResult{}
	}

	event := domain.ProfileEvent{
		EventID:    s.newID(),
		Type:       domain.EventProfileCreated,
		UserID:     userID,
		OccurredAt: s.now().UTC(),
	}
	if err := s.Events.PublishProfileCreated(ctx, event); err != nil {
		logger.FromContext(ctx, s.Log).Error("failed to publish profile event", "error", err, "user_id", userID)
		return publishResult{Err: err}
	}
	return publishResult{Published: true}
}

func validationDetails(err error) domain.ErrorDetails {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return domain.ErrorDetails{Field: validationErr.Field, Reason: validationErr.Reason}
	}
	return domain.ErrorDetails{Field: "unknown", Reason: err.Error()}
}
