package chart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ErdunE/mira-astrology-companion/internal/domain"
	"github.com/ErdunE/mira-astrology-companion/internal/ports/repository"
	"github.com/ErdunE/mira-astrology-companion/internal/ports/service"
)

type chartStore interface {
	Store(ctx context.Context, profile *domain.UserProfile, chart domain.ChartData) error
}

// Service фоновая генерация натальной карты по событию profile.created
type Service struct {
	ProfileRepo repository.IProfileRepo
	Calculator  service.IChartCalculator
	Charts      chartStore
	Log         *slog.Logger
	now         func() time.Time
}

func New(profileRepo repository.IProfileRepo, calculator service.IChartCalculator, charts chartStore, log *slog.Logger) *Service {
	return &Service{
		ProfileRepo: profileRepo,
		Calculator:  calculator,
		Charts:      charts,
		Log:         log,
		now:         time.Now,
	}
}

func (s *Service) GenerateChart(ctx context.Context, userID string) error {
	profile, err := s.ProfileRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			s.Log.Warn("profile for chart not found", "user_id", userID)
			return domain.WrapBusinessError(err)
		}
		return fmt.Errorf("failed to load profile: %w", err)
	}

	chart, err := s.Calculator.CalculateChart(ctx, profile)
	if err != nil {
		return fmt.Errorf("failed to calculate chart: %w", err)
	}

	// архив и кэш не критичны, флаг выставляем в любом случае
	if err := s.Charts.Store(ctx, profile, chart); err != nil {
		s.Log.Warn("failed to store chart", "error", err, "user_id", userID)
	}

	if err := s.ProfileRepo.MarkChartGenerated(ctx, userID, s.now().Unix()); err != nil {
		return fmt.Errorf("failed to mark chart generated: %w", err)
	}

	s.Log.Info("chart generated", "user_id", userID)
	return nil
}
