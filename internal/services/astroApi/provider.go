package astroApi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ErdunE/mira-astrology-companion/internal/domain"
	"github.com/ErdunE/mira-astrology-companion/internal/pkg/logger"
	"github.com/ErdunE/mira-astrology-companion/internal/ports/cache"
	"github.com/ErdunE/mira-astrology-companion/internal/ports/service"
	"github.com/ErdunE/mira-astrology-companion/internal/ports/storage"
)

// ErrChartUnavailable карты нет ни в кэше, ни в архиве, а расчёт выключен
var ErrChartUnavailable = errors.New("chart unavailable")

func CacheKey(userID string) string {
	return "mira:chart:" + userID
}

func ArchivePath(userID string) string {
	return "charts/" + userID + ".json"
}

// birthKey исходные данные, по которым считалась карта.
// Профиль перезаписывается целиком, поэтому карта с другими данными считается промахом
type birthKey struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	Location string `json:"location"`
	Country  string `json:"country"`
}

func birthKeyOf(profile *domain.UserProfile) birthKey {
	return birthKey{
		Date:     profile.BirthDate,
		Time:     profile.BirthTime,
		Location: profile.BirthLocation,
		Country:  profile.BirthCountry,
	}
}

// storedChart формат записи в кэше и в архиве
type storedChart struct {
	Birth *birthKey        `json:"birth"`
	Chart domain.ChartData `json:"chart"`
}

func (s storedChart) matches(profile *domain.UserProfile) bool {
	return s.Birth != nil && *s.Birth == birthKeyOf(profile)
}

// Provider карта профиля: кэш, затем архив в S3, затем расчёт в астро-API.
// Любой из источников может быть nil
type Provider struct {
	calculator service.IChartCalculator
	cache      cache.Cache
	archive    storage.IObjectStorage
	ttl        time.Duration
	Log        *slog.Logger
}

func NewProvider(calculator service.IChartCalculator, cache cache.Cache, archive storage.IObjectStorage, ttl time.Duration, log *slog.Logger) *Provider {
	return &Provider{
		calculator: calculator,
		cache:      cache,
		archive:    archive,
		ttl:        ttl,
		Log:        log,
	}
}

func (p *Provider) GetChart(ctx context.Context, profile *domain.UserProfile) (domain.ChartData, error) {
	log := logger.FromContext(ctx, p.Log)

	if chart, ok := p.fromCache(ctx, log, profile); ok {
		return chart, nil
	}

	if stored, ok := p.fromArchive(ctx, log, profile); ok {
		p.cacheChart(ctx, log, profile.UserID, stored)
		return stored.Chart, nil
	}

	if p.calculator == nil {
		return domain.EmptyChart(), ErrChartUnavailable
	}

	chart, err := p.calculator.CalculateChart(ctx, profile)
	if err != nil {
		return domain.EmptyChart(), err
	}

	if err := p.Store(ctx, profile, chart); err != nil {
		log.Warn("failed to store calculated chart", "error", err, "user_id", profile.UserID)
	}

	return chart, nil
}

// Store кладёт карту профиля в архив и в кэш вместе с данными рождения
func (p *Provider) Store(ctx context.Context, profile *domain.UserProfile, chart domain.ChartData) error {
	log := logger.FromContext(ctx, p.Log)

	birth := birthKeyOf(profile)
	stored := storedChart{Birth: &birth, Chart: chart}

	if p.archive != nil {
		raw, err := json.Marshal(stored)
		if err != nil {
			return fmt.Errorf("failed to marshal chart: %w", err)
		}
		if err := p.archive.PutFile(ctx, ArchivePath(profile.UserID), raw, "application/json"); err != nil {
			return fmt.Errorf("failed to archive chart: %w", err)
		}
	}

	p.cacheChart(ctx, log, profile.UserID, stored)
	return nil
}

func (p *Provider) fromCache(ctx context.Context, log *slog.Logger, profile *domain.UserProfile) (domain.ChartData, bool) {
	if p.cache == nil {
		return domain.ChartData{}, false
	}

	raw, err := p.cache.Get(ctx, CacheKey(profile.UserID))
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			log.Warn("chart cache read failed", "error", err, "user_id", profile.UserID)
		}
		return domain.ChartData{}, false
	}

	var stored storedChart
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		log.Warn("cached chart is corrupted", "error", err, "user_id", profile.UserID)
		return domain.ChartData{}, false
	}
	if !stored.matches(profile) {
		log.Debug("cached chart is outdated", "user_id", profile.UserID)
		return domain.ChartData{}, false
	}
	return stored.Chart, true
}

func (p *Provider) fromArchive(ctx context.Context, log *slog.Logger, profile *domain.UserProfile) (storedChart, bool) {
	if p.archive == nil {
		return storedChart{}, false
	}

	raw, err := p.archive.GetFile(ctx, ArchivePath(profile.UserID))
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Warn("chart archive read failed", "error", err, "user_id", profile.UserID)
		}
		return storedChart{}, false
	}

	var stored storedChart
	if err := json.Unmarshal(raw, &stored); err != nil {
		log.Warn("archived chart is corrupted", "error", err, "user_id", profile.UserID)
		return storedChart{}, false
	}
	if !stored.matches(profile) {
		log.Debug("archived chart is outdated", "user_id", profile.UserID)
		return storedChart{}, false
	}
	return stored, true
}

func (p *Provider) cacheChart(ctx context.Context, log *slog.Logger, userID string, stored storedChart) {
	if p.cache == nil {
		return
	}

	raw, err := json.Marshal(stored)
	if err != nil {
		log.Warn("failed to marshal chart for cache", "error", err, "user_id", userID)
		return
	}
	if err := p.cache.Set(ctx, CacheKey(userID), string(raw), p.ttl); err != nil {
		log.Warn("chart cache write failed", "error", err, "user_id", userID)
	}
}
