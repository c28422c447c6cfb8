package service

import (
	"context"

	"github.com/ErdunE/mira-astrology-companion/internal/domain"
)

// IGenerator клиент языковой модели. Любая неудача возвращается как *domain.GenerationError
type IGenerator interface {
	Generate(ctx context.Context, profile *domain.UserProfile, chart domain.ChartData, question string, opts domain.GenerationOptions) (*domain.AIResponse, error)
}

// IModelWarmer прогревает канал к модели
type IModelWarmer interface {
	Warm(ctx context.Context) error
}
