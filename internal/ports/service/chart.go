package service

import (
	"context"

	"github.com/ErdunE/mira-astrology-companion/internal/domain"
)

// IChartProvider отдаёт натальную карту профиля: кэш, архив, затем астро-API
type IChartProvider interface {
	GetChart(ctx context.Context, profile *domain.UserProfile) (domain.ChartData, error)
}

// IChartCalculator считает карту во внешнем астро-API
type IChartCalculator interface {
	CalculateChart(ctx context.Context, profile *domain.UserProfile) (domain.ChartData, error)
}
