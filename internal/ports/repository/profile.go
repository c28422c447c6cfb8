package repository

import (
	"context"

	"github.com/ErdunE/mira-astrology-companion/internal/domain"
)

// IProfileRepo хранилище профилей. Классифицированные ошибки хранилища
// возвращаются как *domain.StoreError, отсутствие записи как domain.ErrProfileNotFound
type IProfileRepo interface {
	// Put идемпотентная перезапись записи по user_id
	Put(ctx context.Context, profile *domain.UserProfile) error
	Get(ctx context.Context, userID string) (*domain.UserProfile, error)
	MarkChartGenerated(ctx context.Context, userID string, at int64) error
	Ping(ctx context.Context) error
}
