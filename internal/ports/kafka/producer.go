package kafka

import (
	"context"

	"github.com/ErdunE/mira-astrology-companion/internal/domain"
)

// IProfileEventProducer публикует события о профилях
type IProfileEventProducer interface {
	PublishProfileCreated(ctx context.Context, event domain.ProfileEvent) error
	Close() error
}
