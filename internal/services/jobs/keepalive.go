package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ErdunE/mira-astrology-companion/internal/domain"
)

const keepaliveJobName = "bedrock-keepalive"

type keepaliveRouter interface {
	Handle(ctx context.Context, req *domain.Request) *domain.Response
}

// KeepaliveJob в долгоживущем режиме заменяет правило EventBridge: шлёт роутеру событие прогрева
type KeepaliveJob struct {
	router   keepaliveRouter
	interval time.Duration
	log      *slog.Logger
}

func NewKeepaliveJob(router keepaliveRouter, interval time.Duration, log *slog.Logger) *KeepaliveJob {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &KeepaliveJob{
		router:   router,
		interval: interval,
		log:      log,
	}
}

func (j *KeepaliveJob) Name() string {
	return keepaliveJobName
}

func (j *KeepaliveJob) NextRun(now time.Time) time.Time {
	return now.Add(j.interval)
}

func (j *KeepaliveJob) Run(ctx context.Context) error {
	resp := j.router.Handle(ctx, &domain.Request{
		ID:     uuid.NewString(),
		Source: domain.KeepaliveSource,
	})

	if resp == nil || resp.StatusCode != http.StatusOK {
		return fmt.Errorf("keepalive returned unexpected response: %+v", resp)
	}

	j.log.Debug("keepalive sent")
	return nil
}
