package healthcheckController

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheckController готовность локального процесса, GET /health обслуживает роутер
type HealthCheckController struct {
	store   pinger
	timeout time.Duration
	log     *slog.Logger
}

func New(store pinger, log *slog.Logger) *HealthCheckController {
	return &HealthCheckController{
		store:   store,
		timeout: 3 * time.Second,
		log:     log,
	}
}

func (c *HealthCheckController) RegisterRoutes(r *gin.Engine) {
	r.GET("/ready", c.ready)
}

// ready проверка готовности (проверяет доступность хранилища профилей)
func (c *HealthCheckController) ready(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), c.timeout)
	defer cancel()

	if err := c.store.Ping(pingCtx); err != nil {
		c.log.Error("Profile store not ready", "error", err)
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"error":  "profile store unavailable",
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}
