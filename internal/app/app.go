package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ErdunE/mira-astrology-companion/internal/pkg/logger"
)

type App struct {
	Name string
	Cfg  *Config
	Log  *slog.Logger
}

func New(name string, cfg *Config) *App {
	return &App{
		Name: name,
		Cfg:  cfg,
		Log:  logger.New(name, cfg.Log),
	}
}

// Run долгоживущий режим: локальный шлюз, воркер карт, прогрев по расписанию
func (a *App) Run(ctx context.Context) error {
	a.Log.Info("running mira api", "store", a.Cfg.Store.Driver, "model", a.Cfg.Bedrock.ModelID)

	deps, err := a.initDependencies(ctx)
	if err != nil {
		return fmt.Errorf("failed to init dependencies: %w", err)
	}

	return a.runServices(ctx, deps)
}
