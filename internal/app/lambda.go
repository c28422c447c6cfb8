package app

import (
	"context"
	"fmt"

	lambdaAdapter "github.com/ErdunE/mira-astrology-companion/internal/adapters/primary/lambda"
)

// LambdaHandler собирает обработчик для одного контейнера Lambda.
// Клиенты хранилища и модели создаются при первом запросе и живут, пока жив контейнер
func (a *App) LambdaHandler(ctx context.Context) (*lambdaAdapter.Handler, func(), error) {
	core, err := a.initCore(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to init dependencies: %w", err)
	}

	a.Log.Info("lambda handler ready", "store", a.Cfg.Store.Driver, "model", a.Cfg.Bedrock.ModelID)

	return lambdaAdapter.NewHandler(core.Router, a.Log), func() { a.closeCore(core) }, nil
}
