package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/ErdunE/mira-astrology-companion/internal/app"
)

const appName = "mira"

func main() {
	cfg, err := app.NewEnvConfig(appName)
	if err != nil {
		panic(err)
	}

	// в CloudWatch по умолчанию json
	if os.Getenv("MIRA_LOG_ENCODING") == "" {
		cfg.Log.Encoding = "json"
	}

	application := app.New(appName, cfg)

	handler, closeFn, err := application.LambdaHandler(context.Background())
	if err != nil {
		panic(err)
	}
	defer closeFn()

	lambda.StartWithOptions(handler.Invoke, lambda.WithEnableSIGTERM(closeFn))
}
