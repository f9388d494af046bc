package main

import (
	"context"
	"net/http"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/kiran-mendhe-8/Home-Assignment-BP/backend-go/internal/api"
	"github.com/kiran-mendhe-8/Home-Assignment-BP/backend-go/internal/app"
	"github.com/kiran-mendhe-8/Home-Assignment-BP/backend-go/internal/config"
	"github.com/kiran-mendhe-8/Home-Assignment-BP/backend-go/internal/handler"
	"github.com/rs/zerolog/log"
)

var (
	lambdaStart     = lambda.Start // Allow mocking of lambda.Start in tests
	stationsHandler *handler.StationsHandler
	setupOnce       sync.Once
	setupErr        error
)

// setup runs once per cold start. The controller stays alive for the life of
// the execution environment so warm invocations reuse its state.
func setup(ctx context.Context) error {
	setupOnce.Do(func() {
		cfg := config.LoadFromEnv()
		cfg.InitializeLogging()

		a, err := app.New(ctx, cfg)
		if err != nil {
			setupErr = err
			return
		}
		stationsHandler = a.Handler
	})
	return setupErr
}

func handleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if stationsHandler == nil {
		return api.Error("Service unavailable", http.StatusServiceUnavailable)
	}
	return stationsHandler.HandleRequest(ctx, request)
}

func main() {
	if err := setup(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize stations service")
	}
	lambdaStart(handleRequest)
}
