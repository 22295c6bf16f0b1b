package main

import (
	"context"
	"log"
	"os"

	"fetch_server/internal/bootstrap"
	"fetch_server/internal/config"
	"fetch_server/internal/fetch"
	"fetch_server/internal/logging"
	"fetch_server/internal/version"

	"go.uber.org/zap"
)

func main() {
	conf, err := config.MustLoad()
	if err != nil {
		log.Fatalf("Failed to load configuration: %s", err)
	}

	logger, err := logging.New(conf.LogLevel(), conf.LogFormat())
	if err != nil {
		log.Fatalf("Failed to create logger: %s", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	logger.Info("Starting " + version.GetVersion())

	handler := fetch.HandlerFunc(func(ctx context.Context, req *fetch.Request, res *fetch.Response) (*fetch.Response, error) {
		logger.Info("request",
			zap.String("url", req.URL().String()),
			zap.Stringer("headers", req.Headers()),
		)
		return fetch.NewResponse("hello world!", &fetch.ResponseInit{
			Headers: map[string]string{"content-type": "foo"},
		})
	})

	app, err := bootstrap.New(conf, handler, logger)
	if err != nil {
		logger.Fatal("Failed to initialize application", zap.Error(err))
	}

	if err = app.Run(); err != nil {
		logger.Error("Application error", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}
