package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fetch_server/internal/config"
	"fetch_server/internal/fetch"
	"fetch_server/internal/middleware"
	"fetch_server/internal/random"
	"fetch_server/internal/transport"
	"fetch_server/internal/version"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var errShutdown = errors.New("shutdown requested")

type Bootstrap struct {
	Config     config.Config
	Server     *fetch.Server
	Logger     *zap.Logger
	SignalChan chan os.Signal
}

func New(config config.Config, handler fetch.Handler, logger *zap.Logger) (*Bootstrap, error) {
	if handler == nil {
		return nil, fmt.Errorf("handler is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	server := fetch.NewServer(handler, logger)
	server.UseRequestMiddleware(middleware.NewForwardedFor())
	server.UseRequestMiddleware(middleware.NewRequestID(random.New()))
	server.UseResponseMiddleware(middleware.NewFingerprint(config.ServerName()))

	return &Bootstrap{
		Config:     config,
		Server:     server,
		Logger:     logger,
		SignalChan: make(chan os.Signal, 1),
	}, nil
}

func (b *Bootstrap) startHTTPServer(ctx context.Context) error {
	httpserver := transport.NewHTTPServer(b.Config.HTTPPort(), b.Server, b.Config.BufferSize(), b.Logger)
	ln, err := httpserver.Listen()
	if err != nil {
		return fmt.Errorf("failed to start http server: %w", err)
	}
	stop := context.AfterFunc(ctx, func() {
		_ = ln.Close()
	})
	defer stop()

	err = httpserver.Serve(ln)
	if errors.Is(err, net.ErrClosed) && ctx.Err() != nil {
		return nil
	}
	return fmt.Errorf("error when serving http server: %w", err)
}

func (b *Bootstrap) startPprof(ctx context.Context) error {
	pprofAddr := fmt.Sprintf("localhost:%s", b.Config.PprofPort())
	srv := &http.Server{
		Addr:              pprofAddr,
		Handler:           http.DefaultServeMux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	stop := context.AfterFunc(ctx, func() {
		_ = srv.Close()
	})
	defer stop()

	b.Logger.Info("Starting pprof server", zap.String("url", "http://"+pprofAddr+"/debug/pprof/"))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("pprof server error: %w", err)
	}
	return nil
}

func (b *Bootstrap) waitSignal(ctx context.Context) error {
	select {
	case sig := <-b.SignalChan:
		b.Logger.Info("Received signal, initiating graceful shutdown", zap.Stringer("signal", sig))
		return errShutdown
	case <-ctx.Done():
		return nil
	}
}

// Run starts every configured service and blocks until a signal arrives or
// one of them fails. A signal-initiated shutdown returns nil.
func (b *Bootstrap) Run() error {
	signal.Notify(b.SignalChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(b.SignalChan)

	g, ctx := errgroup.WithContext(context.Background())

	g.Go(func() error {
		return b.startHTTPServer(ctx)
	})

	if b.Config.PprofEnabled() {
		g.Go(func() error {
			return b.startPprof(ctx)
		})
	}

	g.Go(func() error {
		return b.waitSignal(ctx)
	})

	b.Logger.Info("All services started successfully", version.Fields()...)

	err := g.Wait()
	if errors.Is(err, errShutdown) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("service error: %w", err)
	}
	return nil
}
