package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"ssoproxy/idp"
	"ssoproxy/internal/config"
	"ssoproxy/internal/metrics"
	"ssoproxy/proxy"
	"ssoproxy/server"
	"ssoproxy/server/authflowrepo"
	"ssoproxy/sessions"
)

func main() {
	for {
		if err := run(); err != nil {
			zlog.Error().Err(err).Msg("Error running server")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	zlog.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			zlog.Error().Msgf("Recovered from panic: %v", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	setupLogging(c)
	displayAppname(c.GetAppName())

	if err := config.Validate(c); err != nil {
		return fmt.Errorf("config.Validate: %w", err)
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	idpClient, err := idp.NewOIDCClient(ctx, c, server.RouteCallback)
	cancel()
	if err != nil {
		return fmt.Errorf("idp.NewOIDCClient: %w", err)
	}

	router, err := proxy.NewRouter(c)
	if err != nil {
		return fmt.Errorf("proxy.NewRouter: %w", err)
	}
	forwarder := proxy.NewForwarder(router, c, m)

	handler := server.New(c, idpClient, sessions.NewInMemoryRepo(), authflowrepo.NewInMemoryRepo(), forwarder, m)
	srv := &http.Server{
		Addr:    c.GetPort(),
		Handler: handler,
		// Only the header read is bounded here; request and response bodies
		// may stream for as long as the upstream allows.
		ReadHeaderTimeout: 10 * time.Second,
	}

	var metricsSrv *http.Server
	if addr := c.GetMetricsPort(); addr != "" {
		metricsSrv = &http.Server{Addr: addr, Handler: metrics.Handler(registry), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			zlog.Info().Str("addr", addr).Msg("Metrics listening")
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				zlog.Error().Err(err).Msg("metrics.ListenAndServe")
			}
		}()
	}

	go listenAndServe(srv)
	waitForStopSignal()

	returnError = shutdown(srv)
	if metricsSrv != nil {
		_ = shutdown(metricsSrv)
	}
	return returnError
}

func listenAndServe(srv *http.Server) {
	zlog.Info().Str("addr", srv.Addr).Msg("OAuth proxy listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		zlog.Error().Err(err).Msg("server.ListenAndServe")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(srv *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func setupLogging(c config.Config) {
	if c.GetEnv() == "development" {
		zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
