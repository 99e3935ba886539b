// Copyright The CivicData Authors.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/civicdata/catalog-query-service/internal/service"
	logging "github.com/civicdata/catalog-query-service/pkg/log"
)

const (
	defaultPort = "8080"
	// gracefulShutdownSeconds should be higher than the NATS client request
	// timeout, and lower than the pod's terminationGracePeriodSeconds.
	gracefulShutdownSeconds = 25
)

func init() {
	logging.InitStructuredLogging()
}

func main() {
	var (
		port = flag.String("p", defaultPort, "listen port")
		bind = flag.String("bind", "*", "interface to bind on")
	)
	flag.Usage = func() {
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()

	ctx := context.Background()
	slog.InfoContext(ctx, "starting catalog query service",
		"bind", *bind,
		"http-port", *port,
		"graceful-shutdown-seconds", gracefulShutdownSeconds,
	)

	searcher := SearcherImpl(ctx)
	registry := DomainRegistryImpl(ctx)
	identity := IdentityResolverImpl(ctx)
	roles := RoleCheckerImpl(ctx)

	resolver := service.NewDomainResolver(registry, identity, roles)
	catalog := service.NewCatalogSearch(resolver, searcher)

	addr := ":" + *port
	if *bind != "*" {
		addr = *bind + ":" + *port
	}
	server := &http.Server{
		Addr:              addr,
		Handler:           newRouter(catalog),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		sig := <-c
		errc <- &signalError{sig.String()}
	}()

	go func() {
		slog.InfoContext(ctx, "HTTP server listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
	}()

	slog.InfoContext(ctx, "received shutdown signal, stopping server",
		"reason", <-errc,
	)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), gracefulShutdownSeconds*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.WarnContext(shutdownCtx, "graceful shutdown did not complete", "error", err)
	}

	slog.InfoContext(shutdownCtx, "closing role checker")
	if err := roles.Close(); err != nil {
		slog.ErrorContext(shutdownCtx, "failed to close role checker", "error", err)
	}

	slog.InfoContext(ctx, "exited")
}

type signalError struct {
	signal string
}

func (e *signalError) Error() string {
	return e.signal
}
