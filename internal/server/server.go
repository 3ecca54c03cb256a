// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"context"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/go-fin-sync/internal/config"
	"github.com/MKhiriev/go-fin-sync/internal/handler"
	"github.com/MKhiriev/go-fin-sync/internal/logger"
)

type server struct {
	httpServer *httpServer
	gRPCServer *grpcServer

	shutdownOnce sync.Once
	logger       *logger.Logger
}

func NewServer(handlers *handler.Handlers, cfg config.Server, logger *logger.Logger) (Server, error) {
	logger.Info().Msg("creating new server...")
	servers := &server{logger: logger}

	if cfg.HTTPAddress != "" && handlers.HTTP != nil {
		servers.httpServer = newHTTPServer(handlers.HTTP.Init(), cfg, logger)
	}
	if cfg.GRPCAddress != "" && handlers.GRPC != nil {
		servers.gRPCServer = newGRPCServer(handlers.GRPC, cfg, logger)
	}

	if servers.httpServer == nil && servers.gRPCServer == nil {
		return nil, errNoServersAreCreated
	}

	return servers, nil
}

// RunServer blocks until ctx is done, SIGTERM/SIGINT/SIGQUIT arrives or one
// of the transports fails. Every transport is shut down before it returns.
func (s *server) RunServer(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	if s.httpServer != nil {
		g.Go(s.httpServer.run)
	}
	if s.gRPCServer != nil {
		g.Go(s.gRPCServer.run)
	}

	// listen for stop signals
	g.Go(func() error {
		<-gctx.Done()
		s.Shutdown()
		return nil
	})

	err := g.Wait()
	s.logger.Info().Msg("server Shutdown gracefully")
	return err
}

func (s *server) Shutdown() {
	s.shutdownOnce.Do(func() {
		if s.httpServer != nil {
			s.httpServer.shutdown()
		}
		if s.gRPCServer != nil {
			s.gRPCServer.shutdown()
		}
	})
}
