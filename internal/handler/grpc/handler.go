// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package grpc exposes the backend's gRPC surface: the standard
// grpc.health.v1 service that clients use as their connectivity probe.
package grpc

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/MKhiriev/go-fin-sync/internal/logger"
	"github.com/MKhiriev/go-fin-sync/internal/service"
)

// RecordsServiceName is the health-check service name reported for the
// record API. The empty name reports overall server health.
const RecordsServiceName = "gofinsync.Records"

// Handler is the root gRPC transport handler.
type Handler struct {
	services *service.Services
	health   *health.Server

	logger *logger.Logger
}

// NewHandler constructs a [Handler]. Health starts as NOT_SERVING until
// [Handler.SetServing] is called.
func NewHandler(services *service.Services, logger *logger.Logger) *Handler {
	h := &Handler{
		services: services,
		health:   health.NewServer(),
		logger:   logger,
	}
	h.SetServing(false)

	logger.Debug().Msg("gRPC handler created")
	return h
}

// Register attaches the handler's services to s.
func (h *Handler) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.health)
}

// SetServing flips the reported health of the server and the record API.
func (h *Handler) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(RecordsServiceName, status)
}

// Shutdown reports NOT_SERVING for every service and ignores later updates.
func (h *Handler) Shutdown() {
	h.health.Shutdown()
}
