// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/MKhiriev/go-fin-sync/internal/utils"
)

// NewHTTPPingProbe returns a [ProbeFunc] issuing GET /api/ping against
// address.
func NewHTTPPingProbe(address string) (ProbeFunc, error) {
	baseURL, err := normalizeBaseURL(address)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	client := utils.NewHTTPClient(utils.HTTPClientOptions{BaseURL: baseURL})

	return func(ctx context.Context) error {
		resp, err := client.R().SetContext(ctx).Get(pingPath)
		if err != nil {
			return err
		}
		return mapHTTPError(resp)
	}, nil
}

// GRPCHealthProbe checks the standard grpc.health.v1 service of the remote
// backend over one long-lived client connection.
type GRPCHealthProbe struct {
	conn   *grpc.ClientConn
	client healthpb.HealthClient
}

// NewGRPCHealthProbe prepares the connection; nothing is dialed until the
// first check.
func NewGRPCHealthProbe(address string) (*GRPCHealthProbe, error) {
	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	return &GRPCHealthProbe{conn: conn, client: healthpb.NewHealthClient(conn)}, nil
}

// Probe is a [ProbeFunc].
func (g *GRPCHealthProbe) Probe(ctx context.Context) error {
	resp, err := g.client.Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		return err
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("%w: %s", ErrProbeFailed, resp.GetStatus())
	}
	return nil
}

func (g *GRPCHealthProbe) Close() error {
	return g.conn.Close()
}
