// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package server wires and runs the backend's transport servers.
//
// It owns the HTTP and gRPC server lifecycles: startup, signal handling and
// graceful shutdown of all enabled transports.
package server
