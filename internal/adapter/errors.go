// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import "errors"

// Sentinel errors mapped from the remote backend's HTTP status codes.
var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrBadGateway          = errors.New("bad gateway")
	ErrInternalServerError = errors.New("internal server error")
	ErrServiceUnavailable  = errors.New("service unavailable")
)

var (
	// ErrInvalidAddress is returned by constructors for an unusable base
	// address.
	ErrInvalidAddress = errors.New("invalid remote address")

	// ErrInvalidCollection is returned for collections the backend does not
	// serve.
	ErrInvalidCollection = errors.New("invalid collection")

	// ErrNoToken is returned when the adapter has no bearer token to present.
	ErrNoToken = errors.New("no bearer token configured")

	// ErrProbeFailed is returned by connectivity probes when the backend is
	// reachable but not serving.
	ErrProbeFailed = errors.New("connectivity probe failed")
)
