// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package http implements the REST transport of the go-fin-sync backend.
//
// Every record route is scoped to the user named by the bearer token. The
// change feed is a long poll: GET /api/records/{collection}/changes holds
// the request until the collection moves past the client's cursor and then
// answers with the full snapshot, or answers 204 No Content when the wait
// elapses.
//
// Cross-cutting concerns (request tracing, access logging, compression and
// body integrity checks) are handled by middleware before requests reach
// the service layer.
package http
