// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package config provides configuration loading, merging, and validation
// facilities for the go-fin-sync binaries.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  0. Built-in defaults
//  1. Environment variables, with a dotenv file filling unset ones
//  2. Command-line flags
//  3. JSON config file
//
// The main entry points are [GetServerConfig] for cmd/server and
// [GetClientConfig] for the sync client.
package config
