// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the interactive client application runtime.
//
// It wires the dashboard, the sync orchestrator and background workers such
// as the connectivity probe into a single process lifecycle.
package client
