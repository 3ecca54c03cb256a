// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks record-shaped input at the service boundary of
// the remote backend. A validator may be scoped to a subset of fields so a
// partial update is not rejected for fields it does not carry.
package validators

import "context"

// Validator validates v. When fields are given, only those fields are
// checked.
type Validator interface {
	Validate(ctx context.Context, v any, fields ...string) error
}
