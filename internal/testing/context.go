// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package testing

import (
	"context"

	"github.com/matthewd/cfme-tests/internal/meta"
)

// currentUnitKey is the key used for attaching the running Unit to a context.Context.
type currentUnitKey struct{}

// NewContext returns a context carrying u as the currently running unit.
func NewContext(ctx context.Context, u *Unit) context.Context {
	return context.WithValue(ctx, currentUnitKey{}, u)
}

// UnitFromContext returns the unit attached to ctx by NewContext.
func UnitFromContext(ctx context.Context) (*Unit, bool) {
	u, ok := ctx.Value(currentUnitKey{}).(*Unit)
	return u, ok
}

// ContextMetadata returns the merged metadata of the unit running in ctx.
// It returns empty metadata when no unit is attached, so bodies can read
// keys without checking.
func ContextMetadata(ctx context.Context) meta.Metadata {
	u, ok := UnitFromContext(ctx)
	if !ok {
		return meta.Metadata{}
	}
	return u.Metadata()
}
