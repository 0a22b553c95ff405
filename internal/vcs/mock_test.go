// Copyright 2026 The fgbuild Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vcs

import (
	"context"
)

// mockTool implements Tool for unit testing.
type mockTool struct {
	kind         Kind
	checkoutFunc func(ctx context.Context, remote, rev, dir string) error
	updateFunc   func(ctx context.Context, remote, rev, dir string) error
}

func (m *mockTool) Kind() Kind { return m.kind }

func (m *mockTool) Checkout(ctx context.Context, remote, rev, dir string) error {
	if m.checkoutFunc != nil {
		return m.checkoutFunc(ctx, remote, rev, dir)
	}
	return nil
}

func (m *mockTool) Update(ctx context.Context, remote, rev, dir string) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, remote, rev, dir)
	}
	return nil
}
