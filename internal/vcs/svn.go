// Copyright 2026 The fgbuild Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vcs

import (
	"context"
	"strings"

	"github.com/qiniu/x/log"
)

// svnTool implements Tool using the svn command.
type svnTool struct {
	svn string
}

// SVNOption configures svnTool.
type SVNOption func(*svnTool)

// WithSVNPath sets a custom svn executable path.
func WithSVNPath(path string) SVNOption {
	return func(s *svnTool) {
		s.svn = path
	}
}

// NewSubversion creates a subversion Tool.
func NewSubversion(opts ...SVNOption) Tool {
	s := &svnTool{svn: "svn"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *svnTool) Kind() Kind { return Subversion }

func (s *svnTool) Checkout(ctx context.Context, remote, rev, dir string) error {
	if err := runTool(ctx, s.svn, "", checkoutArgs(remote, rev, dir)...); err != nil {
		return &ReconcileError{Step: "checkout", Err: err}
	}
	s.logRevision(ctx, dir)
	return nil
}

// Update runs svn update in place. Unlike git, svn offers a single
// primitive that pins the working copy at a revision.
func (s *svnTool) Update(ctx context.Context, remote, rev, dir string) error {
	if err := runTool(ctx, s.svn, dir, updateArgs(rev)...); err != nil {
		return &ReconcileError{Step: "update", Err: err}
	}
	s.logRevision(ctx, dir)
	return nil
}

func (s *svnTool) logRevision(ctx context.Context, dir string) {
	if out, err := toolOutput(ctx, s.svn, dir, "info", "--show-item", "revision"); err == nil {
		log.Debugf("%s: selected revision %s", dir, strings.TrimSpace(out))
	}
}

func checkoutArgs(remote, rev, dir string) []string {
	if rev != "" {
		return []string{"checkout", "-r", rev, remote, dir}
	}
	return []string{"checkout", remote, dir}
}

func updateArgs(rev string) []string {
	if rev != "" {
		return []string{"update", "-r", rev}
	}
	return []string{"update"}
}
