// Copyright 2026 The fgbuild Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vcs

import (
	"context"
	"strings"

	"github.com/qiniu/x/log"
)

// gitTool implements Tool using the git command.
type gitTool struct {
	git string
}

// GitOption configures gitTool.
type GitOption func(*gitTool)

// WithGitPath sets a custom git executable path.
func WithGitPath(path string) GitOption {
	return func(g *gitTool) {
		g.git = path
	}
}

// NewGit creates a git Tool.
func NewGit(opts ...GitOption) Tool {
	g := &gitTool{git: "git"}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *gitTool) Kind() Kind { return Git }

func (g *gitTool) Checkout(ctx context.Context, remote, rev, dir string) error {
	if err := runTool(ctx, g.git, "", "clone", remote, dir); err != nil {
		return &ReconcileError{Step: "clone", Err: err}
	}
	return g.selectRev(ctx, dir, rev)
}

func (g *gitTool) Update(ctx context.Context, remote, rev, dir string) error {
	return g.selectRev(ctx, dir, rev)
}

// selectRev positions the working tree exactly at rev: fetch new
// history, force-checkout the target ref, hard-reset the working tree.
// git has no single "make local state identical to ref" primitive, so
// the three steps run as one atomic-intent sequence; a failure in any
// of them aborts the whole reconciliation.
func (g *gitTool) selectRev(ctx context.Context, dir, rev string) error {
	if err := runTool(ctx, g.git, dir, "fetch"); err != nil {
		return &ReconcileError{Step: "fetch", Err: err}
	}
	if rev != "" {
		if err := runTool(ctx, g.git, dir, "checkout", "--force", rev); err != nil {
			return &ReconcileError{Step: "checkout", Err: err}
		}
	}
	if err := runTool(ctx, g.git, dir, "reset", "--hard"); err != nil {
		return &ReconcileError{Step: "reset", Err: err}
	}
	if head, err := toolOutput(ctx, g.git, dir, "rev-parse", "HEAD"); err == nil {
		log.Debugf("%s: selected revision %s", dir, strings.TrimSpace(head))
	}
	return nil
}
