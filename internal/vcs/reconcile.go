// Copyright 2026 The fgbuild Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vcs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/qiniu/x/log"
)

// checkoutState is the observed state of a target directory. It is
// recomputed from disk on every reconciliation, never cached.
type checkoutState int

const (
	stateAbsent checkoutState = iota
	stateValid
	stateInvalid
)

func stateOf(dir string, kind Kind) checkoutState {
	if _, err := os.Stat(dir); err != nil {
		return stateAbsent
	}
	if _, err := os.Stat(filepath.Join(dir, kind.Marker())); err != nil {
		return stateInvalid
	}
	return stateValid
}

// timeNow stubs the relocation timestamp in tests.
var timeNow = time.Now

// Reconcile ensures dir is a valid checkout of remote at rev.
//
// The decision table, in order:
//   - dir absent: fresh checkout.
//   - dir is a valid checkout and update is true: in-place refresh,
//     discarding local modifications.
//   - dir is a valid checkout and update is false: leave it exactly
//     as-is; no network operation is performed.
//   - dir exists but is not a valid checkout for the tool's kind:
//     rename it aside with a timestamp suffix (never delete), then
//     fresh checkout.
//
// Any failing step aborts with a *ReconcileError naming the step; the
// directory keeps whatever partial state the step produced.
func Reconcile(ctx context.Context, tool Tool, remote, rev, dir string, update bool) error {
	kind := tool.Kind()

	switch stateOf(dir, kind) {
	case stateValid:
		if !update {
			log.Debugf("%s: existing %s checkout kept as-is (update disabled)", dir, kind)
			return nil
		}
		log.Debugf("%s: refreshing existing %s checkout in place", dir, kind)
		return tool.Update(ctx, remote, rev, dir)

	case stateInvalid:
		if update {
			log.Warnf("%s: directory is not a valid %s checkout, moving it and starting over", dir, kind)
		} else {
			log.Warnf("%s: update disabled, but directory is not a valid %s checkout so it must move anyway", dir, kind)
		}
		aside, err := moveAside(dir)
		if err != nil {
			return &ReconcileError{Step: "relocate", Err: err}
		}
		log.Debugf("%s: previous contents preserved at %s", dir, aside)
	}

	log.Debugf("%s: fresh %s checkout from %s", dir, kind, remote)
	return tool.Checkout(ctx, remote, rev, dir)
}

// moveAside renames dir to dir.<unix-timestamp>, probing further
// suffixes if a previous relocation in the same second already claimed
// the name. The original contents are never deleted.
func moveAside(dir string) (string, error) {
	ts := timeNow().Unix()
	aside := fmt.Sprintf("%s.%d", dir, ts)
	for n := 1; ; n++ {
		if _, err := os.Stat(aside); os.IsNotExist(err) {
			break
		}
		aside = fmt.Sprintf("%s.%d.%d", dir, ts, n)
	}
	if err := os.Rename(dir, aside); err != nil {
		return "", err
	}
	return aside, nil
}
