package vcs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// fakeCheckout creates dir with the kind's metadata marker, standing in
// for a real clone.
func fakeCheckout(t *testing.T, kind Kind) func(ctx context.Context, remote, rev, dir string) error {
	t.Helper()
	return func(ctx context.Context, remote, rev, dir string) error {
		if err := os.MkdirAll(filepath.Join(dir, kind.Marker()), 0o755); err != nil {
			return err
		}
		return nil
	}
}

func TestReconcileFreshCheckout(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "src")

	var gotRemote, gotRev string
	checkouts := 0
	tool := &mockTool{
		kind: Git,
		checkoutFunc: func(ctx context.Context, remote, rev, d string) error {
			checkouts++
			gotRemote, gotRev = remote, rev
			return fakeCheckout(t, Git)(ctx, remote, rev, d)
		},
	}

	if err := Reconcile(context.Background(), tool, "git://example.org/repo.git", "v1.0", dir, true); err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if checkouts != 1 {
		t.Fatalf("expected 1 checkout, got %d", checkouts)
	}
	if gotRemote != "git://example.org/repo.git" || gotRev != "v1.0" {
		t.Errorf("checkout called with (%q, %q)", gotRemote, gotRev)
	}
	if _, err := os.Stat(filepath.Join(dir, ".git")); err != nil {
		t.Errorf("expected metadata marker after fresh checkout: %v", err)
	}
}

func TestReconcileValidUpdatesInPlace(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "src")
	if err := os.MkdirAll(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}

	checkouts, updates := 0, 0
	tool := &mockTool{
		kind: Git,
		checkoutFunc: func(ctx context.Context, remote, rev, d string) error {
			checkouts++
			return nil
		},
		updateFunc: func(ctx context.Context, remote, rev, d string) error {
			updates++
			return nil
		},
	}

	if err := Reconcile(context.Background(), tool, "remote", "master", dir, true); err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if updates != 1 || checkouts != 0 {
		t.Errorf("expected 1 update and 0 checkouts, got %d and %d", updates, checkouts)
	}
}

func TestReconcileUpdateDisabledLeavesCheckout(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "src")
	if err := os.MkdirAll(filepath.Join(dir, ".svn"), 0o755); err != nil {
		t.Fatal(err)
	}
	local := filepath.Join(dir, "patched.c")
	if err := os.WriteFile(local, []byte("local change"), 0o644); err != nil {
		t.Fatal(err)
	}

	calls := 0
	tool := &mockTool{
		kind: Subversion,
		checkoutFunc: func(ctx context.Context, remote, rev, d string) error {
			calls++
			return nil
		},
		updateFunc: func(ctx context.Context, remote, rev, d string) error {
			calls++
			return nil
		},
	}

	if err := Reconcile(context.Background(), tool, "remote", "2172", dir, false); err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if calls != 0 {
		t.Errorf("expected zero tool operations with update disabled, got %d", calls)
	}
	content, err := os.ReadFile(local)
	if err != nil || string(content) != "local change" {
		t.Errorf("local modification not preserved: %q, %v", content, err)
	}
}

func TestReconcileMovesInvalidDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "src")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	stale := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(stale, []byte("keep me"), 0o644); err != nil {
		t.Fatal(err)
	}

	fixed := time.Unix(1700000000, 0)
	timeNow = func() time.Time { return fixed }
	defer func() { timeNow = time.Now }()

	tool := &mockTool{kind: Git, checkoutFunc: fakeCheckout(t, Git)}

	if err := Reconcile(context.Background(), tool, "remote", "master", dir, true); err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	aside := fmt.Sprintf("%s.%d", dir, fixed.Unix())
	content, err := os.ReadFile(filepath.Join(aside, "notes.txt"))
	if err != nil {
		t.Fatalf("relocated directory missing: %v", err)
	}
	if string(content) != "keep me" {
		t.Errorf("relocated content = %q, want %q", content, "keep me")
	}
	if _, err := os.Stat(filepath.Join(dir, ".git")); err != nil {
		t.Errorf("expected fresh checkout at original path: %v", err)
	}
}

func TestReconcileMovesInvalidEvenWhenUpdateDisabled(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "src")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	checkouts := 0
	tool := &mockTool{
		kind: Git,
		checkoutFunc: func(ctx context.Context, remote, rev, d string) error {
			checkouts++
			return fakeCheckout(t, Git)(ctx, remote, rev, d)
		},
	}

	if err := Reconcile(context.Background(), tool, "remote", "master", dir, false); err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if checkouts != 1 {
		t.Errorf("expected fresh checkout despite update disabled, got %d checkouts", checkouts)
	}
}

func TestReconcileWrongKindMarkerIsInvalid(t *testing.T) {
	// A .svn checkout handed to the git tool must move aside.
	dir := filepath.Join(t.TempDir(), "src")
	if err := os.MkdirAll(filepath.Join(dir, ".svn"), 0o755); err != nil {
		t.Fatal(err)
	}

	checkouts := 0
	tool := &mockTool{
		kind: Git,
		checkoutFunc: func(ctx context.Context, remote, rev, d string) error {
			checkouts++
			return fakeCheckout(t, Git)(ctx, remote, rev, d)
		},
	}

	if err := Reconcile(context.Background(), tool, "remote", "master", dir, true); err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if checkouts != 1 {
		t.Errorf("expected relocation plus fresh checkout, got %d checkouts", checkouts)
	}
}

func TestReconcileRepeatedInvalidStateKeepsAllCopies(t *testing.T) {
	// Two relocations within the same second must not clobber each other.
	base := t.TempDir()
	dir := filepath.Join(base, "src")

	fixed := time.Unix(1700000000, 0)
	timeNow = func() time.Time { return fixed }
	defer func() { timeNow = time.Now }()

	tool := &mockTool{kind: Git}

	for i := 0; i < 2; i++ {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		name := fmt.Sprintf("copy%d.txt", i)
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := Reconcile(context.Background(), tool, "remote", "", dir, true); err != nil {
			t.Fatalf("Reconcile %d failed: %v", i, err)
		}
		os.RemoveAll(dir) // mock checkout leaves nothing behind
	}

	entries, err := os.ReadDir(base)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 preserved directories, got %d", len(entries))
	}
	for i, want := range []string{"copy0.txt", "copy1.txt"} {
		found := false
		for _, e := range entries {
			if _, err := os.Stat(filepath.Join(base, e.Name(), want)); err == nil {
				found = true
			}
		}
		if !found {
			t.Errorf("relocation %d lost file %s", i, want)
		}
	}
}

func TestReconcileSurfacesStepFailure(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "src")
	if err := os.MkdirAll(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}

	fail := &ReconcileError{Step: "fetch", Err: errors.New("network unreachable")}
	tool := &mockTool{
		kind: Git,
		updateFunc: func(ctx context.Context, remote, rev, d string) error {
			return fail
		},
	}

	err := Reconcile(context.Background(), tool, "remote", "master", dir, true)
	var rerr *ReconcileError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected *ReconcileError, got %v", err)
	}
	if rerr.Step != "fetch" {
		t.Errorf("Step = %q, want %q", rerr.Step, "fetch")
	}
}
