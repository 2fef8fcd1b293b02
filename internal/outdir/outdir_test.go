package outdir

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// mockLocker is a test double for the Locker interface.
type mockLocker struct {
	ok           bool
	err          error
	unlockCalled bool
}

func (m *mockLocker) TryLockContext(context.Context, time.Duration) (bool, error) {
	return m.ok, m.err
}

func (m *mockLocker) Unlock() error {
	m.unlockCalled = true
	return nil
}

var testNow = time.Date(2024, 1, 31, 5, 11, 20, 0, time.UTC)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

// TestNew tests run folder creation.
func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("creates timestamped folder", func(t *testing.T) {
		t.Parallel()

		root := filepath.Join(t.TempDir(), "reports")
		r, err := New(root, testNow)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if r.Stamp != "20240131_051120" {
			t.Errorf("unexpected stamp %q", r.Stamp)
		}
		if info, err := os.Stat(r.Dir); err != nil || !info.IsDir() {
			t.Errorf("expected run folder at %s", r.Dir)
		}
		if r.Path("a.csv") != filepath.Join(root, "20240131_051120", "a.csv") {
			t.Errorf("unexpected path %q", r.Path("a.csv"))
		}
	})

	t.Run("same second gets a suffix", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		first, err := New(root, testNow)
		if err != nil {
			t.Fatal(err)
		}
		second, err := New(root, testNow)
		if err != nil {
			t.Fatal(err)
		}
		if first.Dir == second.Dir {
			t.Fatal("expected distinct folders")
		}
		if second.Stamp != "20240131_051120_2" {
			t.Errorf("unexpected stamp %q", second.Stamp)
		}
	})
}

// TestPublishLatest tests mirroring a run into latest/.
func TestPublishLatest(t *testing.T) {
	t.Parallel()

	t.Run("replaces previous contents", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		latest := filepath.Join(root, LatestDir)
		if err := os.MkdirAll(latest, 0o750); err != nil {
			t.Fatal(err)
		}
		writeFile(t, filepath.Join(latest, "stale.csv"), "old")

		r, err := New(root, testNow)
		if err != nil {
			t.Fatal(err)
		}
		writeFile(t, r.Path("report.csv"), "new")

		if err := r.PublishLatest(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, err := os.Stat(filepath.Join(latest, "stale.csv")); !os.IsNotExist(err) {
			t.Error("expected stale file to be removed")
		}
		data, err := os.ReadFile(filepath.Join(latest, "report.csv"))
		if err != nil || string(data) != "new" {
			t.Errorf("expected copied report, got %q (%v)", data, err)
		}
		if _, err := os.Stat(r.Path("report.csv")); err != nil {
			t.Error("expected run folder to keep its files")
		}
	})

	t.Run("held lock returns ErrLocked", func(t *testing.T) {
		t.Parallel()

		m := &mockLocker{ok: false, err: context.DeadlineExceeded}
		r, err := New(t.TempDir(), testNow, WithLocker(m), WithLockTimeout(time.Millisecond))
		if err != nil {
			t.Fatal(err)
		}
		if err := r.PublishLatest(context.Background()); !errors.Is(err, ErrLocked) {
			t.Errorf("expected ErrLocked, got %v", err)
		}
		if m.unlockCalled {
			t.Error("expected no unlock without a lock")
		}
	})

	t.Run("lock error is wrapped", func(t *testing.T) {
		t.Parallel()

		errPerm := errors.New("permission denied")
		r, err := New(t.TempDir(), testNow, WithLocker(&mockLocker{err: errPerm}))
		if err != nil {
			t.Fatal(err)
		}
		if err := r.PublishLatest(context.Background()); !errors.Is(err, errPerm) {
			t.Errorf("expected wrapped error, got %v", err)
		}
	})

	t.Run("lock is released", func(t *testing.T) {
		t.Parallel()

		m := &mockLocker{ok: true}
		r, err := New(t.TempDir(), testNow, WithLocker(m))
		if err != nil {
			t.Fatal(err)
		}
		if err := r.PublishLatest(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !m.unlockCalled {
			t.Error("expected unlock")
		}
	})

	t.Run("real file lock", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		r, err := New(root, testNow)
		if err != nil {
			t.Fatal(err)
		}
		writeFile(t, r.Path("a.xlsx"), "x")
		if err := r.PublishLatest(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := r.PublishLatest(context.Background()); err != nil {
			t.Fatalf("expected lock to be reusable, got %v", err)
		}
	})
}
