package outdir

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const (
	// LatestDir is the folder that mirrors the most recent run.
	LatestDir = "latest"

	// StampLayout formats run folder names.
	StampLayout = "20060102_150405"

	// lockFile guards refreshes of LatestDir.
	lockFile = ".sheetcheck.lock"

	// lockRetryDelay is how often a held lock is retried.
	lockRetryDelay = 100 * time.Millisecond

	// defaultLockTimeout bounds the wait for the lock.
	defaultLockTimeout = 10 * time.Second
)

// ErrLocked is returned when another run holds the lock for too long.
var ErrLocked = errors.New("another sheetcheck run is updating the latest folder")

// Locker abstracts the subset of flock.Flock used to guard LatestDir.
type Locker interface {
	TryLockContext(ctx context.Context, retryDelay time.Duration) (bool, error)
	Unlock() error
}

// Run is the output folder of one run.
type Run struct {
	// Root is the output root, e.g. "reports".
	Root string

	// Stamp is the timestamp part of the folder name.
	Stamp string

	// Dir is the folder the run writes into.
	Dir string

	logger      *slog.Logger
	locker      Locker
	lockTimeout time.Duration
}

// Option configures a Run.
type Option func(*Run)

// WithLogger sets the logger used by the Run.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Run) {
		r.logger = logger
	}
}

// WithLocker replaces the file lock guarding LatestDir.
func WithLocker(l Locker) Option {
	return func(r *Run) {
		r.locker = l
	}
}

// WithLockTimeout bounds the wait for the lock. Non-positive values keep the default.
func WithLockTimeout(d time.Duration) Option {
	return func(r *Run) {
		if d > 0 {
			r.lockTimeout = d
		}
	}
}

// New creates the timestamped folder for a run started at now. When a
// folder with the same stamp exists, a numeric suffix is appended.
func New(root string, now time.Time, opts ...Option) (*Run, error) {
	r := &Run{
		Root:        root,
		Stamp:       now.Format(StampLayout),
		lockTimeout: defaultLockTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.locker == nil {
		r.locker = flock.New(filepath.Join(root, lockFile))
	}

	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", root, err)
	}

	base := r.Stamp
	for i := 1; ; i++ {
		dir := filepath.Join(root, r.Stamp)
		err := os.Mkdir(dir, 0o750)
		if err == nil {
			r.Dir = dir
			break
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("failed to create run directory %s: %w", dir, err)
		}
		r.Stamp = fmt.Sprintf("%s_%d", base, i+1)
	}

	r.logger.Debug("run directory created", "dir", r.Dir)
	return r, nil
}

// Path returns the path of name inside the run folder.
func (r *Run) Path(name string) string {
	return filepath.Join(r.Dir, name)
}

// Create creates name inside the run folder.
func (r *Run) Create(name string) (*os.File, error) {
	f, err := os.Create(r.Path(name)) //nolint:gosec // name is built by the caller from report naming helpers
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", name, err)
	}
	return f, nil
}

// LatestPath returns the latest/ folder of the output root.
func (r *Run) LatestPath() string {
	return filepath.Join(r.Root, LatestDir)
}

// PublishLatest replaces the contents of latest/ with the files of this
// run. It waits for the lock up to the configured timeout and returns
// ErrLocked if it cannot be acquired.
func (r *Run) PublishLatest(ctx context.Context) (err error) {
	ctx, cancel := context.WithTimeout(ctx, r.lockTimeout)
	defer cancel()

	ok, err := r.locker.TryLockContext(ctx, lockRetryDelay)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("acquiring lock: %w", err)
	}
	if !ok {
		return ErrLocked
	}
	defer func() {
		if unlockErr := r.locker.Unlock(); unlockErr != nil {
			r.logger.Warn("failed to release lock", "error", unlockErr)
		}
	}()

	latest := r.LatestPath()
	if err := os.RemoveAll(latest); err != nil {
		return fmt.Errorf("failed to clear %s: %w", latest, err)
	}
	if err := os.MkdirAll(latest, 0o750); err != nil {
		return fmt.Errorf("failed to create %s: %w", latest, err)
	}

	entries, err := os.ReadDir(r.Dir)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", r.Dir, err)
	}
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if err := copyFile(filepath.Join(r.Dir, e.Name()), filepath.Join(latest, e.Name())); err != nil {
			return err
		}
	}

	r.logger.Debug("latest folder refreshed", "dir", latest, "files", len(entries))
	return nil
}

// copyFile copies src to dst, replacing dst.
func copyFile(src, dst string) (err error) {
	in, err := os.Open(src) //nolint:gosec // src is inside the run folder
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close() //nolint:errcheck // read-only file

	out, err := os.Create(dst) //nolint:gosec // dst is inside the latest folder
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", dst, closeErr)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return nil
}
