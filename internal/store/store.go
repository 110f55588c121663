// Package store owns the task file on disk. The engine in
// internal/task is pure; every command goes through the store's
// load-mutate-save cycle instead.
package store

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/natefinch/atomic"
	"golang.org/x/sys/unix"

	"github.com/calvinalkan/paratrooper/internal/task"
)

// Skeleton is the content of a freshly initialized task file.
const Skeleton = "# DAILY\n\n# MAIN\n\n# ARCHIVE\n"

// DefaultLockTimeout bounds how long Update waits for another process
// to release the file.
const DefaultLockTimeout = 5 * time.Second

var (
	// ErrLockTimeout is returned when the sidecar lock could not be
	// acquired within the timeout.
	ErrLockTimeout = errors.New("timed out waiting for task file lock")

	// ErrNotInitialized is returned by Load when the task file does
	// not exist.
	ErrNotInitialized = errors.New("task file not found (run init first)")
)

// Store reads and writes one task file.
//
// Update serializes concurrent writers with an advisory flock on a
// sidecar "<file>.lock" and replaces the file atomically, so a crash
// mid-save never leaves a torn file behind. flock is advisory: it only
// protects against other cooperating pt processes.
type Store struct {
	Path        string
	LockTimeout time.Duration
}

// New creates a store for the task file at path.
func New(path string) *Store {
	return &Store{Path: path, LockTimeout: DefaultLockTimeout}
}

// Exists reports whether the task file exists.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.Path)
	return err == nil
}

// Init creates the skeleton task file. Returns false if the file
// already exists.
func (s *Store) Init() (bool, error) {
	if s.Exists() {
		return false, nil
	}

	err := atomic.WriteFile(s.Path, strings.NewReader(Skeleton))
	if err != nil {
		return false, fmt.Errorf("write task file: %w", err)
	}

	return true, nil
}

// Load reads and parses the task file.
func (s *Store) Load() (*task.Document, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotInitialized, s.Path)
		}

		return nil, fmt.Errorf("read task file: %w", err)
	}

	return task.Parse(string(data))
}

// View runs fn against the parsed document without writing anything
// back.
func (s *Store) View(fn func(*task.Document) error) error {
	doc, err := s.Load()
	if err != nil {
		return err
	}

	return fn(doc)
}

// Update runs fn against the parsed document and writes the result
// back atomically. The whole cycle holds the sidecar lock, so two pt
// processes cannot interleave their read-modify-write. If fn returns
// an error, the file is left untouched.
func (s *Store) Update(fn func(*task.Document) error) error {
	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()

	doc, err := s.Load()
	if err != nil {
		return err
	}

	if err := fn(doc); err != nil {
		return err
	}

	writeErr := atomic.WriteFile(s.Path, strings.NewReader(task.Serialize(doc)))
	if writeErr != nil {
		return fmt.Errorf("write task file: %w", writeErr)
	}

	return nil
}

// lock acquires an exclusive flock on the sidecar lock file, polling
// with backoff until the timeout. The lock file is never removed;
// unlinking it would race with other lockers.
func (s *Store) lock() (func(), error) {
	lockPath := s.Path + ".lock"

	file, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	timeout := s.LockTimeout
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}

	deadline := time.Now().Add(timeout)
	backoff := time.Millisecond

	const maxBackoff = 50 * time.Millisecond

	for {
		err = flockRetryEINTR(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			break
		}

		if !errors.Is(err, unix.EWOULDBLOCK) {
			_ = file.Close()
			return nil, fmt.Errorf("lock task file: %w", err)
		}

		if time.Now().After(deadline) {
			_ = file.Close()
			return nil, fmt.Errorf("%w: %s", ErrLockTimeout, lockPath)
		}

		time.Sleep(backoff)

		if backoff *= 2; backoff > maxBackoff {
			backoff = maxBackoff
		}
	}

	return func() {
		_ = flockRetryEINTR(int(file.Fd()), unix.LOCK_UN)
		_ = file.Close()
	}, nil
}

func flockRetryEINTR(fd, how int) error {
	for {
		err := unix.Flock(fd, how)
		if !errors.Is(err, unix.EINTR) {
			return err
		}
	}
}
