package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/hawkeye-rf/emflow/internal/logging"
	"github.com/hawkeye-rf/emflow/pkg/domain"
	"github.com/hawkeye-rf/emflow/pkg/ports"
)

// DefaultLockTTL bounds how long a crashed holder can block other processes.
const DefaultLockTTL = 30 * time.Minute

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Session is an open desktop with one loaded design.
type Session struct {
	Options domain.SessionOptions
	Project domain.ProjectRef
	Desktop ports.Desktop
	Design  ports.Design
}

// Manager launches desktops, loads projects and serializes access per desktop key.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	launcher ports.Launcher

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the expiry of the distributed lock.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a session manager on top of launcher.
func NewManager(launcher ports.Launcher, opts ...Option) *Manager {
	m := &Manager{
		launcher: launcher,
		locks:    make(map[string]*lockEntry),
		lockTTL:  DefaultLockTTL,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Key returns the lock key for a desktop release.
func Key(opts domain.SessionOptions) string {
	if opts.Version == "" {
		return "desktop"
	}
	return "desktop:" + opts.Version
}

// Open checks that the project file exists, launches the desktop and loads the project.
func (m *Manager) Open(ctx context.Context, opts domain.SessionOptions, ref domain.ProjectRef) (*Session, error) {
	if _, err := os.Stat(ref.Path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", ref.Path, domain.ErrProjectNotFound)
		}
		return nil, fmt.Errorf("stat project: %w", err)
	}

	desktop, err := m.launcher.Launch(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("launch desktop: %w", err)
	}
	m.logger.Info("desktop ready", "version", opts.Version, "non_graphical", opts.NonGraphical)

	design, err := desktop.LoadProject(ctx, ref)
	if err != nil {
		if rerr := desktop.Release(ctx, false); rerr != nil {
			m.logger.Warn("failed to detach after load error", "err", rerr)
		}
		return nil, fmt.Errorf("load project %s: %w", ref.Path, err)
	}
	m.logger.Info("project loaded", "project", ref.Path, "design", design.DesignName())

	return &Session{Options: opts, Project: ref, Desktop: desktop, Design: design}, nil
}

// Close detaches from the desktop. Projects are closed and the application exits
// only when the session was opened with CloseOnExit.
func (m *Manager) Close(ctx context.Context, s *Session) error {
	if s == nil {
		return nil
	}
	if err := s.Desktop.Release(ctx, s.Options.CloseOnExit); err != nil {
		return fmt.Errorf("release desktop: %w", err)
	}
	m.logger.Info("desktop released", "closed", s.Options.CloseOnExit)
	return nil
}

// WithSession opens a session under the desktop lock, runs fn and always closes it.
func (m *Manager) WithSession(ctx context.Context, opts domain.SessionOptions, ref domain.ProjectRef, fn func(context.Context, *Session) error) error {
	return m.WithLock(ctx, Key(opts), func(ctx context.Context) error {
		s, err := m.Open(ctx, opts, ref)
		if err != nil {
			return err
		}
		return errors.Join(fn(ctx, s), m.Close(ctx, s))
	})
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(key) after unlocking.
func (m *Manager) acquire(key string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		entry = &lockEntry{}
		m.locks[key] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, key)
	}
}

// WithLock executes fn while holding the lock for key.
func (m *Manager) WithLock(ctx context.Context, key string, fn func(context.Context) error) error {
	entry := m.acquire(key)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(key)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, key, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("failed to release distributed lock (will expire via TTL)",
					"key", key,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
