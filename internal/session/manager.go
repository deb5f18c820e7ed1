package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/greendilt/digicarbon/internal/insight"
	"github.com/greendilt/digicarbon/internal/logging"
)

// DefaultTTL is how long an untouched session is kept.
const DefaultTTL = 30 * time.Minute

// entry guards one controller. lastSeen is protected by Manager.mu.
type entry struct {
	mu       sync.Mutex
	ctrl     *Controller
	lastSeen time.Time
}

// Manager isolates sessions by ID. Each controller is used under its own
// lock so that independent sessions never contend.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*entry

	ttl       time.Duration
	defaults  Defaults
	generator *insight.Generator
	now       func() time.Time
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

// WithGenerator sets the insight generator shared by all sessions.
func WithGenerator(g *insight.Generator) ManagerOption {
	return func(m *Manager) { m.generator = g }
}

// NewManager returns an empty Manager. A non-positive ttl means DefaultTTL.
func NewManager(d Defaults, ttl time.Duration, opts ...ManagerOption) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m := &Manager{
		sessions: make(map[string]*entry),
		ttl:      ttl,
		defaults: d,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.generator == nil {
		m.generator = insight.NewGenerator(nil)
	}
	return m
}

// Create starts a new session and returns its ID.
func (m *Manager) Create() string {
	id := ulid.Make().String()
	e := &entry{ctrl: NewController(m.defaults, m.generator)}

	m.mu.Lock()
	e.lastSeen = m.now()
	m.sessions[id] = e
	m.mu.Unlock()
	return id
}

func (m *Manager) lookup(id string) (*entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSession, id)
	}
	e.lastSeen = m.now()
	return e, nil
}

// Do runs fn with exclusive access to the session's controller.
func (m *Manager) Do(id string, fn func(*Controller) error) error {
	e, err := m.lookup(id)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.ctrl)
}

// Get returns a copy of the session state.
func (m *Manager) Get(id string) (View, error) {
	var v View
	err := m.Do(id, func(c *Controller) error {
		v = c.View()
		return nil
	})
	return v, err
}

// Delete ends a session.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSession, id)
	}
	delete(m.sessions, id)
	return nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep evicts sessions idle for longer than the TTL and returns how many
// were removed.
func (m *Manager) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, e := range m.sessions {
		if now.Sub(e.lastSeen) > m.ttl {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	log := logging.FromContext(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(m.now()); n > 0 {
				log.Debug().Ctx(ctx).
					Str(logging.FieldComponent, "session").
					Str(logging.FieldOperation, "sweep").
					Int("evicted", n).
					Int("remaining", m.Len()).
					Msg("expired sessions evicted")
			}
		}
	}
}
