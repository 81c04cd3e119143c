package cart

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Beka01247/brewline/internal/debounce"
	"github.com/Beka01247/brewline/internal/domain"
	"github.com/Beka01247/brewline/internal/repo"
	"go.uber.org/zap"
)

const (
	DefaultSaveDelay = time.Second
	DefaultIdleTTL   = 15 * time.Minute
)

type Config struct {
	SaveDelay time.Duration
	// IdleTTL is how long a saved session may sit untouched before it is
	// dropped from memory.
	IdleTTL time.Duration
}

// session is one user's live cart. Mutations schedule a debounced save.
type session struct {
	mu       sync.Mutex
	cart     *Cart
	saver    *debounce.Debouncer
	cancel   context.CancelFunc
	closed   bool
	detached bool
	done     chan struct{}
	lastUsed time.Time
	version  uint64
	saved    uint64
}

// Manager owns every open cart session, keyed by user id. All reads and
// writes go through it so a session closed by logout or eviction is never
// mutated after its last save.
type Manager struct {
	repo      repo.CartRepository
	logger    *zap.SugaredLogger
	saveDelay time.Duration
	idleTTL   time.Duration
	now       func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	sessions map[string]*session
	shutdown bool
}

func NewManager(cartRepo repo.CartRepository, cfg Config, logger *zap.SugaredLogger) *Manager {
	if cfg.SaveDelay <= 0 {
		cfg.SaveDelay = DefaultSaveDelay
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = DefaultIdleTTL
	}
	ctx, cancel := context.WithCancel(context.Background())

	m := &Manager{
		repo:      cartRepo,
		logger:    logger,
		saveDelay: cfg.SaveDelay,
		idleTTL:   cfg.IdleTTL,
		now:       time.Now,
		ctx:       ctx,
		cancel:    cancel,
		sessions:  make(map[string]*session),
	}
	go m.evictLoop()

	return m
}

// Get returns a copy of the user's cart.
func (m *Manager) Get(ctx context.Context, userID string) domain.Cart {
	for {
		s := m.open(ctx, userID)

		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			<-s.done
			continue
		}
		s.lastUsed = m.now()
		snapshot := s.cart.Snapshot()
		s.mu.Unlock()

		return snapshot
	}
}

// Update applies fn to the user's cart and schedules a save. After Shutdown
// the change is saved before Update returns.
func (m *Manager) Update(ctx context.Context, userID string, fn func(c *Cart)) domain.Cart {
	for {
		s := m.open(ctx, userID)

		s.mu.Lock()
		if s.closed {
			// lost a race with Close or eviction; wait for its final save
			// so the next open reloads it
			s.mu.Unlock()
			<-s.done
			continue
		}
		fn(s.cart)
		s.version++
		s.lastUsed = m.now()
		snapshot := s.cart.Snapshot()
		if !s.detached {
			s.saver.Trigger()
		}
		s.mu.Unlock()

		if s.detached {
			m.persist(ctx, s)
		}

		return snapshot
	}
}

// open returns the user's session, loading the stored cart on first use. A
// failed load starts the user with an empty cart.
func (m *Manager) open(ctx context.Context, userID string) *session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[userID]; ok {
		return s
	}

	c := New(userID)
	stored, err := m.repo.Get(ctx, userID)
	switch {
	case err == nil:
		c = FromSnapshot(*stored)
	case errors.Is(err, repo.ErrNotFound):
	default:
		m.logger.Warnw("failed to load cart, starting empty", "user_id", userID, "error", err)
	}

	sctx, cancel := context.WithCancel(m.ctx)
	s := &session{cart: c, cancel: cancel, done: make(chan struct{}), lastUsed: m.now()}
	s.saver = debounce.New(sctx, m.saveDelay, func(ctx context.Context) {
		m.persist(ctx, s)
	})
	if m.shutdown {
		s.detached = true
	} else {
		m.sessions[userID] = s
	}

	return s
}

// Close flushes any pending save and forgets the session.
func (m *Manager) Close(ctx context.Context, userID string) {
	m.mu.Lock()
	s, ok := m.sessions[userID]
	m.mu.Unlock()

	if !ok {
		return
	}
	m.release(ctx, userID, s)
}

// Shutdown flushes every session. Later updates are saved synchronously.
func (m *Manager) Shutdown(ctx context.Context) {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*session)
	m.shutdown = true
	m.mu.Unlock()

	for userID, s := range sessions {
		m.release(ctx, userID, s)
	}
	m.cancel()
}

// release stops further updates to s, saves its last change and only then
// unregisters it, so a reopen never loads a cart older than s.
func (m *Manager) release(ctx context.Context, userID string, s *session) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		<-s.done
		return
	}
	// every Update that got in before this point has already triggered
	s.closed = true
	s.mu.Unlock()

	s.saver.Flush(ctx)

	m.mu.Lock()
	if m.sessions[userID] == s {
		delete(m.sessions, userID)
	}
	m.mu.Unlock()

	s.cancel()
	close(s.done)
}

func (m *Manager) evictLoop() {
	ticker := time.NewTicker(m.idleTTL / 2)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			if n := m.evictIdle(m.now()); n > 0 {
				m.logger.Infow("evicted idle cart sessions", "count", n)
			}
		}
	}
}

// evictIdle drops sessions untouched for idleTTL whose latest change is
// stored. An idle session with an unsaved change gets another save attempt
// instead.
func (m *Manager) evictIdle(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for userID, s := range m.sessions {
		s.mu.Lock()
		if !s.closed && now.Sub(s.lastUsed) >= m.idleTTL && !s.saver.Pending() {
			if s.saved == s.version {
				s.closed = true
				s.cancel()
				close(s.done)
				delete(m.sessions, userID)
				evicted++
			} else {
				s.saver.Trigger()
			}
		}
		s.mu.Unlock()
	}

	return evicted
}

func (m *Manager) persist(ctx context.Context, s *session) {
	s.mu.Lock()
	snapshot := s.cart.Snapshot()
	version := s.version
	s.mu.Unlock()
	snapshot.UpdatedAt = time.Now()

	// the session context may be cancelled by Close while this save runs
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := m.repo.Save(ctx, &snapshot); err != nil {
		m.logger.Errorw("failed to save cart", "user_id", snapshot.UserID, "error", err)
		return
	}

	s.mu.Lock()
	if version > s.saved {
		s.saved = version
	}
	s.mu.Unlock()
}

func (m *Manager) openSessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.sessions)
}
