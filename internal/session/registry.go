package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lalith-99/collabsphere/internal/chat"
	"github.com/lalith-99/collabsphere/internal/dashboard"
	"github.com/lalith-99/collabsphere/internal/repository"
	"github.com/lalith-99/collabsphere/internal/repository/memory"
	"github.com/lalith-99/collabsphere/internal/seed"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var ErrUnknownSession = errors.New("unknown session")

// Session is everything one browser tab owns: who is logged in, the chat panel
// and the dashboard data. Sessions share nothing except the identity slot
// backend, and even there each one has its own key.
type Session struct {
	ID        string
	Guard     *Guard
	Chat      *chat.Store
	Workspace *dashboard.Workspace

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

type RegistryConfig struct {
	Slot      repository.IdentitySlot
	Seed      *seed.Data
	Prefix    string
	AuthDelay time.Duration
	// IdleTimeout evicts sessions nobody touched for this long. Zero disables it.
	IdleTimeout time.Duration
	Logger      *zap.Logger
}

// Registry creates and hands out sessions by id.
type Registry struct {
	cfg    RegistryConfig
	logger *zap.Logger
	now    func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session

	// restores collapses concurrent first requests for the same session into
	// one slot read.
	restores singleflight.Group
}

func NewRegistry(cfg RegistryConfig) *Registry {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Seed == nil {
		cfg.Seed = &seed.Data{}
	}
	return &Registry{
		cfg:      cfg,
		logger:   cfg.Logger,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// SlotKey is where a session's identity lives in the slot backend.
func (r *Registry) SlotKey(sid string) string {
	return r.cfg.Prefix + ":" + sid + ":user"
}

// Create starts a new anonymous session.
func (r *Registry) Create(ctx context.Context) (*Session, error) {
	sid := uuid.NewString()
	s, err := r.build(ctx, sid)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.sessions[sid] = s
	r.mu.Unlock()

	r.logger.Info("session created", zap.String("session_id", sid))
	return s, nil
}

// Get returns a live session. A session id the registry does not hold (after a
// restart or an idle eviction) is rebuilt from the seed, restoring whatever
// identity its slot key still holds.
func (r *Registry) Get(ctx context.Context, sid string) (*Session, error) {
	if sid == "" {
		return nil, ErrUnknownSession
	}
	r.mu.RLock()
	s, ok := r.sessions[sid]
	r.mu.RUnlock()
	if ok {
		s.touch(r.now())
		return s, nil
	}

	// The restore is shared by every caller waiting on this sid, so one caller
	// going away must not fail the rest.
	restoreCtx := context.WithoutCancel(ctx)
	v, err, _ := r.restores.Do(sid, func() (any, error) {
		r.mu.RLock()
		s, ok := r.sessions[sid]
		r.mu.RUnlock()
		if ok {
			return s, nil
		}

		s, err := r.build(restoreCtx, sid)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.sessions[sid] = s
		r.mu.Unlock()

		r.logger.Info("session restored",
			zap.String("session_id", sid),
			zap.Bool("logged_in", s.Guard.Current() != nil),
		)
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Session), nil
}

// Dispose drops a session's in-memory state. The identity slot is left alone;
// Logout is what clears it.
func (r *Registry) Dispose(sid string) {
	r.mu.Lock()
	delete(r.sessions, sid)
	r.mu.Unlock()
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep evicts sessions idle for longer than the idle timeout and returns how
// many went.
func (r *Registry) Sweep() int {
	if r.cfg.IdleTimeout <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.cfg.IdleTimeout)

	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for sid, s := range r.sessions {
		if s.idleSince().Before(cutoff) {
			delete(r.sessions, sid)
			n++
		}
	}
	if n > 0 {
		r.logger.Info("idle sessions evicted", zap.Int("count", n), zap.Int("remaining", len(r.sessions)))
	}
	return n
}

// RunJanitor sweeps every interval until ctx ends.
func (r *Registry) RunJanitor(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.Sweep()
		}
	}
}

func (r *Registry) build(ctx context.Context, sid string) (*Session, error) {
	logger := r.logger.With(zap.String("session_id", sid))

	guard, err := NewGuard(ctx, r.cfg.Slot, r.SlotKey(sid), r.cfg.AuthDelay, logger)
	if err != nil {
		return nil, fmt.Errorf("build session: %w", err)
	}

	data := r.cfg.Seed.Clone()
	store := chat.NewStore(data.Channels, data.Messages,
		chat.WithIdentity(guard.Current),
		chat.WithLogger(logger),
	)
	ws := dashboard.NewWorkspace(dashboard.Deps{
		Projects: memory.NewProjectStore(data.Projects),
		Team:     memory.NewTeamStore(data.Team),
		Reviews:  memory.NewReviewStore(data.Reviews),
		Chat:     store,
		Identity: guard,
		Logger:   logger,
	})

	return &Session{
		ID:        sid,
		Guard:     guard,
		Chat:      store,
		Workspace: ws,
		lastSeen:  r.now(),
	}, nil
}
