package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lalith-99/collabsphere/internal/apperr"
	"github.com/lalith-99/collabsphere/internal/models"
	"github.com/lalith-99/collabsphere/internal/repository"
	"go.uber.org/zap"
)

// ErrSuperseded is returned by a pending login or signup when the identity
// changed (logout, another login) while it was waiting. The pending operation
// then has no effect.
var ErrSuperseded = errors.New("superseded by a newer identity change")

// loginNamespace makes login ids stable per email.
var loginNamespace = uuid.MustParse("6f1c2a4e-8c1b-4f57-9a43-2f0d5c7e91b3")

// Guard holds "who is logged in" for one session and persists it in the
// identity slot under a single key.
type Guard struct {
	slot   repository.IdentitySlot
	key    string
	delay  time.Duration
	logger *zap.Logger

	mu       sync.RWMutex
	identity *models.Identity
	// gen increases on every identity change. A pending login compares it
	// before committing, which gives at-most-once completion.
	gen uint64
}

// NewGuard reads the slot once to restore a persisted identity. delay is the
// artificial latency of Login and Signup.
func NewGuard(ctx context.Context, slot repository.IdentitySlot, key string, delay time.Duration, logger *zap.Logger) (*Guard, error) {
	identity, err := slot.Load(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("restore identity: %w", err)
	}
	return &Guard{
		slot:     slot,
		key:      key,
		delay:    delay,
		logger:   logger,
		identity: identity,
	}, nil
}

// Current returns a copy of the logged-in identity, or nil.
func (g *Guard) Current() *models.Identity {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.identity == nil {
		return nil
	}
	u := *g.identity
	return &u
}

// Login accepts any non-empty email and password pair. The password is not
// verified. The identity's role is manager when the email mentions "manager".
func (g *Guard) Login(ctx context.Context, email, password string) (*models.Identity, error) {
	gen := g.generation()
	if err := g.wait(ctx); err != nil {
		return nil, err
	}
	if email == "" || password == "" {
		return nil, apperr.ErrInvalidCredentials
	}

	name, _, _ := strings.Cut(email, "@")
	role := models.RoleTeamMember
	if strings.Contains(email, "manager") {
		role = models.RoleManager
	}
	identity := &models.Identity{
		ID:    "user-" + uuid.NewSHA1(loginNamespace, []byte(strings.ToLower(email))).String(),
		Name:  name,
		Email: email,
		Role:  role,
	}

	if err := g.commit(ctx, gen, identity); err != nil {
		return nil, err
	}
	g.logger.Info("logged in", zap.String("user_id", identity.ID), zap.String("role", string(role)))
	return identity, nil
}

// Signup creates a fresh identity with the requested role. Any role other than
// "manager" becomes team_member.
func (g *Guard) Signup(ctx context.Context, name, email, password, role string) (*models.Identity, error) {
	gen := g.generation()
	if err := g.wait(ctx); err != nil {
		return nil, err
	}
	if name == "" || email == "" || password == "" {
		return nil, apperr.ErrInvalidUserData
	}

	r := models.RoleTeamMember
	if role == string(models.RoleManager) {
		r = models.RoleManager
	}
	identity := &models.Identity{
		ID:    "user-" + uuid.NewString(),
		Name:  name,
		Email: email,
		Role:  r,
	}

	if err := g.commit(ctx, gen, identity); err != nil {
		return nil, err
	}
	g.logger.Info("signed up", zap.String("user_id", identity.ID), zap.String("role", string(r)))
	return identity, nil
}

// Logout clears the slot and returns the public entry path the caller must
// navigate to. It also supersedes any login still waiting.
func (g *Guard) Logout(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.slot.Clear(ctx, g.key); err != nil {
		return "", fmt.Errorf("logout: %w", err)
	}
	if g.identity != nil {
		g.logger.Info("logged out", zap.String("user_id", g.identity.ID))
	}
	g.identity = nil
	g.gen++
	return PathLogin, nil
}

// UpdateProfile renames the logged-in identity and re-saves the slot. Id and
// role never change.
func (g *Guard) UpdateProfile(ctx context.Context, name, email string) (*models.Identity, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.identity == nil {
		return nil, apperr.ErrNoIdentity
	}
	updated := *g.identity
	updated.Name = name
	updated.Email = email
	if err := g.slot.Save(ctx, g.key, &updated); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	g.identity = &updated
	g.gen++
	u := updated
	return &u, nil
}

// Navigate applies the routing policy with the current identity.
func (g *Guard) Navigate(path string) Decision {
	return Decide(g.Current(), path)
}

func (g *Guard) generation() uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.gen
}

func (g *Guard) commit(ctx context.Context, gen uint64, identity *models.Identity) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.gen != gen {
		return ErrSuperseded
	}
	if err := g.slot.Save(ctx, g.key, identity); err != nil {
		return fmt.Errorf("persist identity: %w", err)
	}
	u := *identity
	g.identity = &u
	g.gen++
	return nil
}

// wait simulates network latency. It returns ctx.Err() when the caller gives up
// first; nothing has changed at that point.
func (g *Guard) wait(ctx context.Context) error {
	if g.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(g.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
