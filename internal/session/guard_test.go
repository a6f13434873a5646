package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lalith-99/collabsphere/internal/apperr"
	"github.com/lalith-99/collabsphere/internal/mocks"
	"github.com/lalith-99/collabsphere/internal/models"
	"github.com/lalith-99/collabsphere/internal/repository/memory"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const testKey = "test:sid:user"

func newGuard(t *testing.T, delay time.Duration) (*Guard, *memory.IdentityStore) {
	t.Helper()
	slot := memory.NewIdentityStore()
	g, err := NewGuard(context.Background(), slot, testKey, delay, zap.NewNop())
	require.NoError(t, err)
	return g, slot
}

func TestGuard_Login(t *testing.T) {
	t.Run("should derive a manager from the email", func(t *testing.T) {
		req := require.New(t)
		g, slot := newGuard(t, 0)

		u, err := g.Login(context.Background(), "a@manager.com", "x")

		req.NoError(err)
		req.Equal("a", u.Name)
		req.Equal("a@manager.com", u.Email)
		req.Equal(models.RoleManager, u.Role)
		req.Equal(u, g.Current())

		saved, err := slot.Load(context.Background(), testKey)
		req.NoError(err)
		req.Equal(u, saved)
	})

	t.Run("should derive a team member otherwise", func(t *testing.T) {
		g, _ := newGuard(t, 0)

		u, err := g.Login(context.Background(), "sam@example.com", "pw")

		require.NoError(t, err)
		require.Equal(t, models.RoleTeamMember, u.Role)
		require.Equal(t, "sam", u.Name)
	})

	t.Run("should give the same email the same id", func(t *testing.T) {
		g1, _ := newGuard(t, 0)
		g2, _ := newGuard(t, 0)

		u1, err := g1.Login(context.Background(), "sam@example.com", "pw")
		require.NoError(t, err)
		u2, err := g2.Login(context.Background(), "sam@example.com", "other")
		require.NoError(t, err)

		require.Equal(t, u1.ID, u2.ID)
		require.Regexp(t, `^user-`, u1.ID)
	})

	t.Run("should reject empty fields without touching the slot", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		slot := mocks.NewMockIdentitySlot(ctrl)
		slot.EXPECT().Load(gomock.Any(), testKey).Return(nil, nil)
		g, err := NewGuard(context.Background(), slot, testKey, 0, zap.NewNop())
		require.NoError(t, err)

		for _, tc := range []struct{ email, password string }{
			{"", "pw"},
			{"a@b.c", ""},
			{"", ""},
		} {
			_, err := g.Login(context.Background(), tc.email, tc.password)
			require.ErrorIs(t, err, apperr.ErrInvalidCredentials)
		}
		require.Nil(t, g.Current())
	})

	t.Run("should wait for the configured delay", func(t *testing.T) {
		g, _ := newGuard(t, 30*time.Millisecond)

		start := time.Now()
		_, err := g.Login(context.Background(), "a@b.c", "pw")

		require.NoError(t, err)
		require.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
	})

	t.Run("should leave no identity when cancelled during the wait", func(t *testing.T) {
		req := require.New(t)
		g, slot := newGuard(t, time.Hour)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		_, err := g.Login(ctx, "a@manager.com", "x")

		req.ErrorIs(err, context.DeadlineExceeded)
		req.Nil(g.Current())
		req.Equal(0, slot.Len())
	})

	t.Run("should not complete after a logout during the wait", func(t *testing.T) {
		req := require.New(t)
		g, slot := newGuard(t, 50*time.Millisecond)

		done := make(chan error, 1)
		go func() {
			_, err := g.Login(context.Background(), "a@b.c", "pw")
			done <- err
		}()
		time.Sleep(10 * time.Millisecond)
		_, err := g.Logout(context.Background())
		req.NoError(err)

		req.ErrorIs(<-done, ErrSuperseded)
		req.Nil(g.Current())
		req.Equal(0, slot.Len())
	})

	t.Run("should surface slot write failures", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		slot := mocks.NewMockIdentitySlot(ctrl)
		boom := errors.New("disk full")
		slot.EXPECT().Load(gomock.Any(), testKey).Return(nil, nil)
		slot.EXPECT().Save(gomock.Any(), testKey, gomock.Any()).Return(boom)
		g, err := NewGuard(context.Background(), slot, testKey, 0, zap.NewNop())
		require.NoError(t, err)

		_, err = g.Login(context.Background(), "a@b.c", "pw")

		require.ErrorIs(t, err, boom)
		require.Nil(t, g.Current())
	})
}

func TestGuard_Signup(t *testing.T) {
	t.Run("should honor the requested manager role", func(t *testing.T) {
		g, _ := newGuard(t, 0)

		u, err := g.Signup(context.Background(), "Alex", "alex@example.com", "pw", "manager")

		require.NoError(t, err)
		require.Equal(t, models.RoleManager, u.Role)
		require.Equal(t, "Alex", u.Name)
	})

	t.Run("should default any other role to team member", func(t *testing.T) {
		g, _ := newGuard(t, 0)

		u, err := g.Signup(context.Background(), "Alex", "alex@example.com", "pw", "admin")

		require.NoError(t, err)
		require.Equal(t, models.RoleTeamMember, u.Role)
	})

	t.Run("should mint a fresh id per signup", func(t *testing.T) {
		g, _ := newGuard(t, 0)

		u1, err := g.Signup(context.Background(), "Alex", "alex@example.com", "pw", "")
		require.NoError(t, err)
		u2, err := g.Signup(context.Background(), "Alex", "alex@example.com", "pw", "")
		require.NoError(t, err)

		require.NotEqual(t, u1.ID, u2.ID)
	})

	t.Run("should reject a missing name", func(t *testing.T) {
		g, slot := newGuard(t, 0)

		_, err := g.Signup(context.Background(), "", "alex@example.com", "pw", "manager")

		require.ErrorIs(t, err, apperr.ErrInvalidUserData)
		require.Equal(t, 0, slot.Len())
	})
}

func TestGuard_Logout(t *testing.T) {
	req := require.New(t)
	g, slot := newGuard(t, 0)
	_, err := g.Login(context.Background(), "a@b.c", "pw")
	req.NoError(err)

	next, err := g.Logout(context.Background())

	req.NoError(err)
	req.Equal(PathLogin, next)
	req.Nil(g.Current())
	saved, err := slot.Load(context.Background(), testKey)
	req.NoError(err)
	req.Nil(saved)
	req.Equal(Decision{Action: ActionRedirect, Target: PathLogin}, g.Navigate("/dashboard"))
}

func TestNewGuard_RestoresPersistedIdentity(t *testing.T) {
	ctrl := gomock.NewController(t)
	slot := mocks.NewMockIdentitySlot(ctrl)
	persisted := &models.Identity{ID: "user-1", Name: "a", Email: "a@manager.com", Role: models.RoleManager}
	slot.EXPECT().Load(gomock.Any(), testKey).Return(persisted, nil).Times(1)

	g, err := NewGuard(context.Background(), slot, testKey, 0, zap.NewNop())

	require.NoError(t, err)
	require.Equal(t, persisted, g.Current())
	require.Equal(t, ActionAllow, g.Navigate("/dashboard/team").Action)
}

func TestGuard_UpdateProfile(t *testing.T) {
	t.Run("should rename and re-save", func(t *testing.T) {
		req := require.New(t)
		g, slot := newGuard(t, 0)
		u, err := g.Login(context.Background(), "a@manager.com", "x")
		req.NoError(err)

		updated, err := g.UpdateProfile(context.Background(), "Alice", "alice@manager.com")

		req.NoError(err)
		req.Equal(u.ID, updated.ID)
		req.Equal(u.Role, updated.Role)
		req.Equal("Alice", updated.Name)
		saved, err := slot.Load(context.Background(), testKey)
		req.NoError(err)
		req.Equal(updated, saved)
	})

	t.Run("should fail without an identity", func(t *testing.T) {
		g, _ := newGuard(t, 0)

		_, err := g.UpdateProfile(context.Background(), "Alice", "alice@example.com")

		require.ErrorIs(t, err, apperr.ErrNoIdentity)
	})
}
