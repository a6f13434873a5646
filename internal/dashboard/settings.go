package dashboard

import (
	"context"
	"fmt"

	"github.com/lalith-99/collabsphere/internal/apperr"
	"github.com/lalith-99/collabsphere/internal/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Profile returns the settings page profile. Name and email always come from
// the session identity.
func (w *Workspace) Profile() (models.Profile, error) {
	u, err := w.actor()
	if err != nil {
		return models.Profile{}, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	p := w.profile
	p.Name = u.Name
	p.Email = u.Email
	return p, nil
}

// UpdateProfile saves phone and bio here, and name and email on the identity,
// which re-saves the identity slot.
func (w *Workspace) UpdateProfile(ctx context.Context, form ProfileForm) (models.Profile, error) {
	if _, err := w.actor(); err != nil {
		return models.Profile{}, err
	}
	if err := check(form); err != nil {
		return models.Profile{}, err
	}

	u, err := w.identity.UpdateProfile(ctx, form.Name, form.Email)
	if err != nil {
		return models.Profile{}, fmt.Errorf("update profile: %w", err)
	}

	w.mu.Lock()
	w.profile = models.Profile{Name: u.Name, Email: u.Email, Phone: form.Phone, Bio: form.Bio}
	p := w.profile
	w.mu.Unlock()

	w.logger.Info("profile updated", zap.String("user_id", u.ID))
	return p, nil
}

func (w *Workspace) Notifications() (models.NotificationSettings, error) {
	if _, err := w.actor(); err != nil {
		return models.NotificationSettings{}, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.notifications, nil
}

func (w *Workspace) UpdateNotifications(s models.NotificationSettings) (models.NotificationSettings, error) {
	u, err := w.actor()
	if err != nil {
		return models.NotificationSettings{}, err
	}
	w.mu.Lock()
	w.notifications = s
	w.mu.Unlock()

	w.logger.Info("notification settings updated", zap.String("user_id", u.ID), zap.Any("settings", s))
	return s, nil
}

// ChangePassword keeps a bcrypt hash of the new password for the lifetime of
// the session. There is no account store to write it to. After the first
// change, the current password has to match the stored hash.
func (w *Workspace) ChangePassword(form PasswordForm) error {
	u, err := w.actor()
	if err != nil {
		return err
	}
	if err := check(form); err != nil {
		return err
	}
	if w.hasPassword() && !w.passwordMatches(form.CurrentPassword) {
		return apperr.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	w.mu.Lock()
	w.passwordHash = hash
	w.mu.Unlock()

	w.logger.Info("password changed", zap.String("user_id", u.ID))
	return nil
}

func (w *Workspace) hasPassword() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.passwordHash != nil
}

// passwordMatches reports whether pw is the last password set through
// ChangePassword. False when none was set.
func (w *Workspace) passwordMatches(pw string) bool {
	w.mu.Lock()
	hash := w.passwordHash
	w.mu.Unlock()
	if hash == nil {
		return false
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(pw)) == nil
}
