package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sautiyetu/sauti/internal/auth/domain"
	"github.com/sautiyetu/sauti/internal/auth/store"
	"github.com/sautiyetu/sauti/pkg/slogx"
)

var ErrBootstrapIncomplete = errors.New("bootstrap admin requires email, password and phone")

// BootstrapService creates the first super admin from configuration so a
// fresh deployment can be administered.
type BootstrapService struct {
	Store  store.Store
	Admins *AdminUserService

	Name     string
	Email    string
	Password string
	Phone    string
}

// EnsureSuperAdmin creates the configured super admin when none exists yet.
// It does nothing when no bootstrap credentials are configured.
func (s *BootstrapService) EnsureSuperAdmin(ctx context.Context) (bool, error) {
	l := slogx.FromContext(ctx)

	if s.Email == "" && s.Password == "" {
		return false, nil
	}
	if s.Email == "" || s.Password == "" || s.Phone == "" {
		return false, ErrBootstrapIncomplete
	}

	n, err := s.Store.Accounts().CountSuperAdmins(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		l.Debug("super admin present, skipping bootstrap", slog.Int("super_admins", n))
		return false, nil
	}

	name := s.Name
	if name == "" {
		name = "Super Admin"
	}

	acct, err := s.Admins.Create(ctx, CreateAdminInput{
		Name:     name,
		Email:    s.Email,
		Phone:    s.Phone,
		Password: s.Password,
		Role:     string(domain.RoleSuperAdmin),
	})
	if err != nil {
		l.Error("failed to bootstrap super admin", slog.Any("error", err))
		return false, err
	}

	l.Info("bootstrapped super admin", slog.String("account_id", acct.ID))
	return true, nil
}
