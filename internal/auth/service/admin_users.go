package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/sautiyetu/sauti/internal/auth/domain"
	"github.com/sautiyetu/sauti/internal/auth/store"
	"github.com/sautiyetu/sauti/pkg/cryptox"
	"github.com/sautiyetu/sauti/pkg/idx"
	"github.com/sautiyetu/sauti/pkg/phonex"
	"github.com/sautiyetu/sauti/pkg/slogx"
)

type CreateAdminInput struct {
	Name        string
	Email       string
	Phone       string
	Password    string
	Role        string
	Permissions []string // nil keeps the role defaults
}

type UpdateAdminInput struct {
	Name        *string
	Role        *string
	Permissions []string // nil leaves permissions alone
}

// AdminUserService manages admin accounts and user suspensions.
type AdminUserService struct {
	Store  store.Store
	Tokens *TokenService
	Now    func() time.Time
}

func (s *AdminUserService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// List returns admins, optionally only those holding role.
func (s *AdminUserService) List(ctx context.Context, role *domain.Role) ([]domain.Account, error) {
	return s.Store.Accounts().ListAccounts(ctx, store.AccountFilter{AdminsOnly: true, Role: role})
}

// Get returns any account, admin or not.
func (s *AdminUserService) Get(ctx context.Context, id string) (domain.Account, error) {
	return (&AccountService{Store: s.Store}).GetAccountByID(ctx, id)
}

func (s *AdminUserService) Create(ctx context.Context, in CreateAdminInput) (domain.Account, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Account{}, invalidRequest("name is required")
	}
	addr, err := mail.ParseAddress(strings.TrimSpace(in.Email))
	if err != nil {
		return domain.Account{}, invalidRequest("email is invalid")
	}
	email := normalizeEmail(addr.Address)

	phone, err := phonex.Normalize(in.Phone)
	if err != nil {
		return domain.Account{}, ErrInvalidPhoneFormat
	}
	if len(in.Password) < minPasswordLength {
		return domain.Account{}, invalidRequest("password must be at least %d characters", minPasswordLength)
	}
	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return domain.Account{}, invalidRequest("%v", err)
	}

	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return domain.Account{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	acct := domain.Account{
		ID:           idx.New().String(),
		PhoneNumber:  phone,
		Name:         name,
		Email:        &email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	acct.AssignRole(role)
	if in.Permissions != nil {
		perms, err := domain.ParsePermissions(in.Permissions)
		if err != nil {
			return domain.Account{}, invalidRequest("%v", err)
		}
		acct.SyncPermissions(perms...)
	}

	if err := s.Store.Accounts().CreateAccount(ctx, acct); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Account{}, fmt.Errorf("%w: email or phone already in use", ErrConflict)
		}
		return domain.Account{}, err
	}

	slogx.FromContext(ctx).Info("admin created", "account_id", acct.ID, "role", role)
	return acct, nil
}

// Update applies the role first, which resets permissions to the role
// defaults, and then the explicit permission list.
func (s *AdminUserService) Update(ctx context.Context, id string, in UpdateAdminInput) (domain.Account, error) {
	var (
		role  *domain.Role
		perms []domain.Permission
	)
	if in.Role != nil {
		r, err := domain.ParseRole(*in.Role)
		if err != nil {
			return domain.Account{}, invalidRequest("%v", err)
		}
		role = &r
	}
	if in.Permissions != nil {
		p, err := domain.ParsePermissions(in.Permissions)
		if err != nil {
			return domain.Account{}, invalidRequest("%v", err)
		}
		perms = p
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return domain.Account{}, invalidRequest("name must not be empty")
	}

	var out domain.Account
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		acct, err := getAdmin(ctx, tx, id)
		if err != nil {
			return err
		}

		if role != nil {
			if acct.IsSuperAdmin() && *role != domain.RoleSuperAdmin {
				if err := ensureAnotherSuperAdmin(ctx, tx); err != nil {
					return err
				}
			}
			acct.AssignRole(*role)
		}
		if perms != nil {
			acct.SyncPermissions(perms...)
		}
		if in.Name != nil {
			acct.Name = strings.TrimSpace(*in.Name)
		}

		acct.UpdatedAt = s.now()
		if err := tx.Accounts().UpdateAccount(ctx, acct); err != nil {
			return err
		}
		out = acct
		return nil
	})
	return out, err
}

// Delete removes an admin account and, through the foreign key, its tokens.
func (s *AdminUserService) Delete(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return ErrCannotDeleteSelf
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		acct, err := getAdmin(ctx, tx, id)
		if err != nil {
			return err
		}
		if acct.IsSuperAdmin() {
			if err := ensureAnotherSuperAdmin(ctx, tx); err != nil {
				return err
			}
		}
		return tx.Accounts().DeleteAccount(ctx, id)
	})
	if err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("admin deleted", "account_id", id, "by", actorID)
	return nil
}

// Suspend locks an account until until, or indefinitely when until is nil,
// and revokes its tokens.
func (s *AdminUserService) Suspend(ctx context.Context, actorID, id string, until *time.Time) (domain.Account, error) {
	if actorID == id {
		return domain.Account{}, ErrCannotSuspendSelf
	}
	now := s.now()
	if until != nil && !until.After(now) {
		return domain.Account{}, invalidRequest("until must be in the future")
	}

	var out domain.Account
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		acct, err := tx.Accounts().GetAccountByID(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if acct.IsSuperAdmin() {
			if err := ensureAnotherSuperAdmin(ctx, tx); err != nil {
				return err
			}
		}

		acct.IsSuspended = true
		acct.SuspendedUntil = until
		acct.UpdatedAt = now
		if err := tx.Accounts().UpdateAccount(ctx, acct); err != nil {
			return err
		}
		if err := tx.AccessTokens().DeleteAccountTokens(ctx, id); err != nil {
			return err
		}
		out = acct
		return nil
	})
	if err != nil {
		return domain.Account{}, err
	}

	slogx.FromContext(ctx).Info("account suspended", "account_id", id, "by", actorID, "until", until)
	return out, nil
}

// Activate lifts a suspension.
func (s *AdminUserService) Activate(ctx context.Context, id string) (domain.Account, error) {
	if err := s.Store.Accounts().ClearSuspension(ctx, id, s.now()); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, ErrNotFound
		}
		return domain.Account{}, err
	}
	return s.Get(ctx, id)
}

// RolesAndPermissions returns the role table and the grouped permission list.
func (s *AdminUserService) RolesAndPermissions() ([]domain.Role, []domain.PermissionGroup) {
	return domain.Roles(), domain.GroupedPermissions()
}

func getAdmin(ctx context.Context, tx store.Tx, id string) (domain.Account, error) {
	acct, err := tx.Accounts().GetAccountByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Account{}, ErrNotFound
	}
	if err != nil {
		return domain.Account{}, err
	}
	if !acct.IsAdmin {
		return domain.Account{}, ErrNotAdmin
	}
	return acct, nil
}

// ensureAnotherSuperAdmin fails when removing one super admin would leave none.
func ensureAnotherSuperAdmin(ctx context.Context, tx store.Tx) error {
	n, err := tx.Accounts().CountSuperAdmins(ctx)
	if err != nil {
		return err
	}
	if n <= 1 {
		return ErrLastSuperAdmin
	}
	return nil
}
