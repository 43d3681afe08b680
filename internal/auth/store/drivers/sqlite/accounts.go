package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/sautiyetu/sauti/internal/auth/domain"
	"github.com/sautiyetu/sauti/internal/auth/store"
	"github.com/sautiyetu/sauti/internal/auth/store/drivers/sqlite/gen"
)

type accountsRepo struct {
	q *gen.Queries
}

func (r *accountsRepo) GetAccountByID(ctx context.Context, id string) (domain.Account, error) {
	row, err := r.q.GetAccountByID(ctx, id)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return mapAccount(row), nil
}

func (r *accountsRepo) GetAccountByPhone(ctx context.Context, phone string) (domain.Account, error) {
	row, err := r.q.GetAccountByPhone(ctx, phone)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return mapAccount(row), nil
}

func (r *accountsRepo) GetAccountByEmail(ctx context.Context, email string) (domain.Account, error) {
	row, err := r.q.GetAccountByEmail(ctx, mapStringNull(email))
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return mapAccount(row), nil
}

func (r *accountsRepo) UpsertVerifiedPhone(
	ctx context.Context,
	id, phone, name string,
	now time.Time,
) (domain.Account, error) {
	gotID, err := r.q.UpsertVerifiedPhone(ctx, gen.UpsertVerifiedPhoneParams{
		ID:              id,
		PhoneNumber:     phone,
		Name:            name,
		PhoneVerifiedAt: mapOptionalTime(&now),
	})
	if err != nil {
		return domain.Account{}, err
	}
	return r.GetAccountByID(ctx, gotID)
}

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.Account) error {
	err := r.q.CreateAccount(ctx, gen.CreateAccountParams{
		ID:              a.ID,
		PhoneNumber:     a.PhoneNumber,
		Name:            a.Name,
		Email:           mapOptionalString(a.Email),
		WardID:          mapOptionalInt64(a.WardID),
		IsAdmin:         a.IsAdmin,
		AdminRole:       mapRole(a.AdminRole),
		Permissions:     encodeStrings(a.Permissions),
		IsSuspended:     a.IsSuspended,
		SuspendedUntil:  mapOptionalTime(a.SuspendedUntil),
		PasswordHash:    mapStringNull(a.PasswordHash),
		MfaSecret:       mapOptionalString(a.MFASecret),
		MfaEnabledAt:    mapOptionalTime(a.MFAEnabledAt),
		PhoneVerifiedAt: mapOptionalTime(a.PhoneVerifiedAt),
		LastLoginAt:     mapOptionalTime(a.LastLoginAt),
		CreatedAt:       ts(a.CreatedAt),
		UpdatedAt:       ts(a.UpdatedAt),
	})
	return mapConstraint(err)
}

func (r *accountsRepo) UpdateAccount(ctx context.Context, a domain.Account) error {
	n, err := r.q.UpdateAccount(ctx, gen.UpdateAccountParams{
		Name:           a.Name,
		Email:          mapOptionalString(a.Email),
		WardID:         mapOptionalInt64(a.WardID),
		IsAdmin:        a.IsAdmin,
		AdminRole:      mapRole(a.AdminRole),
		Permissions:    encodeStrings(a.Permissions),
		IsSuspended:    a.IsSuspended,
		SuspendedUntil: mapOptionalTime(a.SuspendedUntil),
		PasswordHash:   mapStringNull(a.PasswordHash),
		MfaSecret:      mapOptionalString(a.MFASecret),
		MfaEnabledAt:   mapOptionalTime(a.MFAEnabledAt),
		UpdatedAt:      ts(a.UpdatedAt),
		ID:             a.ID,
	})
	return rowsOrNotFound(n, mapConstraint(err))
}

func (r *accountsRepo) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	return rowsOrNotFound(r.q.UpdateAccountLastLogin(ctx, gen.UpdateAccountLastLoginParams{
		LastLoginAt: mapOptionalTime(&at),
		ID:          id,
	}))
}

func (r *accountsRepo) ClearSuspension(ctx context.Context, id string, now time.Time) error {
	return rowsOrNotFound(r.q.ClearAccountSuspension(ctx, gen.ClearAccountSuspensionParams{
		UpdatedAt: ts(now),
		ID:        id,
	}))
}

func (r *accountsRepo) DeleteAccount(ctx context.Context, id string) error {
	return rowsOrNotFound(r.q.DeleteAccount(ctx, id))
}

func (r *accountsRepo) ListAccounts(ctx context.Context, f store.AccountFilter) ([]domain.Account, error) {
	limit := int64(f.Limit)
	if limit <= 0 {
		limit = -1 // no limit
	}
	rows, err := r.q.ListAccounts(ctx, gen.ListAccountsParams{
		AdminsOnly: f.AdminsOnly,
		AdminRole:  mapRole(f.Role),
		Limit:      limit,
		Offset:     int64(max(f.Offset, 0)),
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.Account, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapAccount(row))
	}
	return out, nil
}

func (r *accountsRepo) CountSuperAdmins(ctx context.Context) (int, error) {
	n, err := r.q.CountSuperAdmins(ctx)
	return int(n), err
}

func mapRole(r *domain.Role) sql.NullString {
	if r == nil {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: string(*r), Valid: true}
}
