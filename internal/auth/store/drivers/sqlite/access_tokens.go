package sqlite

import (
	"context"
	"time"

	"github.com/sautiyetu/sauti/internal/auth/domain"
	"github.com/sautiyetu/sauti/internal/auth/store/drivers/sqlite/gen"
)

type accessTokensRepo struct {
	q *gen.Queries
}

func (r *accessTokensRepo) CreateAccessToken(ctx context.Context, t domain.AccessToken) error {
	return mapConstraint(r.q.CreateAccessToken(ctx, gen.CreateAccessTokenParams{
		ID:        t.ID,
		AccountID: t.AccountID,
		Name:      t.Name,
		Abilities: encodeStrings(t.Abilities),
		ExpiresAt: ts(t.ExpiresAt),
		CreatedAt: ts(t.CreatedAt),
	}))
}

func (r *accessTokensRepo) GetAccessToken(ctx context.Context, id string) (domain.AccessToken, error) {
	row, err := r.q.GetAccessToken(ctx, id)
	if err != nil {
		return domain.AccessToken{}, mapNotFound(err)
	}
	return mapAccessToken(row), nil
}

func (r *accessTokensRepo) TouchAccessToken(ctx context.Context, id string, at time.Time) error {
	return r.q.TouchAccessToken(ctx, gen.TouchAccessTokenParams{LastUsedAt: mapOptionalTime(&at), ID: id})
}

func (r *accessTokensRepo) DeleteAccessToken(ctx context.Context, id string) error {
	return r.q.DeleteAccessToken(ctx, id)
}

func (r *accessTokensRepo) DeleteAccountTokens(ctx context.Context, accountID string) error {
	return r.q.DeleteAccountTokens(ctx, accountID)
}

func (r *accessTokensRepo) DeleteAccountTokensExcept(ctx context.Context, accountID, keepID string) error {
	return r.q.DeleteAccountTokensExcept(ctx, gen.DeleteAccountTokensExceptParams{AccountID: accountID, ID: keepID})
}

func (r *accessTokensRepo) DeleteExpiredAccessTokens(ctx context.Context, now time.Time) (int64, error) {
	return r.q.DeleteExpiredAccessTokens(ctx, ts(now))
}
