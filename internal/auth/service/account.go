package service

import (
	"context"
	"errors"

	"github.com/sautiyetu/sauti/internal/auth/domain"
	"github.com/sautiyetu/sauti/internal/auth/store"
)

type AccountService struct {
	Store store.Store
}

// GetAccountByID fetches an account by id.
func (s *AccountService) GetAccountByID(ctx context.Context, id string) (domain.Account, error) {
	acct, err := s.Store.Accounts().GetAccountByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Account{}, ErrNotFound
	}
	return acct, err
}
