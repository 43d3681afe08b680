package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sautiyetu/sauti/internal/auth/domain"
	"github.com/sautiyetu/sauti/internal/auth/store"
)

// GeographyService serves the county, constituency and ward reference data.
type GeographyService struct {
	Store store.Store
}

func (s *GeographyService) ListCounties(ctx context.Context) ([]domain.County, error) {
	return s.Store.Geography().ListCounties(ctx)
}

func (s *GeographyService) ListConstituencies(ctx context.Context, countyID int64) ([]domain.Constituency, error) {
	if _, err := s.Store.Geography().GetCounty(ctx, countyID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: county %d", ErrNotFound, countyID)
		}
		return nil, err
	}
	return s.Store.Geography().ListConstituencies(ctx, countyID)
}

func (s *GeographyService) ListWards(ctx context.Context, constituencyID int64) ([]domain.Ward, error) {
	if _, err := s.Store.Geography().GetConstituency(ctx, constituencyID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: constituency %d", ErrNotFound, constituencyID)
		}
		return nil, err
	}
	return s.Store.Geography().ListWards(ctx, constituencyID)
}

// ResolveWard returns the ward with its constituency and county.
func (s *GeographyService) ResolveWard(ctx context.Context, wardID int64) (domain.WardLocation, error) {
	loc, err := s.Store.Geography().GetWardLocation(ctx, wardID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.WardLocation{}, ErrWardNotFound
	}
	return loc, err
}
