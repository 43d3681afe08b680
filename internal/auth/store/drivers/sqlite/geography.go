package sqlite

import (
	"context"

	"github.com/sautiyetu/sauti/internal/auth/domain"
	"github.com/sautiyetu/sauti/internal/auth/store/drivers/sqlite/gen"
)

type geographyRepo struct {
	q *gen.Queries
}

func (r *geographyRepo) ListCounties(ctx context.Context) ([]domain.County, error) {
	rows, err := r.q.ListCounties(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.County, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.County{ID: row.ID, Code: row.Code, Name: row.Name})
	}
	return out, nil
}

func (r *geographyRepo) ListConstituencies(ctx context.Context, countyID int64) ([]domain.Constituency, error) {
	rows, err := r.q.ListConstituencies(ctx, countyID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Constituency, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Constituency{ID: row.ID, CountyID: row.CountyID, Name: row.Name})
	}
	return out, nil
}

func (r *geographyRepo) ListWards(ctx context.Context, constituencyID int64) ([]domain.Ward, error) {
	rows, err := r.q.ListWards(ctx, constituencyID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Ward, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Ward{ID: row.ID, ConstituencyID: row.ConstituencyID, Name: row.Name, Code: row.Code})
	}
	return out, nil
}

func (r *geographyRepo) GetCounty(ctx context.Context, id int64) (domain.County, error) {
	row, err := r.q.GetCounty(ctx, id)
	if err != nil {
		return domain.County{}, mapNotFound(err)
	}
	return domain.County{ID: row.ID, Code: row.Code, Name: row.Name}, nil
}

func (r *geographyRepo) GetConstituency(ctx context.Context, id int64) (domain.Constituency, error) {
	row, err := r.q.GetConstituency(ctx, id)
	if err != nil {
		return domain.Constituency{}, mapNotFound(err)
	}
	return domain.Constituency{ID: row.ID, CountyID: row.CountyID, Name: row.Name}, nil
}

func (r *geographyRepo) GetWardLocation(ctx context.Context, wardID int64) (domain.WardLocation, error) {
	row, err := r.q.GetWardLocation(ctx, wardID)
	if err != nil {
		return domain.WardLocation{}, mapNotFound(err)
	}
	return domain.WardLocation{
		Ward:         domain.Ward{ID: row.ID, ConstituencyID: row.ConstituencyID, Name: row.Name, Code: row.Code},
		Constituency: domain.Constituency{ID: row.ConstituencyID, CountyID: row.CountyID, Name: row.ConstituencyName},
		County:       domain.County{ID: row.CountyID, Code: row.CountyCode, Name: row.CountyName},
	}, nil
}
