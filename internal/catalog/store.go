package catalog

import (
	"context"
	"fmt"

	"github.com/gokatarajesh/flagquiz/internal/db/queries"
)

type countryLister interface {
	List(ctx context.Context) ([]queries.Country, error)
}

// StoreSource reads the catalog from the countries table.
type StoreSource struct {
	repo countryLister
}

// NewStoreSource wraps a repository (normally *repository.CountryRepository).
func NewStoreSource(repo countryLister) *StoreSource {
	return &StoreSource{repo: repo}
}

func (s *StoreSource) Load(ctx context.Context) (*Catalog, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}
	countries := make([]Country, 0, len(rows))
	for _, row := range rows {
		countries = append(countries, Country{
			Code: row.Code,
			Name: row.Name,
			Flag: row.Flag,
		})
	}
	return New(countries)
}
