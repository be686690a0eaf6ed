package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gokatarajesh/flagquiz/internal/db/queries"
)

type countryStore interface {
	ListCountries(ctx context.Context) ([]queries.Country, error)
	CountCountries(ctx context.Context) (int64, error)
	UpsertCountry(ctx context.Context, arg queries.UpsertCountryParams) error
	ParkCountryPositions(ctx context.Context) error
	DeleteParkedCountries(ctx context.Context) (int64, error)
}

// TxBeginner is satisfied by *pgxpool.Pool and *pgx.Conn.
type TxBeginner interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// CountryRepository wraps catalog queries.
type CountryRepository struct {
	store countryStore
}

func NewCountryRepository(store countryStore) *CountryRepository {
	return &CountryRepository{store: store}
}

// List returns every country ordered by position.
func (r *CountryRepository) List(ctx context.Context) ([]queries.Country, error) {
	return r.store.ListCountries(ctx)
}

// Count returns the number of stored countries.
func (r *CountryRepository) Count(ctx context.Context) (int64, error) {
	return r.store.CountCountries(ctx)
}

// Import makes the table mirror rows: existing positions are parked, rows are upserted
// in order and countries left without a position are removed. It stops at the first
// failure; run it through ImportCountries to get all or nothing.
func (r *CountryRepository) Import(ctx context.Context, rows []queries.UpsertCountryParams) (int64, error) {
	if err := r.store.ParkCountryPositions(ctx); err != nil {
		return 0, fmt.Errorf("park country positions: %w", err)
	}
	for _, row := range rows {
		if err := r.store.UpsertCountry(ctx, row); err != nil {
			return 0, fmt.Errorf("upsert country %s: %w", row.Code, err)
		}
	}
	removed, err := r.store.DeleteParkedCountries(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete stale countries: %w", err)
	}
	return removed, nil
}

// ImportCountries runs Import in a single transaction.
func ImportCountries(ctx context.Context, db TxBeginner, rows []queries.UpsertCountryParams) (int64, error) {
	var removed int64
	err := pgx.BeginTxFunc(ctx, db, pgx.TxOptions{}, func(tx pgx.Tx) error {
		var err error
		removed, err = NewCountryRepository(queries.New(tx)).Import(ctx, rows)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("import countries: %w", err)
	}
	return removed, nil
}
