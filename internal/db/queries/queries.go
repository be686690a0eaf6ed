package queries

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// Queries holds the hand-written SQL used against the catalog schema.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// Country mirrors a row of the countries table.
type Country struct {
	CountryID int32
	Position  int32
	Code      string
	Name      string
	Flag      string
	CreatedAt pgtype.Timestamptz
}

const listCountries = `
SELECT country_id, position, code, name, flag, created_at
FROM countries
ORDER BY position ASC
`

func (q *Queries) ListCountries(ctx context.Context) ([]Country, error) {
	rows, err := q.db.Query(ctx, listCountries)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Country
	for rows.Next() {
		var i Country
		if err := rows.Scan(
			&i.CountryID,
			&i.Position,
			&i.Code,
			&i.Name,
			&i.Flag,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countCountries = `SELECT COUNT(*) FROM countries`

func (q *Queries) CountCountries(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, countCountries).Scan(&n)
	return n, err
}

const upsertCountry = `
INSERT INTO countries (position, code, name, flag)
VALUES ($1, $2, $3, $4)
ON CONFLICT (code) DO UPDATE SET position = EXCLUDED.position, name = EXCLUDED.name, flag = EXCLUDED.flag
`

type UpsertCountryParams struct {
	Position int32
	Code     string
	Name     string
	Flag     string
}

func (q *Queries) UpsertCountry(ctx context.Context, arg UpsertCountryParams) error {
	_, err := q.db.Exec(ctx, upsertCountry, arg.Position, arg.Code, arg.Name, arg.Flag)
	return err
}

// Moves every row to a distinct negative position so a reordering import never
// collides with the UNIQUE position constraint.
const parkCountryPositions = `
UPDATE countries SET position = -position - 1 WHERE position >= 0
`

func (q *Queries) ParkCountryPositions(ctx context.Context) error {
	_, err := q.db.Exec(ctx, parkCountryPositions)
	return err
}

const deleteParkedCountries = `
DELETE FROM countries WHERE position < 0
`

func (q *Queries) DeleteParkedCountries(ctx context.Context) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteParkedCountries)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
