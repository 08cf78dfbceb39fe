package history

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rickgao/shoprank/internal/database"
	"github.com/rickgao/shoprank/migrations"
)

// Postgres implements Store on a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres runs pending migrations on pool and returns a store using it.
// The store takes ownership of the pool.
func NewPostgres(ctx context.Context, pool *pgxpool.Pool) (*Postgres, error) {
	db := database.StdDB(pool)
	defer func() { _ = db.Close() }()

	if err := migrations.Run(db, migrations.DialectPostgres); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// Close closes the pool.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

// Record inserts c.
func (p *Postgres) Record(ctx context.Context, c *Check) error {
	prepare(c)
	_, err := p.pool.Exec(ctx,
		`INSERT INTO rank_checks (id, keyword, merchant, outcome, best_rank, title, price,
		     mall_name, link, pages_scanned, total, checked_at)
		 VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		c.ID.String(), c.Keyword, c.Merchant, c.Outcome, c.Rank, c.Title, c.Price,
		c.MallName, c.Link, c.PagesScanned, c.Total, c.CheckedAt,
	)
	if err != nil {
		return fmt.Errorf("insert rank check: %w", err)
	}
	return nil
}

const pgColumns = `id::text, keyword, merchant, outcome, best_rank, title, price, mall_name, link,
	pages_scanned, total, checked_at`

// List returns checks matching f, newest first.
func (p *Postgres) List(ctx context.Context, f Filter) ([]Check, error) {
	var (
		where []string
		args  []any
	)
	if f.Keyword != "" {
		args = append(args, f.Keyword)
		where = append(where, fmt.Sprintf("keyword = $%d", len(args)))
	}
	if f.Merchant != "" {
		args = append(args, f.Merchant)
		where = append(where, fmt.Sprintf("merchant = $%d", len(args)))
	}

	query := "SELECT " + pgColumns + " FROM rank_checks"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, limitOf(f))
	query += fmt.Sprintf(" ORDER BY checked_at DESC LIMIT $%d", len(args))

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query rank checks: %w", err)
	}
	defer rows.Close()

	var checks []Check
	for rows.Next() {
		c, err := scanPgCheck(rows)
		if err != nil {
			return nil, err
		}
		checks = append(checks, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rank checks: %w", err)
	}
	return checks, nil
}

// Latest returns the newest check for the pair, or ErrNotFound.
func (p *Postgres) Latest(ctx context.Context, keyword, merchant string) (*Check, error) {
	row := p.pool.QueryRow(ctx,
		"SELECT "+pgColumns+` FROM rank_checks
		 WHERE keyword = $1 AND merchant = $2
		 ORDER BY checked_at DESC LIMIT 1`,
		keyword, merchant,
	)
	c, err := scanPgCheck(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return c, err
}

func scanPgCheck(row pgx.Row) (*Check, error) {
	var (
		c  Check
		id string
	)
	err := row.Scan(&id, &c.Keyword, &c.Merchant, &c.Outcome, &c.Rank, &c.Title, &c.Price,
		&c.MallName, &c.Link, &c.PagesScanned, &c.Total, &c.CheckedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan rank check: %w", err)
	}
	if c.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse check id: %w", err)
	}
	c.CheckedAt = c.CheckedAt.UTC()
	return &c, nil
}
