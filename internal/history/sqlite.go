package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/shoprank/internal/database"
	"github.com/rickgao/shoprank/migrations"
)

// Fixed-width so lexical order matches time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLite implements Store backed by a SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens the database at path and runs pending migrations.
func NewSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := database.OpenSQLite(ctx, path)
	if err != nil {
		return nil, err
	}

	if err := migrations.Run(db, migrations.DialectSQLite); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Record inserts c.
func (s *SQLite) Record(ctx context.Context, c *Check) error {
	prepare(c)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO rank_checks (id, keyword, merchant, outcome, best_rank, title, price,
		     mall_name, link, pages_scanned, total, checked_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID.String(), c.Keyword, c.Merchant, c.Outcome, c.Rank, c.Title, c.Price,
		c.MallName, c.Link, c.PagesScanned, c.Total, c.CheckedAt.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert rank check: %w", err)
	}
	return nil
}

// List returns checks matching f, newest first.
func (s *SQLite) List(ctx context.Context, f Filter) ([]Check, error) {
	var (
		where []string
		args  []any
	)
	if f.Keyword != "" {
		where = append(where, "keyword = ?")
		args = append(args, f.Keyword)
	}
	if f.Merchant != "" {
		where = append(where, "merchant = ?")
		args = append(args, f.Merchant)
	}

	query := `SELECT id, keyword, merchant, outcome, best_rank, title, price, mall_name, link,
	              pages_scanned, total, checked_at
	          FROM rank_checks`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY checked_at DESC, rowid DESC LIMIT ?"
	args = append(args, limitOf(f))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query rank checks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var checks []Check
	for rows.Next() {
		c, err := scanCheck(rows)
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
func (s *SQLite) Latest(ctx context.Context, keyword, merchant string) (*Check, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, keyword, merchant, outcome, best_rank, title, price, mall_name, link,
		        pages_scanned, total, checked_at
		 FROM rank_checks WHERE keyword = ? AND merchant = ?
		 ORDER BY checked_at DESC, rowid DESC LIMIT 1`,
		keyword, merchant,
	)
	c, err := scanCheck(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return c, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCheck(s scanner) (*Check, error) {
	var (
		c         Check
		id        string
		checkedAt string
	)
	err := s.Scan(&id, &c.Keyword, &c.Merchant, &c.Outcome, &c.Rank, &c.Title, &c.Price,
		&c.MallName, &c.Link, &c.PagesScanned, &c.Total, &checkedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan rank check: %w", err)
	}

	if c.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse check id: %w", err)
	}
	if c.CheckedAt, err = time.Parse(timeLayout, checkedAt); err != nil {
		return nil, fmt.Errorf("parse checked_at: %w", err)
	}
	return &c, nil
}
