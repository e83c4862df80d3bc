package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"barangay/internal/db"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNoRows is returned by DB.Get when the query matched nothing.
var ErrNoRows = errors.New("no rows in result set")

// DB is the query surface shared by the Postgres and SQLite backends.
// Repositories build statements with Builder and never see the driver.
type DB interface {
	Get(ctx context.Context, dst any, query string, args ...any) error
	Select(ctx context.Context, dst any, query string, args ...any) error
	Exec(ctx context.Context, query string, args ...any) (int64, error)
	Builder() sq.StatementBuilderType
	Dialect() db.Dialect
}

type postgresDB struct {
	pool *pgxpool.Pool
}

func NewPostgresDB(pool *pgxpool.Pool) DB {
	return &postgresDB{pool: pool}
}

func (p *postgresDB) Get(ctx context.Context, dst any, query string, args ...any) error {
	err := pgxscan.Get(ctx, p.pool, dst, query, args...)
	if pgxscan.NotFound(err) {
		return ErrNoRows
	}
	return err
}

func (p *postgresDB) Select(ctx context.Context, dst any, query string, args ...any) error {
	return pgxscan.Select(ctx, p.pool, dst, query, args...)
}

func (p *postgresDB) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	tag, err := p.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (p *postgresDB) Builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

func (p *postgresDB) Dialect() db.Dialect {
	return db.DialectPostgres
}

type sqliteDB struct {
	conn *sql.DB
}

func NewSQLiteDB(conn *sql.DB) DB {
	return &sqliteDB{conn: conn}
}

func (s *sqliteDB) Get(ctx context.Context, dst any, query string, args ...any) error {
	err := sqlscan.Get(ctx, s.conn, dst, query, args...)
	if sqlscan.NotFound(err) {
		return ErrNoRows
	}
	return err
}

func (s *sqliteDB) Select(ctx context.Context, dst any, query string, args ...any) error {
	return sqlscan.Select(ctx, s.conn, dst, query, args...)
}

func (s *sqliteDB) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := s.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *sqliteDB) Builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

func (s *sqliteDB) Dialect() db.Dialect {
	return db.DialectSQLite
}

// Migrate applies the embedded schema for the backend's dialect.
func Migrate(ctx context.Context, d DB) error {
	statements, err := db.Schema(d.Dialect())
	if err != nil {
		return err
	}

	for i, stmt := range statements {
		if _, err := d.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	return nil
}
