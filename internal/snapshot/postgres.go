package snapshot

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `CREATE TABLE IF NOT EXISTS site_snapshot (
	bucket TEXT PRIMARY KEY,
	run_id TEXT NOT NULL,
	generated_at TEXT NOT NULL,
	payload BYTEA NOT NULL
)`

// Postgres stores snapshots in a PostgreSQL database.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to dsn and ensures the snapshot table exists.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres snapshot requires a DSN")
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolConfig.MaxConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create snapshot table: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// Save upserts every bucket of snap in one transaction.
func (p *Postgres) Save(ctx context.Context, snap Snapshot) error {
	rows, err := encodeRows(snap.Dataset)
	if err != nil {
		return err
	}

	return pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		for _, r := range rows {
			query, args, err := upsert(sq.Dollar, snap.RunID, snap.GeneratedAt, r)
			if err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, query, args...); err != nil {
				return fmt.Errorf("upsert %s: %w", r.bucket, err)
			}
		}
		return nil
	})
}

// Load returns the last saved snapshot.
func (p *Postgres) Load(ctx context.Context) (*Snapshot, error) {
	query, args, err := selectAll(sq.Dollar)
	if err != nil {
		return nil, err
	}
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select snapshot: %w", err)
	}
	defer rows.Close()

	var acc scanned
	for rows.Next() {
		var bucket, runID, generatedAt string
		var payload []byte
		if err := rows.Scan(&bucket, &runID, &generatedAt, &payload); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		if err := acc.add(bucket, runID, generatedAt, payload); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return acc.result()
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
