// Package pgstore persists collections as JSONB rows in Postgres.
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/models"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
	collection TEXT   NOT NULL,
	id         TEXT   NOT NULL,
	position   BIGINT NOT NULL,
	data       JSONB  NOT NULL,
	PRIMARY KEY (collection, id)
);
CREATE INDEX IF NOT EXISTS records_collection_position_idx ON records (collection, position);
`

// Options tunes the connection pool
type Options struct {
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	// SimpleProtocol is required when connecting through PgBouncer in transaction mode
	SimpleProtocol bool
}

// Open connects a pool, pings it and prepares the schema
func Open(ctx context.Context, dsn string, opts Options) (*store.Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if opts.SimpleProtocol {
		cfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	}
	cfg.ConnConfig.RuntimeParams["application_name"] = "vit-travel-buddy"
	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}
	cfg.MinConns = opts.MinConns
	if opts.MaxConnLifetime > 0 {
		cfg.MaxConnLifetime = opts.MaxConnLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	s, err := New(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// New builds a Store on an existing pool
func New(ctx context.Context, pool *pgxpool.Pool) (*store.Store, error) {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &store.Store{
		Users:          &collection[models.User]{pool: pool, name: store.UsersCollection},
		TravelRequests: &collection[models.TravelRequest]{pool: pool, name: store.TravelRequestsCollection},
		TravelGroups:   &collection[models.TravelGroup]{pool: pool, name: store.TravelGroupsCollection},
		GroupRequests:  &collection[models.GroupRequest]{pool: pool, name: store.GroupRequestsCollection},
		Backend:        backend{pool: pool},
	}, nil
}

type backend struct {
	pool *pgxpool.Pool
}

func (b backend) Ping(ctx context.Context) error { return b.pool.Ping(ctx) }

func (b backend) Close() error {
	b.pool.Close()
	return nil
}

type collection[T store.Record] struct {
	pool *pgxpool.Pool
	name string
}

func (c *collection[T]) List(ctx context.Context) ([]T, error) {
	rows, err := c.pool.Query(ctx,
		`SELECT data FROM records WHERE collection = $1 ORDER BY position`, c.name)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", c.name, err)
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("list %s: %w", c.name, err)
		}
		rec, err := store.Decode[T](data)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", c.name, err)
	}
	return out, nil
}

func (c *collection[T]) Get(ctx context.Context, id string) (T, bool, error) {
	var zero T
	var data []byte
	err := c.pool.QueryRow(ctx,
		`SELECT data FROM records WHERE collection = $1 AND id = $2`, c.name, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("get %s/%s: %w", c.name, id, err)
	}
	rec, err := store.Decode[T](data)
	if err != nil {
		return zero, false, err
	}
	return rec, true, nil
}

func (c *collection[T]) Put(ctx context.Context, rec T) error {
	data, err := store.Encode(rec)
	if err != nil {
		return err
	}
	_, err = c.pool.Exec(ctx,
		`INSERT INTO records (collection, id, position, data)
		 VALUES ($1, $2, (SELECT COALESCE(MAX(position), 0) + 1 FROM records WHERE collection = $1), $3::jsonb)
		 ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data`,
		c.name, rec.Key(), string(data))
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", c.name, rec.Key(), err)
	}
	return nil
}

func (c *collection[T]) ReplaceAll(ctx context.Context, recs []T) error {
	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("replace %s: %w", c.name, err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM records WHERE collection = $1`, c.name)
	for i, rec := range recs {
		data, err := store.Encode(rec)
		if err != nil {
			return err
		}
		batch.Queue(`INSERT INTO records (collection, id, position, data) VALUES ($1, $2, $3, $4::jsonb)`,
			c.name, rec.Key(), int64(i+1), string(data))
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("replace %s: %w", c.name, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("replace %s: %w", c.name, err)
	}
	return nil
}

func (c *collection[T]) Remove(ctx context.Context, id string) error {
	if _, err := c.pool.Exec(ctx,
		`DELETE FROM records WHERE collection = $1 AND id = $2`, c.name, id); err != nil {
		return fmt.Errorf("remove %s/%s: %w", c.name, id, err)
	}
	return nil
}
