// Package sqlitestore persists collections as JSON text rows in SQLite.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/models"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
	collection TEXT    NOT NULL,
	id         TEXT    NOT NULL,
	position   INTEGER NOT NULL,
	data       TEXT    NOT NULL,
	PRIMARY KEY (collection, id)
);
CREATE INDEX IF NOT EXISTS records_collection_position_idx ON records (collection, position);
`

// Open opens the database file (":memory:" for a throwaway store) and prepares the schema
func Open(dataSourceName string) (*store.Store, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, err
	}
	// a single connection keeps ":memory:" databases shared and serialises writers
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &store.Store{
		Users:          &collection[models.User]{db: db, name: store.UsersCollection},
		TravelRequests: &collection[models.TravelRequest]{db: db, name: store.TravelRequestsCollection},
		TravelGroups:   &collection[models.TravelGroup]{db: db, name: store.TravelGroupsCollection},
		GroupRequests:  &collection[models.GroupRequest]{db: db, name: store.GroupRequestsCollection},
		Backend:        backend{db: db},
	}, nil
}

type backend struct {
	db *sql.DB
}

func (b backend) Ping(ctx context.Context) error { return b.db.PingContext(ctx) }
func (b backend) Close() error                   { return b.db.Close() }

type collection[T store.Record] struct {
	db   *sql.DB
	name string
}

func (c *collection[T]) List(ctx context.Context) ([]T, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT data FROM records WHERE collection = ? ORDER BY position`, c.name)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", c.name, err)
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("list %s: %w", c.name, err)
		}
		rec, err := store.Decode[T]([]byte(data))
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (c *collection[T]) Get(ctx context.Context, id string) (T, bool, error) {
	var zero T
	var data string
	err := c.db.QueryRowContext(ctx,
		`SELECT data FROM records WHERE collection = ? AND id = ?`, c.name, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("get %s/%s: %w", c.name, id, err)
	}
	rec, err := store.Decode[T]([]byte(data))
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
	_, err = c.db.ExecContext(ctx,
		`INSERT INTO records (collection, id, position, data)
		 VALUES (?1, ?2, (SELECT COALESCE(MAX(position), 0) + 1 FROM records WHERE collection = ?1), ?3)
		 ON CONFLICT (collection, id) DO UPDATE SET data = excluded.data`,
		c.name, rec.Key(), string(data))
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", c.name, rec.Key(), err)
	}
	return nil
}

func (c *collection[T]) ReplaceAll(ctx context.Context, recs []T) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace %s: %w", c.name, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE collection = ?`, c.name); err != nil {
		return fmt.Errorf("replace %s: %w", c.name, err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (collection, id, position, data) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("replace %s: %w", c.name, err)
	}
	defer stmt.Close()

	for i, rec := range recs {
		data, err := store.Encode(rec)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, c.name, rec.Key(), i+1, string(data)); err != nil {
			return fmt.Errorf("replace %s: %w", c.name, err)
		}
	}
	return tx.Commit()
}

func (c *collection[T]) Remove(ctx context.Context, id string) error {
	if _, err := c.db.ExecContext(ctx,
		`DELETE FROM records WHERE collection = ? AND id = ?`, c.name, id); err != nil {
		return fmt.Errorf("remove %s/%s: %w", c.name, id, err)
	}
	return nil
}
