// Package postgres keeps each partition as a single jsonb document row,
// preserving the whole-partition load/save semantics of the file backend
// while letting deployments point the tracker at a shared database.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nantkhun/fintracker/internal/store"
)

type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, dbURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	cfg.MaxConns = 5

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &Store{pool: pool}, nil
}

// Migrate creates the partitions table. Idempotent.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS partitions (
			name       text PRIMARY KEY,
			records    jsonb NOT NULL DEFAULT '[]'::jsonb,
			updated_at timestamptz NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("create partitions table: %w", err)
	}

	return nil
}

func (s *Store) Load(ctx context.Context, partition string, dest any) error {
	var data []byte

	err := s.pool.QueryRow(ctx,
		`SELECT records FROM partitions WHERE name = $1`, partition,
	).Scan(&data)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load partition %q: %w", partition, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("%w: partition %q: %v", store.ErrCorrupt, partition, err)
	}

	return nil
}

func (s *Store) Save(ctx context.Context, partition string, records any) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("%w: encode partition %q: %v", store.ErrWrite, partition, err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO partitions (name, records, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE
			SET records = EXCLUDED.records, updated_at = now()`,
		partition, data)
	if err != nil {
		return fmt.Errorf("%w: partition %q: %v", store.ErrWrite, partition, err)
	}

	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() {
	s.pool.Close()
}
