package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/freshplate/storefront/internal/store"
)

// CartRepository is the durable key-value store backing cart ledgers.
// Values are opaque to this layer; the cart package owns their encoding.
type CartRepository interface {
	// Get returns the stored value for key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set creates or overwrites the value for key atomically.
	Set(ctx context.Context, key, value string) error

	// Delete removes the value for key, or returns ErrNotFound.
	Delete(ctx context.Context, key string) error
}

// Compile-time interface guard.
var _ CartRepository = (*SQLiteCartRepository)(nil)

// SQLiteCartRepository implements CartRepository using SQLite.
type SQLiteCartRepository struct {
	db *sql.DB
}

// NewSQLiteCartRepository creates a CartRepository and runs the cart_ledgers
// migration.
func NewSQLiteCartRepository(ctx context.Context, s *store.SQLiteStore) (*SQLiteCartRepository, error) {
	if err := s.Migrate(ctx, "cart", cartMigrations); err != nil {
		return nil, fmt.Errorf("cart migrations: %w", err)
	}
	return &SQLiteCartRepository{db: s.DB()}, nil
}

func (r *SQLiteCartRepository) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM cart_ledgers WHERE key = ?`, key,
	).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("get cart ledger %q: %w", key, err)
	}
	return value, nil
}

func (r *SQLiteCartRepository) Set(ctx context.Context, key, value string) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cart_ledgers (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, now,
	)
	if err != nil {
		return fmt.Errorf("set cart ledger %q: %w", key, err)
	}
	return nil
}

func (r *SQLiteCartRepository) Delete(ctx context.Context, key string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM cart_ledgers WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("delete cart ledger %q: %w", key, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// cartMigrations defines the database schema for cart_ledgers.
var cartMigrations = []store.Migration{
	{
		Version:     1,
		Description: "create cart_ledgers table",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE cart_ledgers (
					key        TEXT PRIMARY KEY,
					value      TEXT NOT NULL,
					updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
				)`)
			return err
		},
	},
}
