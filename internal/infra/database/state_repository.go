package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/xavierca1/lead-console/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS console_state (
	state_key  TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// StateRepository implements storage.Backend on a console_state table. The SQL
// is shared by postgres and sqlite.
type StateRepository struct {
	DB *sql.DB
}

func NewStateRepository(db *sql.DB) *StateRepository {
	return &StateRepository{DB: db}
}

func (r *StateRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, schema)
	return err
}

func (r *StateRepository) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.DB.QueryRowContext(ctx,
		`SELECT value FROM console_state WHERE state_key = $1`, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", storage.ErrNotFound
	}
	return value, err
}

func (r *StateRepository) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO console_state (state_key, value, updated_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (state_key)
		DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = CURRENT_TIMESTAMP
	`
	_, err := r.DB.ExecContext(ctx, query, key, value)
	return err
}

func (r *StateRepository) Remove(ctx context.Context, key string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM console_state WHERE state_key = $1`, key)
	return err
}

func (r *StateRepository) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}
