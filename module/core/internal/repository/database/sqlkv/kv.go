package sqlkv

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/p0x6/private-kit/module/core/internal/repository/database"
)

var _ database.KeyValueRepository = (*KVRepo)(nil)

// The statements use $n placeholders and ON CONFLICT, which both Postgres and
// SQLite accept.
const createTable = `CREATE TABLE IF NOT EXISTS kv_store (
	store_key   TEXT PRIMARY KEY,
	store_value TEXT NOT NULL,
	updated_at  TIMESTAMP NOT NULL
)`

type KVRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewKVRepo(db *sql.DB) *KVRepo {
	return &KVRepo{db: db, now: time.Now}
}

func (r *KVRepo) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, createTable)
	return err
}

func (r *KVRepo) Get(ctx context.Context, key string) (string, bool, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT store_value FROM kv_store WHERE store_key = $1`,
		key,
	)

	var value string
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (r *KVRepo) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO kv_store (store_key, store_value, updated_at) VALUES ($1, $2, $3)
		 ON CONFLICT (store_key) DO UPDATE SET store_value = EXCLUDED.store_value, updated_at = EXCLUDED.updated_at`,
		key, value, r.now().UTC(),
	)
	return err
}

func (r *KVRepo) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM kv_store WHERE store_key = $1`,
		key,
	)
	return err
}
