package kvstore

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

// KVSchema creates the table used by the MySQL backend.
const KVSchema = `CREATE TABLE IF NOT EXISTS kv_pairs (
	k          VARCHAR(191) NOT NULL PRIMARY KEY,
	v          MEDIUMBLOB   NOT NULL,
	updated_at DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

// MySQL is a Store over the kv_pairs table.
type MySQL struct {
	DB *sql.DB
}

func NewMySQL(db *sql.DB) *MySQL {
	return &MySQL{DB: db}
}

// Migrate creates kv_pairs when it does not exist yet.
func (s *MySQL) Migrate(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, KVSchema)
	return errors.Wrap(err, "migrate kv_pairs")
}

func (s *MySQL) Get(ctx context.Context, key string) ([]byte, error) {
	var v []byte
	err := s.DB.QueryRowContext(ctx, `SELECT v FROM kv_pairs WHERE k = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "select %s", key)
	}
	return v, nil
}

func (s *MySQL) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO kv_pairs (k, v) VALUES (?, ?) ON DUPLICATE KEY UPDATE v = VALUES(v)`,
		key, value)
	return errors.Wrapf(err, "upsert %s", key)
}

func (s *MySQL) Delete(ctx context.Context, key string) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM kv_pairs WHERE k = ?`, key)
	return errors.Wrapf(err, "delete %s", key)
}

func (s *MySQL) Close() error { return s.DB.Close() }
