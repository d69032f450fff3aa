package kvstore

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/studentdev-hub/internal/config"
	"github.com/iliyamo/studentdev-hub/internal/database"
)

// Open builds the Store selected by cfg.KVBackend. rdb may be nil unless
// the redis backend is selected.
func Open(ctx context.Context, cfg config.Config, rdb *redis.Client) (Store, error) {
	switch cfg.KVBackend {
	case "memory":
		return NewMemory(), nil
	case "", "bolt":
		return OpenBolt(cfg.BoltPath)
	case "redis":
		if rdb == nil {
			return nil, errors.New("kvstore: redis backend selected but redis is unreachable")
		}
		return NewRedis(rdb, "kv"), nil
	case "mysql":
		db, err := database.Open(ctx, database.Options{
			User: cfg.DBUser,
			Pass: cfg.DBPass,
			Host: cfg.DBHost,
			Port: cfg.DBPort,
			Name: cfg.DBName,
		})
		if err != nil {
			return nil, errors.Wrap(err, "kvstore: open mysql")
		}
		s := NewMySQL(db)
		mctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := s.Migrate(mctx); err != nil {
			db.Close()
			return nil, err
		}
		return s, nil
	}
	return nil, errors.Errorf("kvstore: unknown backend %q", cfg.KVBackend)
}
