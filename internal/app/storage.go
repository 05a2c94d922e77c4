package app

import (
	"context"
	"fmt"

	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/fieldworks/backoffice/internal/api/handler"
	"github.com/fieldworks/backoffice/internal/core/domain"
	"github.com/fieldworks/backoffice/internal/core/listing"
	"github.com/fieldworks/backoffice/internal/core/ports"
	"github.com/fieldworks/backoffice/internal/infrastructure/config"
	"github.com/fieldworks/backoffice/internal/infrastructure/db/memory"
	mongostore "github.com/fieldworks/backoffice/internal/infrastructure/db/mongo"
	redisstore "github.com/fieldworks/backoffice/internal/infrastructure/db/redis"
	"github.com/fieldworks/backoffice/internal/infrastructure/db/sqlite"
)

// storage holds the backend selected by STORAGE plus the optional Redis
// overlay for sequences and idempotency keys.
type storage struct {
	kind  string
	mongo *mongodriver.Database
	sql   *sqlite.DB

	sequencer   ports.Sequencer
	idempotency ports.IdempotencyStore
	accounts    ports.AccountRepository

	pingers map[string]handler.Pinger
	closers []func(context.Context) error
}

func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	st := &storage{kind: cfg.Storage, pingers: make(map[string]handler.Pinger)}

	switch cfg.Storage {
	case config.StorageMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		st.mongo = db
		st.pingers["mongo"] = mongostore.NewPinger(client)
		st.closers = append(st.closers, client.Disconnect)

		accounts := mongostore.NewAccountRepository(db)
		if err := accounts.EnsureIndexes(ctx); err != nil {
			_ = st.close(ctx)
			return nil, fmt.Errorf("mongo indexes: %w", err)
		}
		st.accounts = accounts
		st.sequencer = mongostore.NewSequencer(db)

	case config.StorageSQLite:
		db, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		st.sql = db
		st.pingers["sqlite"] = db
		st.closers = append(st.closers, func(context.Context) error { return db.Close() })
		st.accounts = sqlite.NewAccountRepository(db)
		st.sequencer = sqlite.NewSequencer(db)

	default:
		st.accounts = memory.NewAccountRepository()
		st.sequencer = memory.NewSequencer()
	}

	st.idempotency = memory.NewIdempotencyStore(cfg.Redis.IdempotencyTTL)
	if cfg.Redis.Enabled {
		client, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			_ = st.close(ctx)
			return nil, err
		}
		st.pingers["redis"] = redisstore.NewPinger(client)
		st.closers = append(st.closers, func(context.Context) error { return client.Close() })
		st.sequencer = redisstore.NewSequencer(client)
		st.idempotency = redisstore.NewIdempotencyStore(client, cfg.Redis.IdempotencyTTL)
	}

	return st, nil
}

// close releases connections in reverse order of opening.
func (st *storage) close(ctx context.Context) error {
	var first error
	for i := len(st.closers) - 1; i >= 0; i-- {
		if err := st.closers[i](ctx); err != nil && first == nil {
			first = err
		}
	}
	st.closers = nil
	return first
}

// repository returns the record repository of schema on the selected backend.
func repository[T domain.Record](ctx context.Context, st *storage, schema listing.Schema[T]) (ports.Repository[T], error) {
	switch st.kind {
	case config.StorageMongo:
		repo := mongostore.NewRecordRepository(st.mongo, schema)
		if err := repo.EnsureIndexes(ctx); err != nil {
			return nil, fmt.Errorf("%s indexes: %w", schema.Resource, err)
		}
		return repo, nil
	case config.StorageSQLite:
		return sqlite.NewRecordRepository(st.sql, schema), nil
	default:
		return memory.NewStore(schema), nil
	}
}
