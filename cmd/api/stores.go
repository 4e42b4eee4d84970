package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	cartapp "github.com/dwikikusuma/shoping-pricing/internal/cart/app"
	cartmemdb "github.com/dwikikusuma/shoping-pricing/internal/cart/infra/memdb"
	cartpg "github.com/dwikikusuma/shoping-pricing/internal/cart/infra/postgres"
	cartredis "github.com/dwikikusuma/shoping-pricing/internal/cart/infra/redis"
	catalogapp "github.com/dwikikusuma/shoping-pricing/internal/catalog/app"
	cmemdb "github.com/dwikikusuma/shoping-pricing/internal/catalog/infra/memdb"
	cpg "github.com/dwikikusuma/shoping-pricing/internal/catalog/infra/postgres"
	"github.com/dwikikusuma/shoping-pricing/pkg/config"
	"github.com/dwikikusuma/shoping-pricing/pkg/postgres"
)

type stores struct {
	products catalogapp.ProductRepo
	carts    cartapp.CartRepo

	pool *pgxpool.Pool
	rdb  *redis.Client
}

func (s *stores) Close(context.Context) error {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.rdb != nil {
		return s.rdb.Close()
	}
	return nil
}

// openStores builds the product and cart stores named in cfg. Postgres is
// connected and migrated once even when both stores use it.
func openStores(ctx context.Context, cfg config.Config, log *slog.Logger) (*stores, error) {
	st := &stores{}

	pg := func() (*pgxpool.Pool, error) {
		if st.pool != nil {
			return st.pool, nil
		}
		pool, err := postgres.Open(ctx, postgres.Config{
			URL:  cfg.DatabaseURL,
			Host: cfg.PostgresHost,
			Port: cfg.PostgresPort,
			User: cfg.PostgresUser,
			Pass: cfg.PostgresPassword,
			DB:   cfg.PostgresDB,
		})
		if err != nil {
			return nil, fmt.Errorf("db open: %w", err)
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("db migrate: %w", err)
		}
		st.pool = pool
		return pool, nil
	}

	switch cfg.ProductStore {
	case "memory", "":
		repo, err := cmemdb.NewProductRepo()
		if err != nil {
			return nil, err
		}
		st.products = repo
	case "postgres":
		pool, err := pg()
		if err != nil {
			return nil, err
		}
		st.products = cpg.NewProductRepo(pool)
	default:
		return nil, fmt.Errorf("unknown product store %q", cfg.ProductStore)
	}

	switch cfg.CartStore {
	case "memory", "":
		repo, err := cartmemdb.NewCartRepo()
		if err != nil {
			_ = st.Close(ctx)
			return nil, err
		}
		st.carts = repo
	case "redis":
		st.rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := st.rdb.Ping(ctx).Err(); err != nil {
			_ = st.Close(ctx)
			return nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
		}
		st.carts = cartredis.NewCartRepo(st.rdb)
	case "postgres":
		pool, err := pg()
		if err != nil {
			_ = st.Close(ctx)
			return nil, err
		}
		st.carts = cartpg.NewCartRepo(pool)
	default:
		_ = st.Close(ctx)
		return nil, fmt.Errorf("unknown cart store %q", cfg.CartStore)
	}

	log.Info("stores ready",
		slog.String("products", cfg.ProductStore),
		slog.String("carts", cfg.CartStore),
	)
	return st, nil
}

func seed(ctx context.Context, svc *catalogapp.Service, path string, log *slog.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open seed: %w", err)
	}
	defer f.Close()

	n, err := svc.LoadSeed(ctx, f)
	if err != nil {
		return fmt.Errorf("load seed %s: %w", path, err)
	}
	log.Info("catalog seeded", slog.String("file", path), slog.Int("products", n))
	return nil
}
