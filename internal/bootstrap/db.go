package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
)

type DBOptions struct {
	URL       string
	MaxConns  int
	ConnectTO time.Duration
	PingTO    time.Duration
}

func (o *DBOptions) defaults() error {
	if o.URL == "" {
		return fmt.Errorf("DATABASE_URL is not set")
	}
	if o.MaxConns <= 0 {
		o.MaxConns = 10
	}
	if o.ConnectTO == 0 {
		o.ConnectTO = 5 * time.Second
	}
	if o.PingTO == 0 {
		o.PingTO = 2 * time.Second
	}
	return nil
}

// OpenPool opens the pgx pool used by read-only catalog queries.
func OpenPool(ctx context.Context, opt DBOptions) (*pgxpool.Pool, error) {
	if err := opt.defaults(); err != nil {
		return nil, err
	}

	cfg, err := pgxpool.ParseConfig(opt.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = int32(opt.MaxConns)
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second

	cctx, cancel := context.WithTimeout(ctx, opt.ConnectTO)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(cctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}

	pctx, pcancel := context.WithTimeout(ctx, opt.PingTO)
	defer pcancel()

	if err := pool.Ping(pctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	return pool, nil
}

// OpenSQL opens the database/sql handle backing the submission store.
func OpenSQL(ctx context.Context, opt DBOptions) (*sql.DB, error) {
	if err := opt.defaults(); err != nil {
		return nil, err
	}

	db, err := sql.Open("postgres", opt.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(opt.MaxConns)
	db.SetMaxIdleConns(max(opt.MaxConns/2, 1))
	db.SetConnMaxIdleTime(5 * time.Minute)

	pctx, cancel := context.WithTimeout(ctx, opt.PingTO)
	defer cancel()

	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
