package database

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sam16vis/relocato/utils"
)

var (
	pool     *pgxpool.Pool
	poolOnce sync.Once
	poolErr  error
)

// GetPool returns the process-wide connection pool, creating and ping-testing
// it on first use. Introspection, snapshot recording, and online validation
// all share this pool; offline analysis never touches it.
func GetPool() (*pgxpool.Pool, error) {
	poolOnce.Do(func() {
		pool, poolErr = newPool(context.Background())
	})
	return pool, poolErr
}

func newPool(ctx context.Context) (*pgxpool.Pool, error) {
	utils.LoadEnv()
	connStr, err := utils.DatabaseURL()
	if err != nil {
		return nil, err
	}

	p, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %v", err)
	}
	if err := p.Ping(ctx); err != nil {
		p.Close()
		return nil, fmt.Errorf("unable to ping database: %v", err)
	}
	return p, nil
}

// GetConnection returns a single connection from the pool
func GetConnection(ctx context.Context) (*pgx.Conn, error) {
	pool, err := GetPool()
	if err != nil {
		return nil, err
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to acquire connection: %v", err)
	}

	return conn.Conn(), nil
}

// ClosePool closes the connection pool (should be called on application shutdown)
func ClosePool() {
	if pool != nil {
		pool.Close()
	}
}
