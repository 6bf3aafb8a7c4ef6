package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as database/sql driver

	"resume-vault/internal/shared/telemetry"
)

// Runtime names the kind of process a pool is sized for.
type Runtime string

const (
	RuntimeServer  Runtime = "server"
	RuntimeLambda  Runtime = "lambda"
	RuntimeMigrate Runtime = "migrate"
)

// Options controls database pool and connectivity behavior.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// Lambda containers run one request at a time, so they keep tiny pools.
var poolDefaults = map[Runtime]Options{
	RuntimeServer:  {MaxOpenConns: 10, MaxIdleConns: 5, ConnMaxIdleTime: 2 * time.Minute, ConnMaxLifetime: time.Hour, PingTimeout: 5 * time.Second},
	RuntimeLambda:  {MaxOpenConns: 2, MaxIdleConns: 1, ConnMaxIdleTime: 30 * time.Second, ConnMaxLifetime: 15 * time.Minute, PingTimeout: 3 * time.Second},
	RuntimeMigrate: {MaxOpenConns: 1, MaxIdleConns: 1, ConnMaxIdleTime: 2 * time.Minute, ConnMaxLifetime: time.Hour, PingTimeout: 5 * time.Second},
}

var (
	openDB      = sql.Open
	singletonMu sync.Mutex
	singletonDB *sql.DB
)

// DetectRuntime reports RuntimeLambda inside AWS Lambda and RuntimeServer otherwise.
func DetectRuntime() Runtime {
	if strings.TrimSpace(os.Getenv("AWS_LAMBDA_FUNCTION_NAME")) != "" {
		return RuntimeLambda
	}
	return RuntimeServer
}

// PoolOptions returns the pool defaults for rt with DB_* env overrides applied.
func PoolOptions(rt Runtime) Options {
	opts, ok := poolDefaults[rt]
	if !ok {
		opts = poolDefaults[RuntimeServer]
	}
	envOverride("DB_MAX_OPEN_CONNS", strconv.Atoi, &opts.MaxOpenConns)
	envOverride("DB_MAX_IDLE_CONNS", strconv.Atoi, &opts.MaxIdleConns)
	envOverride("DB_CONN_MAX_LIFETIME", time.ParseDuration, &opts.ConnMaxLifetime)
	envOverride("DB_CONN_MAX_IDLE_TIME", time.ParseDuration, &opts.ConnMaxIdleTime)
	envOverride("DB_PING_TIMEOUT", time.ParseDuration, &opts.PingTimeout)
	return opts
}

func envOverride[T any](key string, parse func(string) (T, error), dst *T) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return
	}
	v, err := parse(raw)
	if err != nil {
		telemetry.Warn("db.env_invalid", map[string]any{"key": key, "error": err.Error()})
		return
	}
	*dst = v
}

// Connect opens a pgx-backed *sql.DB, sizes its pool and pings it.
func Connect(ctx context.Context, databaseURL string, opts Options) (*sql.DB, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}
	database, err := openDB("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	database.SetMaxOpenConns(max(opts.MaxOpenConns, 1))
	database.SetMaxIdleConns(max(opts.MaxIdleConns, 0))
	database.SetConnMaxLifetime(opts.ConnMaxLifetime)
	database.SetConnMaxIdleTime(opts.ConnMaxIdleTime)

	timeout := opts.PingTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := database.PingContext(pingCtx); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	stats := database.Stats()
	telemetry.Info("db.connected", map[string]any{
		"max_open": stats.MaxOpenConnections,
		"open":     stats.OpenConnections,
		"idle":     stats.Idle,
	})
	return database, nil
}

// GetSingleton returns the process-wide pool, connecting on first use.
// Callers block while a connect is in progress; a failed connect leaves the
// slot empty so the next call tries again.
func GetSingleton(ctx context.Context, databaseURL string, opts Options) (*sql.DB, error) {
	singletonMu.Lock()
	defer singletonMu.Unlock()
	if singletonDB != nil {
		return singletonDB, nil
	}
	database, err := Connect(ctx, databaseURL, opts)
	if err != nil {
		return nil, err
	}
	singletonDB = database
	return singletonDB, nil
}

// WithTx runs fn inside a transaction. It commits when fn returns nil and
// rolls back on an error or a panic.
func WithTx(ctx context.Context, database *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
