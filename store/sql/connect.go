package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	persistence "github.com/goliatone/go-persistence-bun"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// ConnectConfig carries the connection settings for the backing database.
// It satisfies the persistence client's config contract.
type ConnectConfig struct {
	Driver      string
	DSN         string
	Debug       bool
	MaxConns    int
	PingTimeout time.Duration
}

func (c ConnectConfig) GetDebug() bool { return c.Debug }

func (c ConnectConfig) GetDriver() string { return c.Driver }

func (c ConnectConfig) GetServer() string { return c.DSN }

func (c ConnectConfig) GetPingTimeout() time.Duration {
	if c.PingTimeout <= 0 {
		return 5 * time.Second
	}
	return c.PingTimeout
}

func (c ConnectConfig) GetOtelIdentifier() string { return "go-oauth-store" }

// ConnectPostgres opens a postgres-backed persistence client and verifies
// connectivity with a ping before handing it back.
func ConnectPostgres(ctx context.Context, cfg ConnectConfig) (*persistence.Client, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("sqlstore: postgres dsn is required")
	}
	cfg.Driver = "postgres"

	sqlDB, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open postgres: %w", err)
	}
	if cfg.MaxConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxConns)
		sqlDB.SetMaxIdleConns(cfg.MaxConns)
	}
	if err := pingDB(ctx, sqlDB, cfg.GetPingTimeout()); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	client, err := persistence.New(cfg, sqlDB, pgdialect.New())
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("sqlstore: new postgres persistence client: %w", err)
	}
	return client, nil
}

// ConnectSQLite opens a sqlite-backed persistence client. File and shared
// in-memory DSNs both work; in-memory databases should cap the pool at one
// connection, which is enforced here when MaxConns is unset.
func ConnectSQLite(ctx context.Context, cfg ConnectConfig) (*persistence.Client, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("sqlstore: sqlite dsn is required")
	}
	cfg.Driver = "sqlite3"

	sqlDB, err := sql.Open("sqlite3", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open sqlite: %w", err)
	}
	maxConns := cfg.MaxConns
	if maxConns <= 0 {
		maxConns = 1
	}
	sqlDB.SetMaxOpenConns(maxConns)
	if err := pingDB(ctx, sqlDB, cfg.GetPingTimeout()); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	client, err := persistence.New(cfg, sqlDB, sqlitedialect.New())
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("sqlstore: new sqlite persistence client: %w", err)
	}
	return client, nil
}

func pingDB(ctx context.Context, db *sql.DB, timeout time.Duration) error {
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("sqlstore: ping database: %w", err)
	}
	return nil
}
