package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/developersupreme/supreme-ai-sdk-sub001/migrations"
	persistence "github.com/goliatone/go-persistence-bun"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/schema"
)

// ConnectionConfig satisfies the persistence client's config contract.
type ConnectionConfig struct {
	Debug       bool
	Driver      string
	Server      string
	PingTimeout time.Duration
	OtelName    string
}

func (c ConnectionConfig) GetDebug() bool    { return c.Debug }
func (c ConnectionConfig) GetDriver() string { return c.Driver }
func (c ConnectionConfig) GetServer() string { return c.Server }

func (c ConnectionConfig) GetPingTimeout() time.Duration {
	if c.PingTimeout <= 0 {
		return 5 * time.Second
	}
	return c.PingTimeout
}

func (c ConnectionConfig) GetOtelIdentifier() string {
	if strings.TrimSpace(c.OtelName) == "" {
		return "supreme-ai-sdk"
	}
	return c.OtelName
}

// OpenSQLite opens a migrated sqlite-backed persistence client. Use a
// file:...?mode=memory DSN for tests and a file path for durable deployments.
func OpenSQLite(ctx context.Context, dsn string) (*persistence.Client, error) {
	return open(ctx, "sqlite3", dsn, sqlitedialect.New(), migrations.DialectSQLite)
}

// OpenPostgres opens a migrated postgres-backed persistence client.
func OpenPostgres(ctx context.Context, dsn string) (*persistence.Client, error) {
	return open(ctx, "postgres", dsn, pgdialect.New(), migrations.DialectPostgres)
}

func open(ctx context.Context, driver string, dsn string, dialect schema.Dialect, migrationDialect string) (*persistence.Client, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("sqlstore: dsn is required")
	}

	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open %s: %w", driver, err)
	}
	if driver == "sqlite3" {
		sqlDB.SetMaxOpenConns(1)
	}

	client, err := persistence.New(ConnectionConfig{Driver: driver, Server: dsn}, sqlDB, dialect)
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("sqlstore: new persistence client: %w", err)
	}

	_, err = migrations.Register(ctx, func(_ context.Context, dialect string, _ string, fsys fs.FS) error {
		if dialect != migrationDialect {
			return nil
		}
		client.RegisterSQLMigrations(fsys)
		return nil
	}, migrations.WithValidationTargets(migrationDialect))
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	if err := client.Migrate(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("sqlstore: migrate: %w", err)
	}
	return client, nil
}
