package repository

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"time"

	"github.com/lichlamviec/shift-scheduler/backend/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// OpenDB opens and pings the configured database.
func OpenDB(cfg *config.Config) (*sql.DB, error) {
	var dsn string
	switch cfg.Database.Driver {
	case DriverSQLite:
		dsn = sqliteDSN(cfg.Database.DSN)
	case DriverPostgres:
		dsn = cfg.Database.DSN
	default:
		return nil, fmt.Errorf("không hỗ trợ driver %q", cfg.Database.Driver)
	}

	dbpool, err := sql.Open(cfg.Database.Driver, dsn)
	if err != nil {
		return nil, err
	}

	if cfg.Database.Driver == DriverSQLite {
		// one writer at a time, otherwise SQLITE_BUSY under concurrent requests
		dbpool.SetMaxOpenConns(1)
	} else {
		dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	}
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open does not connect, ping to surface a bad DSN early
	if err := dbpool.PingContext(ctx); err != nil {
		dbpool.Close()
		return nil, err
	}

	return dbpool, nil
}

func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_pragma=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// InitSchema creates every table that does not exist yet.
func (r *Repository) InitSchema() error {
	name := "schema/sqlite.sql"
	if r.postgres() {
		name = "schema/postgres.sql"
	}
	ddl, err := schemaFS.ReadFile(name)
	if err != nil {
		return err
	}

	ctx, cancel := r.txCtx()
	defer cancel()

	for _, stmt := range strings.Split(string(ddl), ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := r.dbpool.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("khởi tạo schema: %w", err)
		}
	}
	return nil
}
