// Package database は SQL ストアへの接続とスキーマ作成を扱います。
package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"

	"nany-todo/internal/config"
)

// GetDSN は設定から MySQL 接続文字列 (DSN) を構築します。
// clientFoundRows を付けないと同じ値への UPDATE が 0 行扱いになります。
func GetDSN(cfg config.DatabaseConfig) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&clientFoundRows=true", cfg.User, cfg.Pass, cfg.Host, cfg.Port, cfg.Name)
}

// Open はデータベース接続を開いて疎通確認します。
func Open(cfg config.DatabaseConfig) (*sql.DB, error) {
	var dsn string
	switch cfg.Driver {
	case config.DriverMySQL:
		dsn = GetDSN(cfg)
	case config.DriverSQLite:
		dsn = cfg.Path
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.Driver)
	}

	db, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	if cfg.Driver == config.DriverSQLite {
		// sqlite は書き込みが単一接続
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

var schemas = map[string][]string{
	config.DriverMySQL: {
		`CREATE TABLE IF NOT EXISTS todos (
			id CHAR(36) PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			completed BOOLEAN DEFAULT FALSE,
			created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
			INDEX idx_todos_created_at (created_at)
		)`,
	},
	config.DriverSQLite: {
		`CREATE TABLE IF NOT EXISTS todos (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			completed BOOLEAN DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_todos_created_at ON todos (created_at)`,
	},
}

// Migrate は todos テーブルが無ければ作成します。
func Migrate(db *sql.DB, driver string) error {
	stmts, ok := schemas[driver]
	if !ok {
		return fmt.Errorf("no schema for driver %q", driver)
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create todos table: %w", err)
		}
	}
	return nil
}
