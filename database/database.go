package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"order-entry/config"

	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// 支持的 SQL 驱动
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Open 按驱动打开数据库并建表
func Open(ctx context.Context, driver string, cfg *config.Config) (*sql.DB, error) {
	dsn, err := DSN(driver, cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if driver == DriverSQLite {
		// SQLite 只允许单写连接
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	if err := Migrate(ctx, db, driver); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// DSN 根据配置生成连接串
func DSN(driver string, cfg *config.Config) (string, error) {
	switch driver {
	case DriverSQLite:
		if cfg.SQLitePath == ":memory:" {
			return ":memory:", nil
		}
		return "file:" + cfg.SQLitePath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", nil
	case DriverMySQL:
		mc := mysql.NewConfig()
		mc.User = cfg.DBUser
		mc.Passwd = cfg.DBPassword
		mc.Net = "tcp"
		mc.Addr = cfg.DBHost + ":" + cfg.DBPort
		mc.DBName = cfg.DBName
		mc.ParseTime = true
		return mc.FormatDSN(), nil
	default:
		return "", fmt.Errorf("unsupported sql driver %q", driver)
	}
}

// Migrate 创建键值表
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	var stmt string
	switch driver {
	case DriverMySQL:
		stmt = `CREATE TABLE IF NOT EXISTS kv_store (
			k VARCHAR(191) NOT NULL PRIMARY KEY,
			v LONGTEXT NOT NULL,
			updated_at DATETIME NOT NULL
		)`
	case DriverSQLite:
		stmt = `CREATE TABLE IF NOT EXISTS kv_store (
			k TEXT NOT NULL PRIMARY KEY,
			v TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		)`
	default:
		return fmt.Errorf("unsupported sql driver %q", driver)
	}
	if _, err := db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("migrate kv_store: %w", err)
	}
	return nil
}
