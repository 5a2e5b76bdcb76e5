// Package sqlite opens the embedded SQLite store used when no Postgres server is
// available.
package sqlite

import (
	"context"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Client wraps a gorm connection to a SQLite database.
type Client struct {
	*gorm.DB
}

// Open opens the SQLite database at dsn. A plain file path is accepted, as is
// any DSN understood by the mattn/go-sqlite3 driver.
func Open(dsn string) (*Client, error) {
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	// SQLite serializes writers; a single connection avoids SQLITE_BUSY.
	sqlDB.SetMaxOpenConns(1)

	return &Client{DB: gdb}, nil
}

func (c *Client) IsHealthy(ctx context.Context) (bool, error) {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return false, fmt.Errorf("get sql db: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return false, fmt.Errorf("ping sqlite: %w", err)
	}
	return true, nil
}

func (c *Client) Close() error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	return sqlDB.Close()
}
