package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewGorm wraps an already migrated connection pool in a GORM handle. Schema is
// owned by the SQL migrations, so AutoMigrate is never called.
func NewGorm(d *sql.DB) (*gorm.DB, error) {
	if d == nil {
		return nil, fmt.Errorf("nil db")
	}
	g, err := gorm.Open(&sqlite.Dialector{Conn: d}, &gorm.Config{
		Logger: logger.New(slogWriter{}, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open gorm: %w", err)
	}
	return g, nil
}

// Ping reports whether the underlying pool answers within the context deadline.
func Ping(ctx context.Context, g *gorm.DB) error {
	d, err := g.DB()
	if err != nil {
		return err
	}
	return d.PingContext(ctx)
}

type slogWriter struct{}

func (slogWriter) Printf(format string, args ...any) {
	slog.Warn("gorm", "msg", fmt.Sprintf(format, args...))
}
