package testutil

import (
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yungbote/devportal-backend/internal/db"
	"github.com/yungbote/devportal-backend/internal/pkg/logger"
)

// DB returns a migrated database for repo tests. When TEST_POSTGRES_DSN is
// set it connects there (matching production), otherwise it falls back to a
// private in-memory sqlite database so the suite runs without infrastructure.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	var (
		gdb *gorm.DB
		err error
	)
	cfg := &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	}
	if dsn := os.Getenv("TEST_POSTGRES_DSN"); dsn != "" {
		gdb, err = gorm.Open(postgres.Open(dsn), cfg)
	} else {
		name := fmt.Sprintf("file:testdb_%s?mode=memory&cache=shared", uuid.NewString())
		gdb, err = gorm.Open(sqlite.Open(name), cfg)
	}
	if err != nil {
		tb.Fatalf("open test db: %v", err)
	}

	if err := gdb.AutoMigrate(db.Migratables()...); err != nil {
		tb.Fatalf("migrate test db: %v", err)
	}

	tb.Cleanup(func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

// Tx runs the test body inside a transaction that is always rolled back, so
// a shared Postgres database stays clean between tests.
func Tx(tb testing.TB, gdb *gorm.DB, fn func(tx *gorm.DB)) {
	tb.Helper()
	tx := gdb.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	defer tx.Rollback()
	fn(tx)
}

// Logger returns a quiet logger for repo construction in tests.
func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	log, err := logger.New("test")
	if err != nil {
		tb.Fatalf("new logger: %v", err)
	}
	return log
}
